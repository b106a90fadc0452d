package session

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Provider is a thin handle on the external identity provider. The service
// never implements authentication itself; the only thing it ever does
// directly is a lightweight ping that gives the provider a chance to refresh
// a token after the client was asleep or backgrounded.
type Provider struct {
	client  *http.Client
	pingURL string
}

func NewProvider() *Provider {
	return &Provider{
		client:  &http.Client{Timeout: 5 * time.Second},
		pingURL: os.Getenv("AUTH_PING_URL"),
	}
}

// Ping revalidates the session with the identity provider. A missing
// configuration makes it a no-op; failures are for the caller to ignore.
func (p *Provider) Ping(ctx context.Context) error {
	if p.pingURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pingURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("auth ping returned %s", resp.Status)
	}
	return nil
}
