package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is where the authenticated user id ends up in the request
// locals. Empty/absent means anonymous.
const UserIDKey = "user_id"

// Auth parses an optional bearer token issued by the identity provider and
// stores the user id in the request locals. Requests without a token pass
// through as anonymous; only a present-but-invalid token is rejected.
func Auth() fiber.Handler {
	secret := os.Getenv("JWT_SECRET")

	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			return c.Next()
		}
		if secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "JWT_SECRET not configured")
		}

		tokenStr := strings.TrimSpace(header[7:])
		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(tokenStr, &claims,
			func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, fiber.ErrUnauthorized
				}
				return []byte(secret), nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid || claims.Subject == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDKey, claims.Subject)
		return c.Next()
	}
}

// UserID extracts the authenticated user id from the request, empty for
// anonymous requests.
func UserID(c *fiber.Ctx) string {
	if uid, ok := c.Locals(UserIDKey).(string); ok {
		return uid
	}
	return ""
}
