package filter

import (
	"strings"

	"github.com/the-event-map/event-map-api/models"
)

// DateRange holds calendar dates as YYYY-MM-DD strings. Comparing the
// strings directly avoids the time-zone off-by-one a round trip through
// time.Time would introduce.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Criteria is the full set of filter inputs. Zero values mean "no
// restriction" for every field.
type Criteria struct {
	Search    string     `json:"search"`
	Types     []string   `json:"types"`
	Format    string     `json:"format"`
	AgeGroups []string   `json:"age_groups"`
	DateRange *DateRange `json:"date_range"`
	MaxPrice  *float64   `json:"max_price"`
}

// Apply returns the subset of events matching all criteria, preserving
// order. It is a pure function: no inputs are mutated and equal inputs yield
// equal outputs, so results can be memoized on (events, criteria).
func Apply(events []models.Event, c Criteria) []models.Event {
	query := strings.ToLower(strings.TrimSpace(c.Search))
	result := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if matchesDate(ev, c.DateRange) &&
			matchesTags(ev.Types, c.Types) &&
			matchesFormat(ev.Format, c.Format) &&
			matchesTags(ev.AgeGroups, c.AgeGroups) &&
			matchesSearch(ev, query) &&
			matchesPrice(ev.Price, c.MaxPrice) {
			result = append(result, ev)
		}
	}
	return result
}

// matchesDate tests whether [start_date, end_date] intersects the selected
// range. A missing end_date counts as equal to start_date. Events without
// any start date are excluded as soon as a range is selected.
func matchesDate(ev models.Event, r *DateRange) bool {
	if r == nil {
		return true
	}
	start := ev.StartDate
	if start == "" {
		return false
	}
	end := ev.EndDate
	if end == "" {
		end = start
	}
	if r.Start != "" && end < r.Start {
		return false
	}
	if r.End != "" && start > r.End {
		return false
	}
	return true
}

func matchesTags(eventTags, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range eventTags {
		for _, want := range selected {
			if tag == want {
				return true
			}
		}
	}
	return false
}

func matchesFormat(format, selected string) bool {
	return selected == "" || format == selected
}

func matchesSearch(ev models.Event, query string) bool {
	if query == "" {
		return true
	}
	fields := []string{
		ev.Title,
		ev.Address,
		ev.Description,
		ev.DescriptionEN,
		ev.DescriptionDE,
		ev.DescriptionFR,
		ev.DescriptionIT,
		ev.DescriptionRU,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func matchesPrice(price, ceiling *float64) bool {
	if ceiling == nil {
		return true
	}
	if price == nil {
		// events without a price are treated as free
		return true
	}
	return *price <= *ceiling
}
