package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize converts a raw database row into an Event. A malformed row never
// produces an error, it only degrades: bad coordinates leave the event
// unpositioned, a bad type field leaves the tag set empty. All other fields
// are passed through unchanged.
func Normalize(raw RawEvent) Event {
	ev := Event{
		ID:          stringifyID(raw.ID),
		Title:       raw.Title,
		Address:     raw.Address,
		Website:     raw.Website,
		Contact:     raw.Contact,
		ContactName: raw.ContactName,
		StartDate:   raw.StartDate,
		EndDate:     raw.EndDate,
		StartTime:   raw.StartTime,
		EndTime:     raw.EndTime,
		Types:       normalizeTags(raw.Type),
		Format:      strings.TrimSpace(raw.Format),
		AgeGroups:   splitTags(raw.AgeGroup),
		Price:       parseFloat(raw.Price),
		Status:      raw.Status,

		Description:   firstNonEmpty(raw.Description, raw.EventDescription),
		DescriptionEN: firstNonEmpty(raw.EventDescriptionEN, raw.DescriptionEN),
		DescriptionDE: firstNonEmpty(raw.EventDescriptionDE, raw.DescriptionDE),
		DescriptionFR: firstNonEmpty(raw.EventDescriptionFR, raw.DescriptionFR),
		DescriptionIT: firstNonEmpty(raw.EventDescriptionIT, raw.DescriptionIT),
		DescriptionRU: firstNonEmpty(raw.EventDescriptionRU, raw.DescriptionRU),
	}

	// both coordinates must parse to something finite, otherwise the event
	// stays unpositioned until the geocoder resolves the address
	lat := parseFloat(raw.Lat)
	lng := parseFloat(raw.Lng)
	if lat != nil && lng != nil {
		ev.Lat = lat
		ev.Lng = lng
	}
	return ev
}

func stringifyID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseFloat(v interface{}) *float64 {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case float32:
		f = float64(c)
	case int:
		f = float64(c)
	case int32:
		f = float64(c)
	case int64:
		f = float64(c)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// normalizeTags lower-cases and trims a tag array. Anything that is not an
// array yields an empty set.
func normalizeTags(v interface{}) []string {
	var tags []string
	for _, raw := range anySlice(v) {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// splitTags accepts either an array of tags or a single comma-delimited
// string, which is how age groups arrive from older rows.
func splitTags(v interface{}) []string {
	if s, ok := v.(string); ok {
		var tags []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
		return tags
	}
	var tags []string
	for _, raw := range anySlice(v) {
		if s, ok := raw.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
	}
	return tags
}

// anySlice unwraps the slice shapes the bson and json decoders produce.
func anySlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		out := make([]interface{}, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	default:
		return nil
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
