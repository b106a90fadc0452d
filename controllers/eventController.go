package controllers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/the-event-map/event-map-api/cache"
	"github.com/the-event-map/event-map-api/filter"
	"github.com/the-event-map/event-map-api/models"
	"github.com/the-event-map/event-map-api/store"
	validator "gopkg.in/go-playground/validator.v9"
)

// EventController serves the filtered view of the event cache and the
// submission flow.
type EventController struct {
	Cache *cache.EventCache
	Store *store.Mongo
}

// GetEvents func gets the cached events matching the filter criteria.
// @Description This endpoint filters the in-memory event cache. The cache holds everything fetched for the viewports seen so far; filtering never hits the database.
// @Summary Get filtered events.
// @Tags events
// @Accept json
// @Produce json
// @Param search query string false "free text search over title, address and descriptions"
// @Param types query string false "comma-separated type tags"
// @Param format query string false "format, one of any/children/adults"
// @Param ages query string false "comma-separated age group tags"
// @Param date_start query string false "range start, YYYY-MM-DD"
// @Param date_end query string false "range end, YYYY-MM-DD"
// @Param max_price query number false "price ceiling"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {array} models.Event
// @Failure 400 {object} string "Bad request"
// @Router /api/events [get]
func (ec *EventController) GetEvents(c *fiber.Ctx) error {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "failed to parse filter criteria",
			"error":   err.Error(),
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch events",
			"error":   "page and limit parameters must be greater than 0",
		})
	}

	filtered := filter.Apply(ec.Cache.Snapshot(), criteria)
	total := len(filtered)

	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	last := math.Ceil(float64(total) / float64(limit))
	if last < 1 && total > 0 {
		last = 1
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":      filtered[from:to],
		"total":     total,
		"page":      page,
		"last_page": last,
		"limit":     limit,
	})
}

// GetEvent func gets one event by id.
// @Description Returns a single event. Events not yet in the cache (e.g. opened from a shared link outside the current viewport) are fetched from the database and merged into the cache.
// @Summary Get one event.
// @Tags events
// @Produce json
// @Param id path string true "event id"
// @Failure 404 {object} string "Event not found"
// @Router /api/events/{id} [get]
func (ec *EventController) GetEvent(c *fiber.Ctx) error {
	id := c.Params("id")

	if ev, ok := ec.Cache.Get(id); ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"data":    ev,
			"success": true,
		})
	}

	raw, err := ec.Store.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("no event with id %s", id),
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch event",
			"error":   err.Error(),
		})
	}

	ev := models.Normalize(*raw)
	ec.Cache.MergeOne(ev)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    ev,
		"success": true,
	})
}

// AddEvent func for submitting a new event.
// @Description Add a new event. Submissions are stored with status pending and become visible once approved.
// @Summary Submit a new event.
// @Tags events
// @Accept json
// @Produce json
// @Param message body models.EventSubmission true "Event Info"
// @Failure 400 {object} string "Failed to parse body"
// @Failure 500 {object} string "Failed to insert event"
// @Router /api/events [post]
func (ec *EventController) AddEvent(c *fiber.Ctx) error {
	submission := new(models.EventSubmission)
	if err := c.BodyParser(submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to parse body",
			"error":   fmt.Sprint(err),
		})
	}

	if err := ec.Store.InsertSubmission(c.Context(), *submission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to insert event",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Event submitted for review",
	})
}

func criteriaFromQuery(c *fiber.Ctx) (filter.Criteria, error) {
	criteria := filter.Criteria{
		Search:    c.Query("search"),
		Types:     splitParam(c.Query("types")),
		Format:    c.Query("format"),
		AgeGroups: splitParam(c.Query("ages")),
	}

	start, end := c.Query("date_start"), c.Query("date_end")
	if start != "" || end != "" {
		for _, d := range []string{start, end} {
			if d != "" && !validDate(d) {
				return criteria, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
			}
		}
		criteria.DateRange = &filter.DateRange{Start: start, End: end}
	}

	if p := c.Query("max_price"); p != "" {
		ceiling, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid max_price %q", p)
		}
		criteria.MaxPrice = &ceiling
	}
	return criteria, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validDate(d string) bool {
	if len(d) != 10 || d[4] != '-' || d[7] != '-' {
		return false
	}
	for i, r := range d {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
