package store

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/the-event-map/event-map-api/config"
	"github.com/the-event-map/event-map-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by point lookups when no row matches.
var ErrNotFound = errors.New("not found")

const queryTimeout = 10 * time.Second

// Mongo is the data service backing the event cache: rectangle-scoped page
// queries over the events collection, point lookups, the per-user favorites
// set and a change-stream notification feed. Row visibility rules (what an
// anonymous vs. an authenticated client may see) are enforced by the
// database, not here.
type Mongo struct {
	events   *mongo.Collection
	profiles *mongo.Collection
}

func NewMongo() *Mongo {
	return &Mongo{
		events:   config.MI.DB.Collection("events"),
		profiles: config.MI.DB.Collection("profiles"),
	}
}

// FetchPage returns one page of raw event rows inside the given rectangle.
// Pages are sorted by id so that sequential pagination sees a stable order.
func (s *Mongo) FetchPage(ctx context.Context, rect models.Rect, page, size int) ([]models.RawEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"$and": []bson.M{
			{"lat": bson.M{"$gte": rect.MinLat}},
			{"lat": bson.M{"$lte": rect.MaxLat}},
			{"lng": bson.M{"$gte": rect.MinLng}},
			{"lng": bson.M{"$lte": rect.MaxLng}},
		},
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "id", Value: 1}})
	findOptions.SetSkip(int64(page) * int64(size))
	findOptions.SetLimit(int64(size))

	cursor, err := s.events.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.RawEvent
	for cursor.Next(ctx) {
		var row models.RawEvent
		if err := cursor.Decode(&row); err != nil {
			log.Warnf("skipping undecodable event row: %v", err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, cursor.Err()
}

func (s *Mongo) GetByID(ctx context.Context, id string) (*models.RawEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row models.RawEvent
	err := s.events.FindOne(ctx, bson.M{"id": id}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// SetCoordinates persists geocoded coordinates for an event so the lookup
// does not have to be repeated on the next fetch.
func (s *Mongo) SetCoordinates(ctx context.Context, id string, lat, lng float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.events.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"lat": lat, "lng": lng},
	})
	return err
}

// InsertSubmission stores a user-submitted event with status pending.
func (s *Mongo) InsertSubmission(ctx context.Context, sub models.EventSubmission) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := bson.M{
		"title":        sub.Title,
		"address":      sub.Address,
		"website":      sub.Website,
		"contact":      sub.Contact,
		"contact_name": sub.ContactName,
		"start_date":   sub.StartDate,
		"end_date":     sub.EndDate,
		"start_time":   sub.StartTime,
		"end_time":     sub.EndTime,
		"type":         sub.Types,
		"format":       sub.Format,
		"age_group":    sub.AgeGroups,
		"description":  sub.Description,
		"status":       "pending",
		"created_at":   time.Now(),
	}
	_, err := s.events.InsertOne(ctx, doc)
	return err
}

// Favorites returns the favorites set of the given user. A missing profile
// is an empty set, not an error.
func (s *Mongo) Favorites(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var profile models.Profile
	err := s.profiles.FindOne(ctx, bson.M{"id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []string{}, nil
		}
		return nil, err
	}
	if profile.Favorites == nil {
		return []string{}, nil
	}
	return profile.Favorites, nil
}

// ToggleFavorite flips membership of eventID in the user's favorites and
// returns the set as persisted, read back after the write so concurrent
// toggles from other clients are reflected.
func (s *Mongo) ToggleFavorite(ctx context.Context, userID, eventID string) ([]string, error) {
	current, err := s.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == eventID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, eventID)
	}

	writeCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	opts := options.Update().SetUpsert(true)
	_, err = s.profiles.UpdateOne(writeCtx, bson.M{"id": userID}, bson.M{
		"$set": bson.M{"id": userID, "favorites": next},
	}, opts)
	if err != nil {
		return nil, err
	}

	return s.Favorites(ctx, userID)
}

// Watch subscribes to the events change stream and signals on every
// insert/update/delete. The payload is irrelevant, a signal only means "the
// table changed, re-fetch the viewport". The channel is closed when the
// stream ends.
func (s *Mongo) Watch(ctx context.Context) (<-chan struct{}, error) {
	stream, err := s.events.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	notifications := make(chan struct{}, 1)
	go func() {
		defer close(notifications)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			select {
			case notifications <- struct{}{}:
			default:
				// a notification is already pending, collapsing is fine
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Errorf("event change stream ended: %v", err)
		}
	}()
	return notifications, nil
}
