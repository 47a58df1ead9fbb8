package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/models"
)

// ErrStaleWrite is returned by Save when the payload's version is not newer
// than what the store already holds. A second tab or device has written in
// the meantime; the caller's in-memory list stays authoritative for its own
// session but the remote mirror is not silently overwritten.
var ErrStaleWrite = errors.New("stale calendar write rejected")

// StoredEvents is the persisted envelope for a user's calendar. Version is a
// logical clock incremented on every mutation so concurrent writers can be
// detected instead of last-write-wins clobbering.
type StoredEvents struct {
	Version int64                  `json:"version"`
	Events  []models.CalendarEvent `json:"calendar_events"`
}

// EventStore mirrors a user's event list in a remote key-value store.
type EventStore interface {
	// Load returns the persisted envelope, or a zero-version empty envelope
	// when nothing has been saved yet.
	Load(ctx context.Context, userID string) (StoredEvents, error)
	// Save persists the envelope. Returns ErrStaleWrite when the stored
	// version is already >= payload.Version.
	Save(ctx context.Context, userID string, payload StoredEvents) error
}

// RedisEventStore keeps each user's calendar under a single Redis key.
type RedisEventStore struct {
	client *redis.Client
}

func NewRedisEventStore(client *redis.Client) *RedisEventStore {
	return &RedisEventStore{client: client}
}

func (s *RedisEventStore) key(userID string) string {
	return fmt.Sprintf("calendar:events:%s", userID)
}

func (s *RedisEventStore) Load(ctx context.Context, userID string) (StoredEvents, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return StoredEvents{Events: []models.CalendarEvent{}}, nil
	}
	if err != nil {
		return StoredEvents{}, fmt.Errorf("failed to load calendar events: %w", err)
	}

	var payload StoredEvents
	if err := json.Unmarshal(data, &payload); err != nil {
		return StoredEvents{}, fmt.Errorf("failed to unmarshal calendar events: %w", err)
	}
	if payload.Events == nil {
		payload.Events = []models.CalendarEvent{}
	}
	return payload, nil
}

func (s *RedisEventStore) Save(ctx context.Context, userID string, payload StoredEvents) error {
	key := s.key(userID)

	// Check-and-set under WATCH so a concurrent writer bumps the version
	// between our read and write and the transaction retries or fails.
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read current version: %w", err)
		}
		if err == nil {
			var current StoredEvents
			if jsonErr := json.Unmarshal(data, &current); jsonErr == nil && current.Version >= payload.Version {
				return ErrStaleWrite
			}
		}

		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal calendar events: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	if err := s.client.Watch(ctx, txn, key); err != nil {
		if errors.Is(err, ErrStaleWrite) {
			return err
		}
		return fmt.Errorf("failed to save calendar events: %w", err)
	}
	return nil
}
