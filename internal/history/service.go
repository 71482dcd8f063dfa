package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

// Service records and lists weather lookups per user.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Append stores one entry for userID with rec serialized as the snapshot.
func (s *Service) Append(ctx context.Context, userID int64, city string, rec weather.Record) (*Entry, error) {
	snapshot, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return s.store.Insert(ctx, userID, city, string(snapshot), s.now())
}

// List returns all entries for userID, newest first. No entries is an empty
// slice, not an error.
func (s *Service) List(ctx context.Context, userID int64) ([]Entry, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
