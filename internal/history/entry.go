package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

// Entry is one past weather lookup by a user.
type Entry struct {
	ID        int64
	UserID    int64
	City      string
	Snapshot  string // opaque serialized weather.Record
	Timestamp time.Time
}

// Record decodes the snapshot. Entries written by older versions may not decode.
func (e Entry) Record() (weather.Record, error) {
	var rec weather.Record
	err := json.Unmarshal([]byte(e.Snapshot), &rec)
	return rec, err
}

// Store persists history entries. ListByUser returns newest first.
type Store interface {
	Insert(ctx context.Context, userID int64, city, snapshot string, at time.Time) (*Entry, error)
	ListByUser(ctx context.Context, userID int64) ([]Entry, error)
}
