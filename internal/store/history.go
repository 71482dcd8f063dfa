package store

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/weather-history/internal/history"
)

// HistoryRepository implements history.Store.
type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, userID int64, city, snapshot string, at time.Time) (*history.Entry, error) {
	query := r.db.rebind(
		`INSERT INTO history (user_id, city, weather_json, timestamp) VALUES (?, ?, ?, ?) RETURNING id`)

	at = at.UTC()
	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, city, snapshot, at).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		}
		return nil, unavailable("insert history", err)
	}

	return &history.Entry{
		ID:        id,
		UserID:    userID,
		City:      city,
		Snapshot:  snapshot,
		Timestamp: at,
	}, nil
}

// ListByUser returns the user's entries newest first; rows sharing a
// timestamp come back in reverse insertion order.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID int64) ([]history.Entry, error) {
	query := r.db.rebind(`SELECT id, user_id, city, weather_json, timestamp FROM history
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, unavailable("list history", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.City, &e.Snapshot, &e.Timestamp); err != nil {
			return nil, unavailable("scan history", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list history", err)
	}
	return entries, nil
}
