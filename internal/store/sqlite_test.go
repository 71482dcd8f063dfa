package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/internal/account"
	"github.com/i474232898/weather-history/internal/testutil"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, testutil.MemoryDSN(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	db := openTestDB(t)

	var tables int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'history')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	// Same shared-cache database, migrations already recorded.
	again, err := Open(context.Background(), DriverSQLite, testutil.MemoryDSN(t), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x", zerolog.Nop())
	assert.Error(t, err)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "hash-2")
	assert.ErrorIs(t, err, account.ErrDuplicateUsername)
	assert.NotErrorIs(t, err, ErrUnavailable)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM users WHERE username = 'alice'`).Scan(&n))
	assert.Equal(t, 1, n)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.PasswordHash, "duplicate insert must not overwrite")
}

func TestUserRepository_ClosedDBIsUnavailable(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.Create(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = repo.FindByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHistoryRepository_InsertAndListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "h")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "h")
	require.NoError(t, err)

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	for i, city := range []string{"Paris", "Oslo", "Lima"} {
		_, err := repo.Insert(ctx, alice.ID, city, `{"city":"`+city+`"}`, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	_, err = repo.Insert(ctx, bob.ID, "Rome", `{}`, base.Add(time.Hour))
	require.NoError(t, err)

	entries, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	cities := []string{entries[0].City, entries[1].City, entries[2].City}
	assert.Equal(t, []string{"Lima", "Oslo", "Paris"}, cities)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Timestamp.After(entries[i].Timestamp))
	}
	assert.True(t, entries[0].Timestamp.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, alice.ID, entries[0].UserID)
	assert.Equal(t, `{"city":"Lima"}`, entries[0].Snapshot)
}

func TestHistoryRepository_SubSecondOrdering(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	u, err := users.Create(ctx, "alice", "h")
	require.NoError(t, err)

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 5 * time.Millisecond, 120 * time.Millisecond, 500 * time.Millisecond, time.Second}
	for i, off := range offsets {
		_, err := repo.Insert(ctx, u.ID, string(rune('A'+i)), `{}`, base.Add(off))
		require.NoError(t, err)
	}

	entries, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	got := ""
	for _, e := range entries {
		got += e.City
	}
	assert.Equal(t, "EDCBA", got)
}

func TestHistoryRepository_EmptyAndUnknownUser(t *testing.T) {
	repo := NewHistoryRepository(openTestDB(t))
	ctx := context.Background()

	entries, err := repo.ListByUser(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = repo.Insert(ctx, 42, "Paris", `{}`, time.Now())
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "weather.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN(""))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "a.db?_fk=1&_busy_timeout=5000", sqliteDSN("a.db?_fk=1"))
	assert.Equal(t, "a.db?_foreign_keys=off&_timeout=10", sqliteDSN("a.db?_foreign_keys=off&_timeout=10"))
}
