// Package session maps a browser's session cookie to the authenticated user.
//
// A client is either anonymous or authenticated as exactly one user id. State
// lives in fiber's server-side session storage (memory by default), so a
// restart signs everybody out.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	CookieName = "session_id"
	userIDKey  = "user_id"
)

type Config struct {
	Expiration   time.Duration
	CookieSecure bool
	// Storage overrides the in-memory backing store.
	Storage fiber.Storage
}

// Manager implements login, logout and current-user lookup on top of a
// fiber session store.
type Manager struct {
	store *session.Store
}

func NewManager(cfg Config) *Manager {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	return &Manager{
		store: session.New(session.Config{
			Expiration:     cfg.Expiration,
			Storage:        cfg.Storage,
			KeyLookup:      "cookie:" + CookieName,
			CookieHTTPOnly: true,
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			KeyGenerator:   uuid.NewString,
		}),
	}
}

// Login discards whatever session the client presented, including its id,
// and starts a new one bound to userID.
func (m *Manager) Login(c *fiber.Ctx, userID int64) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	sess.Set(userIDKey, userID)
	return sess.Save()
}

// Logout makes the client anonymous. Calling it on an anonymous client is a no-op.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// CurrentUser reports the authenticated user id, if any. It never writes
// session state.
func (m *Manager) CurrentUser(c *fiber.Ctx) (int64, bool, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false, err
	}
	id, ok := sess.Get(userIDKey).(int64)
	return id, ok, nil
}
