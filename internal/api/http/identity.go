package httpapi

import "github.com/gofiber/fiber/v2"

const identityKey = "identity"

// Identity is who the current request acts for.
type Identity struct {
	UserID        int64
	Authenticated bool
}

// identify resolves the session once per request and stores the result in
// the request locals for handlers and views.
func identify(s Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := s.CurrentUser(c)
		if err != nil {
			return err
		}
		c.Locals(identityKey, Identity{UserID: id, Authenticated: ok})
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) Identity {
	id, _ := c.Locals(identityKey).(Identity)
	return id
}
