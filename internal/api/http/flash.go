package httpapi

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

const (
	flashInfo  = "info"
	flashError = "error"
)

// Flash is a one-time notice carried across a redirect.
type Flash struct {
	Category string
	Message  string
}

func setFlash(c *fiber.Ctx, category, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending notice, if any, and tells the client to drop it.
func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.ClearCookie(flashCookie)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return nil
	}
	if category != flashError {
		category = flashInfo
	}
	return &Flash{Category: category, Message: message}
}

// redirectWith stores a notice and sends the client to location.
func redirectWith(c *fiber.Ctx, location, category, message string) error {
	setFlash(c, category, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}
