package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-history/internal/account"
	"github.com/i474232898/weather-history/internal/metrics"
	"github.com/i474232898/weather-history/internal/weather"
)

const (
	msgEmptyCity     = "Please enter a city name"
	msgCityNotFound  = "City not found"
	msgUpstream      = "Weather service is unavailable, please try again later"
	msgLoginRequired = "Please log in to see history"
	msgMissingFields = "Must provide username and password"
	msgUsernameTaken = "Username already taken"
	msgRegistered    = "Registered! Please log in"
	msgInvalidLogin  = "Invalid username or password"
	msgLoggedOut     = "Logged out"
)

type handler struct {
	weather  WeatherLookup
	accounts Accounts
	history  History
	sessions Sessions
	log      zerolog.Logger
}

type credentialsForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *credentialsForm) bind(c *fiber.Ctx) error {
	if err := c.BodyParser(f); err != nil {
		return err
	}
	f.Username = strings.TrimSpace(f.Username)
	return validate.Struct(f)
}

type historyRow struct {
	City      string
	Timestamp time.Time
	// Weather is nil when the stored snapshot cannot be decoded.
	Weather *weather.Record
}

func (h *handler) render(c *fiber.Ctx, view string, data fiber.Map) error {
	return c.Render(view, viewData(c, data))
}

func (h *handler) index(c *fiber.Ctx) error {
	return h.render(c, "index", nil)
}

func (h *handler) lookup(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.FormValue("city"))

	rec, err := h.weather.Lookup(c.UserContext(), city)
	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		metrics.LookupsTotal.WithLabelValues("empty_city").Inc()
		return redirectWith(c, "/", flashError, msgEmptyCity)
	case errors.Is(err, weather.ErrCityNotFound):
		metrics.LookupsTotal.WithLabelValues("not_found").Inc()
		return redirectWith(c, "/", flashError, msgCityNotFound)
	case errors.Is(err, weather.ErrUpstream):
		metrics.LookupsTotal.WithLabelValues("upstream_error").Inc()
		return redirectWith(c, "/", flashError, msgUpstream)
	case err != nil:
		return err
	}
	metrics.LookupsTotal.WithLabelValues("ok").Inc()

	if id := identityFrom(c); id.Authenticated {
		h.recordLookup(c, id.UserID, city, rec)
	}

	return h.render(c, "index", fiber.Map{
		"Weather":   rec,
		"Condition": rec.Condition,
	})
}

// recordLookup appends to the user's history. A failed write is logged and
// counted but never fails the lookup.
func (h *handler) recordLookup(c *fiber.Ctx, userID int64, city string, rec weather.Record) {
	if _, err := h.history.Append(c.UserContext(), userID, city, rec); err != nil {
		metrics.HistoryAppendsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Int64("user_id", userID).Str("city", city).Msg("history append failed")
		return
	}
	metrics.HistoryAppendsTotal.WithLabelValues("ok").Inc()
}

func (h *handler) listHistory(c *fiber.Ctx) error {
	id := identityFrom(c)
	if !id.Authenticated {
		return redirectWith(c, "/", flashError, msgLoginRequired)
	}

	entries, err := h.history.List(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}

	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		row := historyRow{City: e.City, Timestamp: e.Timestamp}
		if rec, err := e.Record(); err == nil {
			row.Weather = &rec
		}
		rows = append(rows, row)
	}
	return h.render(c, "history", fiber.Map{"Entries": rows})
}

func (h *handler) registerForm(c *fiber.Ctx) error {
	return h.render(c, "register", nil)
}

func (h *handler) register(c *fiber.Ctx) error {
	var form credentialsForm
	if err := form.bind(c); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("register", "invalid_input").Inc()
		return redirectWith(c, "/register", flashError, msgMissingFields)
	}

	_, err := h.accounts.Register(c.UserContext(), form.Username, form.Password)
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		metrics.AuthEventsTotal.WithLabelValues("register", "invalid_input").Inc()
		return redirectWith(c, "/register", flashError, msgMissingFields)
	case errors.Is(err, account.ErrDuplicateUsername):
		metrics.AuthEventsTotal.WithLabelValues("register", "duplicate").Inc()
		return redirectWith(c, "/register", flashError, msgUsernameTaken)
	case err != nil:
		metrics.AuthEventsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "ok").Inc()
	return redirectWith(c, "/login", flashInfo, msgRegistered)
}

func (h *handler) loginForm(c *fiber.Ctx) error {
	if err := h.signOut(c); err != nil {
		return err
	}
	return h.render(c, "login", nil)
}

// login always drops the presented session first, so a failed attempt leaves
// the client anonymous.
func (h *handler) login(c *fiber.Ctx) error {
	if err := h.signOut(c); err != nil {
		return err
	}

	var form credentialsForm
	if err := form.bind(c); err != nil {
		metrics.AuthEventsTotal.WithLabelValues("login", "invalid_input").Inc()
		return redirectWith(c, "/login", flashError, msgInvalidLogin)
	}

	user, err := h.accounts.Verify(c.UserContext(), form.Username, form.Password)
	switch {
	case errors.Is(err, account.ErrAuthFailure):
		metrics.AuthEventsTotal.WithLabelValues("login", "auth_failure").Inc()
		return redirectWith(c, "/login", flashError, msgInvalidLogin)
	case err != nil:
		metrics.AuthEventsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	if err := h.sessions.Login(c, user.ID); err != nil {
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("login", "ok").Inc()
	h.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *handler) logout(c *fiber.Ctx) error {
	if err := h.signOut(c); err != nil {
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("logout", "ok").Inc()
	return redirectWith(c, "/", flashInfo, msgLoggedOut)
}

func (h *handler) signOut(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	c.Locals(identityKey, Identity{})
	return nil
}
