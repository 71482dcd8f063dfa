package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history/internal/testutil"
)

func newTestApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Get("/login/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.ErrBadRequest
		}
		if err := m.Login(c, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		if err := m.Logout(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, ok, err := m.CurrentUser(c)
		if err != nil {
			return err
		}
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(strconv.FormatInt(id, 10))
	})
	return app
}

func do(t *testing.T, app *fiber.App, jar *testutil.Jar, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	jar.Apply(req)
	resp, err := app.Test(req)
	require.NoError(t, err)
	jar.Update(resp)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestManager_AnonymousByDefault(t *testing.T) {
	app := newTestApp(NewManager(Config{}))
	jar := testutil.NewJar()

	_, body := do(t, app, jar, "/whoami")
	assert.Equal(t, "anonymous", body)
	assert.Empty(t, jar.Get(CookieName), "reading the current user must not start a session")
}

func TestManager_LoginLogout(t *testing.T) {
	app := newTestApp(NewManager(Config{Expiration: time.Hour}))
	jar := testutil.NewJar()

	resp, _ := do(t, app, jar, "/login/42")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.NotEmpty(t, jar.Get(CookieName))

	_, body := do(t, app, jar, "/whoami")
	assert.Equal(t, "42", body)

	do(t, app, jar, "/logout")
	_, body = do(t, app, jar, "/whoami")
	assert.Equal(t, "anonymous", body)

	// Logging out twice is harmless.
	resp, _ = do(t, app, jar, "/logout")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestManager_LoginIssuesFreshID(t *testing.T) {
	app := newTestApp(NewManager(Config{}))
	jar := testutil.NewJar()

	jar.Set(CookieName, "attacker-chosen")
	do(t, app, jar, "/login/1")
	first := jar.Get(CookieName)
	require.NotEmpty(t, first)
	assert.NotEqual(t, "attacker-chosen", first)

	do(t, app, jar, "/login/2")
	second := jar.Get(CookieName)
	assert.NotEqual(t, first, second)

	_, body := do(t, app, jar, "/whoami")
	assert.Equal(t, "2", body)
}

func TestManager_OldCookieIsUselessAfterRelogin(t *testing.T) {
	app := newTestApp(NewManager(Config{}))
	jar := testutil.NewJar()

	do(t, app, jar, "/login/7")
	stale := jar.Get(CookieName)
	do(t, app, jar, "/login/8")

	other := testutil.NewJar()
	other.Set(CookieName, stale)
	_, body := do(t, app, other, "/whoami")
	assert.Equal(t, "anonymous", body)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	app := newTestApp(NewManager(Config{}))
	alice, bob := testutil.NewJar(), testutil.NewJar()

	do(t, app, alice, "/login/1")
	do(t, app, bob, "/login/2")

	_, body := do(t, app, alice, "/whoami")
	assert.Equal(t, "1", body)
	_, body = do(t, app, bob, "/whoami")
	assert.Equal(t, "2", body)
}
