package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-history/internal/account"
	"github.com/i474232898/weather-history/internal/history"
	"github.com/i474232898/weather-history/internal/weather"
)

const serviceName = "weather-history"

var validate = validator.New()

type WeatherLookup interface {
	Lookup(ctx context.Context, city string) (weather.Record, error)
}

type Accounts interface {
	Register(ctx context.Context, username, password string) (*account.User, error)
	Verify(ctx context.Context, username, password string) (*account.User, error)
}

type History interface {
	Append(ctx context.Context, userID int64, city string, rec weather.Record) (*history.Entry, error)
	List(ctx context.Context, userID int64) ([]history.Entry, error)
}

// Sessions binds a request to at most one authenticated user.
type Sessions interface {
	Login(c *fiber.Ctx, userID int64) error
	Logout(c *fiber.Ctx) error
	CurrentUser(c *fiber.Ctx) (int64, bool, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Dependencies struct {
	Weather  WeatherLookup
	Accounts Accounts
	History  History
	Sessions Sessions
	// DB backs the readiness probe. Nil means always ready.
	DB  Pinger
	Log zerolog.Logger
}

// NewApp builds the fiber app with views, middleware and every route.
func NewApp(deps Dependencies) (*fiber.App, error) {
	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		Views:                 views,
		ViewsLayout:           "layouts/main",
		ErrorHandler:          NewErrorHandler(deps.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Output: deps.Log,
		Format: "${status} ${method} ${path} ${latency} request_id=${locals:requestid}\n",
	}))

	RegisterRoutes(app, deps)
	return app, nil
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	h := &handler{
		weather:  deps.Weather,
		accounts: deps.Accounts,
		history:  deps.History,
		sessions: deps.Sessions,
		log:      deps.Log.With().Str("component", "http").Logger(),
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})
	app.Get("/health/ready", readiness(deps.DB))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	web := app.Group("", identify(deps.Sessions))
	web.Get("/", h.index)
	web.Post("/", h.lookup)
	web.Get("/history", h.listHistory)
	web.Get("/register", h.registerForm)
	web.Post("/register", h.register)
	web.Get("/login", h.loginForm)
	web.Post("/login", h.login)
	web.Get("/logout", h.logout)
}

func readiness(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ready"})
	}
}
