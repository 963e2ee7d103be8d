// Package main provides the testflow dashboard gateway server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/eventbus"
	"github.com/poib/testflow/pkg/persistence"
	"github.com/poib/testflow/pkg/store"
	"github.com/poib/testflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	store       *store.Store
	client      *client.Client
	persistence persistence.Persistence
	events      *web.EventStream
	validate    *validator.Validate
}

// NewAPI assembles the dashboard server. The bus must be the same instance
// the store publishes on; NewAPI registers the SSE fan-out handlers on it,
// the caller starts consumption with Subscribe.
func NewAPI(
	logger *slog.Logger,
	s *store.Store,
	c *client.Client,
	p persistence.Persistence,
	bus eventbus.EventBus,
) (*API, error) {
	stream, err := web.NewEventStream(bus)
	if err != nil {
		return nil, err
	}

	return &API{
		logger:      logger,
		store:       s,
		client:      c,
		persistence: p,
		events:      stream,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.store, a.persistence, a.client, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Testflow Dashboard")
	})

	app.Get("/state", handlers.GetState)
	app.Get("/canvas.svg", handlers.RenderCanvas)
	app.Get("/events", a.events.Stream)

	app.Post("/artifacts/import", handlers.ImportArtifacts)
	app.Post("/artifacts/preview", handlers.PreviewArtifact)
	app.Post("/mapping/run", handlers.RunMapping)
	app.Post("/data/generate", handlers.GenerateTestData)
	app.Post("/runs", handlers.StartRun)

	s := app.Group("/scenarios")
	s.Post("/:id/steps", handlers.AddScenarioStep)
	s.Post("/:id/connect", handlers.ConnectScenarioSteps)

	app.Patch("/nodes/:id/position", handlers.UpdateNodePosition)

	o := app.Group("/overrides")
	o.Put("/global", handlers.SetGlobalOverride)
	o.Put("/common", handlers.SetCommonOverride)

	app.Get("/executions/:id/logs", handlers.StreamExecutionLogs)

	f := app.Group("/favorites")
	f.Get("/", handlers.ListFavorites)
	f.Put("/:id", handlers.SaveFavorite)
	f.Delete("/:id", handlers.DeleteFavorite)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
