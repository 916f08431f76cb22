package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mertkc/kickoff/internal/application/config"
	"github.com/mertkc/kickoff/internal/infra/ports/http/handlers"
	"github.com/mertkc/kickoff/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	e.Use(middleware.PrometheusMiddleware())

	// Liveness probe for the hosting platform's keep-alive pings.
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/ws", wsHandler.Handle)

	e.Static("/", cfg.StaticDir)

	return e
}
