// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/mplm/rundash/pkg/config"
	"github.com/mplm/rundash/pkg/contract"
)

func errorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *contract.Error
		if !errors.As(err, &e) {
			code := contract.ErrorCodeInternal

			var f *fiber.Error
			if errors.As(err, &f) {
				switch f.Code {
				case fiber.StatusBadRequest:
					code = contract.ErrorCodeBadRequest
				case fiber.StatusServiceUnavailable:
					code = contract.ErrorCodeServiceUnavailable
				case fiber.StatusNotFound:
					code = contract.ErrorCodeEndpointNotFound
				}
			}

			e = contract.NewError(code, err.Error())
		}

		var fn func(format string, args ...any)

		switch e.StatusCode() {
		case fiber.StatusBadRequest:
			fn = log.Infof
		case fiber.StatusServiceUnavailable:
			fn = log.Warnf
		case fiber.StatusNotFound:
			fn = log.Debugf
		default:
			fn = log.Errorf
		}

		fn("Error encountered in %s %s: %s", c.Method(), c.Path(), err)

		return c.Status(e.StatusCode()).JSON(e)
	}
}

func newAPIApp(log *logrus.Logger, service contract.DashboardService) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	RegisterDashboardServiceRoutes(service, parser, app)

	return app, nil
}

// NewApp assembles the HTTP application: the JSON API under /api, health and
// version probes, and the optional static front-end.
func NewApp(log *logrus.Logger, cfg *config.Config, service contract.DashboardService) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "rundash/" + cfg.Version,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path}\n",
		Output: log.Writer(),
	}))

	apiApp, err := newAPIApp(log, service)
	if err != nil {
		return nil, err
	}

	app.Mount("/api", apiApp)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	if cfg.StaticFolder != "" {
		app.Static("/static", cfg.StaticFolder)
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendFile(filepath.Join(cfg.StaticFolder, "index.html"))
		})
	}

	return app, nil
}

// Launch serves until ctx is cancelled, then shuts down within the configured timeout.
func Launch(ctx context.Context, log *logrus.Logger, cfg *config.Config, service contract.DashboardService) error {
	app, err := NewApp(log, cfg, service)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout.Duration); err != nil {
			log.Errorf("Failed to gracefully shutdown rundash server: %v", err)
		}
	}()

	log.Infof("Serving run dashboard on http://%s", cfg.Address)

	if err := app.Listen(cfg.Address); err != nil {
		return fmt.Errorf("failed to start rundash server: %w", err)
	}

	return nil
}
