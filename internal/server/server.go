// Package server exposes the dispatcher as a standalone fiber web server.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/pricofy/translation-dispatcher/internal/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// TranslatePath is the translation endpoint of both hosting variants.
const TranslatePath = "/traducir"

// New builds the fiber app serving d.
func New(d *handler.Dispatcher) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	logger := logrus.WithField("component", "server")
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		}).Info("request served")
		return err
	})

	app.Post(TranslatePath, func(c *fiber.Ctx) error {
		reply := d.HandleJSON(c.UserContext(), c.Body())
		return c.Status(reply.Status).JSON(reply.Result)
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
