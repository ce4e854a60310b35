// Package app wires the dispatcher and its collaborators from a Config.
// It is shared by the web server and the cloud function entry points.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pricofy/translation-dispatcher/internal/config"
	"github.com/pricofy/translation-dispatcher/internal/detector"
	"github.com/pricofy/translation-dispatcher/internal/handler"
	"github.com/pricofy/translation-dispatcher/internal/inference"
	"github.com/pricofy/translation-dispatcher/internal/logging"
	"github.com/pricofy/translation-dispatcher/internal/quechua"
	"github.com/pricofy/translation-dispatcher/internal/router"
	"github.com/sirupsen/logrus"
)

// App holds the process-wide, read-only collaborators.
type App struct {
	Config     *config.Config
	Dispatcher *handler.Dispatcher
	Quechua    *quechua.Shared
}

// New builds an App from cfg, reaching the model registry through a
// client built from the config.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logrus.Errorf("error parsing log level '%s': %v", cfg.LogLevel, err)
	}

	inv, err := cfg.NewInvoker(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create model registry client: %w", err)
	}
	return NewWithInvoker(cfg, inv)
}

// NewWithInvoker builds an App on top of an existing Invoker.
func NewWithInvoker(cfg *config.Config, inv inference.Invoker) (*App, error) {
	shared := quechua.NewShared(inv, router.ModelQuechua,
		time.Duration(cfg.Inference.TimeoutSec)*time.Second)

	opts := handler.Options{
		Quechua: shared,
		Resolve: handler.InvokerResolver(inv),
	}
	if cfg.Detector.Enabled {
		det, err := detector.New(router.SourceLanguages(), cfg.Detector.ConfidenceThreshold)
		if err != nil {
			return nil, fmt.Errorf("failed to create language detector: %w", err)
		}
		opts.Detector = det
	}

	d, err := handler.New(opts)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"backend":     cfg.Inference.Backend,
		"detection":   cfg.Detector.Enabled,
	}).Infof("translation dispatcher ready, %d routes", len(router.SupportedRoutes()))

	return &App{
		Config:     cfg,
		Dispatcher: d,
		Quechua:    shared,
	}, nil
}

// Preload loads the Quechua model so the first request does not pay for it.
func (a *App) Preload(ctx context.Context) error {
	_, err := a.Quechua.Get(ctx)
	return err
}
