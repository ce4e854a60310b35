// Package main is the entry point for the translation dispatcher Lambda function.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pricofy/translation-dispatcher/internal/app"
	"github.com/pricofy/translation-dispatcher/internal/config"
	"github.com/pricofy/translation-dispatcher/internal/function"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	// Load the Quechua model during the cold start. A failure here is
	// retried lazily by the first request that needs the model.
	if err := a.Preload(ctx); err != nil {
		logrus.Warnf("quechua model preload failed: %v", err)
	}

	h := function.New(a.Dispatcher)
	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		return handleRequest(ctx, a, h, event)
	})
}

func handleRequest(ctx context.Context, a *app.App, h *function.Handler, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, a, warmup)
	}

	return h.Handle(ctx, event)
}
