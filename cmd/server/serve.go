package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pricofy/translation-dispatcher/internal/app"
	"github.com/pricofy/translation-dispatcher/internal/config"
	"github.com/pricofy/translation-dispatcher/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Serve = &cobra.Command{
	Use:     "serve",
	Short:   "serve the translation endpoint over HTTP",
	Example: "translation-dispatcher serve --config config.yaml --listen :8000",
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	Serve.Flags().StringP("config", "c", "", "path to the YAML config file")
	Serve.Flags().StringP("listen", "l", "", "listen address, overrides the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	listen, _ := cmd.Flags().GetString("listen")

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	if err := a.Preload(ctx); err != nil {
		logrus.Warnf("quechua model preload failed, will retry on first request: %v", err)
	}

	srv := server.New(a.Dispatcher)

	go func() {
		<-ctx.Done()
		logrus.Info("shutting down")
		if err := srv.ShutdownWithContext(context.Background()); err != nil {
			logrus.Errorf("shutdown failed: %v", err)
		}
	}()

	logrus.Infof("listening on %s", cfg.Server.Listen)
	return srv.Listen(cfg.Server.Listen)
}
