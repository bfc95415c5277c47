// Command syncctl inspects and drives a running syncd through its HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

func main() {
	log := logger.NewLogger("syncctl")
	cfg, err := config.GetCtlConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	client, err := adapter.NewHTTPStatusClient(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating status client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, client, cfg.Args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "syncctl:", err)
		stop()
		os.Exit(1)
	}
}
