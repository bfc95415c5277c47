// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/handler"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/server"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("syncd")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.Log.File != "" {
		log = logger.NewFileLogger("syncd", cfg.Log.File)
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	vault, err := service.Open(ctx, cfg, log,
		service.WithDialer(adapter.NewWSDialer(cfg.Peer.DialTimeout, log)),
		service.WithBuildInfo(models.BuildInfo{Version: buildVersion, Date: buildDate, Commit: buildCommit}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening vault")
	}

	handlers, err := handler.NewHandlers(vault, cfg.Server, log)
	if err != nil {
		closeVault(vault, log)
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		closeVault(vault, log)
		log.Fatal().Err(err).Msg("error creating server")
	}

	vault.Start(ctx)

	srv.RunServer()

	closeVault(vault, log)
}

func closeVault(vault *service.Vault, log *logger.Logger) {
	if err := vault.Close(context.Background()); err != nil {
		log.Err(err).Msg("error closing vault")
		return
	}
	log.Info().Msg("vault closed")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
