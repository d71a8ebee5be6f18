// Package ledgerapi provides the API to manage users, accounts, transactions
// and budgets.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pocket-ledger/cmd/httpserver"
	"github.com/go-petr/pocket-ledger/internal/middleware"
	"github.com/go-petr/pocket-ledger/migrations"
	"github.com/go-petr/pocket-ledger/pkg/configpkg"
	"github.com/go-petr/pocket-ledger/pkg/dbpkg"
	"github.com/go-petr/pocket-ledger/pkg/geminipkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	if err := dbpkg.Migrate(db, migrations.FS); err != nil {
		logger.Fatal().Err(err).Msg("cannot apply migrations")
	}

	analyzer, err := geminipkg.New(context.Background(), config.GeminiAPIKey, config.GeminiModelName)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create gemini client")
	}
	defer analyzer.Close()

	server, err := httpserver.New(db, logger, config, analyzer)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
