// Package recurringworker materializes due recurring transactions on a
// fixed interval.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pocket-ledger/internal/accountrepo"
	"github.com/go-petr/pocket-ledger/internal/accountservice"
	"github.com/go-petr/pocket-ledger/internal/middleware"
	"github.com/go-petr/pocket-ledger/internal/transactionrepo"
	"github.com/go-petr/pocket-ledger/internal/transactionservice"
	"github.com/go-petr/pocket-ledger/migrations"
	"github.com/go-petr/pocket-ledger/pkg/configpkg"
	"github.com/go-petr/pocket-ledger/pkg/dbpkg"

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

	accountService := accountservice.New(accountrepo.NewRepoPGS(db))
	transactionService := transactionservice.New(transactionrepo.NewRepoPGS(db), accountService)

	interval := config.RecurringInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = logger.WithContext(ctx)

	logger.Info().Dur("interval", interval).Msg("RECURRING WORKER HAS STARTED")

	process := func(now time.Time) {
		processed, err := transactionService.ProcessDue(ctx, now)
		if err != nil {
			logger.Error().Err(err).Msg("processing due transactions failed")
			return
		}

		logger.Info().Int("processed", processed).Msg("processed due transactions")
	}

	process(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				process(now)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("shutting down recurring worker")

	cancel()
}
