// Command migrate applies the embedded schema to the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/config"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/logging"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
)

func main() {
	printOnly := flag.Bool("print", false, "print the schema instead of applying it")
	timeout := flag.Duration("timeout", 30*time.Second, "migration timeout")
	flag.Parse()

	if *printOnly {
		fmt.Print(repository.Schema())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, repository.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Schema applied", "driver", cfg.DBDriver)
}
