package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dnldd/trend/database"
	"github.com/dnldd/trend/service"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	params, err := cfg.Params()
	if err != nil {
		log.Printf("loading params: %v", err)
		os.Exit(1)
	}

	// Validated by loadConfig.
	variants, _ := cfg.Variants()
	field, _ := cfg.Field()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleTermination(ctx, cancel)

	runnerCfg := service.RunnerConfig{
		DataFilepaths: cfg.DataFilepaths,
		OutputDir:     cfg.OutputDir,
		Variants:      variants,
		Params:        params,
		Field:         field,
		Workers:       cfg.Workers,
	}

	if cfg.DBEndpoint != "" {
		dbLogger := zlog.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DBEndpoint,
			User:     cfg.DBUser,
			Pass:     cfg.DBPass,
			Logger:   &dbLogger,
		})
		if err != nil {
			log.Printf("creating database: %v", err)
			os.Exit(1)
		}

		runnerCfg.Store = db
	}

	runner, err := service.NewRunner(&runnerCfg)
	if err != nil {
		log.Printf("creating runner: %v", err)
		os.Exit(1)
	}

	_, err = runner.Run(ctx)
	if err != nil {
		log.Printf("running analyses: %v", err)
		os.Exit(1)
	}
}
