package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

func main() {
	var (
		category   = flag.Int("category", 1, "Local category id to import into")
		amount     = flag.Int("amount", 10, "Number of questions to request (1-50)")
		difficulty = flag.String("difficulty", "", "Restrict to easy, medium or hard")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("failed to open store")
	}
	defer store.Close()

	client := importer.NewOpenTDBClient(cfg.Importer.OpenTDBURL, cfg.Importer.Timeout)
	res, err := importer.New(client, store, nil, logger).Import(ctx, *category, *amount, *difficulty)
	if err != nil {
		logger.Error().Err(err).Int("category", *category).Msg("import failed")
		store.Close()
		os.Exit(1)
	}
	logger.Info().Ints("inserted_ids", res.Inserted).Msg("questions imported")
}
