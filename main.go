package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hako/durafmt"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jd-116/fooddb/env"
)

const defaultTimeout = 10 * time.Second

// Loads the store, runs the menu on stdin and saves on exit.
// This function blocks.
func main() {
	envPath := flag.String("env", "", "path to .env file")
	logFormat := flag.String("log-format", "console", "log format (one of 'json', 'console')")
	importCSV := flag.String("import-csv", "", "path to a MyFoodData spreadsheet to add to the store")
	importYAML := flag.String("import-yaml", "", "path to a YAML food list to add to the store")
	flag.Parse()

	// Set up structured logging; stdout belongs to the menu
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var logger zerolog.Logger
	switch *logFormat {
	case "console":
		output := zerolog.ConsoleWriter{Out: os.Stderr}
		logger = zerolog.New(output).With().Timestamp().Logger()
	case "json":
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		log.Fatal().Str("log_format", *logFormat).Msg("unknown log format given")
	}
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)

	// Load the .env file if it is specified
	if envPath != nil && *envPath != "" {
		err := godotenv.Load(*envPath)
		if err != nil {
			logger.Fatal().Err(err).Str("env_path", *envPath).Msg("error loading .env file")
		} else {
			logger.Info().Str("env_path", *envPath).Msg("loaded environment variables from file")
		}
	}

	timeout, err := env.GetDurationEnvDefault("storage timeout", "FOODDB_TIMEOUT", defaultTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load FOODDB_TIMEOUT from env")
	}

	runCtx, cancel := context.WithCancel(context.Background())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Propagate termination signals to the cancellation of the menu context
	go func() {
		<-done
		cancel()
	}()

	// Initialize the application object
	app, err := NewApplication(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not initialize application")
	}

	// Connect to storage and restore the last snapshot
	connectCtx, connectCancel := context.WithTimeout(context.Background(), timeout)
	defer connectCancel()
	start := time.Now()
	err = app.Connect(connectCtx)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to storage")
	}
	logger.Info().
		Int("food_count", app.Store.FoodCount()).
		Int("meal_count", app.Store.MealCount()).
		Str("elapsed", durafmt.Parse(time.Since(start)).LimitFirstN(2).String()).
		Msg("store ready")

	err = app.Import(*importCSV, *importYAML)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not import foods")
	}

	// Save and disconnect automatically
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), timeout)
		defer disconnectCancel()
		err := app.Disconnect(disconnectCtx)
		if err != nil {
			logger.Error().Err(err).Msg("error disconnecting from storage")
		}
	}()

	err = app.Run(runCtx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("menu stopped unexpectedly")
	}
}
