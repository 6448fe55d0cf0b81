package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"gitlab.com/dirk.krummacker/contact-api/internal/config"
	"gitlab.com/dirk.krummacker/contact-api/internal/service"
	"gitlab.com/dirk.krummacker/contact-api/internal/store"
)

// Usage example on the command line:
// > SERVER_PORT=8080 DB_HOST=localhost DB_USER=dirk DB_PASSWORD=bullo92 GIN_MODE=release go run main.go
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load configuration")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not parse LOG_LEVEL")
	}
	logger = logger.Level(level)

	db, err := store.OpenDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}
	defer db.Close()

	contacts, err := store.NewContactStore(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not prepare contact store")
	}

	handler := service.NewHandler(contacts, logger)
	router := service.SetupHttpRouter(handler, cfg.RequestLogging)
	logger.Info().Int("port", cfg.ServerPort).Msg("starting contact API")
	if err := router.Run(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
