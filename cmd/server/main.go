package main

import (
	"boardsync/internal/config"
	"boardsync/internal/database"
	"boardsync/internal/logging"
	"boardsync/internal/server"
)

// @title           Board Sync API
// @version         1.0
// @description     Card service backing the board client.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := database.Migrate(cfg, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	s, err := server.Init(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("server initialization failed")
	}

	s.Run()
}
