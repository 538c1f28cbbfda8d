package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/legal-case-db/internal/config"
	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/server"
	"github.com/JustJay7/legal-case-db/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		log.Info("Database migrations completed successfully")
		return
	}

	srv := server.New(cfg, db, log)

	log.Info("Starting legal case database",
		"host", cfg.Host,
		"port", cfg.Port,
		"dialect", db.Dialector.Name(),
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
