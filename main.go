package main

import (
	"log"

	"github.com/yourusername/solarlink-recon/cmd"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute(cfg)
}
