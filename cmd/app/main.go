package main

import (
	"log"

	"github.com/micdrop/openmic/config"
	"github.com/micdrop/openmic/internal/appServer"
)

func main() {
	v, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg, err := config.ParseConfig(v)
	if err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	appServer.NewServer(cfg)
}
