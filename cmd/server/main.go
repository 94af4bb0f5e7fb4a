package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"parcel-index/internal/api"
	"parcel-index/internal/commune"
	"parcel-index/internal/config"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	dataDir := flag.String("data", "", "Override lookup data directory")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *port != 0 {
		cfg.Server.Addr = fmt.Sprintf(":%d", *port)
	}

	log.Printf("Lookup data: %s", cfg.DataDir)

	// Lookups load lazily on the first request
	registry := commune.NewRegistry(cfg.Communes)
	lookups := api.NewLookupService(cfg.DataDir, registry, cfg.SpellingVariants)

	// Create router
	router := api.NewRouter(lookups)

	// Start server
	log.Printf("Starting server on http://localhost%s", cfg.Server.Addr)

	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
