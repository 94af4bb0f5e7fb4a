package main

import (
	"flag"
	"log"

	"parcel-index/internal/commune"
	"parcel-index/internal/config"
	"parcel-index/internal/lookup"
)

func main() {
	// Parse command line flags
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	parcelsDir := flag.String("parcels", "", "Override parcels directory")
	outDir := flag.String("out", "", "Override output directory")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *parcelsDir != "" {
		cfg.ParcelsDir = *parcelsDir
	}
	if *outDir != "" {
		cfg.DataDir = *outDir
	}

	files, err := lookup.SelectFiles(cfg.ParcelsDir, cfg.FilePatterns)
	if err != nil {
		log.Fatalf("Failed to select parcel files: %v", err)
	}

	log.Printf("Selected %d parcel files in %s", len(files), cfg.ParcelsDir)
	for _, f := range files {
		log.Printf("  %s", f)
	}

	registry := commune.NewRegistry(cfg.Communes)
	builder := lookup.NewBuilder(registry, cfg.SpellingVariants)
	result := builder.Build(files)

	if err := lookup.Write(result, cfg.DataDir); err != nil {
		log.Fatalf("Failed to write lookups: %v", err)
	}

	log.Printf("Indexed %d parcels across %d communes", len(result.Parcels), len(result.Communes))
	log.Printf("Wrote %s and %s", cfg.ParcelLookupPath(), cfg.CommuneLookupPath())
}
