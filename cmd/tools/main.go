package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"parcel-index/internal/arcgis"
	"parcel-index/internal/commune"
	"parcel-index/internal/config"
	"parcel-index/internal/db"
	"parcel-index/internal/geojson"
	"parcel-index/internal/lookup"
	"parcel-index/internal/normalize"
)

func main() {
	// Sub-commands
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	os.Args = os.Args[1:] // Shift args for flag parsing

	switch cmd {
	case "normalize":
		normalizeExports()
	case "fieldcheck":
		checkCommuneFields()
	case "stats":
		exportStats()
	case "fetch":
		fetchExport()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: tools <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  normalize   Rewrite plain parcel exports with a canonical commune property")
	fmt.Println("  fieldcheck  Report commune-field coverage across parcel exports")
	fmt.Println("  stats       Export the built lookups into a SQLite database")
	fmt.Println("  fetch       Download a parcel export from an ArcGIS feature service")
}

func loadConfig(cfgPath string) config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func normalizeExports() {
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	parcelsDir := flag.String("parcels", "", "Override parcels directory")
	flag.Parse()

	cfg := loadConfig(*cfgPath)
	if *parcelsDir != "" {
		cfg.ParcelsDir = *parcelsDir
	}

	registry := commune.NewRegistry(cfg.Communes)
	n := normalize.New(registry, cfg.SpellingVariants)

	report, err := n.Run(cfg.ParcelsDir)
	if err != nil {
		log.Fatalf("Normalization failed: %v", err)
	}

	path, err := normalize.WriteReport(report, cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Printf("Normalized %d files (%d errors), report at %s", len(report.Files), len(report.Errors), path)
}

func checkCommuneFields() {
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	parcelsDir := flag.String("parcels", "", "Override parcels directory")
	flag.Parse()

	cfg := loadConfig(*cfgPath)
	if *parcelsDir != "" {
		cfg.ParcelsDir = *parcelsDir
	}

	files, err := lookup.SelectFiles(cfg.ParcelsDir, cfg.FilePatterns)
	if err != nil {
		log.Fatalf("Failed to select parcel files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No parcel files found in %s", cfg.ParcelsDir)
	}

	registry := commune.NewRegistry(cfg.Communes)
	canon := commune.NewCanonicalizer(cfg.SpellingVariants)

	// Candidate fields plus a few legacy layer attributes worth auditing.
	fields := append(commune.CandidateFields(), "SUSCOL", "REG", "DEPT")
	distinct := make(map[string]map[string]int, len(fields))
	for _, f := range fields {
		distinct[f] = map[string]int{}
	}

	for _, path := range files {
		fc, err := geojson.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		for _, feat := range fc.Features {
			for _, f := range fields {
				if v, ok := feat.Properties[f]; ok && geojson.Truthy(v) {
					distinct[f][canon.Canonicalize(v)]++
				}
			}
		}
	}

	best, bestMatches := "", -1
	for _, f := range fields {
		matches := 0
		for name := range distinct[f] {
			if registry.Contains(name) {
				matches++
			}
		}
		fmt.Printf("%-10s %4d distinct values, %2d/%d registry matches\n",
			f, len(distinct[f]), matches, len(cfg.Communes))
		if matches > bestMatches {
			best, bestMatches = f, matches
		}
	}
	fmt.Printf("\nRecommended primary commune field: %s (%d registry matches)\n", best, bestMatches)
}

func exportStats() {
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	dbPath := flag.String("db", "", "SQLite database path (default <data>/parcel-index.db)")
	flag.Parse()

	cfg := loadConfig(*cfgPath)
	if *dbPath == "" {
		*dbPath = filepath.Join(cfg.DataDir, "parcel-index.db")
	}

	files, err := lookup.SelectFiles(cfg.ParcelsDir, cfg.FilePatterns)
	if err != nil {
		log.Fatalf("Failed to select parcel files: %v", err)
	}

	registry := commune.NewRegistry(cfg.Communes)
	builder := lookup.NewBuilder(registry, cfg.SpellingVariants)
	result := builder.Build(files)

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.ReplaceLookups(result); err != nil {
		log.Fatalf("Failed to export lookups: %v", err)
	}

	total, unresolved, err := database.CountParcels()
	if err != nil {
		log.Fatalf("Failed to count parcels: %v", err)
	}
	log.Printf("Exported %d parcels (%d without commune) to %s", total, unresolved, *dbPath)
}

func fetchExport() {
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	endpoint := flag.String("endpoint", "", "ArcGIS layer query URL (.../MapServer/<layer>/query)")
	name := flag.String("name", "individual_parcels.geojson", "Output filename in the parcels directory")
	bbox := flag.String("bbox", "", "Bounding box as minLng,minLat,maxLng,maxLat")
	flag.Parse()

	if *endpoint == "" || *bbox == "" {
		log.Fatal("fetch requires -endpoint and -bbox")
	}

	var minLng, minLat, maxLng, maxLat float64
	if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLng, &minLat, &maxLng, &maxLat); err != nil {
		log.Fatalf("Invalid bounding box %q: %v", *bbox, err)
	}

	cfg := loadConfig(*cfgPath)
	if err := os.MkdirAll(cfg.ParcelsDir, 0755); err != nil {
		log.Fatalf("Failed to create parcels directory: %v", err)
	}

	client := arcgis.NewClient(*endpoint)
	data, count, err := client.FetchGeoJSON(context.Background(), minLng, minLat, maxLng, maxLat)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	outPath := filepath.Join(cfg.ParcelsDir, *name)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", outPath, err)
	}

	log.Printf("Saved %d features to %s", count, outPath)
}
