package normalize

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"parcel-index/internal/commune"
	"parcel-index/internal/geojson"
)

// NormalizedSuffix marks files produced by this pass. The file selector
// ranks them above the plain exports they were derived from.
const NormalizedSuffix = ".normalized.geojson"

// ReportFile is the report filename, written into the data directory.
const ReportFile = "commune_normalization_report.json"

// FileReport summarizes the normalization of one export file.
type FileReport struct {
	Input         string            `json:"input"`
	Output        string            `json:"output"`
	TotalFeatures int               `json:"total_features"`
	Resolved      int               `json:"resolved"`
	FoundKeys     map[string]int    `json:"found_keys"`
	Samples       map[string]string `json:"samples"`
}

// FileError records a file that could not be normalized.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Report summarizes one normalization run.
type Report struct {
	Files  []FileReport `json:"files"`
	Errors []FileError  `json:"errors"`
}

// Normalizer rewrites plain parcel exports with a canonical commune property
// injected into every feature, so later pipeline stages can rely on a single
// clean field.
type Normalizer struct {
	extract *commune.Extractor
}

// New creates a normalizer over the given registry and spelling variants.
func New(registry *commune.Registry, variants map[string]string) *Normalizer {
	canon := commune.NewCanonicalizer(variants)
	return &Normalizer{extract: commune.NewExtractor(registry, canon)}
}

// Run normalizes every plain .geojson file under parcelsDir and returns the
// report. Files produced by a previous pass are skipped. Per-file failures
// go into the report; they do not abort the run.
func (n *Normalizer) Run(parcelsDir string) (*Report, error) {
	matches, err := filepath.Glob(filepath.Join(parcelsDir, "*.geojson"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", parcelsDir, err)
	}
	report := &Report{Files: []FileReport{}, Errors: []FileError{}}

	for _, path := range matches {
		if strings.Contains(filepath.Base(path), ".normalized") {
			continue
		}

		fr, err := n.File(path)
		if err != nil {
			log.Printf("normalize %s: %v", path, err)
			report.Errors = append(report.Errors, FileError{File: path, Error: err.Error()})
			continue
		}
		log.Printf("normalized %s: %d/%d features resolved", path, fr.Resolved, fr.TotalFeatures)
		report.Files = append(report.Files, fr)
	}

	return report, nil
}

// File normalizes a single export, writing a sibling file with
// NormalizedSuffix in place of the .geojson extension.
func (n *Normalizer) File(path string) (FileReport, error) {
	fr := FileReport{
		Input:     path,
		Output:    strings.TrimSuffix(path, ".geojson") + NormalizedSuffix,
		FoundKeys: map[string]int{},
		Samples:   map[string]string{},
	}

	fc, err := geojson.ReadFile(path)
	if err != nil {
		return fr, err
	}

	for i := range fc.Features {
		props := fc.Features[i].Properties
		if props == nil {
			props = map[string]any{}
			fc.Features[i].Properties = props
		}

		name, field := n.extract.ExtractWithField(props)
		if name != "" {
			props["commune"] = name
			fr.Resolved++
			fr.FoundKeys[field]++
			if _, ok := fr.Samples[field]; !ok {
				fr.Samples[field] = name
			}
		} else {
			props["commune"] = nil
		}
		fr.TotalFeatures++
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fr, fmt.Errorf("encoding %s: %w", fr.Output, err)
	}
	if err := os.WriteFile(fr.Output, data, 0644); err != nil {
		return fr, fmt.Errorf("writing %s: %w", fr.Output, err)
	}

	return fr, nil
}

// WriteReport persists the run report into dataDir, creating it if absent.
func WriteReport(report *Report, dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dataDir, ReportFile)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
