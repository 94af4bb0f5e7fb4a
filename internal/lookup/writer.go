package lookup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output filenames, fixed relative to the data directory.
const (
	ParcelLookupFile  = "parcel_lookup.json"
	CommuneLookupFile = "commune_lookup.json"
)

// Write persists both indexes as pretty-printed JSON under outDir, creating
// the directory if absent and fully replacing any previous run's output.
// A write failure is fatal to the run and propagates to the caller.
func Write(res *Result, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeJSON(filepath.Join(outDir, ParcelLookupFile), res.Parcels); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outDir, CommuneLookupFile), res.Communes)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
