package geojson

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Feature represents one record from a parcel export. Geometry is carried
// through untouched; only the property bag is inspected.
type Feature struct {
	Type       string          `json:"type,omitempty"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// FeatureCollection is the shape of every parcel export file
type FeatureCollection struct {
	Type     string    `json:"type,omitempty"`
	Features []Feature `json:"features"`
}

// ReadFile parses the file at path as a GeoJSON feature collection.
// A document without a features array yields an empty collection, not an error.
func ReadFile(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &fc, nil
}

// Truthy reports whether a property value counts as present.
// Nil, empty strings, zero numbers and false are all treated as absent.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

// Stringify renders a scalar property value as a string. JSON numbers are
// formatted without an exponent so numeric parcel identifiers keep their digits.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
