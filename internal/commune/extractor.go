package commune

import "parcel-index/internal/geojson"

// candidateFields lists property keys that may carry the commune name,
// in priority order. Cleaner exports use "commune"; the cadastral layers
// use CCRCA/CCRCA_1/CAV; some hand-edited files only have Nom or name.
var candidateFields = []string{"commune", "CCRCA", "CCRCA_1", "CAV", "Nom", "name"}

// CandidateFields returns the ordered list of commune property keys.
func CandidateFields() []string {
	out := make([]string, len(candidateFields))
	copy(out, candidateFields)
	return out
}

// Extractor resolves a feature's commune from its property bag.
type Extractor struct {
	registry *Registry
	canon    *Canonicalizer
}

// NewExtractor creates an extractor over the given registry and canonicalizer.
func NewExtractor(registry *Registry, canon *Canonicalizer) *Extractor {
	return &Extractor{registry: registry, canon: canon}
}

// Extract returns the canonical commune for a property bag, or "" when the
// commune is unknown.
func (e *Extractor) Extract(props map[string]any) string {
	name, _ := e.ExtractWithField(props)
	return name
}

// ExtractWithField works like Extract but also reports which property key
// supplied the value ("source_file" for the filename fallback, "" on miss).
// Direct fields win over the source_file hint: some exports carry a clean
// property while others only encode the commune in the originating filename.
func (e *Extractor) ExtractWithField(props map[string]any) (string, string) {
	for _, key := range candidateFields {
		if v, ok := props[key]; ok && geojson.Truthy(v) {
			return e.canon.Canonicalize(v), key
		}
	}

	if v, ok := props["source_file"]; ok && geojson.Truthy(v) {
		if name := e.registry.MatchSourceFile(geojson.Stringify(v)); name != "" {
			return name, "source_file"
		}
	}

	return "", ""
}
