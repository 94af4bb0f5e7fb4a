package commune

import "testing"

func newTestExtractor() *Extractor {
	registry := NewRegistry(DefaultNames)
	return NewExtractor(registry, NewCanonicalizer(DefaultVariants))
}

func TestExtractDirectFields(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{"commune field", map[string]any{"commune": "dindefello"}, "DINDEFELO"},
		{"CCRCA field", map[string]any{"CCRCA": "KOAR"}, "KOAR"},
		{"CCRCA_1 field", map[string]any{"CCRCA_1": "Bandafassi"}, "BANDAFASSI"},
		{"CAV field", map[string]any{"CAV": "SARAYA"}, "SARAYA"},
		{"Nom field", map[string]any{"Nom": "salemata"}, "SALEMATA"},
		{"name field", map[string]any{"name": "BEMBOU"}, "BEMBOU"},
		{
			"commune wins over CCRCA",
			map[string]any{"CCRCA": "KOAR", "commune": "SARAYA"},
			"SARAYA",
		},
		{
			"empty commune falls through to CCRCA",
			map[string]any{"commune": "", "CCRCA": "KOAR"},
			"KOAR",
		},
		{
			"non-registry value still returned",
			map[string]any{"commune": "elsewhere"},
			"ELSEWHERE",
		},
		{"no fields", map[string]any{"Num_parcel": "A1"}, ""},
		{"nil bag", nil, ""},
	}
	for _, tt := range tests {
		if got := e.Extract(tt.props); got != tt.want {
			t.Errorf("%s: Extract() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractSourceFileFallback(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{
			"plain substring",
			map[string]any{"source_file": "parcels_KOAR_2023.geojson"},
			"KOAR",
		},
		{
			"underscore substitution",
			map[string]any{"source_file": "unjoined_parcels_SINTHIOU_MALEME.geojson", "Num_parcel": "C3"},
			"SINTHIOU MALEME",
		},
		{
			"lowercase hint",
			map[string]any{"source_file": "tomboronkoto_linestringz"},
			"TOMBORONKOTO",
		},
		{
			"direct field beats source_file",
			map[string]any{"commune": "SARAYA", "source_file": "parcels_KOAR.geojson"},
			"SARAYA",
		},
		{
			"unknown hint",
			map[string]any{"source_file": "parcels_final.geojson"},
			"",
		},
	}
	for _, tt := range tests {
		if got := e.Extract(tt.props); got != tt.want {
			t.Errorf("%s: Extract() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractWithField(t *testing.T) {
	e := newTestExtractor()

	name, field := e.ExtractWithField(map[string]any{"CCRCA": "KOAR"})
	if name != "KOAR" || field != "CCRCA" {
		t.Errorf("got (%q, %q), want (KOAR, CCRCA)", name, field)
	}

	name, field = e.ExtractWithField(map[string]any{"source_file": "parcels_KOAR.geojson"})
	if name != "KOAR" || field != "source_file" {
		t.Errorf("got (%q, %q), want (KOAR, source_file)", name, field)
	}

	name, field = e.ExtractWithField(map[string]any{"Num_parcel": "A1"})
	if name != "" || field != "" {
		t.Errorf("got (%q, %q), want empty", name, field)
	}
}
