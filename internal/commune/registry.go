package commune

import "strings"

// DefaultNames is the official commune registry for the survey area.
// Source: regional cadastral programme commune list
var DefaultNames = []string{
	"BANDAFASSI",
	"DINDEFELO",
	"TOMBORONKOTO",
	"FONGOLIMBI",
	"DIMBOLI",
	"SALEMATA",
	"DAKATELI",
	"OUBADJI",
	"SARAYA",
	"BEMBOU",
	"KHOSSANTO",
	"SABODALA",
	"MISSIRAH SIRIMANA",
	"MEDINA BAFFE",
	"KOAR",
	"SINTHIOU MALEME",
	"DAR SALAM",
}

// DefaultVariants maps known misspellings seen in field exports to their
// official names. Every value must be a member of the registry.
var DefaultVariants = map[string]string{
	"DINDEFELLO":     "DINDEFELO",
	"DINDIFELO":      "DINDEFELO",
	"TOMBORONCOTO":   "TOMBORONKOTO",
	"SINTHIOU MALEM": "SINTHIOU MALEME",
	"SINTIOU MALEME": "SINTHIOU MALEME",
	"MEDINA BAFE":    "MEDINA BAFFE",
	"KOSSANTO":       "KHOSSANTO",
	"DAKATELY":       "DAKATELI",
}

// Registry is the fixed, ordered set of official commune names for a run.
type Registry struct {
	names   []string
	members map[string]struct{}
}

// NewRegistry creates a registry from an ordered list of canonical names.
func NewRegistry(names []string) *Registry {
	r := &Registry{
		names:   make([]string, len(names)),
		members: make(map[string]struct{}, len(names)),
	}
	copy(r.names, names)
	for _, name := range names {
		r.members[name] = struct{}{}
	}
	return r
}

// Names returns the registry names in their fixed order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether name is an official commune name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.members[name]
	return ok
}

// MatchSourceFile resolves a commune from an originating-filename hint.
// The hint is uppercased and each registry name is tested for literal
// substring inclusion, in registry order. If no spaced name matches, the
// test is repeated with spaces replaced by underscores to catch
// filename-safe variants like SINTHIOU_MALEME.
func (r *Registry) MatchSourceFile(hint string) string {
	upper := strings.ToUpper(hint)
	for _, name := range r.names {
		if strings.Contains(upper, name) {
			return name
		}
	}
	for _, name := range r.names {
		underscored := strings.ReplaceAll(name, " ", "_")
		if strings.Contains(upper, underscored) {
			return name
		}
	}
	return ""
}
