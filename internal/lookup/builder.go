package lookup

import (
	"log"

	"parcel-index/internal/commune"
	"parcel-index/internal/geojson"
)

// maxParcelSample caps the parcels list kept per commune aggregate. The list
// is a sample for display economy, not a complete enumeration; count keeps
// the full tally.
const maxParcelSample = 1000

// ParcelRecord is the output record for one parcel identifier.
// The property bag is the one from the first sighting, kept verbatim.
type ParcelRecord struct {
	Commune    *string        `json:"commune"`
	Properties map[string]any `json:"properties"`
}

// CommuneAggregate is the output record for one official commune.
type CommuneAggregate struct {
	Count   int      `json:"count"`
	Parcels []string `json:"parcels"`
}

// Result holds both lookup indexes for one run.
type Result struct {
	Parcels  map[string]*ParcelRecord
	Communes map[string]*CommuneAggregate
}

// Builder accumulates parcel and commune lookups across selected files.
type Builder struct {
	registry *commune.Registry
	extract  *commune.Extractor
}

// NewBuilder creates a builder over the given registry and spelling variants.
func NewBuilder(registry *commune.Registry, variants map[string]string) *Builder {
	canon := commune.NewCanonicalizer(variants)
	return &Builder{
		registry: registry,
		extract:  commune.NewExtractor(registry, canon),
	}
}

// Build processes files in selection order and returns both indexes.
// Every registry commune is present in the result even with zero sightings.
// A file that fails to read or parse is logged and skipped; a corrupt file
// must not abort the run.
func (b *Builder) Build(files []string) *Result {
	res := &Result{
		Parcels:  make(map[string]*ParcelRecord),
		Communes: make(map[string]*CommuneAggregate, len(b.registry.Names())),
	}
	for _, name := range b.registry.Names() {
		res.Communes[name] = &CommuneAggregate{Parcels: []string{}}
	}

	for _, path := range files {
		fc, err := geojson.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		log.Printf("%s: %d features", path, len(fc.Features))

		for _, feat := range fc.Features {
			b.index(res, feat.Properties)
		}
	}

	for _, name := range b.registry.Names() {
		log.Printf("%s: %d parcels", name, res.Communes[name].Count)
	}

	return res
}

// index folds one feature sighting into the result.
func (b *Builder) index(res *Result, props map[string]any) {
	id := geojson.ParcelID(props)
	if id == "" {
		// Without an identifier the feature cannot be indexed at all.
		return
	}

	name := b.extract.Extract(props)

	rec, seen := res.Parcels[id]
	if !seen {
		rec = &ParcelRecord{Properties: props}
		if name != "" {
			n := name
			rec.Commune = &n
		}
		res.Parcels[id] = rec
	} else if rec.Commune == nil && name != "" {
		// Backfill only: a stored commune is never overwritten, and the
		// first-seen property bag stays as-is.
		n := name
		rec.Commune = &n
	}

	if name == "" {
		return
	}
	agg, official := res.Communes[name]
	if !official {
		// Non-registry names stay on the parcel record but feed no aggregate.
		return
	}
	agg.Count++
	if len(agg.Parcels) < maxParcelSample {
		agg.Parcels = append(agg.Parcels, id)
	}
}
