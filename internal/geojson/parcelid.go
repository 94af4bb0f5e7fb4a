package geojson

// parcelIDKeys lists the known spellings of the parcel identifier property,
// most canonical first. The earlier spellings come from the cleaner exports
// and must win when a bag carries more than one.
var parcelIDKeys = []string{
	"Num_parcel",
	"NUM_PARCEL",
	"num_parcel",
	"numParcel",
	"num",
	"ID",
	"id",
	"Id_parcel",
	"IDPARCEL",
}

// ParcelID extracts the parcel identifier from a property bag.
// Returns "" when no known key carries a usable value.
func ParcelID(props map[string]any) string {
	for _, key := range parcelIDKeys {
		if v, ok := props[key]; ok && Truthy(v) {
			return Stringify(v)
		}
	}
	return ""
}
