package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-index/internal/commune"
	"parcel-index/internal/lookup"
)

// setupServer builds lookups from an in-memory scenario, writes them to a
// temp data dir and returns a test server over the API router.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	registry := commune.NewRegistry(commune.DefaultNames)
	builder := lookup.NewBuilder(registry, commune.DefaultVariants)
	res := builder.Build(nil)

	koar := "KOAR"
	res.Parcels["A1"] = &lookup.ParcelRecord{
		Commune:    &koar,
		Properties: map[string]any{"Num_parcel": "A1", "commune": "KOAR"},
	}
	res.Parcels["B2"] = &lookup.ParcelRecord{
		Properties: map[string]any{"Num_parcel": "B2"},
	}
	res.Communes["KOAR"].Count = 1
	res.Communes["KOAR"].Parcels = []string{"A1"}

	dataDir := t.TempDir()
	require.NoError(t, lookup.Write(res, dataDir))

	svc := NewLookupService(dataDir, registry, commune.DefaultVariants)
	ts := httptest.NewServer(NewRouter(svc))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestGetParcel(t *testing.T) {
	ts := setupServer(t)

	var rec lookup.ParcelRecord
	code := getJSON(t, ts.URL+"/api/parcels/A1", &rec)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, rec.Commune)
	assert.Equal(t, "KOAR", *rec.Commune)
	assert.Equal(t, "A1", rec.Properties["Num_parcel"])
}

func TestGetParcelNullCommune(t *testing.T) {
	ts := setupServer(t)

	var rec lookup.ParcelRecord
	code := getJSON(t, ts.URL+"/api/parcels/B2", &rec)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, rec.Commune)
}

func TestGetParcelNotFound(t *testing.T) {
	ts := setupServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/parcels/ZZ", nil))
}

func TestGetCommune(t *testing.T) {
	ts := setupServer(t)

	var body struct {
		Commune string   `json:"commune"`
		Count   int      `json:"count"`
		Parcels []string `json:"parcels"`
	}
	code := getJSON(t, ts.URL+"/api/communes/KOAR", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "KOAR", body.Commune)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, []string{"A1"}, body.Parcels)
}

func TestGetCommuneResolvesVariants(t *testing.T) {
	ts := setupServer(t)

	// Misspelled, lowercase request resolves to the official name.
	var body struct {
		Commune string `json:"commune"`
	}
	code := getJSON(t, ts.URL+"/api/communes/dindefello", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "DINDEFELO", body.Commune)
}

func TestGetCommuneSpacedName(t *testing.T) {
	ts := setupServer(t)

	var body struct {
		Commune string `json:"commune"`
		Count   int    `json:"count"`
	}
	code := getJSON(t, ts.URL+"/api/communes/SINTHIOU%20MALEME", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SINTHIOU MALEME", body.Commune)
	assert.Equal(t, 0, body.Count)
}

func TestGetCommuneNotInRegistry(t *testing.T) {
	ts := setupServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/communes/ELSEWHERE", nil))
}

func TestListCommunes(t *testing.T) {
	ts := setupServer(t)

	var communes map[string]lookup.CommuneAggregate
	code := getJSON(t, ts.URL+"/api/communes", &communes)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, communes, len(commune.DefaultNames))
	assert.Equal(t, 1, communes["KOAR"].Count)
	assert.Equal(t, 0, communes["SARAYA"].Count)
}

func TestHealth(t *testing.T) {
	ts := setupServer(t)

	var body struct {
		Status string `json:"status"`
		Loaded bool   `json:"loaded"`
	}
	code := getJSON(t, ts.URL+"/api/health", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	// Nothing has been requested yet; the lazy cache is still cold.
	assert.False(t, body.Loaded)

	getJSON(t, ts.URL+"/api/communes", nil)
	code = getJSON(t, ts.URL+"/api/health", &body)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, body.Loaded)
}

func TestLookupsMissingOnDisk(t *testing.T) {
	registry := commune.NewRegistry(commune.DefaultNames)
	svc := NewLookupService(t.TempDir(), registry, commune.DefaultVariants)
	ts := httptest.NewServer(NewRouter(svc))
	defer ts.Close()

	assert.Equal(t, http.StatusInternalServerError, getJSON(t, ts.URL+"/api/communes", nil))
}

func TestReload(t *testing.T) {
	registry := commune.NewRegistry(commune.DefaultNames)
	dataDir := t.TempDir()
	svc := NewLookupService(dataDir, registry, commune.DefaultVariants)

	// First load fails: nothing on disk yet, and the failure is cached.
	_, err := svc.Communes()
	require.Error(t, err)
	_, err = svc.Communes()
	require.Error(t, err)

	builder := lookup.NewBuilder(registry, commune.DefaultVariants)
	require.NoError(t, lookup.Write(builder.Build(nil), dataDir))

	// After a reload the fresh files are picked up.
	svc.Reload()
	communes, err := svc.Communes()
	require.NoError(t, err)
	assert.Len(t, communes, len(commune.DefaultNames))
}
