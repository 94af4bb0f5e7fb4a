package lookup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-index/internal/commune"
)

func TestWriteAndReload(t *testing.T) {
	dir := t.TempDir()
	src := writeCollection(t, dir, "parcels.geojson", []map[string]any{
		feat(map[string]any{"Num_parcel": "A1", "commune": "dindefello"}),
	})

	res := newTestBuilder().Build([]string{src})

	outDir := filepath.Join(dir, "data", "nested")
	require.NoError(t, Write(res, outDir))

	var parcels map[string]ParcelRecord
	data, err := os.ReadFile(filepath.Join(outDir, ParcelLookupFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parcels))

	require.Contains(t, parcels, "A1")
	require.NotNil(t, parcels["A1"].Commune)
	assert.Equal(t, "DINDEFELO", *parcels["A1"].Commune)
	assert.Equal(t, "dindefello", parcels["A1"].Properties["commune"])

	var communes map[string]CommuneAggregate
	data, err = os.ReadFile(filepath.Join(outDir, CommuneLookupFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &communes))

	require.Len(t, communes, len(commune.DefaultNames))
	assert.Equal(t, 1, communes["DINDEFELO"].Count)
	assert.Equal(t, []string{"A1"}, communes["DINDEFELO"].Parcels)
	assert.Equal(t, 0, communes["KOAR"].Count)
}

func TestWriteNullCommuneSerializesAsNull(t *testing.T) {
	dir := t.TempDir()
	src := writeCollection(t, dir, "parcels.geojson", []map[string]any{
		feat(map[string]any{"Num_parcel": "A1"}),
	})

	res := newTestBuilder().Build([]string{src})
	require.NoError(t, Write(res, dir))

	data, err := os.ReadFile(filepath.Join(dir, ParcelLookupFile))
	require.NoError(t, err)

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, "null", string(raw["A1"]["commune"]))
}

func TestWriteReplacesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	first := writeCollection(t, dir, "first.geojson", []map[string]any{
		feat(map[string]any{"Num_parcel": "A1", "commune": "KOAR"}),
		feat(map[string]any{"Num_parcel": "B2", "commune": "KOAR"}),
	})
	second := writeCollection(t, dir, "second.geojson", []map[string]any{
		feat(map[string]any{"Num_parcel": "C3", "commune": "SARAYA"}),
	})

	outDir := filepath.Join(dir, "data")
	b := newTestBuilder()
	require.NoError(t, Write(b.Build([]string{first}), outDir))
	require.NoError(t, Write(b.Build([]string{second}), outDir))

	var parcels map[string]ParcelRecord
	data, err := os.ReadFile(filepath.Join(outDir, ParcelLookupFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parcels))

	// Only the second run's parcels survive.
	assert.NotContains(t, parcels, "A1")
	assert.NotContains(t, parcels, "B2")
	assert.Contains(t, parcels, "C3")
}
