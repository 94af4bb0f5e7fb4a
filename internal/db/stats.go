package db

import (
	"fmt"

	"parcel-index/internal/lookup"
)

// CommuneStat is one row of the commune_stats table.
type CommuneStat struct {
	Commune     string `db:"commune" json:"commune"`
	ParcelCount int    `db:"parcel_count" json:"parcel_count"`
	Sampled     int    `db:"sampled" json:"sampled"`
}

// ReplaceLookups rebuilds the export tables from a freshly built result.
// Existing rows are dropped first so the database always reflects exactly
// one indexer run.
func (db *DB) ReplaceLookups(res *lookup.Result) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM parcels`); err != nil {
		return fmt.Errorf("clearing parcels: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM commune_stats`); err != nil {
		return fmt.Errorf("clearing commune_stats: %w", err)
	}

	for id, rec := range res.Parcels {
		if _, err := tx.Exec(`INSERT INTO parcels (id, commune) VALUES (?, ?)`, id, rec.Commune); err != nil {
			return fmt.Errorf("inserting parcel %s: %w", id, err)
		}
	}

	for name, agg := range res.Communes {
		if _, err := tx.Exec(
			`INSERT INTO commune_stats (commune, parcel_count, sampled) VALUES (?, ?, ?)`,
			name, agg.Count, len(agg.Parcels),
		); err != nil {
			return fmt.Errorf("inserting commune %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CommuneStats returns all commune rows ordered by descending parcel count.
func (db *DB) CommuneStats() ([]CommuneStat, error) {
	var stats []CommuneStat
	err := db.Select(&stats, `
		SELECT commune, parcel_count, sampled
		FROM commune_stats
		ORDER BY parcel_count DESC, commune ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying commune stats: %w", err)
	}
	return stats, nil
}

// CountParcels returns the number of indexed parcels, and how many of them
// still have no resolved commune.
func (db *DB) CountParcels() (total, unresolved int, err error) {
	if err = db.Get(&total, `SELECT COUNT(*) FROM parcels`); err != nil {
		return 0, 0, fmt.Errorf("counting parcels: %w", err)
	}
	if err = db.Get(&unresolved, `SELECT COUNT(*) FROM parcels WHERE commune IS NULL`); err != nil {
		return 0, 0, fmt.Errorf("counting unresolved parcels: %w", err)
	}
	return total, unresolved, nil
}
