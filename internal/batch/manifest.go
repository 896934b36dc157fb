package batch

import (
	"encoding/json"
	"os"

	"soft-render/internal/prof"
)

// ManifestEntry summarizes one loaded record.
type ManifestEntry struct {
	File   string       `json:"file"`
	Blocks []BlockEntry `json:"blocks"`
}

// BlockEntry is one block of a manifest entry. Rates that cannot be computed
// are written as "n/a".
type BlockEntry struct {
	Name       string `json:"name"`
	CountTotal uint32 `json:"count_total"`
	LastRate   string `json:"last_rate"`
	AvgRate    string `json:"avg_rate"`
}

// Manifest builds one entry per table.
func Manifest(tables []prof.Table) []ManifestEntry {
	entries := make([]ManifestEntry, len(tables))
	for i, t := range tables {
		blocks := make([]BlockEntry, len(t.Blocks))
		for j, b := range t.Blocks {
			blocks[j] = BlockEntry{
				Name:       b.Name,
				CountTotal: b.CountTotal,
				LastRate:   prof.FormatRate(prof.Rate(b.ClockLastFrame)),
				AvgRate:    prof.FormatRate(prof.AvgRate(b.CountTotal, b.ClockTotal)),
			}
		}
		entries[i] = ManifestEntry{File: t.Source, Blocks: blocks}
	}
	return entries
}

// WriteManifest writes the summary of tables as indented JSON.
func WriteManifest(path string, tables []prof.Table) error {
	data, err := json.MarshalIndent(Manifest(tables), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
