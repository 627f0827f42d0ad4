// Package dataset reads and writes painting record files. Input files
// are JSON arrays of open-schema objects; unknown fields round-trip
// untouched. A file that cannot be parsed aborts the run: a partial
// dataset is worse than no dataset.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kunstquiz/types"
)

// Load reads a JSON array of records from path.
func Load(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return records, nil
}

// LoadTagged reads records from several files in order and tags each
// record with its source file and position. The tags drive merge
// precedence during consolidation and are stripped again on save.
func LoadTagged(paths []string) ([]types.Record, map[string]int, error) {
	var all []types.Record
	counts := make(map[string]int, len(paths))

	for _, path := range paths {
		records, err := Load(path)
		if err != nil {
			return nil, nil, err
		}
		for i, rec := range records {
			tagged := rec.Clone()
			tagged[types.SourceFileKey] = path
			tagged[types.SourceIndexKey] = i
			all = append(all, tagged)
		}
		counts[path] = len(records)
	}
	return all, counts, nil
}

// Save writes records to path as a pretty-printed JSON array, stripping
// provenance fields first. The parent directory is created if needed.
func Save(path string, records []types.Record) error {
	out := make([]types.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.StripProvenance())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
