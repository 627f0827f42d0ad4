package types

import "strings"

// Provenance keys attached to records during multi-file consolidation.
// They identify which source file and position a record came from and
// are stripped before any data is written back to disk.
const (
	SourceFileKey  = "_source_file"
	SourceIndexKey = "_source_index"
)

// Record is one observation of an artwork. The painting schema is open:
// scrapers disagree about which fields exist, so a record is a JSON
// object with a handful of well-known keys (url, title, artist) and
// anything else passed through untouched.
type Record map[string]any

// URL returns the image source URL, or "" when the record has none.
func (r Record) URL() string {
	return r.stringField("url")
}

// Title returns the painting title, or "".
func (r Record) Title() string {
	return r.stringField("title")
}

// Artist returns the artist name, or "".
func (r Record) Artist() string {
	return r.stringField("artist")
}

func (r Record) stringField(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SourceFile returns the provenance file identifier, or "".
func (r Record) SourceFile() string {
	return r.stringField(SourceFileKey)
}

// SourceIndex returns the provenance position index, or -1 when the
// record was never tagged.
func (r Record) SourceIndex() int {
	switch v := r[SourceIndexKey].(type) {
	case int:
		return v
	case float64:
		// JSON round-trips numbers as float64.
		return int(v)
	}
	return -1
}

// Clone returns a shallow copy of the record. Nested lists and maps are
// shared with the original; callers that mutate nested values must copy
// them first.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StripProvenance returns a copy of the record without internal
// tracking fields. Provenance never reaches persisted output.
func (r Record) StripProvenance() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}
