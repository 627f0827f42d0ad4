// Package merge consolidates groups of records that describe one
// artwork into a single record without losing information.
package merge

import (
	"fmt"

	"kunstquiz/types"
)

// Donation records which source record contributed a field value, so
// conflicting metadata can be investigated after the fact.
type Donation struct {
	Field       string `json:"field"`
	SourceFile  string `json:"source_file,omitempty"`
	SourceIndex int    `json:"source_index"`
}

// Audit collects field donations during a merge. A nil *Audit disables
// auditing.
type Audit struct {
	Donations []Donation
}

func (a *Audit) donate(field string, rec types.Record) {
	if a == nil {
		return
	}
	a.Donations = append(a.Donations, Donation{
		Field:       field,
		SourceFile:  rec.SourceFile(),
		SourceIndex: rec.SourceIndex(),
	})
}

// Merge consolidates a group of records known to describe the same
// artwork. The group is processed in order (earliest source first) and
// reconciliation is field-type-aware:
//
//   - scalars: first non-empty value wins, later values never overwrite
//   - lists: union of all values, first-seen order; lists of maps are
//     concatenated instead since map elements cannot be compared cheaply
//   - maps: per-key first-non-empty-wins, consistent with scalars
//
// Merge is pure and total: it never fails on missing fields and every
// record in the group contributes. Provenance fields are stripped from
// the output.
func Merge(group []types.Record, audit *Audit) types.Record {
	merged := types.Record{}
	for _, rec := range group {
		for key, value := range rec.StripProvenance() {
			mergeField(merged, key, value, rec, audit)
		}
	}
	return merged
}

func mergeField(merged types.Record, key string, value any, donor types.Record, audit *Audit) {
	existing, present := merged[key]
	if !present || isEmpty(existing) {
		if !isEmpty(value) || !present {
			merged[key] = value
			if !isEmpty(value) {
				audit.donate(key, donor)
			}
		}
		return
	}
	if isEmpty(value) {
		return
	}

	switch ev := existing.(type) {
	case []any:
		if nv, ok := value.([]any); ok {
			merged[key] = mergeLists(ev, nv)
			audit.donate(key, donor)
		}
		// Type conflict with a non-list: first value stands.
	case map[string]any:
		if nv, ok := value.(map[string]any); ok {
			merged[key] = mergeMaps(ev, nv)
			audit.donate(key, donor)
		}
	default:
		// Scalar already set: first-non-empty-wins.
	}
}

// mergeLists unions two lists, preserving first-seen order. Elements
// that cannot serve as map keys (maps, nested lists) are concatenated
// instead; those duplicates are an accepted trade-off.
func mergeLists(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	seen := make(map[any]struct{}, len(a)+len(b))

	appendUnique := func(v any) {
		if hashable(v) {
			if _, dup := seen[v]; dup {
				return
			}
			seen[v] = struct{}{}
		}
		out = append(out, v)
	}

	for _, v := range a {
		appendUnique(v)
	}
	for _, v := range b {
		appendUnique(v)
	}
	return out
}

func hashable(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

// mergeMaps shallow-merges b into a copy of a with per-key
// first-non-empty-wins, matching the scalar policy.
func mergeMaps(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if old, present := out[k]; !present || isEmpty(old) {
			if !isEmpty(v) || !present {
				out[k] = v
			}
		}
	}
	return out
}

// isEmpty mirrors the emptiness notion the merge rules are defined
// over: nil, empty string, zero number, false, and zero-length lists
// and maps all count as empty.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// Consolidate runs the fixed consolidation pipeline: group records by
// exact url, merge each group, and emit one record per unique artwork
// in first-occurrence order. Records without a url cannot collide and
// pass through unchanged (minus provenance).
//
// Visual similarity never feeds this pipeline; it is a probabilistic
// signal that goes to a human-reviewed report instead.
func Consolidate(records []types.Record, audit *Audit) []types.Record {
	groups := make(map[string][]types.Record)
	var order []string

	for i, rec := range records {
		url := rec.URL()
		key := url
		if url == "" {
			// Unique synthetic key so url-less records never merge.
			key = fmt.Sprintf("\x00noURL:%d", i)
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	out := make([]types.Record, 0, len(order))
	for _, key := range order {
		out = append(out, Merge(groups[key], audit))
	}
	return out
}
