// Package dedup finds and removes duplicate painting records using
// exact-key strategies. Visual (perceptual hash) detection lives in
// the detector package; this package only deals with field equality.
package dedup

import (
	"fmt"
	"strings"

	"kunstquiz/config"
	"kunstquiz/types"
)

// Options controls a deduplication pass.
type Options struct {
	// Strategy is one of config.StrategyURL, StrategyTitle or
	// StrategyExact.
	Strategy string

	// KeepSelfPortraits keeps every record the classifier flags as a
	// self-portrait, even inside a duplicate group. An artist's
	// self-portrait is rarely a true duplicate of another artist's
	// portrait of them, even when titles collide.
	KeepSelfPortraits bool

	// Classifier overrides the default self-portrait predicate.
	// Only consulted when KeepSelfPortraits is set.
	Classifier Predicate
}

// Result holds the outcome of a deduplication pass. Survivors preserve
// the original source order.
type Result struct {
	Survivors []types.Record
	Removed   []types.Record

	// Groups maps each duplicate key to its full group, for audit and
	// reporting. Keys with a single record are not included.
	Groups map[string][]types.Record
}

// groupKey projects a record onto the chosen strategy's identity
// tuple. A second return of false means the record is never grouped
// under this strategy (and therefore always survives).
func groupKey(rec types.Record, strategy string) (string, bool, error) {
	switch strategy {
	case config.StrategyURL:
		url := rec.URL()
		if url == "" {
			return "", false, nil
		}
		return url, true, nil

	case config.StrategyTitle:
		title := strings.ToLower(strings.TrimSpace(rec.Title()))
		if title == "" {
			return "", false, nil
		}
		return title, true, nil

	case config.StrategyExact:
		// Case-sensitive, as provided. Deliberately stricter than the
		// title strategy.
		return rec.Artist() + "\x1f" + rec.Title() + "\x1f" + rec.URL(), true, nil
	}
	return "", false, fmt.Errorf("unknown strategy: %s", strategy)
}

// Group buckets records by the chosen strategy's key. Records whose
// key is excluded (empty url or title) are not returned.
func Group(records []types.Record, strategy string) (map[string][]types.Record, error) {
	groups := make(map[string][]types.Record)
	for _, rec := range records {
		key, ok, err := groupKey(rec, strategy)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		groups[key] = append(groups[key], rec)
	}
	return groups, nil
}

// Deduplicate removes duplicate records per the options. Within each
// duplicate group the first record in source order survives; with
// KeepSelfPortraits set, every self-portrait survives as well and the
// first-record rule applies only to the non-self-portrait remainder.
func Deduplicate(records []types.Record, opts Options) (Result, error) {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = IsSelfPortrait
	}

	// Group by record index so survivors can be rebuilt in source
	// order afterwards.
	keyOf := make([]string, len(records))
	grouped := make([]bool, len(records))
	groups := make(map[string][]int)
	for i, rec := range records {
		key, ok, err := groupKey(rec, opts.Strategy)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		keyOf[i] = key
		grouped[i] = true
		groups[key] = append(groups[key], i)
	}

	keep := make([]bool, len(records))
	for i := range records {
		if !grouped[i] {
			// Excluded from grouping, always survives.
			keep[i] = true
		}
	}

	dupGroups := make(map[string][]types.Record)
	for key, members := range groups {
		if len(members) == 1 {
			keep[members[0]] = true
			continue
		}

		group := make([]types.Record, 0, len(members))
		for _, i := range members {
			group = append(group, records[i])
		}
		dupGroups[key] = group

		if opts.KeepSelfPortraits {
			firstOther := -1
			for _, i := range members {
				if classifier(records[i]) {
					keep[i] = true
				} else if firstOther < 0 {
					firstOther = i
				}
			}
			if firstOther >= 0 {
				keep[firstOther] = true
			}
		} else {
			keep[members[0]] = true
		}
	}

	result := Result{Groups: dupGroups}
	for i, rec := range records {
		if keep[i] {
			result.Survivors = append(result.Survivors, rec)
		} else {
			result.Removed = append(result.Removed, rec)
		}
	}
	return result, nil
}
