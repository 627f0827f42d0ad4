package dedup

import "kunstquiz/types"

// Stats summarizes duplication in a dataset without mutating it.
type Stats struct {
	Total           int
	UniqueExactKeys int
	ExactDuplicates int
	URLDuplicates   map[string]int
	TitleDuplicates map[string]int
}

// CheckDuplicates counts duplicates under the exact (artist,title,url)
// key and tallies repeated urls and titles. Read-only.
func CheckDuplicates(records []types.Record) Stats {
	stats := Stats{
		Total:           len(records),
		URLDuplicates:   make(map[string]int),
		TitleDuplicates: make(map[string]int),
	}

	seen := make(map[string]struct{}, len(records))
	urlCounts := make(map[string]int)
	titleCounts := make(map[string]int)

	for _, rec := range records {
		key := rec.Artist() + "\x1f" + rec.Title() + "\x1f" + rec.URL()
		if _, dup := seen[key]; dup {
			stats.ExactDuplicates++
		}
		seen[key] = struct{}{}

		if url := rec.URL(); url != "" {
			urlCounts[url]++
		}
		if title := rec.Title(); title != "" {
			titleCounts[title]++
		}
	}
	stats.UniqueExactKeys = len(seen)

	for url, n := range urlCounts {
		if n > 1 {
			stats.URLDuplicates[url] = n
		}
	}
	for title, n := range titleCounts {
		if n > 1 {
			stats.TitleDuplicates[title] = n
		}
	}
	return stats
}
