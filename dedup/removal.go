package dedup

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"kunstquiz/types"
)

// RemoveArtist removes every record attributed to the named artist.
// Matching is case-insensitive with surrounding whitespace ignored.
func RemoveArtist(records []types.Record, artist string) (kept, removed []types.Record) {
	want := strings.ToLower(strings.TrimSpace(artist))
	for _, rec := range records {
		if strings.ToLower(strings.TrimSpace(rec.Artist())) == want {
			removed = append(removed, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	return kept, removed
}

// RemoveURLs removes records whose url is in the removal set, plus any
// record pointing at a TIF file (those never render in the quiz).
func RemoveURLs(records []types.Record, urls []string) (kept, removed []types.Record) {
	urlSet := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		urlSet[u] = struct{}{}
	}

	for _, rec := range records {
		url := rec.URL()
		lower := strings.ToLower(url)
		if _, listed := urlSet[url]; listed || strings.HasSuffix(lower, ".tif") || strings.HasSuffix(lower, ".tiff") {
			removed = append(removed, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	return kept, removed
}

// LoadURLList reads URLs from a text file, one per line. Empty lines,
// comments and section headers (anything not starting with http) are
// ignored.
func LoadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "http") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
