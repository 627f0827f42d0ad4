package dedup

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"kunstquiz/types"
)

// Quality filtering is lexicon-driven like the self-portrait check:
// each issue is a table of patterns or indicator substrings behind a
// small predicate, so new rules are data edits rather than new logic.

var dimensionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`_(\d+)x(\d+)\.`),
	regexp.MustCompile(`-(\d+)x(\d+)\.`),
	regexp.MustCompile(`_(\d+)×(\d+)\.`),
	regexp.MustCompile(`-(\d+)×(\d+)\.`),
	regexp.MustCompile(`(\d+)x(\d+)\.`),
	regexp.MustCompile(`(\d+)×(\d+)\.`),
}

var titleDimensionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*×\s*(\d+);`),
	regexp.MustCompile(`(\d+)\s*x\s*(\d+);`),
	regexp.MustCompile(`(\d+)\s*×\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*x\s*(\d+)`),
}

// catalogPatterns match museum catalog and inventory codes that show
// up as titles when a scrape picked up an archival page.
var catalogPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)NMK\.[A-Z]\d+`),
	regexp.MustCompile(`(?i)NG\.[A-Z]\d+`),
	regexp.MustCompile(`(?i)IN\.\d+`),
	regexp.MustCompile(`(?i)Cat\.\d+`),
	regexp.MustCompile(`(?i)Inv\.\d+`),
}

var photoIndicators = []string{
	"photograph", "photo", "fotografi", "foto",
	"digital", "scan", "scanned", "digitized",
	"camera", "lens", "aperture", "shutter",
}

var sketchIndicators = []string{
	"sketch", "drawing", "illustration", "skisse", "tegning",
	"pencil", "charcoal", "ink", "pen", "crayon",
	"watercolor", "watercolour", "gouache",
}

var thumbPixelPattern = regexp.MustCompile(`/\d+px-`)

// ExtractDimensions pulls image dimensions out of a Wikimedia Commons
// style URL, falling back to the title ("400 × 257; 53 KB"). Returns
// (0, 0) when no dimensions are found.
func ExtractDimensions(url, title string) (width, height int) {
	filename := path.Base(url)
	for _, re := range dimensionPatterns {
		if m := re.FindStringSubmatch(filename); m != nil {
			return atoiPair(m[1], m[2])
		}
	}
	if title != "" {
		for _, re := range titleDimensionPatterns {
			if m := re.FindStringSubmatch(title); m != nil {
				return atoiPair(m[1], m[2])
			}
		}
	}
	return 0, 0
}

func atoiPair(a, b string) (int, int) {
	w, _ := strconv.Atoi(a)
	h, _ := strconv.Atoi(b)
	return w, h
}

// isThumbnail reports whether the URL points at a Wikimedia thumbnail
// or low-res preview rather than the full image.
func isThumbnail(url string) bool {
	return strings.Contains(url, "/thumb/") && thumbPixelPattern.MatchString(url)
}

func hasCatalogCode(url, title string) bool {
	for _, re := range catalogPatterns {
		if re.MatchString(url) || re.MatchString(title) {
			return true
		}
	}
	return false
}

func containsAny(text string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}

// AnalyzeQuality returns the list of quality issues found for one
// record. An empty list means the record passes the filter.
func AnalyzeQuality(rec types.Record, minWidth, minHeight int) []string {
	url := rec.URL()
	title := rec.Title()
	combined := strings.ToLower(url + " " + title)

	var issues []string
	if isThumbnail(url) {
		issues = append(issues, "thumbnail/low-res preview")
	}
	if hasCatalogCode(url, title) {
		issues = append(issues, "museum catalog code")
	}
	if containsAny(combined, photoIndicators) {
		issues = append(issues, "modern photograph")
	}
	if containsAny(combined, sketchIndicators) {
		issues = append(issues, "illustration/sketch")
	}
	if w, h := ExtractDimensions(url, title); w > 0 && h > 0 {
		if w < minWidth || h < minHeight {
			issues = append(issues, "small dimensions ("+strconv.Itoa(w)+"x"+strconv.Itoa(h)+")")
		}
	}
	return issues
}

// QualityRemoval pairs a removed record with the issues that removed it.
type QualityRemoval struct {
	Record types.Record
	Issues []string
}

// FilterQuality removes records that fail any quality check.
func FilterQuality(records []types.Record, minWidth, minHeight int) (kept []types.Record, removed []QualityRemoval) {
	for _, rec := range records {
		issues := AnalyzeQuality(rec, minWidth, minHeight)
		if len(issues) > 0 {
			removed = append(removed, QualityRemoval{Record: rec, Issues: issues})
		} else {
			kept = append(kept, rec)
		}
	}
	return kept, removed
}
