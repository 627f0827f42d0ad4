// Package detector finds clusters of visually identical paintings
// that slipped past exact-key deduplication because their URLs or
// titles differ. Detection is advisory: it produces a report for a
// human reviewer and never deletes records itself.
package detector

import (
	"context"
	"database/sql"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"kunstquiz/database"
	"kunstquiz/fetcher"
	"kunstquiz/imageprocessor"
	"kunstquiz/types"
)

// Options controls one detection run.
type Options struct {
	// Threshold is the maximum Hamming distance (0-64) at which two
	// hashes of the same kind still count as similar.
	Threshold int

	// MaxRecords caps how many records are fetched and hashed.
	// Zero means no cap.
	MaxRecords int
}

// Detector orchestrates fetch, hash, bucket and grouping over a batch
// of records.
type Detector struct {
	fetch  fetcher.Func
	cache  *sql.DB
	logger *slog.Logger

	// hasher is replaceable so tests can pin fingerprints without
	// exercising real hashing.
	hasher func(image.Image) (types.Fingerprint, error)
}

// New creates a detector. cache may be nil to disable the fingerprint
// cache.
func New(fetch fetcher.Func, cache *sql.DB, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		fetch:  fetch,
		cache:  cache,
		logger: logger,
		hasher: imageprocessor.ComputeFingerprint,
	}
}

// entry is one record that was successfully fingerprinted.
type entry struct {
	record types.Record
	fp     types.Fingerprint
}

// FindVisualDuplicates fetches and fingerprints every record with a
// non-empty url, buckets the fingerprints by phash, compares pairs in
// identical or adjacent buckets, and unions similar pairs into
// duplicate groups. Records that cannot be fetched or decoded go to
// the failed list and never abort the batch.
func (d *Detector) FindVisualDuplicates(ctx context.Context, records []types.Record, opts Options) (groups []types.DuplicateGroup, failed []types.Record, err error) {
	if opts.Threshold < 0 || opts.Threshold > 64 {
		return nil, nil, fmt.Errorf("hash threshold %d out of range 0-64", opts.Threshold)
	}
	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}

	entries, failed, err := d.fingerprintAll(ctx, records)
	if err != nil {
		return nil, nil, err
	}

	groups = d.group(entries, opts.Threshold)
	return groups, failed, nil
}

// fingerprintAll resolves a fingerprint for every record with a url,
// consulting the cache before fetching.
func (d *Detector) fingerprintAll(ctx context.Context, records []types.Record) ([]entry, []types.Record, error) {
	var entries []entry
	var failed []types.Record

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		url := rec.URL()
		if url == "" {
			continue
		}

		fp, ok, err := d.cachedFingerprint(url)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			img, err := d.fetch(ctx, url)
			if err != nil {
				d.logger.Debug("fetch failed", "url", url, "error", err)
				failed = append(failed, rec)
				continue
			}
			fp, err = d.hasher(img)
			if err != nil {
				d.logger.Debug("hashing failed", "url", url, "error", err)
				failed = append(failed, rec)
				continue
			}
			d.storeFingerprint(url, fp)
		}

		entries = append(entries, entry{record: rec, fp: fp})
	}
	return entries, failed, nil
}

func (d *Detector) cachedFingerprint(url string) (types.Fingerprint, bool, error) {
	if d.cache == nil {
		return types.Fingerprint{}, false, nil
	}
	return database.LookupFingerprint(d.cache, url)
}

func (d *Detector) storeFingerprint(url string, fp types.Fingerprint) {
	if d.cache == nil {
		return
	}
	if err := database.StoreFingerprint(d.cache, url, fp); err != nil {
		// Cache trouble degrades performance, not correctness.
		d.logger.Warn("fingerprint cache write failed", "url", url, "error", err)
	}
}

// group buckets entries by phash and compares pairs within identical
// or adjacent buckets (bucket keys within the threshold of each
// other). Entries in singleton buckets with no adjacent bucket are
// never compared. Similar pairs are unioned into transitive groups.
func (d *Detector) group(entries []entry, threshold int) []types.DuplicateGroup {
	buckets := make(map[uint64][]int)
	var keys []uint64
	for i, e := range entries {
		if _, seen := buckets[e.fp.PHash]; !seen {
			keys = append(keys, e.fp.PHash)
		}
		buckets[e.fp.PHash] = append(buckets[e.fp.PHash], i)
	}

	comparator := imageprocessor.Comparator{Threshold: threshold}
	uf := newUnionFind(len(entries))
	var pairs []indexedPair

	compare := func(i, j int) {
		similar, distances := comparator.Similar(entries[i].fp, entries[j].fp)
		if !similar {
			return
		}
		uf.union(i, j)
		pairs = append(pairs, indexedPair{a: i, b: j, distances: distances})
	}

	// Within a bucket every pair is compared; across buckets only
	// when the bucket keys themselves are within the threshold.
	for ki, ka := range keys {
		members := buckets[ka]
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				compare(members[x], members[y])
			}
		}
		for _, kb := range keys[ki+1:] {
			if imageprocessor.HammingDistance(ka, kb) > threshold {
				continue
			}
			for _, i := range members {
				for _, j := range buckets[kb] {
					compare(i, j)
				}
			}
		}
	}

	return buildGroups(entries, uf, pairs)
}

type indexedPair struct {
	a, b      int
	distances types.PairDistances
}

// buildGroups materializes duplicate groups from union-find roots.
// Groups and their members come out in first-occurrence order so runs
// are deterministic regardless of bucket iteration order.
func buildGroups(entries []entry, uf *unionFind, pairs []indexedPair) []types.DuplicateGroup {
	memberIdx := make(map[int][]int)
	for i := range entries {
		root := uf.find(i)
		memberIdx[root] = append(memberIdx[root], i)
	}
	pairsByRoot := make(map[int][]indexedPair)
	for _, p := range pairs {
		root := uf.find(p.a)
		pairsByRoot[root] = append(pairsByRoot[root], p)
	}

	var roots []int
	for root, members := range memberIdx {
		if len(members) >= 2 {
			roots = append(roots, root)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return memberIdx[roots[i]][0] < memberIdx[roots[j]][0]
	})

	groups := make([]types.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		members := memberIdx[root]
		sort.Ints(members)

		group := types.DuplicateGroup{
			BucketHash: fmt.Sprintf("%016x", entries[members[0]].fp.PHash),
		}
		for _, i := range members {
			group.Members = append(group.Members, entries[i].record)
		}
		groupPairs := pairsByRoot[root]
		sort.Slice(groupPairs, func(x, y int) bool {
			if groupPairs[x].a != groupPairs[y].a {
				return groupPairs[x].a < groupPairs[y].a
			}
			return groupPairs[x].b < groupPairs[y].b
		})
		for _, p := range groupPairs {
			group.Pairs = append(group.Pairs, types.SimilarPair{
				A:         entries[p.a].record,
				B:         entries[p.b].record,
				Distances: p.distances,
			})
		}
		groups = append(groups, group)
	}
	return groups
}
