package detector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstquiz/types"
)

// fakeBatch wires a detector whose fetch and hash steps are driven by
// a url -> fingerprint table, so tests control every distance exactly.
func fakeBatch(t *testing.T, fingerprints map[string]types.Fingerprint) *Detector {
	t.Helper()

	// The fake fetch encodes the record's position in the image width
	// so the fake hasher can look its fingerprint back up.
	urls := make([]string, 0, len(fingerprints))
	index := make(map[string]int)
	for url := range fingerprints {
		index[url] = len(urls)
		urls = append(urls, url)
	}

	fetch := func(ctx context.Context, url string) (image.Image, error) {
		i, ok := index[url]
		if !ok {
			return nil, errors.New("host unreachable")
		}
		return image.NewNRGBA(image.Rect(0, 0, i+1, 1)), nil
	}

	d := New(fetch, nil, nil)
	d.hasher = func(img image.Image) (types.Fingerprint, error) {
		return fingerprints[urls[img.Bounds().Dx()-1]], nil
	}
	return d
}

func urlRecord(i int, url string) types.Record {
	return types.Record{
		"artist": fmt.Sprintf("artist-%d", i),
		"title":  fmt.Sprintf("title-%d", i),
		"url":    url,
	}
}

func TestFindVisualDuplicatesPairWithinThreshold(t *testing.T) {
	// phash distance 3 with threshold 5: one group.
	d := fakeBatch(t, map[string]types.Fingerprint{
		"http://x/a.jpg": {PHash: 0b000, AHash: 0xf0f0f0f0f0f0f0f0, DHash: 0xf0f0f0f0f0f0f0f0},
		"http://x/b.jpg": {PHash: 0b111, AHash: 0x0f0f0f0f0f0f0f0f, DHash: 0x0f0f0f0f0f0f0f0f},
	})
	records := []types.Record{
		urlRecord(0, "http://x/a.jpg"),
		urlRecord(1, "http://x/b.jpg"),
	}

	groups, failed, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 5})
	require.NoError(t, err)
	assert.Empty(t, failed)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
	require.Len(t, groups[0].Pairs, 1)
	assert.Equal(t, 3, groups[0].Pairs[0].Distances.PHash)
}

func TestFindVisualDuplicatesDistantPairIgnored(t *testing.T) {
	// Distance 20 on every hash kind: no group.
	d := fakeBatch(t, map[string]types.Fingerprint{
		"http://x/a.jpg": {PHash: 0xfffff, AHash: 0xfffff, DHash: 0xfffff},
		"http://x/b.jpg": {},
	})
	records := []types.Record{
		urlRecord(0, "http://x/a.jpg"),
		urlRecord(1, "http://x/b.jpg"),
	}

	groups, failed, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 5})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Empty(t, groups)
}

func TestFindVisualDuplicatesTransitiveClosure(t *testing.T) {
	// A~B (2 bits) and B~C (3 bits) but A and C are 5 bits apart with
	// threshold 3, so A and C are never directly similar. They still
	// land in one group through B.
	d := fakeBatch(t, map[string]types.Fingerprint{
		"http://x/a.jpg": {PHash: 0x00, AHash: 0xffffffff00000000, DHash: 0xffffffff00000000},
		"http://x/b.jpg": {PHash: 0x03, AHash: 0x00000000ffffffff, DHash: 0x00000000ffffffff},
		"http://x/c.jpg": {PHash: 0x1f, AHash: 0xffff0000ffff0000, DHash: 0xffff0000ffff0000},
	})
	records := []types.Record{
		urlRecord(0, "http://x/a.jpg"),
		urlRecord(1, "http://x/b.jpg"),
		urlRecord(2, "http://x/c.jpg"),
	}

	groups, _, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 3})
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 3)
	// Only the two directly similar pairs are recorded as evidence.
	assert.Len(t, groups[0].Pairs, 2)
}

func TestFindVisualDuplicatesFetchFailureIsSoft(t *testing.T) {
	d := fakeBatch(t, map[string]types.Fingerprint{
		"http://x/a.jpg": {PHash: 0b01},
		"http://x/b.jpg": {PHash: 0b10},
	})
	records := []types.Record{
		urlRecord(0, "http://x/a.jpg"),
		urlRecord(1, "http://x/unreachable.jpg"),
		urlRecord(2, "http://x/b.jpg"),
	}

	groups, failed, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 5})
	require.NoError(t, err)

	require.Len(t, failed, 1)
	assert.Equal(t, "http://x/unreachable.jpg", failed[0].URL())
	// The reachable pair is still compared and grouped.
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}

func TestFindVisualDuplicatesSkipsEmptyURLs(t *testing.T) {
	d := fakeBatch(t, map[string]types.Fingerprint{})
	records := []types.Record{
		{"artist": "a", "title": "t", "url": ""},
	}

	groups, failed, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 5})
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Empty(t, failed)
}

func TestFindVisualDuplicatesMaxRecordsCap(t *testing.T) {
	d := fakeBatch(t, map[string]types.Fingerprint{
		"http://x/a.jpg": {PHash: 0b01},
		"http://x/b.jpg": {PHash: 0b01},
	})
	records := []types.Record{
		urlRecord(0, "http://x/a.jpg"),
		urlRecord(1, "http://x/b.jpg"),
	}

	// Cap of 1 means the second record is never fetched, so no pair
	// exists to group.
	groups, failed, err := d.FindVisualDuplicates(context.Background(), records, Options{Threshold: 5, MaxRecords: 1})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Empty(t, groups)
}

func TestFindVisualDuplicatesRejectsBadThreshold(t *testing.T) {
	d := fakeBatch(t, nil)

	_, _, err := d.FindVisualDuplicates(context.Background(), nil, Options{Threshold: -1})
	assert.Error(t, err)

	_, _, err = d.FindVisualDuplicates(context.Background(), nil, Options{Threshold: 65})
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	groups := []types.DuplicateGroup{
		{
			BucketHash: "0000000000000003",
			Members: []types.Record{
				urlRecord(0, "http://x/a.jpg"),
				urlRecord(1, "http://x/b.jpg"),
			},
			Pairs: []types.SimilarPair{
				{
					A:         urlRecord(0, "http://x/a.jpg"),
					B:         urlRecord(1, "http://x/b.jpg"),
					Distances: types.PairDistances{PHash: 3, AHash: 10, DHash: 12},
				},
			},
		},
	}
	failed := []types.Record{urlRecord(2, "http://x/dead.jpg")}

	report := BuildReport(groups, failed, 2, 5)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 5, report.Threshold)
	assert.Equal(t, 2, report.Compared)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, 1, report.TotalGroups)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "0000000000000003", report.Groups[0].Hash)
	require.Len(t, report.Groups[0].Pairs, 1)
	assert.Equal(t, 3, report.Groups[0].Pairs[0].Distances.PHash)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "http://x/dead.jpg", report.Failed[0].URL)
}
