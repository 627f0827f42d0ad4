package types

import "fmt"

// HashKind names one of the fingerprint algorithms computed per image.
type HashKind string

const (
	PHash HashKind = "phash"
	AHash HashKind = "ahash"
	DHash HashKind = "dhash"
	WHash HashKind = "whash"
)

// HashKinds lists every kind in the order fingerprints are reported.
var HashKinds = []HashKind{PHash, AHash, DHash, WHash}

// Fingerprint holds the four 64-bit hashes computed for one decoded
// image. A fingerprint is immutable once computed and lives only for
// the duration of a detection run; it is never persisted as part of
// the painting record itself.
type Fingerprint struct {
	PHash uint64 `json:"phash"`
	AHash uint64 `json:"ahash"`
	DHash uint64 `json:"dhash"`
	WHash uint64 `json:"whash"`
}

// Get returns the hash bits for a kind.
func (f Fingerprint) Get(kind HashKind) (uint64, error) {
	switch kind {
	case PHash:
		return f.PHash, nil
	case AHash:
		return f.AHash, nil
	case DHash:
		return f.DHash, nil
	case WHash:
		return f.WHash, nil
	}
	return 0, fmt.Errorf("unknown hash kind: %s", kind)
}

// Hex returns the hash bits for a kind as a 16-digit hex string.
func (f Fingerprint) Hex(kind HashKind) (string, error) {
	bits, err := f.Get(kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", bits), nil
}

// PairDistances holds the per-kind Hamming distances that justified
// declaring two records similar.
type PairDistances struct {
	PHash int `json:"phash"`
	AHash int `json:"ahash"`
	DHash int `json:"dhash"`
}

// SimilarPair records one pairwise comparison that fell within the
// similarity threshold.
type SimilarPair struct {
	A         Record        `json:"a"`
	B         Record        `json:"b"`
	Distances PairDistances `json:"hamming_distances"`
}

// DuplicateGroup is a set of records judged to describe the same
// artwork, plus the evidence that justified grouping them. Groups are
// ephemeral: built during a detection pass, handed to the merger or a
// human reviewer, then discarded.
type DuplicateGroup struct {
	// BucketHash is the phash hex value used as the bucket key.
	BucketHash string        `json:"hash"`
	Members    []Record      `json:"members"`
	Pairs      []SimilarPair `json:"similar_pairs"`
}
