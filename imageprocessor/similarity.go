package imageprocessor

import (
	"math/bits"

	"kunstquiz/types"
)

// HammingDistance counts differing bits between two 64-bit hashes.
// It is symmetric, and zero for identical hashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Distance compares two fingerprints on one hash kind. Comparing
// different kinds is meaningless, so the kind is fixed by the caller
// and unknown kinds are an error.
func Distance(a, b types.Fingerprint, kind types.HashKind) (int, error) {
	ha, err := a.Get(kind)
	if err != nil {
		return 0, err
	}
	hb, err := b.Get(kind)
	if err != nil {
		return 0, err
	}
	return HammingDistance(ha, hb), nil
}

// Comparator decides whether two fingerprints are similar against a
// configured threshold.
type Comparator struct {
	// Threshold is the maximum Hamming distance (0-64) at which two
	// hashes of the same kind still count as similar.
	Threshold int
}

// Compare returns the per-kind distances between two fingerprints.
func (c Comparator) Compare(a, b types.Fingerprint) types.PairDistances {
	return types.PairDistances{
		PHash: HammingDistance(a.PHash, b.PHash),
		AHash: HammingDistance(a.AHash, b.AHash),
		DHash: HammingDistance(a.DHash, b.DHash),
	}
}

// Similar reports whether any of the phash, ahash or dhash distances
// falls within the threshold. The OR policy is deliberate: each hash
// kind catches a different transform class, and requiring agreement
// on all three would miss true duplicates only one kind sees.
func (c Comparator) Similar(a, b types.Fingerprint) (bool, types.PairDistances) {
	d := c.Compare(a, b)
	similar := d.PHash <= c.Threshold || d.AHash <= c.Threshold || d.DHash <= c.Threshold
	return similar, d
}
