// Package imageprocessor computes perceptual fingerprints for decoded
// images and compares them by Hamming distance. Each of the four hash
// kinds is sensitive to a different transform class (crop, rescale,
// recompression), which is why similarity checks consult several of
// them rather than requiring agreement on one.
package imageprocessor

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"kunstquiz/types"
)

// ComputeFingerprint calculates all four hashes for a decoded image.
func ComputeFingerprint(img image.Image) (types.Fingerprint, error) {
	var fp types.Fingerprint

	phash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return fp, fmt.Errorf("compute phash: %w", err)
	}
	ahash, err := goimagehash.AverageHash(img)
	if err != nil {
		return fp, fmt.Errorf("compute ahash: %w", err)
	}
	dhash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return fp, fmt.Errorf("compute dhash: %w", err)
	}
	whash, err := ComputeWaveletHash(img)
	if err != nil {
		return fp, fmt.Errorf("compute whash: %w", err)
	}

	fp.PHash = phash.GetHash()
	fp.AHash = ahash.GetHash()
	fp.DHash = dhash.GetHash()
	fp.WHash = whash
	return fp, nil
}
