package imageprocessor

import (
	"errors"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// waveletSize is the side of the grayscale working image. Three Haar
// decomposition levels reduce it to the 8x8 approximation band that
// yields a 64-bit hash, matching the other hash kinds.
const (
	waveletSize   = 64
	waveletLevels = 3
)

// ComputeWaveletHash calculates a Haar-wavelet perceptual hash.
// goimagehash declares the whash kind but ships no implementation, so
// this one follows the usual recipe: scale down, grayscale, decompose
// with the Haar transform, and threshold the low-frequency band
// against its median.
func ComputeWaveletHash(img image.Image) (uint64, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, errors.New("cannot compute hash for empty image")
	}

	gray := imaging.Grayscale(imaging.Resize(img, waveletSize, waveletSize, imaging.Lanczos))

	// Luminance plane as float64. After Grayscale R==G==B.
	plane := make([][]float64, waveletSize)
	for y := 0; y < waveletSize; y++ {
		row := make([]float64, waveletSize)
		for x := 0; x < waveletSize; x++ {
			row[x] = float64(gray.NRGBAAt(x, y).R)
		}
		plane[y] = row
	}

	// Each level halves the approximation band.
	size := waveletSize
	for level := 0; level < waveletLevels; level++ {
		haarStep(plane, size)
		size /= 2
	}

	// Threshold the 8x8 approximation band against its median.
	coefs := make([]float64, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			coefs = append(coefs, plane[y][x])
		}
	}
	median := medianOf(coefs)

	var hash uint64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			hash <<= 1
			if plane[y][x] > median {
				hash |= 1
			}
		}
	}
	return hash, nil
}

// haarStep applies one level of the 2D Haar transform in place over
// the top-left n x n region, leaving the approximation band in the
// top-left quadrant.
func haarStep(plane [][]float64, n int) {
	half := n / 2
	tmp := make([]float64, n)

	// Rows.
	for y := 0; y < n; y++ {
		for x := 0; x < half; x++ {
			a, b := plane[y][2*x], plane[y][2*x+1]
			tmp[x] = (a + b) / 2
			tmp[half+x] = (a - b) / 2
		}
		copy(plane[y][:n], tmp)
	}

	// Columns.
	for x := 0; x < n; x++ {
		for y := 0; y < half; y++ {
			a, b := plane[2*y][x], plane[2*y+1][x]
			tmp[y] = (a + b) / 2
			tmp[half+y] = (a - b) / 2
		}
		for y := 0; y < n; y++ {
			plane[y][x] = tmp[y]
		}
	}
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
