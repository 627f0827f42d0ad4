// Package fetcher downloads and decodes images for visual duplicate
// detection. Every failure — network, status, decode — is a soft
// failure for that one record; the caller excludes the record and
// moves on.
package fetcher

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/time/rate"

	// Decoders beyond the JPEG/PNG/GIF defaults imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Func fetches one URL and returns the decoded image. It exists so the
// detector can be driven by a fake in tests.
type Func func(ctx context.Context, url string) (image.Image, error)

// maxImageBytes caps how much of a response is read. Paintings over
// 50 MB are scans that should have been filtered upstream.
const maxImageBytes = 50 << 20

// Fetcher downloads images over HTTP with a fixed inter-request delay
// so third-party image hosts are not hammered. The delay is a rate
// limit, not a concurrency primitive.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a fetcher with the given per-request timeout and
// inter-request delay. A zero delay disables pacing.
func New(timeout, delay time.Duration) *Fetcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Fetch downloads and decodes the image at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %s", url, resp.Status)
	}

	img, err := imaging.Decode(http.MaxBytesReader(nil, resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}
