// Package artwork derives a single representative color from album art,
// used to tint the notification embed. Extraction is best effort: any
// failure falls back to a fixed brand color.
package artwork

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	log "github.com/sirupsen/logrus"
)

// FallbackColor is Spotify brand green, used whenever extraction fails.
const FallbackColor = 0x1DB954

const (
	// paletteSize is the number of swatches the pixels are quantized into.
	paletteSize = 4
	// sampleStride skips pixels in both dimensions; album art is large and
	// the dominant swatch survives heavy downsampling.
	sampleStride = 4
)

type Extractor struct {
	httpClient *http.Client
}

func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DominantColor fetches the image and returns its most representative RGB
// color packed as a 24-bit integer. It never fails: every error path logs
// a warning and returns FallbackColor.
func (e *Extractor) DominantColor(ctx context.Context, imageURL string) int {
	color, err := e.extract(ctx, imageURL)
	if err != nil {
		log.Warnf("Failed to extract dominant color from album art: %v", err)
		return FallbackColor
	}
	return color
}

func (e *Extractor) extract(ctx context.Context, imageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching album art: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("album art fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("decoding album art: %w", err)
	}

	return dominant(img)
}

// dominant quantizes the sampled pixels into a small palette with k-means
// and returns the centroid of the most populated cluster.
func dominant(img image.Image) (int, error) {
	bounds := img.Bounds()

	var obs clusters.Observations
	for y := bounds.Min.Y; y < bounds.Max.Y; y += sampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += sampleStride {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			})
		}
	}
	if len(obs) == 0 {
		return 0, fmt.Errorf("image has no opaque pixels")
	}

	k := paletteSize
	if len(obs) < k {
		k = 1
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return 0, fmt.Errorf("clustering pixels: %w", err)
	}
	if len(result) == 0 {
		return 0, fmt.Errorf("clustering produced no swatches")
	}

	best := result[0]
	for _, c := range result[1:] {
		if len(c.Observations) > len(best.Observations) {
			best = c
		}
	}
	if len(best.Center) < 3 {
		return 0, fmt.Errorf("unexpected centroid size %d", len(best.Center))
	}

	r := channel(best.Center[0])
	g := channel(best.Center[1])
	b := channel(best.Center[2])
	return r<<16 | g<<8 | b, nil
}

func channel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}
