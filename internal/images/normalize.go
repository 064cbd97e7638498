// Package images normalizes recipe photos for embedding: bounded width,
// flattened color, consistent JPEG encoding. Normalization is best-effort —
// it never fails a record, it only falls back to the original bytes.
package images

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"math"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth is the widest an embedded image may be, in pixels.
	DefaultMaxWidth = 600

	// DefaultQuality is the JPEG re-encode quality.
	DefaultQuality = 70
)

// Normalizer resizes and re-encodes image bytes.
type Normalizer struct {
	maxWidth int
	quality  int
	logger   *slog.Logger
}

// NewNormalizer creates a Normalizer. Non-positive maxWidth or quality fall
// back to the defaults.
func NewNormalizer(maxWidth, quality int, logger *slog.Logger) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		maxWidth: maxWidth,
		quality:  quality,
		logger:   logger.With("component", "images"),
	}
}

// Normalize decodes, downscales, and re-encodes the image. On any failure
// the original bytes come back unchanged; the caller cannot distinguish the
// two cases and does not need to.
func (n *Normalizer) Normalize(data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		n.logger.Debug("image decode failed, keeping original", "error", err)
		return data
	}

	rgb := flatten(img)

	bounds := rgb.Bounds()
	if w := bounds.Dx(); w > n.maxWidth {
		h := int(math.Round(float64(bounds.Dy()) * float64(n.maxWidth) / float64(w)))
		scaled := image.NewRGBA(image.Rect(0, 0, n.maxWidth, h))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), rgb, bounds, xdraw.Over, nil)
		rgb = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: n.quality}); err != nil {
		n.logger.Debug("jpeg encode failed, keeping original", "format", format, "error", err)
		return data
	}
	return buf.Bytes()
}

// flatten composites the image over a white background, discarding alpha
// and palette channels. JPEG has no transparency; without this, transparent
// PNG regions would come out black.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
