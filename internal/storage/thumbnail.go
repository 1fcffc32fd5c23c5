package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Register decoders for the accepted image formats.
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// makeThumbnail decodes an image and returns a JPEG thumbnail that fits
// within a maxDim x maxDim bounding box, preserving aspect ratio. Images
// already within the box are re-encoded without scaling so every stored
// image gets a consistent JPEG thumbnail.
func makeThumbnail(data []byte, maxDim int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	dst := src
	if w > maxDim || h > maxDim {
		// Calculate new dimensions maintaining aspect ratio.
		newW, newH := maxDim, maxDim
		if w > h {
			newH = h * maxDim / w
		} else {
			newW = w * maxDim / h
		}
		if newW < 1 {
			newW = 1
		}
		if newH < 1 {
			newH = 1
		}

		// Resize using Catmull-Rom interpolation.
		scaled := image.NewRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
