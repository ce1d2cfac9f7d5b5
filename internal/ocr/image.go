package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// maxImageHeight bounds the pre-OCR resize; taller images are scaled down
// preserving aspect ratio, smaller ones are left alone.
const maxImageHeight = 2000

// normalizeImage prepares a raster image for recognition: bounded-height
// resize, contrast stretch, sharpening, and greyscale conversion. Returns
// PNG-encoded bytes. Errors here are non-fatal for the caller, which falls
// back to the original bytes.
func normalizeImage(buffer []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dy() > maxImageHeight {
		img = imaging.Resize(img, 0, maxImageHeight, imaging.Lanczos)
	}
	img = imaging.AdjustContrast(img, 15)
	img = imaging.Sharpen(img, 1.0)
	img = imaging.Grayscale(img)

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}
