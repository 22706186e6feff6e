// Package screenshot normalizes raw page captures (component D/I/the
// screenshot action all call browser.Page.Screenshot, which returns
// whatever the driver hands back, typically PNG) into a bounded-size
// JPEG suitable for sending to a vision model or over the WebSocket
// stream. Grounded on the pack's image-processing idiom of decoding
// with the standard library's image codecs and resizing with
// golang.org/x/image/draw rather than hand-rolling a scaler.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registers the "png" format with image.Decode

	"golang.org/x/image/draw"
)

// MaxDimension bounds the longest edge of a normalized screenshot.
// Vision model payloads and WebSocket frames both pay for every pixel
// sent; a captured viewport rarely needs to exceed this to remain
// legible to the intervention detector or element locator.
const MaxDimension = 1280

// JPEGQuality is the re-encode quality passed to image/jpeg. 85 keeps
// UI text and form chrome readable without ballooning frame size.
const JPEGQuality = 85

// Normalize decodes raw (typically PNG) screenshot bytes, downscales
// them to fit within MaxDimension on their longest edge if needed, and
// re-encodes the result as JPEG. It returns the input format name
// decoded (e.g. "png") alongside the normalized bytes for callers that
// want to log it.
func Normalize(raw []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("screenshot: decode: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, "", fmt.Errorf("screenshot: encode: %w", err)
	}
	return buf.Bytes(), format, nil
}

// downscale returns img unchanged if both dimensions are already
// within max, otherwise a scaled copy whose longest edge equals max.
func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
