package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropRegion extracts a rectangular region from an image into a zero-origin copy.
//
// The region must lie inside the image bounds and have a positive area.
func CropRegion(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, r), nil
}

// CropPadded crops r out of img and surrounds it with margin pixels of fill.
//
// Parameters:
//   - img: Source image.
//   - r: Region to copy; it is clipped to the image bounds.
//   - margin: Border width in pixels added on every side.
//   - fill: Colour of the border.
//
// Returns a zero-origin image of size (r.Dx()+2*margin) x (r.Dy()+2*margin).
//
// The recognition engine reads isolated glyphs far more reliably when they
// do not touch the image edge, so every clue band is padded this way.
func CropPadded(img image.Image, r image.Rectangle, margin int, fill color.Color) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	canvas := imaging.New(r.Dx()+2*margin, r.Dy()+2*margin, fill)
	if r.Empty() {
		return canvas
	}
	return imaging.Paste(canvas, imaging.Crop(img, r), image.Pt(margin, margin))
}

// CropMaskPadded is CropPadded for binary masks: the border is background and
// the result is again a 0/255 mask.
func CropMaskPadded(mask *image.Gray, r image.Rectangle, margin int) *image.Gray {
	return toMask(CropPadded(mask, r, margin, color.Black))
}

// EncodePNGBase64 encodes img as a base64 PNG for transport in JSON results.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
