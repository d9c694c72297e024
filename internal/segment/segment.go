package segment

import (
	"image"
	"image/color"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
)

// DefaultMargin is the padding added around every band.
const DefaultMargin = 5

// Mode selects how the column strip is cut into bands.
type Mode string

const (
	// ModeGaps cuts at blank scan lines.
	ModeGaps Mode = "gaps"
	// ModeCells cuts at equal cell pitch.
	ModeCells Mode = "cells"
)

// ParseMode validates a configured segmentation mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeGaps, ModeCells:
		return Mode(s), true
	}
	return "", false
}

// Band is the image of one row's or one column's clues.
type Band struct {
	// Index is the band's position in scan order, starting at 0.
	Index int

	Orientation domain.Orientation

	// Bounds is the unpadded band region in strip coordinates.
	Bounds image.Rectangle

	// Margin is the padding width around both images.
	Margin int

	// Mask is the padded binary band: ink 255, background and padding 0.
	Mask *image.Gray

	// Color is the padded full-colour band, aligned pixel for pixel with
	// Mask; the padding is black.
	Color *image.NRGBA
}

// Segment splits a clue strip into bands separated by blank scan lines.
//
// Parameters:
//   - mask: Binarized strip (ink > 127).
//   - colour: Full-colour strip with the same bounds as mask.
//   - o: Row scans horizontal lines top to bottom; Column scans vertical
//     lines left to right.
//   - margin: Padding added on every side of each band.
//
// Returns the bands in scan order. Every band spans the whole strip across
// the scan axis. A blank strip yields no bands.
func Segment(mask *image.Gray, colour image.Image, o domain.Orientation, margin int) []Band {
	sums := imaging.LineSums(mask, o == domain.Row)
	b := mask.Bounds()

	var bands []Band
	start := -1
	for i := 0; i <= len(sums); i++ {
		blank := i == len(sums) || sums[i] == 0
		if !blank && start < 0 {
			start = i
			continue
		}
		if blank && start >= 0 {
			bands = append(bands, cut(mask, colour, o, spanRect(b, o, start, i), len(bands), margin))
			start = -1
		}
	}
	return bands
}

// SplitCells cuts a strip into side bands of equal pitch, one per board row
// or column, whether or not a slice holds any ink.
//
// Two-digit column clues print their digits side by side with a visible gap;
// cutting at cell pitch keeps both digits in the same band where blank-line
// segmentation would split them.
func SplitCells(mask *image.Gray, colour image.Image, o domain.Orientation, side, margin int) []Band {
	if side < 1 {
		return nil
	}
	b := mask.Bounds()
	length := b.Dy()
	if o == domain.Column {
		length = b.Dx()
	}

	bands := make([]Band, 0, side)
	for i := 0; i < side; i++ {
		from := i * length / side
		to := (i + 1) * length / side
		bands = append(bands, cut(mask, colour, o, spanRect(b, o, from, to), i, margin))
	}
	return bands
}

// IsBlank reports whether the band holds no ink.
func (b Band) IsBlank() bool {
	for _, v := range b.Mask.Pix {
		if v > 127 {
			return false
		}
	}
	return true
}

// spanRect converts a [from,to) range of scan lines into a strip rectangle.
func spanRect(b image.Rectangle, o domain.Orientation, from, to int) image.Rectangle {
	if o == domain.Row {
		return image.Rect(b.Min.X, b.Min.Y+from, b.Max.X, b.Min.Y+to)
	}
	return image.Rect(b.Min.X+from, b.Min.Y, b.Min.X+to, b.Max.Y)
}

func cut(mask *image.Gray, colour image.Image, o domain.Orientation, r image.Rectangle, index, margin int) Band {
	return Band{
		Index:       index,
		Orientation: o,
		Bounds:      r,
		Margin:      margin,
		Mask:        imaging.CropMaskPadded(mask, r, margin),
		Color:       imaging.CropPadded(colour, r, margin, color.Black),
	}
}
