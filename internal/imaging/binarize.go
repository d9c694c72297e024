package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Channel selects the source plane for BinarizeChannel.
type Channel int

const (
	// Luma thresholds the perceptual brightness of each pixel.
	Luma Channel = iota
	Red
	Green
	Blue
)

// ParseChannel maps a config name ("luma", "red", "green", "blue") to a Channel.
func ParseChannel(name string) (Channel, bool) {
	switch name {
	case "luma", "gray", "grey", "":
		return Luma, true
	case "red":
		return Red, true
	case "green":
		return Green, true
	case "blue":
		return Blue, true
	}
	return Luma, false
}

// Binarize converts img into a mask where pixels brighter than level become
// ink (255) and everything else background (0).
//
// The comparison is strict, so level=180 keeps values 181..255. This mirrors
// the fixed binary threshold the puzzle UI was calibrated against.
func Binarize(img image.Image, level uint8) *image.Gray {
	if level == 255 {
		return image.NewGray(zeroRect(img))
	}
	return normalizeGray(segment.Threshold(img, level+1))
}

// BinarizeChannel thresholds a single colour plane of img.
//
// The clue strips are thresholded on the green plane: both white and yellow
// numerals carry a strong green component, while the dark UI background and
// the coloured cell borders do not.
func BinarizeChannel(img image.Image, ch Channel, level uint8) *image.Gray {
	var plane image.Image
	switch ch {
	case Red:
		plane = channel.Extract(img, channel.Red)
	case Green:
		plane = channel.Extract(img, channel.Green)
	case Blue:
		plane = channel.Extract(img, channel.Blue)
	default:
		plane = img
	}
	return Binarize(plane, level)
}

// Dilate grows the ink of a mask by one pixel in every direction.
//
// Thin glyph strokes are often dropped by the recognition engine; a single
// dilation step makes them legible without merging neighbouring glyphs.
func Dilate(mask *image.Gray) *image.Gray {
	return toMask(effect.Dilate(mask, 1))
}

// Invert swaps ink and background of a mask.
func Invert(mask *image.Gray) *image.Gray {
	return toMask(effect.Invert(mask))
}

// Ink reports whether the mask pixel at (x,y) is set. Out-of-bounds
// coordinates are background.
func Ink(mask *image.Gray, x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(mask.Rect)) {
		return false
	}
	return mask.GrayAt(x, y).Y > 127
}

// LineSums returns the number of ink pixels on every row (horizontal=true)
// or every column of the mask.
func LineSums(mask *image.Gray, horizontal bool) []int {
	b := mask.Bounds()
	var sums []int
	if horizontal {
		sums = make([]int, b.Dy())
	} else {
		sums = make([]int, b.Dx())
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y <= 127 {
				continue
			}
			if horizontal {
				sums[y-b.Min.Y]++
			} else {
				sums[x-b.Min.X]++
			}
		}
	}
	return sums
}

// toMask collapses an image produced by bild back into a 0/255 mask with a
// zero origin, using the red plane as the decision value.
func toMask(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			if r>>8 > 127 {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// normalizeGray rebases a gray image onto a zero origin.
func normalizeGray(g *image.Gray) *image.Gray {
	if g.Rect.Min == (image.Point{}) {
		return g
	}
	return toMask(g)
}

func zeroRect(img image.Image) image.Rectangle {
	b := img.Bounds()
	return image.Rect(0, 0, b.Dx(), b.Dy())
}
