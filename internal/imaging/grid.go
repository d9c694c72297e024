package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// overlayAlpha is the opacity of grid lines drawn over the screenshot.
const overlayAlpha = 160

// BoardOverlay draws the detected cell grid over a copy of a screenshot.
//
// Lines are blended in gridHex ("#RRGGBB") at a fixed opacity. Every fifth
// row and column carries its index above and left of the board so the
// geometry can be checked by eye before any taps are sent.
func BoardOverlay(img image.Image, geom domain.BoardGeometry, gridHex string) (*image.RGBA, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	c, err := colorful.Hex(gridHex)
	if err != nil {
		return nil, fmt.Errorf("invalid grid colour %q: %w", gridHex, err)
	}
	r, g, b := c.RGB255()
	line := image.NewUniform(color.NRGBA{R: r, G: g, B: b, A: overlayAlpha})

	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	cw, ch := geom.CellSize()
	tl, br := geom.TopLeft, geom.BottomRight
	for i := 0; i <= geom.Side; i++ {
		x := tl.X + int(float64(i)*cw)
		y := tl.Y + int(float64(i)*ch)
		draw.Draw(out, image.Rect(x, tl.Y, x+1, br.Y+1), line, image.Point{}, draw.Over)
		draw.Draw(out, image.Rect(tl.X, y, br.X+1, y+1), line, image.Point{}, draw.Over)
	}

	for i := 0; i < geom.Side; i += 5 {
		label := strconv.Itoa(i)
		cx := tl.X + int(float64(i)*cw+cw/2)
		cy := tl.Y + int(float64(i)*ch+ch/2)
		drawLabel(out, image.Pt(cx-2, tl.Y-8), label)
		drawLabel(out, image.Pt(tl.X-labelPitch*len(label)-2, cy-2), label)
	}
	return out, nil
}

// digitFont is a 3x5 pixel font for the overlay labels.
var digitFont = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// DigitBitmap returns the 3x5 bitmap rows of a digit, or nil for other runes.
func DigitBitmap(r rune) []string {
	return digitFont[r]
}

const labelPitch = 4

// drawLabel writes white digits on a dark box whose top-left is at. Pixels
// outside the image are clipped by draw.
func drawLabel(img *image.RGBA, at image.Point, text string) {
	box := image.Rect(at.X-1, at.Y-1, at.X+labelPitch*len(text), at.Y+7)
	draw.Draw(img, box, image.NewUniform(color.NRGBA{A: 180}), image.Point{}, draw.Over)

	fg := color.RGBA{255, 255, 255, 255}
	for i, r := range text {
		for row, bits := range digitFont[r] {
			for col, bit := range bits {
				p := image.Pt(at.X+i*labelPitch+col, at.Y+row)
				if bit == '1' && p.In(img.Bounds()) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
	}
}
