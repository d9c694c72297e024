package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// PaletteEntry identifies one of the reference colours of the puzzle UI.
type PaletteEntry int

const (
	PaletteBlack PaletteEntry = iota
	PaletteWhite
	PaletteYellow
)

func (p PaletteEntry) String() string {
	switch p {
	case PaletteWhite:
		return "white"
	case PaletteYellow:
		return "yellow"
	default:
		return "black"
	}
}

// Palette holds the reference colours used to classify clue numerals.
//
// A pixel belongs to the entry it is perceptually closest to (CIE L*a*b*
// distance). The palette is configuration, not a constant, so tests and other
// themes of the puzzle UI can supply their own colours.
type Palette struct {
	Black  colorful.Color
	White  colorful.Color
	Yellow colorful.Color
}

// DefaultPalette returns the colours of the stock puzzle UI theme.
func DefaultPalette() Palette {
	p, _ := ParsePalette("#000000", "#FFFFFF", "#DDCF00")
	return p
}

// ParsePalette builds a Palette from "#RRGGBB" strings.
func ParsePalette(black, white, yellow string) (Palette, error) {
	var p Palette
	var err error
	if p.Black, err = colorful.Hex(black); err != nil {
		return Palette{}, fmt.Errorf("invalid black colour %q: %w", black, err)
	}
	if p.White, err = colorful.Hex(white); err != nil {
		return Palette{}, fmt.Errorf("invalid white colour %q: %w", white, err)
	}
	if p.Yellow, err = colorful.Hex(yellow); err != nil {
		return Palette{}, fmt.Errorf("invalid yellow colour %q: %w", yellow, err)
	}
	return p, nil
}

// Classify returns the palette entry nearest to c.
func (p Palette) Classify(c color.Color) PaletteEntry {
	cf, _ := colorful.MakeColor(c)

	best := PaletteBlack
	bestDist := cf.DistanceLab(p.Black)
	if d := cf.DistanceLab(p.White); d < bestDist {
		best, bestDist = PaletteWhite, d
	}
	if d := cf.DistanceLab(p.Yellow); d < bestDist {
		best = PaletteYellow
	}
	return best
}

// MajorityClass decides the colour of a numeral from the pixels it covers.
//
// The numeral is yellow when more than half of its pixels classify as yellow;
// otherwise it is white. Anti-aliased edges and dark fringes therefore never
// flip a numeral's class on their own.
func (p Palette) MajorityClass(img image.Image, pixels []image.Point) domain.ColorClass {
	if len(pixels) == 0 {
		return domain.White
	}

	yellow := 0
	for _, pt := range pixels {
		if p.Classify(img.At(pt.X, pt.Y)) == PaletteYellow {
			yellow++
		}
	}

	if yellow*2 > len(pixels) {
		return domain.Yellow
	}
	return domain.White
}
