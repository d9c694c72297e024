package recognize

import (
	"fmt"
	"image"
	"strings"
	"unicode"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/segment"
)

// ColorRuns classifies the numerals of a row band left to right without
// recognising them.
//
// A scan column by column finds the leftmost ink pixel not yet consumed; an
// 8-connected fill from it collects the numeral and its rightmost extent; the
// numeral's colour is the majority class of the collected pixels. Scanning
// resumes right of the numeral, so numerals that overlap horizontally count
// once.
func ColorRuns(band segment.Band, palette imaging.Palette) []domain.ColorClass {
	mask := band.Mask
	b := mask.Bounds()

	var colors []domain.ColorClass
	x := b.Min.X
	for x < b.Max.X {
		seed, ok := firstInk(mask, x)
		if !ok {
			break
		}
		pixels, rightmost := fillRun(mask, seed)
		colors = append(colors, palette.MajorityClass(band.Color, pixels))
		x = rightmost + 1
	}
	return colors
}

// firstInk finds the topmost ink pixel of the leftmost inked column at or
// after x.
func firstInk(mask *image.Gray, x int) (image.Point, bool) {
	b := mask.Bounds()
	for ; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if imaging.Ink(mask, x, y) {
				return image.Point{X: x, Y: y}, true
			}
		}
	}
	return image.Point{}, false
}

func fillRun(mask *image.Gray, seed image.Point) ([]image.Point, int) {
	visited := map[image.Point]bool{seed: true}
	stack := []image.Point{seed}
	var pixels []image.Point
	rightmost := seed.X

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pixels = append(pixels, p)
		rightmost = max(rightmost, p.X)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := image.Point{X: p.X + dx, Y: p.Y + dy}
				if visited[n] || !imaging.Ink(mask, n.X, n.Y) {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	return pixels, rightmost
}

// RecognizeColorRun reads a row band with the legacy whole-line strategy.
//
// The inverted band is read as one digit string; whitespace is dropped and
// every remaining character is paired with one colour run. Returns
// *domain.ColorCountMismatchError when the counts differ,
// *domain.NonDigitError for any other character and
// *domain.MalformedColorSequenceError when the colours do not pair up.
func (r *Recognizer) RecognizeColorRun(band segment.Band) (domain.ClueLine, error) {
	colors := ColorRuns(band, r.cfg.Palette)

	text, err := r.engine.RecognizeLine(imaging.Invert(band.Mask))
	if err != nil {
		return nil, fmt.Errorf("recognise line: %w", err)
	}
	chars := []rune(strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return c
	}, text))

	if len(chars) != len(colors) {
		return nil, &domain.ColorCountMismatchError{Characters: len(chars), Colors: len(colors)}
	}

	digits := make([]int, len(chars))
	for i, c := range chars {
		if c < '0' || c > '9' {
			return nil, &domain.NonDigitError{Char: c}
		}
		digits[i] = int(c - '0')
	}
	return CombineDigits(digits, colors)
}
