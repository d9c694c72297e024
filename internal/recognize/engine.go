package recognize

import "image"

// Engine reads digits from images. The ocr package's Tesseract engine is the
// production implementation.
type Engine interface {
	// RecognizeChar reads one isolated glyph.
	RecognizeChar(img image.Image) (string, error)

	// RecognizeLine reads a whole band as a digit string.
	RecognizeLine(img image.Image) (string, error)
}

// isDigit reports whether text is exactly one decimal digit.
func isDigit(text string) bool {
	return len(text) == 1 && text[0] >= '0' && text[0] <= '9'
}
