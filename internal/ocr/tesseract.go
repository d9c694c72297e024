package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DigitWhitelist restricts recognition to the characters a clue can contain.
const DigitWhitelist = "0123456789"

// Tesseract recognises clue numerals with a single long-lived Tesseract
// client.
//
// The client is not safe for concurrent use, so every call takes a lock.
// Reusing one client avoids reloading the language model for each of the
// several hundred glyphs on a 30x30 board.
type Tesseract struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

// NewTesseract creates an engine for the given Tesseract language code
// ("eng" when empty).
//
// Returns an error if the language data is not installed.
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(DigitWhitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}

	t := &Tesseract{client: client, language: language}

	// gosseract initialises lazily; probe once so missing language data
	// surfaces here instead of on the first glyph.
	if _, err := t.recognize(image.NewGray(image.Rect(0, 0, 8, 8)), gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract initialisation failed: %w", err)
	}
	return t, nil
}

// RecognizeChar reads one isolated glyph.
//
// Parameters:
//   - img: A glyph rendered dark-on-light or light-on-dark on a padded canvas.
//
// Returns the trimmed recognised text. An empty string means Tesseract saw
// nothing; deciding whether the text is a digit is up to the caller.
func (t *Tesseract) RecognizeChar(img image.Image) (string, error) {
	return t.recognize(img, gosseract.PSM_SINGLE_CHAR)
}

// RecognizeLine reads a whole clue band as one block of digits.
//
// Spaces between numerals are not significant to the caller; the legacy
// colour-run strategy pairs characters with colour runs one to one.
func (t *Tesseract) RecognizeLine(img image.Image) (string, error) {
	return t.recognize(img, gosseract.PSM_SINGLE_BLOCK)
}

func (t *Tesseract) recognize(img image.Image, mode gosseract.PageSegMode) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetPageSegMode(mode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Language returns the configured Tesseract language code.
func (t *Tesseract) Language() string {
	return t.language
}

// Version returns the version of the linked Tesseract library.
func (t *Tesseract) Version() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Version()
}

// Close releases the underlying Tesseract client.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
