// Package ocr provides digit recognition for clue glyphs using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Only the
// ten digits are ever recognised: the engine is configured with a digit
// whitelist, and callers choose between single-character mode for isolated
// glyphs and block mode for whole clue lines.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for the configured language (default
// "eng").
//
// # Thread Safety
//
// A Tesseract value serialises its calls internally; share one per process.
package ocr
