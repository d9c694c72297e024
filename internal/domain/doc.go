// Package domain holds the data model shared by every stage of the capture
// pipeline: board geometry, glyphs, clue lines, the puzzle specification and
// the solved grid, plus the error taxonomy used to classify failures.
//
// Types in this package carry no image data and have no dependencies on the
// image libraries, so they can be built by hand in tests.
package domain
