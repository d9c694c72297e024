// Package imaging provides the pixel-level building blocks of the capture
// pipeline: loading and caching screenshots, binarising by grayscale or by a
// single colour channel, padded cropping of clue bands, morphological
// dilation, palette-based colour classification and the board debug overlay.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive and Max is exclusive (image.Rectangle semantics)
//
// Screenshots returned by Load and Decode are normalised to *image.NRGBA with
// a zero origin, so callers may index pixels without consulting Bounds().Min.
//
// # Masks
//
// Binary images are *image.Gray values holding only 0 (background) and 255
// (ink). Binarize and BinarizeChannel produce them; Invert swaps the two
// values for engines that expect dark ink on a light page.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and returns a new image rather than modifying its input.
package imaging
