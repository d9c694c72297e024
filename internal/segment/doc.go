// Package segment cuts the clue strips beside and above the board into one
// band per row or column.
//
// Bands come out in scan order (top to bottom for rows, left to right for
// columns) and carry both the binary mask and the full-colour crop, padded
// identically so that pixel (x, y) of one matches pixel (x, y) of the other.
package segment
