// Package recognize reads clue numerals out of segmented clue bands.
//
// Every band is split into glyphs through the contour tree of its mask.
// Border rectangles are skipped and each remaining region is rendered alone
// and handed to an Engine. Column bands merge side-by-side glyphs into
// two-digit values by geometry; row bands merge by colour, where two yellow
// numerals in a row form one value.
//
// Lines that cannot be read are passed to an operator.Resolver when one is
// configured.
package recognize
