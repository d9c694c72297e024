// Package detection locates the puzzle grid in a screenshot and provides the
// contour hierarchy used to isolate clue glyphs.
//
// # Contour Hierarchy
//
// BuildContourTree labels a binary mask into regions and links them into an
// explicit tree of ContourNode values: ink regions own their holes, holes own
// the ink islands inside them. Glyph extraction walks this tree instead of
// index arithmetic over a flat hierarchy table, so hole filling ("0", "6",
// "8", "9") can be tested on its own.
//
// # Board Detection
//
// DetectBoard binarizes the screenshot, keeps ink regions whose border is an
// axis-aligned rectangle, clusters their areas with 1-D k-means (k=2) and
// drops clusters with too little support. The surviving rectangles are the
// cells; their count must be a perfect square. See FindBoard for the steps.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - ContourNode.Bounds uses inclusive Min and exclusive Max
//   - BoardGeometry corners are inclusive pixels
//
// # Limitations
//
// Only axis-aligned boards are supported. The algorithms assume a clean,
// uncompressed screenshot; heavy JPEG artefacts break the rectangle test.
package detection
