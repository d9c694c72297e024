package detection

import (
	"image"
	"math"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
)

// BoardConfig tunes board geometry detection.
type BoardConfig struct {
	// Threshold is the grayscale level above which a pixel counts as part of
	// a cell. Cells render bright on a dark board.
	Threshold uint8

	// MinClusterSupport is the smallest number of same-sized rectangles that
	// can be cells. Smaller area clusters are UI chrome (buttons, frames,
	// rectangular numerals) and are dropped.
	MinClusterSupport int
}

// DefaultBoardConfig returns the calibration of the stock puzzle UI.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{Threshold: 180, MinClusterSupport: 15}
}

// BoardResult is the full outcome of board detection.
type BoardResult struct {
	Geometry domain.BoardGeometry `json:"geometry"`

	// Candidates is the number of rectangle contours found in the screenshot.
	Candidates int `json:"candidates"`

	// Cells are the bounding boxes of the rectangles kept as cells.
	// Max is exclusive.
	Cells []image.Rectangle `json:"cells"`

	// Hull is the convex hull of the cells' corner pixels.
	Hull []image.Point `json:"hull"`
}

// DetectBoard finds the puzzle grid in a screenshot.
//
// Returns the board side and its inclusive pixel corners, a
// *domain.BoardNotFoundError when no cluster of cells survives, or a
// *domain.BoardNotSquareError when the surviving count is not a perfect
// square.
func DetectBoard(img image.Image, cfg BoardConfig) (domain.BoardGeometry, error) {
	res, err := FindBoard(img, cfg)
	if err != nil {
		return domain.BoardGeometry{}, err
	}
	return res.Geometry, nil
}

// FindBoard is DetectBoard with the intermediate results kept.
//
// # Algorithm
//
//  1. Binarize the screenshot at cfg.Threshold and build the contour tree.
//  2. Keep every ink region whose outer border is an axis-aligned
//     quadrilateral with non-zero area.
//  3. Split the rectangle areas into two clusters with 1-D k-means and drop
//     any cluster with fewer than cfg.MinClusterSupport members. A board
//     whose cells come in two sizes (thicker 5x5 separators) keeps both.
//  4. The surviving count must be side*side.
//  5. The bounding box of the convex hull of all cell corners is the cell
//     area.
func FindBoard(img image.Image, cfg BoardConfig) (*BoardResult, error) {
	mask := imaging.Binarize(img, cfg.Threshold)
	root := BuildContourTree(mask)

	var rects []*ContourNode
	root.Walk(func(n *ContourNode) bool {
		if n.IsRectangle() && n.EnclosedArea() > 0 {
			rects = append(rects, n)
		}
		return true
	})

	if len(rects) == 0 {
		return nil, &domain.BoardNotFoundError{Candidates: 0}
	}

	areas := make([]float64, len(rects))
	for i, r := range rects {
		areas[i] = float64(r.EnclosedArea())
	}
	labels, _ := KMeans1D(areas, 2, 100)

	support := make(map[int]int)
	for _, l := range labels {
		support[l]++
	}

	var cells []*ContourNode
	for i, r := range rects {
		if support[labels[i]] >= cfg.MinClusterSupport {
			cells = append(cells, r)
		}
	}
	if len(cells) == 0 {
		return nil, &domain.BoardNotFoundError{Candidates: len(rects)}
	}

	side := int(math.Sqrt(float64(len(cells))))
	for (side+1)*(side+1) <= len(cells) {
		side++
	}
	if side*side != len(cells) {
		return nil, &domain.BoardNotSquareError{Cells: len(cells)}
	}

	corners := make([]image.Point, 0, 4*len(cells))
	boxes := make([]image.Rectangle, len(cells))
	for i, c := range cells {
		corners = append(corners, c.Corners()...)
		boxes[i] = c.Bounds
	}
	hull := ConvexHull(corners)
	tl, br := BoundingBox(hull)

	geom := domain.BoardGeometry{
		Side:        side,
		TopLeft:     domain.Point{X: tl.X, Y: tl.Y},
		BottomRight: domain.Point{X: br.X, Y: br.Y},
	}
	if err := geom.Validate(); err != nil {
		return nil, &domain.BoardNotFoundError{Candidates: len(rects)}
	}

	return &BoardResult{
		Geometry:   geom,
		Candidates: len(rects),
		Cells:      boxes,
		Hull:       hull,
	}, nil
}
