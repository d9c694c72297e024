package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a pixel coordinate. (0,0) is the top-left corner of the screenshot.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoardGeometry describes the puzzle's cell area inside a screenshot.
//
// TopLeft and BottomRight are inclusive pixel coordinates of the outermost
// cell borders. Side is the number of cells along each axis.
type BoardGeometry struct {
	Side        int   `json:"side"`
	TopLeft     Point `json:"top_left"`
	BottomRight Point `json:"bottom_right"`
}

// Validate checks the geometry invariants.
func (g BoardGeometry) Validate() error {
	if g.Side < 1 {
		return fmt.Errorf("board side must be >= 1, got %d", g.Side)
	}
	if g.TopLeft.X >= g.BottomRight.X || g.TopLeft.Y >= g.BottomRight.Y {
		return fmt.Errorf("board corners out of order: (%d,%d)-(%d,%d)",
			g.TopLeft.X, g.TopLeft.Y, g.BottomRight.X, g.BottomRight.Y)
	}
	return nil
}

// CellSize returns the horizontal and vertical pitch of one cell in pixels.
func (g BoardGeometry) CellSize() (float64, float64) {
	w := float64(g.BottomRight.X-g.TopLeft.X) / float64(g.Side)
	h := float64(g.BottomRight.Y-g.TopLeft.Y) / float64(g.Side)
	return w, h
}

// Orientation tells whether a clue line belongs to a row or a column.
type Orientation int

const (
	Row Orientation = iota
	Column
)

func (o Orientation) String() string {
	if o == Column {
		return "column"
	}
	return "row"
}

// ColorClass is the colour a clue numeral is rendered in. Yellow numerals are
// halves of a two-digit clue; white numerals are complete single-digit clues.
type ColorClass string

const (
	White  ColorClass = "white"
	Yellow ColorClass = "yellow"
)

// Glyph is one recognised digit inside a clue band.
type Glyph struct {
	Value int `json:"value"`

	// CenterX and CenterY are the centroid of the glyph's pixels (image moments).
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`

	// Top and Bottom bound the glyph vertically; Bottom is exclusive.
	Top    int `json:"top"`
	Bottom int `json:"bottom"`

	// Left and Right bound the glyph horizontally; Right is exclusive.
	Left  int `json:"left"`
	Right int `json:"right"`

	Color ColorClass `json:"color"`
}

// ClueLine is the ordered list of clue values for one row or column.
type ClueLine []int

// Sum returns the total number of filled cells the line describes.
func (l ClueLine) Sum() int {
	total := 0
	for _, v := range l {
		total += v
	}
	return total
}

// String renders the line as space separated integers.
func (l ClueLine) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// ParseClueLine parses space separated non-negative integers. An empty input
// yields an empty line.
func ParseClueLine(s string) (ClueLine, error) {
	fields := strings.Fields(s)
	line := make(ClueLine, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid clue %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("invalid clue %d: must not be negative", v)
		}
		line = append(line, v)
	}
	return line, nil
}

// PuzzleSpec is everything the solver needs: the board side and the clues.
type PuzzleSpec struct {
	Side int        `json:"side"`
	Rows []ClueLine `json:"rows"`
	Cols []ClueLine `json:"cols"`
}

// RowSum returns the total of all row clues.
func (p PuzzleSpec) RowSum() int {
	return sumLines(p.Rows)
}

// ColSum returns the total of all column clues.
func (p PuzzleSpec) ColSum() int {
	return sumLines(p.Cols)
}

func sumLines(lines []ClueLine) int {
	total := 0
	for _, l := range lines {
		total += l.Sum()
	}
	return total
}

// Solution is a solved board, row-major. Cells[y][x] is true when filled.
type Solution struct {
	Side  int      `json:"side"`
	Cells [][]bool `json:"cells"`
}

// Filled reports whether the cell at column x, row y is filled.
func (s Solution) Filled(x, y int) bool {
	return s.Cells[y][x]
}

// String draws the grid with '#' for filled and '.' for empty cells.
func (s Solution) String() string {
	var b strings.Builder
	for _, row := range s.Cells {
		for _, filled := range row {
			if filled {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
