package detection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ironsheep/picross-capture/internal/domain"
)

var (
	boardBG   = color.RGBA{20, 20, 40, 255}
	cellWhite = color.RGBA{240, 240, 240, 255}
)

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// syntheticBoard draws an n x n grid of cellSize-pixel cells separated by gap
// pixels, starting at (origin, origin).
func syntheticBoard(width, height, n, origin, cellSize, gap int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), boardBG)
	pitch := cellSize + gap
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			x := origin + c*pitch
			y := origin + r*pitch
			fillRect(img, image.Rect(x, y, x+cellSize, y+cellSize), cellWhite)
		}
	}
	return img
}

func TestDetectBoard_SyntheticGrid(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		origin int
		cell   int
		gap    int
		wantTL domain.Point
		wantBR domain.Point
	}{
		{"5x5", 5, 10, 7, 4, domain.Point{X: 10, Y: 10}, domain.Point{X: 60, Y: 60}},
		{"4x4", 4, 20, 10, 2, domain.Point{X: 20, Y: 20}, domain.Point{X: 65, Y: 65}},
		{"10x10", 10, 5, 6, 2, domain.Point{X: 5, Y: 5}, domain.Point{X: 82, Y: 82}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := syntheticBoard(100, 100, tt.n, tt.origin, tt.cell, tt.gap)

			geom, err := DetectBoard(img, DefaultBoardConfig())
			if err != nil {
				t.Fatalf("DetectBoard failed: %v", err)
			}
			if geom.Side != tt.n {
				t.Errorf("side: got %d, want %d", geom.Side, tt.n)
			}
			if geom.TopLeft != tt.wantTL || geom.BottomRight != tt.wantBR {
				t.Errorf("corners: got %v-%v, want %v-%v", geom.TopLeft, geom.BottomRight, tt.wantTL, tt.wantBR)
			}
		})
	}
}

func TestFindBoard_IgnoresChrome(t *testing.T) {
	img := syntheticBoard(120, 120, 5, 40, 7, 4)
	// Two large buttons outside the board.
	fillRect(img, image.Rect(2, 2, 30, 12), cellWhite)
	fillRect(img, image.Rect(2, 20, 30, 30), cellWhite)

	res, err := FindBoard(img, DefaultBoardConfig())
	if err != nil {
		t.Fatalf("FindBoard failed: %v", err)
	}
	if res.Geometry.Side != 5 {
		t.Errorf("side: got %d, want 5", res.Geometry.Side)
	}
	if res.Candidates != 27 {
		t.Errorf("candidates: got %d, want 27", res.Candidates)
	}
	if len(res.Cells) != 25 {
		t.Errorf("cells: got %d, want 25", len(res.Cells))
	}
	if res.Geometry.TopLeft != (domain.Point{X: 40, Y: 40}) {
		t.Errorf("top-left: got %v, want (40,40)", res.Geometry.TopLeft)
	}
}

func TestDetectBoard_NotSquare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fillRect(img, img.Bounds(), boardBG)
	// 4 rows x 5 columns = 20 cells.
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			x, y := 10+c*11, 10+r*11
			fillRect(img, image.Rect(x, y, x+7, y+7), cellWhite)
		}
	}

	_, err := DetectBoard(img, DefaultBoardConfig())
	var notSquare *domain.BoardNotSquareError
	if !errors.As(err, &notSquare) {
		t.Fatalf("expected BoardNotSquareError, got %v", err)
	}
	if notSquare.Cells != 20 {
		t.Errorf("cells: got %d, want 20", notSquare.Cells)
	}
}

func TestDetectBoard_NotFound(t *testing.T) {
	t.Run("blank screenshot", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 50, 50))
		fillRect(img, img.Bounds(), boardBG)

		_, err := DetectBoard(img, DefaultBoardConfig())
		var notFound *domain.BoardNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected BoardNotFoundError, got %v", err)
		}
	})

	t.Run("too few rectangles", func(t *testing.T) {
		img := syntheticBoard(60, 60, 3, 5, 7, 4) // 9 cells, below support

		_, err := DetectBoard(img, DefaultBoardConfig())
		var notFound *domain.BoardNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected BoardNotFoundError, got %v", err)
		}
		if notFound.Candidates != 9 {
			t.Errorf("candidates: got %d, want 9", notFound.Candidates)
		}
	})

	t.Run("support lowered", func(t *testing.T) {
		img := syntheticBoard(60, 60, 3, 5, 7, 4)
		cfg := DefaultBoardConfig()
		cfg.MinClusterSupport = 4

		geom, err := DetectBoard(img, cfg)
		if err != nil {
			t.Fatalf("DetectBoard failed: %v", err)
		}
		if geom.Side != 3 {
			t.Errorf("side: got %d, want 3", geom.Side)
		}
	})
}

func TestConvexHull(t *testing.T) {
	pts := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}, {5, 0}, {0, 0}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull size: got %d, want 4 (%v)", len(hull), hull)
	}
	lo, hi := BoundingBox(hull)
	if lo != (image.Point{0, 0}) || hi != (image.Point{10, 10}) {
		t.Errorf("bounding box: got %v-%v", lo, hi)
	}
}

func TestKMeans1D(t *testing.T) {
	values := []float64{49, 50, 49, 160, 48, 161}
	labels, centers := KMeans1D(values, 2, 50)

	small, large := labels[0], labels[3]
	if small == large {
		t.Fatal("small and large areas landed in the same cluster")
	}
	for i, v := range values {
		want := small
		if v > 100 {
			want = large
		}
		if labels[i] != want {
			t.Errorf("value %.0f: label %d, want %d", v, labels[i], want)
		}
	}
	if centers[large] < 150 {
		t.Errorf("large centre: got %.1f", centers[large])
	}
}

func TestKMeans1D_IdenticalValues(t *testing.T) {
	labels, _ := KMeans1D([]float64{7, 7, 7}, 2, 10)
	for i, l := range labels {
		if l != labels[0] {
			t.Errorf("label %d differs: %d", i, l)
		}
	}
}
