package recognize

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/picross-capture/internal/detection"
	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/segment"
)

// GlyphCandidates returns the top-level ink regions of a band mask in raster
// order.
//
// Frames (see isFrame) are cell or strip borders, not numerals. They are
// skipped, but numerals drawn inside them are still collected. Regions with
// fewer than minArea pixels are noise. A rectangular region that is not a
// frame, such as a blocky 0 or 8, stays a candidate and is left to the
// engine to read or reject.
func GlyphCandidates(mask *image.Gray, minArea int) []*detection.ContourNode {
	root := detection.BuildContourTree(mask)

	var out []*detection.ContourNode
	var visit func(n *detection.ContourNode)
	visit = func(n *detection.ContourNode) {
		for _, c := range n.Children {
			if isFrame(c) {
				for _, hole := range c.Children {
					visit(hole)
				}
				continue
			}
			if c.Area() < minArea {
				continue
			}
			out = append(out, c)
		}
	}
	visit(root)
	return out
}

// isFrame reports whether an ink region is a border: its outline is an
// axis-aligned quadrilateral and its own ink covers less than half of the
// box, the rest being enclosed space.
func isFrame(n *detection.ContourNode) bool {
	if !n.IsRectangle() {
		return false
	}
	return 2*n.Area() < n.Bounds.Dx()*n.Bounds.Dy()
}

// RenderGlyph draws one region alone on a black canvas with padding pixels
// on every side. The region is filled white and its holes stay black, so
// nothing else from the band (neighbouring numerals, islands inside holes)
// reaches the recognition engine.
func RenderGlyph(n *detection.ContourNode, padding int) *image.Gray {
	b := n.Bounds
	canvas := image.NewGray(image.Rect(0, 0, b.Dx()+2*padding, b.Dy()+2*padding))
	for _, p := range n.Pixels {
		x := p.X - b.Min.X + padding
		y := p.Y - b.Min.Y + padding
		canvas.Pix[y*canvas.Stride+x] = 255
	}
	return canvas
}

// readGlyph recognises one rendered glyph, retrying once on a dilated copy.
func (r *Recognizer) readGlyph(canvas *image.Gray) (int, error) {
	text, err := r.engine.RecognizeChar(canvas)
	if err != nil {
		return 0, fmt.Errorf("recognise glyph: %w", err)
	}
	if isDigit(text) {
		return int(text[0] - '0'), nil
	}

	text, err = r.engine.RecognizeChar(imaging.Dilate(canvas))
	if err != nil {
		return 0, fmt.Errorf("recognise dilated glyph: %w", err)
	}
	if isDigit(text) {
		return int(text[0] - '0'), nil
	}
	return 0, &domain.DigitRecognitionError{Text: text}
}

// ExtractGlyphs finds, renders and recognises every numeral of a band.
//
// Coordinates in the returned glyphs are band coordinates (padding
// included). The colour class is the majority class of the glyph's own
// pixels in the band's colour image.
func (r *Recognizer) ExtractGlyphs(band segment.Band) ([]domain.Glyph, error) {
	nodes := GlyphCandidates(band.Mask, r.cfg.MinGlyphArea)

	glyphs := make([]domain.Glyph, 0, len(nodes))
	for i, n := range nodes {
		canvas := RenderGlyph(n, r.cfg.GlyphPadding)
		if r.cfg.DebugDir != "" {
			name := fmt.Sprintf("glyph_%s_%02d_%02d.png", band.Orientation, band.Index, i)
			if err := imaging.SavePNG(canvas, filepath.Join(r.cfg.DebugDir, name)); err != nil {
				logger.L().Warn("glyph.debug_save_failed", "err", err)
			}
		}

		value, err := r.readGlyph(canvas)
		if err != nil {
			return nil, err
		}

		cx, cy := n.Centroid()
		glyphs = append(glyphs, domain.Glyph{
			Value:   value,
			CenterX: cx,
			CenterY: cy,
			Top:     n.Bounds.Min.Y,
			Bottom:  n.Bounds.Max.Y,
			Left:    n.Bounds.Min.X,
			Right:   n.Bounds.Max.X,
			Color:   r.cfg.Palette.MajorityClass(band.Color, n.Pixels),
		})
	}

	logger.L().Debug("band.glyphs",
		"orientation", band.Orientation.String(), "index", band.Index, "count", len(glyphs))
	return glyphs, nil
}
