package recognize

import (
	"context"
	"fmt"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/operator"
	"github.com/ironsheep/picross-capture/internal/segment"
)

// Strategy selects how row bands are read.
type Strategy string

const (
	// StrategyContour isolates every glyph through the contour tree.
	StrategyContour Strategy = "contour"
	// StrategyColorRun reads the whole row at once and pairs characters
	// with colour runs. Column bands always use StrategyContour.
	StrategyColorRun Strategy = "colorrun"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyContour, StrategyColorRun:
		return Strategy(s), true
	}
	return "", false
}

// Config tunes recognition.
type Config struct {
	Strategy Strategy

	// GlyphPadding is the blank border around each rendered glyph.
	GlyphPadding int

	// MinGlyphArea drops ink specks smaller than this many pixels.
	MinGlyphArea int

	Palette imaging.Palette

	// DebugDir, when set, receives every rendered glyph as a PNG.
	DebugDir string
}

// DefaultConfig returns the settings tuned for the stock puzzle UI.
func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyContour,
		GlyphPadding: 3,
		MinGlyphArea: 3,
		Palette:      imaging.DefaultPalette(),
	}
}

// Recognizer turns clue bands into clue lines.
type Recognizer struct {
	engine   Engine
	resolver operator.Resolver
	cfg      Config
}

// New creates a recognizer. resolver settles lines that fail recognition; a
// nil resolver makes every recognition error fatal.
func New(engine Engine, resolver operator.Resolver, cfg Config) *Recognizer {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyContour
	}
	return &Recognizer{engine: engine, resolver: resolver, cfg: cfg}
}

// Recognize reads one band without operator involvement. A band without ink
// is a line with no clues.
func (r *Recognizer) Recognize(band segment.Band) (domain.ClueLine, error) {
	if band.IsBlank() {
		return domain.ClueLine{}, nil
	}
	if band.Orientation == domain.Row && r.cfg.Strategy == StrategyColorRun {
		return r.RecognizeColorRun(band)
	}

	glyphs, err := r.ExtractGlyphs(band)
	if err != nil {
		return nil, err
	}
	if band.Orientation == domain.Column {
		return MergeColumn(glyphs), nil
	}
	return MergeRow(glyphs)
}

// Line reads one band and hands recoverable failures to the resolver, whose
// answer replaces the recognition result.
func (r *Recognizer) Line(ctx context.Context, band segment.Band) (domain.ClueLine, error) {
	line, err := r.Recognize(band)
	if err == nil {
		return line, nil
	}
	if !domain.IsRecoverable(err) || r.resolver == nil {
		return nil, err
	}

	logger.L().Warn("line.unreadable",
		"orientation", band.Orientation.String(), "index", band.Index, "err", err)

	line, rerr := r.resolver.Resolve(ctx, operator.ResolveRequest{
		Orientation: band.Orientation,
		Index:       band.Index,
		Image:       band.Color,
		Cause:       err,
	})
	if rerr != nil {
		return nil, fmt.Errorf("%s %d: %w (while resolving: %v)", band.Orientation, band.Index, err, rerr)
	}
	logger.L().Info("line.resolved",
		"orientation", band.Orientation.String(), "index", band.Index, "clues", line.String())
	return line, nil
}

// Lines reads every band in order.
func (r *Recognizer) Lines(ctx context.Context, bands []segment.Band) ([]domain.ClueLine, error) {
	lines := make([]domain.ClueLine, 0, len(bands))
	for _, b := range bands {
		line, err := r.Line(ctx, b)
		if err != nil {
			return nil, &domain.OpError{Op: "recognize.lines", Kind: domain.KindRecognition, Err: err}
		}
		lines = append(lines, line)
	}
	return lines, nil
}
