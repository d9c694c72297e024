package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/picross-capture/internal/config"
	"github.com/ironsheep/picross-capture/internal/detection"
	"github.com/ironsheep/picross-capture/internal/device"
	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/operator"
	"github.com/ironsheep/picross-capture/internal/puzzle"
	"github.com/ironsheep/picross-capture/internal/recognize"
	"github.com/ironsheep/picross-capture/internal/replay"
	"github.com/ironsheep/picross-capture/internal/segment"
	"github.com/ironsheep/picross-capture/internal/solver"
)

// File names inside the work directory.
const (
	SpecFile     = "solve.nin"
	SolutionFile = "solution.txt"
	BoardFile    = "board.json"
	OverlayFile  = "board_overlay.png"
)

// Options configures the image stages.
type Options struct {
	Board detection.BoardConfig

	RowChannel      imaging.Channel
	RowThreshold    uint8
	ColumnChannel   imaging.Channel
	ColumnThreshold uint8

	// ColumnTop is the first screenshot row scanned for column clues.
	ColumnTop  int
	Margin     int
	ColumnMode segment.Mode

	WorkDir string

	// Debug saves the board overlay into WorkDir.
	Debug bool
}

// OptionsFromConfig maps a validated configuration onto Options.
func OptionsFromConfig(cfg config.Config, debug bool) Options {
	rowCh, _ := imaging.ParseChannel(cfg.Strips.RowChannel)
	colCh, _ := imaging.ParseChannel(cfg.Strips.ColumnChannel)
	mode, _ := segment.ParseMode(cfg.Strips.ColumnMode)
	return Options{
		Board:           cfg.BoardDetection(),
		RowChannel:      rowCh,
		RowThreshold:    uint8(cfg.Strips.RowThreshold),
		ColumnChannel:   colCh,
		ColumnThreshold: uint8(cfg.Strips.ColumnThreshold),
		ColumnTop:       cfg.Strips.ColumnTop,
		Margin:          cfg.Strips.Margin,
		ColumnMode:      mode,
		WorkDir:         cfg.WorkDir,
		Debug:           debug,
	}
}

// Pipeline runs the extraction and solving stages.
type Pipeline struct {
	opts       Options
	recognizer *recognize.Recognizer
	ack        operator.Acknowledger
	solver     solver.Solver
}

// New creates a pipeline. ack gates inconsistent puzzles; with a nil ack an
// inconsistent puzzle fails immediately. s may be nil when only Extract is
// used.
func New(opts Options, rec *recognize.Recognizer, ack operator.Acknowledger, s solver.Solver) *Pipeline {
	return &Pipeline{opts: opts, recognizer: rec, ack: ack, solver: s}
}

// Extraction is the result of reading one screenshot.
type Extraction struct {
	Geometry domain.BoardGeometry `json:"geometry"`
	Spec     domain.PuzzleSpec    `json:"spec"`
	SpecPath string               `json:"spec_path"`
	Report   puzzle.Report        `json:"report"`
}

// Bands cuts the row strip (left of the board) and the column strip (above
// the board) into clue bands.
func (p *Pipeline) Bands(img image.Image, geom domain.BoardGeometry) (rows, cols []segment.Band, err error) {
	b := img.Bounds()
	tl, br := geom.TopLeft, geom.BottomRight

	rowRect := image.Rect(b.Min.X, tl.Y, tl.X, br.Y+1)
	rowStrip, err := imaging.CropRegion(img, rowRect)
	if err != nil {
		return nil, nil, fmt.Errorf("row strip: %w", err)
	}
	rowMask := imaging.BinarizeChannel(rowStrip, p.opts.RowChannel, p.opts.RowThreshold)
	rows = segment.Segment(rowMask, rowStrip, domain.Row, p.opts.Margin)

	colRect := image.Rect(tl.X, b.Min.Y+p.opts.ColumnTop, br.X+1, tl.Y)
	colStrip, err := imaging.CropRegion(img, colRect)
	if err != nil {
		return nil, nil, fmt.Errorf("column strip: %w", err)
	}
	colMask := imaging.BinarizeChannel(colStrip, p.opts.ColumnChannel, p.opts.ColumnThreshold)
	if p.opts.ColumnMode == segment.ModeGaps {
		cols = segment.Segment(colMask, colStrip, domain.Column, p.opts.Margin)
	} else {
		cols = segment.SplitCells(colMask, colStrip, domain.Column, geom.Side, p.opts.Margin)
	}

	logger.L().Info("bands.segmented", "rows", len(rows), "cols", len(cols), "column_mode", string(p.opts.ColumnMode))
	return rows, cols, nil
}

// Extract turns a screenshot into a verified puzzle file in the work
// directory.
func (p *Pipeline) Extract(ctx context.Context, img image.Image) (*Extraction, error) {
	res, err := detection.FindBoard(img, p.opts.Board)
	if err != nil {
		return nil, &domain.OpError{Op: "pipeline.detect_board", Kind: domain.KindGeometry, Err: err}
	}
	geom := res.Geometry
	logger.L().Info("board.detected", "side", geom.Side, "candidates", res.Candidates,
		"top_left", fmt.Sprintf("%d,%d", geom.TopLeft.X, geom.TopLeft.Y),
		"bottom_right", fmt.Sprintf("%d,%d", geom.BottomRight.X, geom.BottomRight.Y))

	if err := os.MkdirAll(p.opts.WorkDir, 0o755); err != nil {
		return nil, &domain.OpError{Op: "pipeline.extract", Kind: domain.KindIO, Path: p.opts.WorkDir, Err: err}
	}
	if p.opts.Debug {
		p.saveOverlay(img, geom)
	}
	if err := WriteGeometry(filepath.Join(p.opts.WorkDir, BoardFile), geom); err != nil {
		return nil, err
	}

	rowBands, colBands, err := p.Bands(img, geom)
	if err != nil {
		return nil, &domain.OpError{Op: "pipeline.bands", Kind: domain.KindGeometry, Err: err}
	}
	rows, err := p.recognizer.Lines(ctx, rowBands)
	if err != nil {
		return nil, err
	}
	cols, err := p.recognizer.Lines(ctx, colBands)
	if err != nil {
		return nil, err
	}

	spec := domain.PuzzleSpec{Side: geom.Side, Rows: rows, Cols: cols}
	path := filepath.Join(p.opts.WorkDir, SpecFile)
	if err := puzzle.WriteSpecFile(path, spec); err != nil {
		return nil, err
	}
	logger.L().Info("spec.written", "path", path, "rows", len(rows), "cols", len(cols))

	spec, report, err := p.settle(ctx, path, spec)
	if err != nil {
		return nil, err
	}
	return &Extraction{Geometry: geom, Spec: spec, SpecPath: path, Report: report}, nil
}

// settle verifies spec and, while it is inconsistent, waits for the operator
// to fix the file at path and reads it back.
func (p *Pipeline) settle(ctx context.Context, path string, spec domain.PuzzleSpec) (domain.PuzzleSpec, puzzle.Report, error) {
	for {
		report := puzzle.Verify(spec)
		if report.OK() {
			logger.L().Info("spec.verified", "side", report.Side, "sum", report.RowSum)
			return spec, report, nil
		}

		logger.L().Warn("spec.inconsistent", "problems", report.Problems,
			"rows", report.Rows, "cols", report.Cols, "row_sum", report.RowSum, "col_sum", report.ColSum)
		if p.ack == nil {
			return spec, report, &domain.OpError{Op: "pipeline.verify", Kind: domain.KindConsistency, Path: path, Err: report.Err()}
		}

		msg := fmt.Sprintf("%s\nFix %s, then press Enter to check it again.", report, path)
		if err := p.ack.Acknowledge(ctx, msg); err != nil {
			return spec, report, &domain.OpError{Op: "pipeline.verify", Kind: domain.KindConsistency, Path: path,
				Err: errors.Join(report.Err(), err)}
		}

		fixed, err := puzzle.ReadSpecFile(path)
		if err != nil {
			return spec, report, err
		}
		spec = fixed
	}
}

func (p *Pipeline) saveOverlay(img image.Image, geom domain.BoardGeometry) {
	overlay, err := imaging.BoardOverlay(img, geom, "#FF0000")
	if err == nil {
		err = imaging.SavePNG(overlay, filepath.Join(p.opts.WorkDir, OverlayFile))
	}
	if err != nil {
		logger.L().Warn("board.overlay_failed", "err", err)
	}
}

// Solve runs the solver on the extracted puzzle and returns the first
// solution. The solution grid is also saved to the work directory for a
// later replay.
func (p *Pipeline) Solve(ctx context.Context, ext *Extraction) (domain.Solution, error) {
	if p.solver == nil {
		return domain.Solution{}, &domain.OpError{Op: "pipeline.solve", Kind: domain.KindSolver, Err: errors.New("no solver configured")}
	}
	out, err := p.solver.Invoke(ctx, ext.SpecPath)
	if err != nil {
		return domain.Solution{}, err
	}
	sol, err := puzzle.ReadSolution(out, ext.Spec.Side)
	if err != nil {
		return domain.Solution{}, &domain.OpError{Op: "pipeline.solve", Kind: domain.KindSolver, Path: ext.SpecPath, Err: err}
	}

	path := filepath.Join(p.opts.WorkDir, SolutionFile)
	if err := os.WriteFile(path, []byte(sol.String()), 0o644); err != nil {
		return domain.Solution{}, &domain.OpError{Op: "pipeline.solve", Kind: domain.KindIO, Path: path, Err: err}
	}
	logger.L().Info("solution.read", "side", sol.Side, "path", path)
	return sol, nil
}

// ChannelOpener opens the tap channel once a solution is ready.
type ChannelOpener func(ctx context.Context) (replay.InputChannel, error)

// Run captures a screenshot, extracts and solves the puzzle and replays the
// solution.
func (p *Pipeline) Run(ctx context.Context, src device.ScreenshotSource, open ChannelOpener) error {
	img, err := src.Capture(ctx)
	if err != nil {
		return err
	}
	ext, err := p.Extract(ctx, img)
	if err != nil {
		return err
	}
	sol, err := p.Solve(ctx, ext)
	if err != nil {
		return err
	}
	ch, err := open(ctx)
	if err != nil {
		return err
	}
	return replay.Play(ctx, ch, sol, ext.Geometry)
}

// WriteGeometry saves geom as JSON.
func WriteGeometry(path string, geom domain.BoardGeometry) error {
	data, err := json.MarshalIndent(geom, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &domain.OpError{Op: "pipeline.write_geometry", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}

// ReadGeometry loads a geometry saved by WriteGeometry.
func ReadGeometry(path string) (domain.BoardGeometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.BoardGeometry{}, &domain.OpError{Op: "pipeline.read_geometry", Kind: domain.KindIO, Path: path, Err: err}
	}
	var geom domain.BoardGeometry
	if err := json.Unmarshal(data, &geom); err != nil {
		return domain.BoardGeometry{}, &domain.OpError{Op: "pipeline.read_geometry", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := geom.Validate(); err != nil {
		return domain.BoardGeometry{}, &domain.OpError{Op: "pipeline.read_geometry", Kind: domain.KindGeometry, Path: path, Err: err}
	}
	return geom, nil
}
