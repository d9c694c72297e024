// Package replay turns a solved grid into taps on the device screen.
package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/logger"
)

// InputChannel delivers taps to the device. Enqueue may return before the tap
// is performed; Close flushes everything queued.
type InputChannel interface {
	Enqueue(x, y int) error
	Close() error
}

// MapSolution returns the screen centre of every filled cell in row-major
// order.
//
// The cell pitch is (BottomRight - TopLeft) / side on each axis and the
// point is TopLeft + index*pitch + pitch/2, truncated to whole pixels.
func MapSolution(sol domain.Solution, geom domain.BoardGeometry) []domain.Point {
	cw, ch := geom.CellSize()

	var points []domain.Point
	for y := 0; y < sol.Side; y++ {
		for x := 0; x < sol.Side; x++ {
			if !sol.Filled(x, y) {
				continue
			}
			points = append(points, domain.Point{
				X: int(float64(geom.TopLeft.X) + float64(x)*cw + cw/2),
				Y: int(float64(geom.TopLeft.Y) + float64(y)*ch + ch/2),
			})
		}
	}
	return points
}

// Play maps sol onto the board and sends every point to ch in order. The
// channel is always closed, also when a tap fails or ctx is cancelled.
func Play(ctx context.Context, ch InputChannel, sol domain.Solution, geom domain.BoardGeometry) (err error) {
	if sol.Side != geom.Side {
		ch.Close()
		return fmt.Errorf("solution side %d does not match board side %d", sol.Side, geom.Side)
	}

	defer func() {
		if cerr := ch.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close input channel: %w", cerr))
		}
	}()

	points := MapSolution(sol, geom)
	logger.L().Info("replay.start", "taps", len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("replay interrupted after %d of %d taps: %w", i, len(points), err)
		}
		if err := ch.Enqueue(p.X, p.Y); err != nil {
			return fmt.Errorf("tap %d at (%d,%d): %w", i, p.X, p.Y, err)
		}
	}
	logger.L().Info("replay.queued", "taps", len(points))
	return nil
}
