package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/picross-capture/internal/pipeline"
	"github.com/ironsheep/picross-capture/internal/puzzle"
	"github.com/ironsheep/picross-capture/internal/replay"
)

func replayCmd(a *app) *cobra.Command {
	var solutionPath, boardPath string
	var printOnly bool

	c := &cobra.Command{
		Use:   "replay",
		Short: "Tap a saved solution onto the board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if solutionPath == "" {
				solutionPath = filepath.Join(a.cfg.WorkDir, pipeline.SolutionFile)
			}
			if boardPath == "" {
				boardPath = filepath.Join(a.cfg.WorkDir, pipeline.BoardFile)
			}

			geom, err := pipeline.ReadGeometry(boardPath)
			if err != nil {
				return err
			}
			sol, err := puzzle.ReadSolutionFile(solutionPath, geom.Side)
			if err != nil {
				return err
			}

			if printOnly {
				for _, p := range replay.MapSolution(sol, geom) {
					fmt.Fprintf(a.stdout, "%d %d\n", p.X, p.Y)
				}
				return nil
			}

			ch, err := a.openChannel(cmd.Context())
			if err != nil {
				return err
			}
			return replay.Play(cmd.Context(), ch, sol, geom)
		},
	}

	c.Flags().StringVar(&solutionPath, "solution", "", "solution grid file (default <work_dir>/solution.txt)")
	c.Flags().StringVar(&boardPath, "board", "", "board geometry file (default <work_dir>/board.json)")
	c.Flags().BoolVar(&printOnly, "print", false, "print tap coordinates instead of sending them")
	return c
}
