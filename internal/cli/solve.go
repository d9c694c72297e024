package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/picross-capture/internal/device"
	"github.com/ironsheep/picross-capture/internal/replay"
	"github.com/ironsheep/picross-capture/internal/solver"
)

func solveCmd(a *app) *cobra.Command {
	var dryRun bool

	c := &cobra.Command{
		Use:   "solve",
		Short: "Extract the puzzle, run the solver and tap the solution on the device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := solver.NewExec(a.cfg.Solver.Path, a.cfg.Solver.Timeout)
			s.Args = a.cfg.Solver.Args
			p, done, err := a.pipeline(s)
			if err != nil {
				return err
			}
			defer done()

			if dryRun {
				img, err := a.source().Capture(cmd.Context())
				if err != nil {
					return err
				}
				ext, err := p.Extract(cmd.Context(), img)
				if err != nil {
					return err
				}
				sol, err := p.Solve(cmd.Context(), ext)
				if err != nil {
					return err
				}
				fmt.Fprint(a.stdout, sol.String())
				return nil
			}
			return p.Run(cmd.Context(), a.source(), a.openChannel)
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "print the solution instead of tapping it")
	return c
}

// openChannel opens the configured tap channel.
func (a *app) openChannel(ctx context.Context) (replay.InputChannel, error) {
	d := a.cfg.Device
	switch d.Channel {
	case "scrcpy":
		ch, err := device.LaunchScrcpy(ctx, a.adb(), device.ScrcpyConfig{
			ServerJar:     d.ServerJar,
			ServerVersion: d.ServerVersion,
			Port:          d.Port,
			Width:         d.Width,
			Height:        d.Height,
		})
		if err != nil {
			return nil, err
		}
		return ch, nil
	case "tap":
		return device.NewTapChannel(ctx, a.adb(), d.TapDelay), nil
	default:
		return nil, fmt.Errorf("unknown input channel %q", d.Channel)
	}
}
