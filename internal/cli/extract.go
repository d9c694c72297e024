package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/picross-capture/internal/device"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/operator"
	"github.com/ironsheep/picross-capture/internal/pipeline"
	"github.com/ironsheep/picross-capture/internal/recognize"
	"github.com/ironsheep/picross-capture/internal/solver"
)

func extractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Read the clues of a screenshot into a solver puzzle file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, done, err := a.pipeline(nil)
			if err != nil {
				return err
			}
			defer done()

			img, err := a.source().Capture(cmd.Context())
			if err != nil {
				return err
			}
			ext, err := p.Extract(cmd.Context(), img)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "%s\n%s\n", ext.SpecPath, ext.Report)
			return nil
		},
	}
}

// pipeline assembles the pipeline with a console operator. The returned func
// releases the recognition engine.
func (a *app) pipeline(s solver.Solver) (*pipeline.Pipeline, func(), error) {
	engine, release, err := a.newEngine(a.cfg.Recognition.Language)
	if err != nil {
		return nil, nil, fmt.Errorf("digit recognition unavailable: %w", err)
	}
	if release == nil {
		release = func() {}
	}

	console := operator.NewConsole(a.stdin, a.stderr)
	console.KeepImages = a.debug

	debugDir := ""
	if a.debug {
		debugDir = filepath.Join(a.cfg.WorkDir, "glyphs")
	}
	rec := recognize.New(engine, console, a.cfg.Recognizer(debugDir))
	return pipeline.New(pipeline.OptionsFromConfig(a.cfg, a.debug), rec, console, s), release, nil
}

// source picks the cached --image file when set, the device otherwise.
func (a *app) source() device.ScreenshotSource {
	if a.image != "" {
		return &device.FileSource{Path: a.image, Cache: imaging.NewImageCache()}
	}
	return &device.ADBSource{ADB: a.adb()}
}

func (a *app) adb() *device.ADB {
	return device.NewADB(a.cfg.Device.ADBPath, a.cfg.Device.Serial)
}
