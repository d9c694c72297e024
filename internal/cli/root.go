// Package cli implements the picross-capture command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/picross-capture/internal/config"
	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/ocr"
	"github.com/ironsheep/picross-capture/internal/recognize"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app carries the global flags and everything derived from them.
type app struct {
	info BuildInfo

	configPath string
	logFile    string
	image      string
	debug      bool

	cfg     config.Config
	cleanup func() error

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newEngine builds the digit recognizer; replaced in tests.
	newEngine func(language string) (recognize.Engine, func(), error)
}

func tesseractEngine(language string) (recognize.Engine, func(), error) {
	t, err := ocr.NewTesseract(language)
	if err != nil {
		return nil, nil, err
	}
	return t, func() { _ = t.Close() }, nil
}

// Execute runs the command line and exits non-zero on failure.
func Execute(info BuildInfo) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		info:      info,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newEngine: tesseractEngine,
	}
	if err := a.execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs one command line and closes the logger afterwards, whether
// the command failed or not.
func (a *app) execute(ctx context.Context, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if a.cleanup != nil {
		if cerr := a.cleanup(); cerr != nil && err == nil {
			err = cerr
		}
		a.cleanup = nil
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "picross-capture",
		Short:        "Read a picross puzzle from a phone screenshot, solve it and tap the solution in",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML settings file (defaults apply when omitted)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "verbose logging, board overlay and glyph images in the work directory")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	cmd.PersistentFlags().StringVar(&a.image, "image", "", "use this screenshot instead of capturing one over adb")

	cmd.AddCommand(
		extractCmd(a),
		solveCmd(a),
		replayCmd(a),
		serveCmd(a),
		versionCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	cleanup, err := logger.Setup(logger.Config{File: a.logFile, Debug: a.debug, Stderr: a.stderr})
	if err != nil {
		return err
	}
	a.cleanup = cleanup
	logger.L().Debug("cli.start", "command", cmd.Name(), "config", a.configPath, "version", a.info.Version)
	return nil
}
