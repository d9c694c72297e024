package device

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/logger"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. Standard error is folded into the
// returned error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// ADB invokes the adb binary, optionally pinned to one device serial.
type ADB struct {
	Path   string
	Serial string
	Run    Runner
}

// NewADB creates an ADB using path (default "adb") and ExecRunner.
func NewADB(path, serial string) *ADB {
	if path == "" {
		path = "adb"
	}
	return &ADB{Path: path, Serial: serial, Run: ExecRunner}
}

// Args prefixes args with the device selector.
func (a *ADB) Args(args ...string) []string {
	if a.Serial == "" {
		return args
	}
	return append([]string{"-s", a.Serial}, args...)
}

// Command runs adb with args.
func (a *ADB) Command(ctx context.Context, args ...string) ([]byte, error) {
	run := a.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, a.Path, a.Args(args...)...)
	if err != nil {
		return out, &domain.OpError{Op: "adb." + args[0], Kind: domain.KindIO, Err: err}
	}
	return out, nil
}

// ScreenshotSource yields the current screen of the device.
type ScreenshotSource interface {
	Capture(ctx context.Context) (image.Image, error)
}

// ADBSource captures screenshots with "adb exec-out screencap -p".
type ADBSource struct {
	ADB *ADB
}

func (s *ADBSource) Capture(ctx context.Context) (image.Image, error) {
	out, err := s.ADB.Command(ctx, "exec-out", "screencap", "-p")
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, &domain.OpError{Op: "adb.screencap", Kind: domain.KindIO, Err: err}
	}
	logger.L().Info("screenshot.captured", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

// FileSource returns a screenshot saved earlier, through the image cache.
type FileSource struct {
	Path  string
	Cache *imaging.ImageCache
}

func (s *FileSource) Capture(ctx context.Context) (image.Image, error) {
	cache := s.Cache
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	img, err := cache.Load(s.Path)
	if err != nil {
		return nil, &domain.OpError{Op: "screenshot.load", Kind: domain.KindIO, Path: s.Path, Err: err}
	}
	logger.L().Info("screenshot.loaded", "path", s.Path)
	return img, nil
}
