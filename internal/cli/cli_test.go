package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/picross-capture/internal/config"
	"github.com/ironsheep/picross-capture/internal/device"
	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/pipeline"
	"github.com/ironsheep/picross-capture/internal/recognize"
)

type stubEngine struct{}

func (stubEngine) RecognizeChar(image.Image) (string, error) { return "1", nil }
func (stubEngine) RecognizeLine(image.Image) (string, error) { return "1", nil }

func newTestApp(stdin string) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	return &app{
		info:   BuildInfo{Version: "1.2.3", BuildTime: "2026-10-01", GitCommit: "abc1234"},
		stdin:  strings.NewReader(stdin),
		stdout: &out,
		stderr: &bytes.Buffer{},
		newEngine: func(string) (recognize.Engine, func(), error) {
			return stubEngine{}, nil, nil
		},
	}, &out
}

func TestVersionCommand(t *testing.T) {
	a, out := newTestApp("")
	if err := a.execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"picross-capture 1.2.3", "2026-10-01", "abc1234"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picross.yaml")
	if err := os.WriteFile(path, []byte("device:\n  channel: bluetooth\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp("")
	err := a.execute(context.Background(), []string{"--config", path, "version"})
	if err == nil {
		t.Fatal("expected a config error")
	}
}

func TestSourceSelection(t *testing.T) {
	a, _ := newTestApp("")
	a.cfg = config.Default()

	if _, ok := a.source().(*device.ADBSource); !ok {
		t.Errorf("no --image: got %T, want *device.ADBSource", a.source())
	}

	a.image = "shot.png"
	src, ok := a.source().(*device.FileSource)
	if !ok {
		t.Fatalf("--image: got %T, want *device.FileSource", a.source())
	}
	if src.Path != "shot.png" || src.Cache == nil {
		t.Errorf("file source = %+v", src)
	}
}

func TestOpenChannel(t *testing.T) {
	a, _ := newTestApp("")
	a.cfg = config.Default()

	ch, err := a.openChannel(context.Background())
	if err != nil {
		t.Fatalf("tap channel: %v", err)
	}
	if _, ok := ch.(*device.TapChannel); !ok {
		t.Errorf("got %T, want *device.TapChannel", ch)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	a.cfg.Device.Channel = "bluetooth"
	ch, err = a.openChannel(context.Background())
	if err == nil || ch != nil {
		t.Fatalf("unknown channel: got %v, %v", ch, err)
	}
	if !strings.Contains(err.Error(), "bluetooth") {
		t.Errorf("error should name the channel: %v", err)
	}
}

func TestExtractWithoutRecognition(t *testing.T) {
	a, _ := newTestApp("")
	a.newEngine = func(string) (recognize.Engine, func(), error) {
		return nil, nil, errors.New("tesseract missing")
	}
	err := a.execute(context.Background(), []string{"--image", "missing.png", "extract"})
	if err == nil || !strings.Contains(err.Error(), "tesseract missing") {
		t.Fatalf("expected the engine error, got %v", err)
	}
}

func TestExtractMissingImage(t *testing.T) {
	a, _ := newTestApp("")
	err := a.execute(context.Background(), []string{"--image", filepath.Join(t.TempDir(), "none.png"), "extract"})
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected an io error, got %v", err)
	}
}

func writeReplayFiles(t *testing.T) (board, solution string) {
	t.Helper()
	dir := t.TempDir()
	board = filepath.Join(dir, pipeline.BoardFile)
	solution = filepath.Join(dir, pipeline.SolutionFile)

	geom := domain.BoardGeometry{
		Side:        2,
		TopLeft:     domain.Point{X: 0, Y: 0},
		BottomRight: domain.Point{X: 100, Y: 100},
	}
	if err := pipeline.WriteGeometry(board, geom); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(solution, []byte("#.\n.#\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return board, solution
}

func TestReplayPrint(t *testing.T) {
	board, solution := writeReplayFiles(t)
	a, out := newTestApp("")

	err := a.execute(context.Background(), []string{"replay", "--print", "--board", board, "--solution", solution})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if out.String() != "25 25\n75 75\n" {
		t.Errorf("taps:\n%s", out.String())
	}
}

func TestReplayMissingFiles(t *testing.T) {
	board, solution := writeReplayFiles(t)
	missing := filepath.Join(t.TempDir(), "nothing")

	tests := []struct {
		name string
		args []string
	}{
		{"no board", []string{"replay", "--print", "--board", missing, "--solution", solution}},
		{"no solution", []string{"replay", "--print", "--board", board, "--solution", missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp("")
			err := a.execute(context.Background(), tt.args)
			if !domain.IsKind(err, domain.KindIO) {
				t.Errorf("expected an io error, got %v", err)
			}
		})
	}
}

func TestServeWithoutRecognition(t *testing.T) {
	req := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n"
	a, out := newTestApp(req)
	a.newEngine = func(string) (recognize.Engine, func(), error) {
		return nil, nil, errors.New("tesseract missing")
	}

	if err := a.execute(context.Background(), []string{"serve"}); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if !strings.Contains(out.String(), `"picross-capture"`) {
		t.Errorf("initialize response missing server name:\n%s", out.String())
	}
}
