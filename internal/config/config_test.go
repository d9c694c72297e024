package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/recognize"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Board.MinClusterSupport != 15 {
		t.Fatalf("expected defaults, got %+v", cfg.Board)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "picross.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.WorkDir != "/tmp/picross" {
		t.Errorf("work_dir: got %q", cfg.WorkDir)
	}
	if cfg.Board.MinClusterSupport != 20 || cfg.Board.Threshold != 180 {
		t.Errorf("board: got %+v", cfg.Board)
	}
	if cfg.Strips.ColumnTop != 310 || cfg.Strips.ColumnMode != "gaps" || cfg.Strips.RowThreshold != 180 {
		t.Errorf("strips: got %+v", cfg.Strips)
	}
	if cfg.Solver.Timeout != 30*time.Second {
		t.Errorf("solver timeout: got %s", cfg.Solver.Timeout)
	}
	if cfg.Device.Channel != "scrcpy" || cfg.Device.Port != 27183 || cfg.Device.Width != 1080 {
		t.Errorf("device: got %+v", cfg.Device)
	}
	if cfg.Recognition.Palette.White != "#FFFFFF" || cfg.Recognition.Palette.Yellow != "#E0D000" {
		t.Errorf("palette: got %+v", cfg.Recognition.Palette)
	}

	rc := cfg.Recognizer("debug")
	if rc.Strategy != recognize.StrategyColorRun || rc.DebugDir != "debug" || rc.GlyphPadding != 3 {
		t.Errorf("recognizer config: got %+v", rc)
	}
	if bc := cfg.BoardDetection(); bc.Threshold != 180 || bc.MinClusterSupport != 20 {
		t.Errorf("board detection config: got %+v", bc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join("testdata", "invalid.yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindConfig) {
		t.Fatalf("expected config OpError, got %v", err)
	}
	for _, field := range []string{"board.threshold", "strips.column_mode", "device.channel", path} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %q in error, got %v", field, err)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	if !domain.IsKind(err, domain.KindConfig) {
		t.Errorf("missing file: expected config OpError, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !domain.IsKind(err, domain.KindConfig) {
		t.Errorf("bad yaml: expected config OpError, got %v", err)
	}

	palette := filepath.Join(dir, "palette.yaml")
	if err := os.WriteFile(palette, []byte("recognition:\n  palette:\n    yellow: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(palette); err == nil || !strings.Contains(err.Error(), "recognition.palette") {
		t.Errorf("bad palette: got %v", err)
	}
}
