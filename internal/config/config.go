// Package config loads the YAML settings file.
//
// Every field has a default, so a file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/picross-capture/internal/detection"
	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
	"github.com/ironsheep/picross-capture/internal/recognize"
	"github.com/ironsheep/picross-capture/internal/segment"
)

type Config struct {
	// WorkDir receives the puzzle file, solver output and debug images.
	WorkDir string `yaml:"work_dir"`

	Board       Board       `yaml:"board"`
	Strips      Strips      `yaml:"strips"`
	Recognition Recognition `yaml:"recognition"`
	Solver      Solver      `yaml:"solver"`
	Device      Device      `yaml:"device"`
}

type Board struct {
	Threshold         int `yaml:"threshold"`
	MinClusterSupport int `yaml:"min_cluster_support"`
}

// Strips configures the clue strips left of and above the board.
type Strips struct {
	RowChannel      string `yaml:"row_channel"`
	RowThreshold    int    `yaml:"row_threshold"`
	ColumnChannel   string `yaml:"column_channel"`
	ColumnThreshold int    `yaml:"column_threshold"`

	// ColumnTop is the first screenshot row of the column strip; the UI
	// chrome above it is ignored.
	ColumnTop int `yaml:"column_top"`

	Margin     int    `yaml:"margin"`
	ColumnMode string `yaml:"column_mode"`
}

type Recognition struct {
	Strategy     string  `yaml:"strategy"`
	GlyphPadding int     `yaml:"glyph_padding"`
	MinGlyphArea int     `yaml:"min_glyph_area"`
	Language     string  `yaml:"language"`
	Palette      Palette `yaml:"palette"`
}

type Palette struct {
	Black  string `yaml:"black"`
	White  string `yaml:"white"`
	Yellow string `yaml:"yellow"`
}

type Solver struct {
	Path    string        `yaml:"path"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

type Device struct {
	ADBPath  string        `yaml:"adb_path"`
	Serial   string        `yaml:"serial"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Channel  string        `yaml:"channel"` // "tap" or "scrcpy"
	TapDelay time.Duration `yaml:"tap_delay"`

	Port          int    `yaml:"port"`
	ServerJar     string `yaml:"server_jar"`
	ServerVersion string `yaml:"server_version"`
}

// Default returns the settings for the stock puzzle UI on a 1080x2400 phone.
func Default() Config {
	return Config{
		WorkDir: "work",
		Board: Board{
			Threshold:         180,
			MinClusterSupport: 15,
		},
		Strips: Strips{
			RowChannel:      "green",
			RowThreshold:    180,
			ColumnChannel:   "green",
			ColumnThreshold: 150,
			ColumnTop:       230,
			Margin:          segment.DefaultMargin,
			ColumnMode:      string(segment.ModeCells),
		},
		Recognition: Recognition{
			Strategy:     string(recognize.StrategyContour),
			GlyphPadding: 3,
			MinGlyphArea: 3,
			Language:     "eng",
			Palette: Palette{
				Black:  "#000000",
				White:  "#FFFFFF",
				Yellow: "#DDCF00",
			},
		},
		Solver: Solver{
			Timeout: 2 * time.Minute,
		},
		Device: Device{
			ADBPath:       "adb",
			Width:         1080,
			Height:        2400,
			Channel:       "tap",
			TapDelay:      50 * time.Millisecond,
			Port:          27183,
			ServerVersion: "3.2",
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &domain.OpError{Op: "config.load", Kind: domain.KindConfig, Path: path, Err: err}
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, &domain.OpError{Op: "config.load", Kind: domain.KindConfig, Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &domain.OpError{Op: "config.load", Kind: domain.KindConfig, Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.WorkDir != "", "work_dir must not be empty")
	check(inByte(c.Board.Threshold), "board.threshold must be 0..255, got %d", c.Board.Threshold)
	check(c.Board.MinClusterSupport >= 1, "board.min_cluster_support must be >= 1, got %d", c.Board.MinClusterSupport)

	_, ok := imaging.ParseChannel(c.Strips.RowChannel)
	check(ok, "strips.row_channel: unknown channel %q", c.Strips.RowChannel)
	_, ok = imaging.ParseChannel(c.Strips.ColumnChannel)
	check(ok, "strips.column_channel: unknown channel %q", c.Strips.ColumnChannel)
	check(inByte(c.Strips.RowThreshold), "strips.row_threshold must be 0..255, got %d", c.Strips.RowThreshold)
	check(inByte(c.Strips.ColumnThreshold), "strips.column_threshold must be 0..255, got %d", c.Strips.ColumnThreshold)
	check(c.Strips.ColumnTop >= 0, "strips.column_top must be >= 0, got %d", c.Strips.ColumnTop)
	check(c.Strips.Margin >= 0, "strips.margin must be >= 0, got %d", c.Strips.Margin)
	_, ok = segment.ParseMode(c.Strips.ColumnMode)
	check(ok, "strips.column_mode: unknown mode %q", c.Strips.ColumnMode)

	_, ok = recognize.ParseStrategy(c.Recognition.Strategy)
	check(ok, "recognition.strategy: unknown strategy %q", c.Recognition.Strategy)
	check(c.Recognition.GlyphPadding >= 0, "recognition.glyph_padding must be >= 0")
	check(c.Recognition.MinGlyphArea >= 1, "recognition.min_glyph_area must be >= 1")
	check(c.Recognition.Language != "", "recognition.language must not be empty")
	if _, err := c.palette(); err != nil {
		errs = append(errs, fmt.Errorf("recognition.palette: %w", err))
	}

	check(c.Solver.Timeout > 0, "solver.timeout must be positive")

	check(c.Device.Channel == "tap" || c.Device.Channel == "scrcpy", "device.channel must be tap or scrcpy, got %q", c.Device.Channel)
	check(c.Device.Width > 0 && c.Device.Height > 0, "device.width and device.height must be positive")
	check(c.Device.Port > 0 && c.Device.Port < 65536, "device.port out of range: %d", c.Device.Port)
	check(c.Device.TapDelay >= 0, "device.tap_delay must not be negative")

	return errors.Join(errs...)
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

func (c Config) palette() (imaging.Palette, error) {
	p := c.Recognition.Palette
	return imaging.ParsePalette(p.Black, p.White, p.Yellow)
}

// BoardDetection returns the board detector settings.
func (c Config) BoardDetection() detection.BoardConfig {
	return detection.BoardConfig{
		Threshold:         uint8(c.Board.Threshold),
		MinClusterSupport: c.Board.MinClusterSupport,
	}
}

// Recognizer returns the recognizer settings. debugDir may be empty.
func (c Config) Recognizer(debugDir string) recognize.Config {
	strategy, _ := recognize.ParseStrategy(c.Recognition.Strategy)
	palette, err := c.palette()
	if err != nil {
		palette = imaging.DefaultPalette()
	}
	return recognize.Config{
		Strategy:     strategy,
		GlyphPadding: c.Recognition.GlyphPadding,
		MinGlyphArea: c.Recognition.MinGlyphArea,
		Palette:      palette,
		DebugDir:     debugDir,
	}
}
