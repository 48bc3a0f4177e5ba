package canopy

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the YAML description of a game window and its assets.
//
//	title: Demo
//	width: 800
//	height: 600
//	asset_root: ./static          # or http(s)://host/path
//	assets: [hero.json]
//	fonts: [Go-Regular.ttf]
//	max_frame_delta: 100ms
//	log_level: info
type Config struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
	TPS       int    `yaml:"tps"`
	ShowFPS   bool   `yaml:"show_fps"`

	AssetRoot       string   `yaml:"asset_root"`
	Assets          []string `yaml:"assets"`
	Fonts           []string `yaml:"fonts"`
	LoadConcurrency int      `yaml:"load_concurrency"`

	MaxFrameDelta time.Duration `yaml:"max_frame_delta"`
	Debug         bool          `yaml:"debug"`
	LogLevel      string        `yaml:"log_level"`
	ScreenshotDir string        `yaml:"screenshot_dir"`

	// Terminal backend cell size in scene pixels.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// DefaultConfig returns the values used for keys a config file omits.
func DefaultConfig() Config {
	return Config{
		Title:           "canopy",
		Width:           800,
		Height:          600,
		Resizable:       true,
		AssetRoot:       ".",
		LoadConcurrency: defaultLoadConcurrency,
		LogLevel:        "info",
		ScreenshotDir:   "screenshots",
		CellWidth:       8,
		CellHeight:      16,
	}
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("canopy: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("canopy: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TPS < 0 {
		errs = append(errs, fmt.Errorf("tps %d must not be negative", c.TPS))
	}
	if c.LoadConcurrency < 0 {
		errs = append(errs, fmt.Errorf("load_concurrency %d must not be negative", c.LoadConcurrency))
	}
	if c.MaxFrameDelta < 0 {
		errs = append(errs, fmt.Errorf("max_frame_delta %s must not be negative", c.MaxFrameDelta))
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell size %dx%d must be positive", c.CellWidth, c.CellHeight))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	for _, p := range c.Assets {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("assets: empty path"))
			break
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("canopy: invalid config: %w", err)
	}
	return nil
}

// Source returns an HTTPSource for http(s) asset roots and a DirSource
// otherwise.
func (c Config) Source() AssetSource {
	if strings.HasPrefix(c.AssetRoot, "http://") || strings.HasPrefix(c.AssetRoot, "https://") {
		return HTTPSource{BaseURL: c.AssetRoot}
	}
	return DirSource(c.AssetRoot)
}

// Logger returns NewLogger at the configured level.
func (c Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return NewLogger().Level(level)
}

// Options returns Game options for the config.
func (c Config) Options() Options {
	logger := c.Logger()
	return Options{
		Assets:          c.Assets,
		Fonts:           c.Fonts,
		Source:          c.Source(),
		Logger:          &logger,
		MaxFrameDelta:   c.MaxFrameDelta,
		Debug:           c.Debug,
		LoadConcurrency: c.LoadConcurrency,
	}
}

// RunConfig returns window settings for Run.
func (c Config) RunConfig() RunConfig {
	return RunConfig{
		Title:     c.Title,
		Width:     c.Width,
		Height:    c.Height,
		Resizable: c.Resizable,
		TPS:       c.TPS,
		ShowFPS:   c.ShowFPS,

		ScreenshotDir: c.ScreenshotDir,
	}
}
