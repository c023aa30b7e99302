// Package config handles player configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all player settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Playback PlaybackConfig `yaml:"playback"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`

	source string
}

// DataConfig holds asset locations.
type DataConfig struct {
	AssetRoots []string `yaml:"asset_roots"` // Searched in order for relative asset paths
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`

	// Logical canvas the story is laid out on, independent of the window size.
	LogicalWidth  int        `yaml:"logical_width"`
	LogicalHeight int        `yaml:"logical_height"`
	ClearColor    [4]float32 `yaml:"clear_color,flow"`

	ScreenshotDir string `yaml:"screenshot_dir"` // F12 captures land here
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`

	// DeferUntilInput holds music back until the first click or touch.
	DeferUntilInput bool `yaml:"defer_until_input"`
}

// PlaybackConfig holds dialogue timing, layout and static assets.
type PlaybackConfig struct {
	FadeRate       float64 `yaml:"fade_rate"`   // alpha per second
	RevealRate     float64 `yaml:"reveal_rate"` // glyphs per second
	SelectionAlpha float32 `yaml:"selection_alpha"`

	FontPath       string `yaml:"font_path"`
	NameFontSize   int    `yaml:"name_font_size"`
	BodyFontSize   int    `yaml:"body_font_size"`
	ChoiceFontSize int    `yaml:"choice_font_size"`

	FrameImage       string `yaml:"frame_image"`
	FrameNoNameImage string `yaml:"frame_no_name_image"`
	ConfirmSound     string `yaml:"confirm_sound"`

	ChoiceOffsetX float32 `yaml:"choice_offset_x"`
	ChoiceSpacing float32 `yaml:"choice_spacing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			LogicalWidth:  1920,
			LogicalHeight: 1080,
			ClearColor:    [4]float32{0, 0, 0, 1},
			ScreenshotDir: "screenshots",
		},
		Audio: AudioConfig{
			MasterVolume:    0.8,
			MusicVolume:     0.7,
			SFXVolume:       0.8,
			Muted:           false,
			DeferUntilInput: true,
		},
		Playback: PlaybackConfig{
			FadeRate:         2.0,
			RevealRate:       40,
			SelectionAlpha:   0.75,
			FontPath:         "resources/fonts/SourceHanSerifTC-Heavy.otf",
			NameFontSize:     120,
			BodyFontSize:     60,
			ChoiceFontSize:   72,
			FrameImage:       "resources/images/frame.png",
			FrameNoNameImage: "resources/images/frame_no_name.png",
			ConfirmSound:     "resources/sounds/confirm.wav",
			ChoiceOffsetX:    560,
			ChoiceSpacing:    160,
		},
		Data: DataConfig{
			AssetRoots: []string{"."},
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports every setting that would make playback impossible.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0,
		"graphics: window size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	check(c.Graphics.LogicalWidth > 0 && c.Graphics.LogicalHeight > 0,
		"graphics: logical size must be positive, got %dx%d", c.Graphics.LogicalWidth, c.Graphics.LogicalHeight)
	check(c.Graphics.FPSLimit >= 0, "graphics: fps_limit must not be negative, got %d", c.Graphics.FPSLimit)

	volumes := []struct {
		name string
		v    float32
	}{
		{"master_volume", c.Audio.MasterVolume},
		{"music_volume", c.Audio.MusicVolume},
		{"sfx_volume", c.Audio.SFXVolume},
	}
	for _, vol := range volumes {
		check(vol.v >= 0 && vol.v <= 1, "audio: %s must be in [0, 1], got %g", vol.name, vol.v)
	}

	p := c.Playback
	check(p.FadeRate > 0, "playback: fade_rate must be positive, got %g", p.FadeRate)
	check(p.RevealRate > 0, "playback: reveal_rate must be positive, got %g", p.RevealRate)
	check(p.SelectionAlpha >= 0 && p.SelectionAlpha <= 1, "playback: selection_alpha must be in [0, 1], got %g", p.SelectionAlpha)
	check(p.FontPath != "", "playback: font_path is required")
	check(p.NameFontSize > 0 && p.BodyFontSize > 0 && p.ChoiceFontSize > 0,
		"playback: font sizes must be positive, got name %d body %d choice %d", p.NameFontSize, p.BodyFontSize, p.ChoiceFontSize)
	check(p.ChoiceSpacing > 0, "playback: choice_spacing must be positive, got %g", p.ChoiceSpacing)

	check(len(c.Data.AssetRoots) > 0, "data: at least one asset root is required")

	return errors.Join(errs...)
}
