package sched

import (
	"errors"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"
	"go.trai.ch/zerr"

	"redbirden/internal/observability"
)

var (
	// ErrConfigRead is returned when an existing config file cannot be read.
	ErrConfigRead = zerr.New("failed to read config")
	// ErrConfigParse is returned when the config file is not valid YAML.
	ErrConfigParse = zerr.New("failed to parse config")
)

// Config mirrors config.yml
type Config struct {
	ConfigDir          string                  `yaml:"config_dir"`           // directory holding the payload
	PayloadFile        string                  `yaml:"payload_file"`         // redmod.elf (by default)
	FrameMS            int                     `yaml:"frame_ms"`             // 16 (by default)
	GuestLatencyFrames int                     `yaml:"guest_latency_frames"` // 2 (by default)
	CSVPath            string                  `yaml:"csv_path"`             // empty = no event log
	Log                observability.LogConfig `yaml:"log"`
}

// If the config file is not found, we use default values
func DefaultConfig() Config {
	return Config{
		ConfigDir:          ".",
		PayloadFile:        "redmod.elf",
		FrameMS:            16,
		GuestLatencyFrames: 2,
		Log: observability.LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
		},
	}
}

// Load reads YAML and overrides defaults; empty path or a missing file = defaults only
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, zerr.With(zerr.Wrap(err, ErrConfigRead.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), zerr.With(zerr.Wrap(err, ErrConfigParse.Error()), "path", path)
	}

	// sanity clamps
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = "."
	}
	if cfg.PayloadFile == "" {
		cfg.PayloadFile = "redmod.elf"
	}
	if cfg.FrameMS <= 0 {
		cfg.FrameMS = 16
	}
	if cfg.GuestLatencyFrames < 0 {
		cfg.GuestLatencyFrames = 0
	}

	return cfg, nil
}
