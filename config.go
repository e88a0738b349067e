package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is read from the environment. .env is loaded first by godotenv.
type Config struct {
	Port            string        `mapstructure:"PORT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	TemplateGlob    string        `mapstructure:"TEMPLATE_GLOB"`
	ContentPath     string        `mapstructure:"CONTENT_PATH"`
	ScanInterval    time.Duration `mapstructure:"SCAN_INTERVAL"`
	TypewriterDelay time.Duration `mapstructure:"TYPEWRITER_DELAY"`
	TrackVisitors   bool          `mapstructure:"TRACK_VISITORS"`
}

func defaultConfig() Config {
	return Config{
		Port:            "8080",
		TemplateGlob:    "templates/*",
		ScanInterval:    16 * time.Millisecond,
		TypewriterDelay: time.Second,
		TrackVisitors:   true,
	}
}

// loadConfig decodes KEY=VALUE pairs, as from os.Environ, over the defaults.
// Unknown keys are ignored.
func loadConfig(environ []string) (Config, error) {
	cfg := defaultConfig()

	env := make(map[string]interface{})
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		env[key] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(env); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if cfg.ScanInterval <= 0 {
		return cfg, fmt.Errorf("SCAN_INTERVAL must be positive, got %s", cfg.ScanInterval)
	}
	if cfg.TypewriterDelay < 0 {
		return cfg, fmt.Errorf("TYPEWRITER_DELAY must not be negative, got %s", cfg.TypewriterDelay)
	}
	return cfg, nil
}
