package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	Discord struct {
		Token string `koanf:"token" yaml:"token"`
		// AppID defaults to the bot user's id when empty.
		AppID string `koanf:"app_id" yaml:"app_id"`
	} `koanf:"discord" yaml:"discord"`

	Announce struct {
		Channel string `koanf:"channel" yaml:"channel"`
	} `koanf:"announce" yaml:"announce"`

	Command struct {
		Phrase string `koanf:"phrase" yaml:"phrase"`
	} `koanf:"command" yaml:"command"`

	Log struct {
		Level    string `koanf:"level" yaml:"level"`
		TimeZone string `koanf:"timezone" yaml:"timezone"`
	} `koanf:"log" yaml:"log"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// Files are tried in order; the first one that exists is loaded.
	Files []string
	// DotEnv is a file of KEY=value lines seeded into the process environment.
	// Variables already set are left alone.
	DotEnv string
}

// DefaultOptions are the locations used by Get.
func DefaultOptions() Options {
	return Options{
		Files: []string{
			"/etc/whoson/config.yaml",         // Standard system location
			"/config/config.yaml",             // Docker mounted volume location
			filepath.Join(".", "config.yaml"), // Local file in current directory
		},
		DotEnv: ".env",
	}
}

// Global singleton config instance
var (
	cfg  *AppConfig
	once sync.Once
)

// Get returns the global AppConfig instance
func Get() *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = Load(DefaultOptions())
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
	})
	return cfg
}

// Load configuration from various sources with proper precedence:
// defaults, then the first config file found, then the environment.
func Load(opts Options) (*AppConfig, error) {
	k := koanf.New(".")

	// Default configuration
	defaultConfig := map[string]interface{}{
		"announce.channel": "testing",
		"command.phrase":   "who on?",
		"log.level":        "debug",
	}
	if err := k.Load(confmap.Provider(defaultConfig, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	configLoaded := false
	for _, loc := range opts.Files {
		if _, err := os.Stat(loc); err == nil {
			slog.Info("Loading configuration file", "path", loc)
			if err := k.Load(file.Provider(loc), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config file %s: %w", loc, err)
			}
			configLoaded = true
			break
		}
	}

	if !configLoaded {
		slog.Warn("No config file found in any of the expected locations",
			"searched_locations", opts.Files)
	}

	if opts.DotEnv != "" {
		err := godotenv.Load(opts.DotEnv)
		switch {
		case err == nil:
			slog.Info("Seeded environment from file", "path", opts.DotEnv)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("error loading env file %s: %w", opts.DotEnv, err)
		}
	}

	// DISCORD_TOKEN -> discord.token
	if err := k.Load(env.Provider("DISCORD_", ".", func(s string) string {
		if s == "DISCORD_TOKEN" {
			return "discord.token"
		}
		return ""
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Environment variables (highest priority)
	// Format: APP_ANNOUNCE_CHANNEL -> announce.channel
	callback := func(s string) string {
		s = strings.Replace(strings.ToLower(s), "app_", "", 1)
		// Only the first underscore separates section from key.
		return strings.Replace(s, "_", ".", 1)
	}

	if err := k.Load(env.Provider("APP_", ".", callback), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Create config instance
	var cfg AppConfig
	decoderConfig := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
		},
	}

	if err := k.UnmarshalWithConf("", &cfg, decoderConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Log configuration details (with sensitive information redacted)
	slog.Debug("Configuration loaded",
		"announce_channel", cfg.Announce.Channel,
		"command_phrase", cfg.Command.Phrase,
		"discord_app_id", cfg.Discord.AppID,
		"token_present", cfg.Discord.Token != "")

	// Validate required configurations
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord.token is required (set DISCORD_TOKEN)")
	}

	if cfg.Announce.Channel == "" {
		return nil, fmt.Errorf("announce.channel must not be empty")
	}

	if strings.TrimSpace(cfg.Command.Phrase) == "" {
		return nil, fmt.Errorf("command.phrase must not be empty")
	}

	return &cfg, nil
}
