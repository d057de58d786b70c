package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brensch/whoson/config"
)

// unsetenv clears key for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")
	unsetenv(t, "APP_ANNOUNCE_CHANNEL")
	unsetenv(t, "APP_COMMAND_PHRASE")

	cfg, err := config.Load(config.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Discord.Token != "secret" {
		t.Errorf("token = %q, want secret", cfg.Discord.Token)
	}
	if cfg.Announce.Channel != "testing" {
		t.Errorf("announce channel = %q, want testing", cfg.Announce.Channel)
	}
	if cfg.Command.Phrase != "who on?" {
		t.Errorf("command phrase = %q, want who on?", cfg.Command.Phrase)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadMissingToken(t *testing.T) {
	unsetenv(t, "DISCORD_TOKEN")

	if _, err := config.Load(config.Options{}); err == nil {
		t.Fatal("expected an error without a token")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
discord:
  token: from-file
  app_id: "1234"
announce:
  channel: games
log:
  level: warn
  timezone: UTC
`)
	unsetenv(t, "DISCORD_TOKEN")
	t.Setenv("APP_ANNOUNCE_CHANNEL", "lobby")

	cfg, err := config.Load(config.Options{
		Files: []string{filepath.Join(t.TempDir(), "missing.yaml"), path},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Discord.Token != "from-file" {
		t.Errorf("token = %q, want from-file", cfg.Discord.Token)
	}
	if cfg.Discord.AppID != "1234" {
		t.Errorf("app id = %q, want 1234", cfg.Discord.AppID)
	}
	if cfg.Announce.Channel != "lobby" {
		t.Errorf("announce channel = %q, environment should win over the file", cfg.Announce.Channel)
	}
	if cfg.Log.Level != "warn" || cfg.Log.TimeZone != "UTC" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadDotEnv(t *testing.T) {
	unsetenv(t, "DISCORD_TOKEN")
	unsetenv(t, "APP_COMMAND_PHRASE")
	path := writeFile(t, ".env", "DISCORD_TOKEN=from-dotenv\nAPP_COMMAND_PHRASE=anyone on?\n")

	cfg, err := config.Load(config.Options{DotEnv: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.Token != "from-dotenv" {
		t.Errorf("token = %q, want from-dotenv", cfg.Discord.Token)
	}
	if cfg.Command.Phrase != "anyone on?" {
		t.Errorf("command phrase = %q, want anyone on?", cfg.Command.Phrase)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "from-env")
	path := writeFile(t, ".env", "DISCORD_TOKEN=from-dotenv\n")

	cfg, err := config.Load(config.Options{DotEnv: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.Token != "from-env" {
		t.Errorf("token = %q, the real environment should win", cfg.Discord.Token)
	}
}

func TestLoadMissingDotEnvIsFine(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "secret")

	if _, err := config.Load(config.Options{DotEnv: filepath.Join(t.TempDir(), ".env")}); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
