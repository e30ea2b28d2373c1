// Package config resolves hub settings through the precedence chain described
// in the system design: OS environment, then ./config.env, then
// <data-dir>/.config.env. Lower-priority sources only fill in values the
// higher-priority ones left unset.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the hub's core subsystems need at startup.
type Config struct {
	DataDir string

	OllamaBaseURL string

	AllowLocalCommands bool
	AllowPythonScript  bool

	// RemoteToolServer is either "url:<http(s)-url>" (streamed-event HTTP) or
	// "stdio:cmd|arg1|arg2" (subprocess), or empty if none is configured.
	RemoteToolServer string

	BraveSearchAPIKey string
	DiscordBotToken   string
	SlackBotToken     string

	DefaultMaxToolIterations int
	ReviewIntervalSeconds    int
	WIPTimeoutSeconds        int
	MaxTasksPerReviewCycle   int
}

// DefaultDataDir returns ~/.hearthhub, the conventional data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hearthhub"
	}
	return filepath.Join(home, ".hearthhub")
}

// Default returns a Config populated with the hub's defaults, before any
// environment or config-file overlay is applied.
func Default() Config {
	return Config{
		DataDir:                  DefaultDataDir(),
		OllamaBaseURL:            "http://localhost:11434",
		AllowLocalCommands:       true,
		AllowPythonScript:        true,
		DefaultMaxToolIterations: 15,
		ReviewIntervalSeconds:    60,
		WIPTimeoutSeconds:        30 * 60,
		MaxTasksPerReviewCycle:   3,
	}
}

// Load resolves the Config by layering, in increasing precedence:
//  1. Default()
//  2. <data-dir>/.config.env
//  3. ./config.env
//  4. the OS environment
//
// Each layer only overrides a key present in that layer's source; godotenv is
// used purely to parse the two .env-style files into a map, it never mutates
// os.Environ() itself, so the OS environment always wins.
func Load() (Config, error) {
	cfg := Default()

	dataDirEnv, err := godotenv.Read(filepath.Join(cfg.DataDir, ".config.env"))
	if err == nil {
		applyEnv(&cfg, dataDirEnv)
	}

	localEnv, err := godotenv.Read("config.env")
	if err == nil {
		applyEnv(&cfg, localEnv)
	}

	osEnv := map[string]string{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			osEnv[parts[0]] = parts[1]
		}
	}
	applyEnv(&cfg, osEnv)

	return cfg, nil
}

func applyEnv(cfg *Config, env map[string]string) {
	if v, ok := env["HEARTHHUB_DATA_DIR"]; ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := env["OLLAMA_BASE_URL"]; ok && v != "" {
		cfg.OllamaBaseURL = v
	}
	if v, ok := env["HEARTHHUB_ALLOW_LOCAL_COMMANDS"]; ok {
		cfg.AllowLocalCommands = parseBool(v, cfg.AllowLocalCommands)
	}
	if v, ok := env["HEARTHHUB_ALLOW_PYTHON_SCRIPT"]; ok {
		cfg.AllowPythonScript = parseBool(v, cfg.AllowPythonScript)
	}
	if v, ok := env["HEARTHHUB_REMOTE_TOOL_SERVER"]; ok && v != "" {
		cfg.RemoteToolServer = v
	}
	if v, ok := env["BRAVE_SEARCH_API_KEY"]; ok && v != "" {
		cfg.BraveSearchAPIKey = v
	}
	if v, ok := env["DISCORD_BOT_TOKEN"]; ok && v != "" {
		cfg.DiscordBotToken = v
	}
	if v, ok := env["SLACK_BOT_TOKEN"]; ok && v != "" {
		cfg.SlackBotToken = v
	}
	if v, ok := env["HEARTHHUB_MAX_TOOL_ITERATIONS"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultMaxToolIterations = n
		}
	}
	if v, ok := env["HEARTHHUB_REVIEW_INTERVAL_SECONDS"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReviewIntervalSeconds = n
		}
	}
	if v, ok := env["HEARTHHUB_WIP_TIMEOUT_SECONDS"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WIPTimeoutSeconds = n
		}
	}
}

func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}
