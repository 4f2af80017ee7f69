// Package config resolves runtime settings from a json config file under
// the user's config dir, overridden by environment variables. The session
// cookie is environment-only, it never touches disk.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const configFileName = "chatConfig.json"

// Config holds every tunable of the application.
type Config struct {
	Cookie             string   `json:"-"`
	APIKey             string   `json:"-"`
	Model              string   `json:"model"`
	ConversationID     string   `json:"conversation_id"`
	UserAgent          string   `json:"user_agent"`
	RequestTimeoutSecs int      `json:"request_timeout_seconds"`
	ToolTimeoutSecs    int      `json:"tool_timeout_seconds"`
	AllowedTools       []string `json:"allowed_tools"`
	SearchAPIKey       string   `json:"-"`
	UploadDir          string   `json:"upload_dir"`
	UploadMaxAgeHours  int      `json:"upload_max_age_hours"`
}

func defaultConfig() Config {
	return Config{
		RequestTimeoutSecs: 300,
		ToolTimeoutSecs:    30,
		UploadDir:          "uploads",
		UploadMaxAgeHours:  24,
	}
}

// RequestTimeout is how long one completion request may run.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// ToolTimeout bounds each individual tool execution.
func (c Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSecs) * time.Second
}

// UploadMaxAge is how old an upload may get before cleanup removes it.
func (c Config) UploadMaxAge() time.Duration {
	return time.Duration(c.UploadMaxAgeHours) * time.Hour
}

// Load reads the config file from configDir, creating it with defaults on
// first run, then applies environment overrides.
func Load(configDir string) (Config, error) {
	cfg, err := loadFile(configDir)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(configDir string) (Config, error) {
	cfg := defaultConfig()
	dir := filepath.Join(configDir, ".claude-project-chat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cfg, fmt.Errorf("failed to create config dir: %w", err)
	}
	configPath := filepath.Join(dir, configFileName)
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("attempting to load config: %v\n", configPath))
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return cfg, fmt.Errorf("failed to encode default config: %w", err)
		}
		if err := os.WriteFile(configPath, b, 0o644); err != nil {
			return cfg, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}
	b, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config '%v': %w", configPath, err)
	}
	return cfg, nil
}

// applyEnv layers environment variables on top of the file values.
func applyEnv(cfg *Config) {
	cfg.Cookie = os.Getenv("CLAUDE_COOKIE")
	cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.SearchAPIKey = os.Getenv("WEB_SEARCH_API_KEY")
	if v := os.Getenv("CLAUDE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CLAUDE_CONVERSATION_ID"); v != "" {
		cfg.ConversationID = v
	}
	if v := os.Getenv("CLAUDE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("CLAUDE_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("CLAUDE_TOOL_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			ancli.PrintWarn(fmt.Sprintf("ignoring non-numeric CLAUDE_TOOL_TIMEOUT: %v\n", v))
		} else {
			cfg.ToolTimeoutSecs = secs
		}
	}
	if v := os.Getenv("CLAUDE_REQUEST_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			ancli.PrintWarn(fmt.Sprintf("ignoring non-numeric CLAUDE_REQUEST_TIMEOUT: %v\n", v))
		} else {
			cfg.RequestTimeoutSecs = secs
		}
	}
	if v := os.Getenv("CLAUDE_ALLOWED_TOOLS"); v != "" {
		var allowed []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				allowed = append(allowed, name)
			}
		}
		cfg.AllowedTools = allowed
	}
}
