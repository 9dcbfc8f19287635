// pattern: Imperative Shell

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized on top of the config file.
const (
	EnvClickUpToken = "GITCLICK_CLICKUP_PERSONAL_TOKEN"
	EnvGitHubToken  = "GITCLICK_GITHUB_PERSONAL_TOKEN"
	EnvGitHubOrg    = "GITCLICK_GITHUB_ORG"
	EnvBaseBranch   = "GITCLICK_BASE_BRANCH"
	EnvLogLevel     = "GITCLICK_LOG_LEVEL"
)

// EnvKeys lists every environment variable that affects a sync.
var EnvKeys = []string{EnvClickUpToken, EnvGitHubToken, EnvGitHubOrg, EnvBaseBranch, EnvLogLevel}

const (
	DefaultBaseBranch = "main"
	DefaultRemote     = "origin"
	DefaultTimeout    = 30 * time.Second
	DefaultClickUpURL = "https://api.clickup.com/api/v2"
)

type Config struct {
	ClickUpToken string        `yaml:"clickup_token"`
	GitHubToken  string        `yaml:"github_token"`
	GitHubOrg    string        `yaml:"github_org"`
	BaseBranch   string        `yaml:"base_branch"`
	Remote       string        `yaml:"remote"`
	ClickUpURL   string        `yaml:"clickup_url"`
	GitHubURL    string        `yaml:"github_url"` // empty means api.github.com
	Timeout      time.Duration `yaml:"timeout"`
	LogLevel     string        `yaml:"log_level"`
	Theme        string        `yaml:"theme"`
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func DefaultConfig() Config {
	return Config{
		BaseBranch: DefaultBaseBranch,
		Remote:     DefaultRemote,
		ClickUpURL: DefaultClickUpURL,
		Timeout:    DefaultTimeout,
		LogLevel:   "info",
		Theme:      "mocha",
	}
}

// Load reads config.yaml from the default config directory.
func Load() (Config, error) {
	return LoadFromDir(Dir(""))
}

// LoadFromDir reads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads a config file. A missing file yields the defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", configPath, err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.BaseBranch == "" {
		c.BaseBranch = def.BaseBranch
	}
	if c.Remote == "" {
		c.Remote = def.Remote
	}
	if c.ClickUpURL == "" {
		c.ClickUpURL = def.ClickUpURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
}

// ApplyEnv overlays recognized environment variables. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvClickUpToken, &c.ClickUpToken)
	set(EnvGitHubToken, &c.GitHubToken)
	set(EnvGitHubOrg, &c.GitHubOrg)
	set(EnvBaseBranch, &c.BaseBranch)
	set(EnvLogLevel, &c.LogLevel)
}

// LoadDotEnv reads a .env file. A missing file yields an empty map.
func LoadDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

// WithFallback returns a lookup that consults primary first and falls back
// to values, so real environment variables win over a .env file.
func WithFallback(primary LookupFunc, values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

// Validate checks the settings a sync needs.
func (c *Config) Validate() error {
	var missing []string
	if c.ClickUpToken == "" {
		missing = append(missing, fmt.Sprintf("ClickUp token (%s or clickup_token)", EnvClickUpToken))
	}
	if c.GitHubToken == "" {
		missing = append(missing, fmt.Sprintf("GitHub token (%s or github_token)", EnvGitHubToken))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, " and "))
	}
	if c.BaseBranch == "" {
		return errors.New("base branch must not be empty")
	}
	return nil
}

// Dir returns the config directory: override if set, else
// $XDG_CONFIG_HOME/gitclick, else ~/.config/gitclick.
func Dir(override string) string {
	if override != "" {
		return override
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gitclick")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gitclick")
	}

	return filepath.Join(home, ".config", "gitclick")
}

// LogPath returns the log file location inside the config directory.
func LogPath(dir string) string {
	return filepath.Join(dir, "gitclick.log")
}
