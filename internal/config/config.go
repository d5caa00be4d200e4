package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pwinty/internal/pwinty"
)

// Config captures the credentials and runtime settings for the pwinty CLI.
type Config struct {
	MerchantID string
	APIKey     string
	Host       string
	Timeout    time.Duration
	LogFile    string
	LogLevel   string
}

// ErrMissingCredentials is returned by Validate when the merchant id or API
// key is empty.
var ErrMissingCredentials = errors.New("merchant_id and api_key are required")

const (
	defaultConfigPath = "~/.config/pwinty/config.toml"
	defaultLogFile    = "~/.local/state/pwinty/pwinty.log"
	defaultTimeout    = 30 * time.Second
	defaultLogLevel   = "info"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Credentials are not required here; see Validate.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Host:     pwinty.DefaultHost,
		Timeout:  defaultTimeout,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		MerchantID     string `toml:"merchant_id"`
		APIKey         string `toml:"api_key"`
		Host           string `toml:"host"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.MerchantID = strings.TrimSpace(raw.MerchantID)
	cfg.APIKey = strings.TrimSpace(raw.APIKey)

	if host := strings.TrimSpace(raw.Host); host != "" {
		cfg.Host = host
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	return cfg, nil
}

// Validate reports missing credentials.
func (c Config) Validate() error {
	if c.MerchantID == "" || c.APIKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Sandbox reports whether the config points at the sandbox endpoint.
func (c Config) Sandbox() bool {
	return strings.Contains(c.Host, "sandbox.")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
