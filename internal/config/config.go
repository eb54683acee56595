// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/doover17/chatcli/internal/cloud"
	"github.com/doover17/chatcli/internal/util"
)

// Configuration keys. They double as flag names, TOML keys and, upper-cased
// with a CHATCLI_ prefix, environment variable names.
const (
	KeyAPIKey       = "api-key"
	KeyBaseURL      = "base-url"
	KeyModel        = "model"
	KeyHistoryFile  = "history-file"
	KeySystemPrompt = "system-prompt"
	KeyTimeout      = "timeout"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
	KeyLogFile      = "log-file"
	KeyWithCaller   = "with-caller"
)

// Defaults.
const (
	DefaultModel        = cloud.DefaultModel
	DefaultHistoryFile  = "~/.chatcli_history.json"
	DefaultSystemPrompt = "You are a helpful assistant responding to queries from the command line."
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"

	envPrefix = "chatcli"
	dirName   = ".chatcli"
	fileName  = "config.toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the effective configuration after all sources are merged.
type Config struct {
	APIKey       string `toml:"api-key,omitempty"`
	BaseURL      string `toml:"base-url,omitempty"`
	Model        string `toml:"model"`
	HistoryFile  string `toml:"history-file"`
	SystemPrompt string `toml:"system-prompt"`

	// Timeout is the per-request HTTP timeout in seconds; 0 disables it.
	Timeout int `toml:"timeout"`

	LogLevel   string `toml:"log-level"`
	LogFormat  string `toml:"log-format"`
	LogFile    string `toml:"log-file,omitempty"`
	WithCaller bool   `toml:"with-caller"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:        DefaultModel,
		HistoryFile:  DefaultHistoryFile,
		SystemPrompt: DefaultSystemPrompt,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Masked returns a copy safe to print: the API key is reduced to its last four characters.
func (c *Config) Masked() *Config {
	out := *c
	out.APIKey = MaskKey(c.APIKey)
	return &out
}

// MaskKey hides all but the last four characters of key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the chatcli configuration directory (~/.chatcli).
func Dir() (string, error) {
	return util.HomeFile(dirName)
}

// Path returns the default config file location.
func Path() (string, error) {
	return util.HomeFile(dirName, fileName)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the environment. Variables already set are kept, and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return errors.Wrapf(err, "failed to load %s", f)
		}
		log.Debug().Str("file", f).Msg("loaded environment file")
	}
	return nil
}

// Init sets defaults, environment bindings and the config file on v.
// configFile may be empty to search the default location; a named file that
// does not exist is an error, a missing default file is not.
func Init(v *viper.Viper, configFile string) error {
	def := Default()
	v.SetDefault(KeyModel, def.Model)
	v.SetDefault(KeyHistoryFile, def.HistoryFile)
	v.SetDefault(KeySystemPrompt, def.SystemPrompt)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyWithCaller, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAPIKey, "CHATCLI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return errors.Wrap(err, "failed to bind api key environment")
	}
	if err := v.BindEnv(KeyBaseURL, "CHATCLI_BASE_URL", "OPENAI_BASE_URL"); err != nil {
		return errors.Wrap(err, "failed to bind base url environment")
	}

	v.SetConfigType("toml")
	if configFile != "" {
		expanded, err := util.ExpandHome(configFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(expanded)
	} else {
		dir, err := Dir()
		if err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	}

	err := v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}
	log.Debug().Str("config", v.ConfigFileUsed()).Msg("loaded configuration")
	return nil
}

// FromViper builds a Config from the merged sources in v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		APIKey:       strings.TrimSpace(v.GetString(KeyAPIKey)),
		BaseURL:      v.GetString(KeyBaseURL),
		Model:        v.GetString(KeyModel),
		HistoryFile:  v.GetString(KeyHistoryFile),
		SystemPrompt: v.GetString(KeySystemPrompt),
		Timeout:      v.GetInt(KeyTimeout),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		LogFile:      v.GetString(KeyLogFile),
		WithCaller:   v.GetBool(KeyWithCaller),
	}
}

// Validate rejects values no command can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model must not be empty")
	}
	if strings.TrimSpace(c.HistoryFile) == "" {
		return errors.New("history-file must not be empty")
	}
	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("log-format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Encode writes c as TOML.
func Encode(w io.Writer, c *Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}

// Write saves c to path as TOML with 0600 permissions.
func Write(c *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatcli configuration file\n\n")
	if err := Encode(&buf, c); err != nil {
		return err
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
