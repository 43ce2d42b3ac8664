// Package config loads the keyboard server configuration. The configuration
// is read once at startup from an optional TOML file, overlaid with
// environment variables, validated, and then exposed read-only through
// Config().
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ConfigFormatVersion is the current version of the configuration file format.
const ConfigFormatVersion = "0.1.0"

// Environment variables read at startup.
const (
	EnvPIN        = "KEYBOARD_SERVER_PIN"
	EnvConfigFile = "KEYBOARD_SERVER_CONFIG"
)

// DefaultPIN is the shared secret used when neither the environment nor the
// config file provides one.
const DefaultPIN = "123456"

// AuthConfig holds the shared secret.
type AuthConfig struct {
	PIN string `toml:"pin"`
}

// DisplayConfig controls display discovery.
type DisplayConfig struct {
	Default        string   `toml:"default" validate:"required,startswith=:"`
	SessionCommand []string `toml:"session_command" validate:"required,min=1,dive,required"`
}

// TypingConfig controls the text-injection utility.
type TypingConfig struct {
	Tool          string `toml:"tool" validate:"required"`
	KeyDelay      string `toml:"key_delay" validate:"required"`
	SettleDelay   string `toml:"settle_delay" validate:"required"`
	TriggerPhrase string `toml:"trigger_phrase" validate:"required"`
	ConfirmKey    string `toml:"confirm_key" validate:"required"`
}

// GetKeyDelay returns the per-character typing delay.
func (t *TypingConfig) GetKeyDelay() time.Duration {
	return mustDuration(t.KeyDelay, defaultKeyDelay)
}

// GetSettleDelay returns the pause between typing a prefix and confirming.
func (t *TypingConfig) GetSettleDelay() time.Duration {
	return mustDuration(t.SettleDelay, defaultSettleDelay)
}

// KeyboardConfig controls the keyboard layout set at startup.
type KeyboardConfig struct {
	Tool   string `toml:"tool" validate:"required"`
	Layout string `toml:"layout" validate:"required"`
}

// ConfigParam holds all configuration parameters for the keyboard server.
type ConfigParam struct {
	FormatVersion string `toml:"format_version" validate:"required"`

	ServerHostName string `toml:"server_hostname" validate:"required"`
	ServerPort     string `toml:"server_port" validate:"required,numeric"`
	HandleCORS     bool   `toml:"handle_cors"`
	LogLevel       string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	Auth     AuthConfig     `toml:"auth"`
	Display  DisplayConfig  `toml:"display"`
	Typing   TypingConfig   `toml:"typing"`
	Keyboard KeyboardConfig `toml:"keyboard"`

	// PINFromEnv records whether the shared secret came from EnvPIN.
	PINFromEnv bool `toml:"-"`
}

// ListenAddr returns host:port for the HTTP listener.
func (c *ConfigParam) ListenAddr() string {
	return c.ServerHostName + ":" + c.ServerPort
}

const (
	defaultKeyDelay    = 50 * time.Millisecond
	defaultSettleDelay = 100 * time.Millisecond
)

// Defaults returns the configuration used when no file is given.
func Defaults() *ConfigParam {
	return &ConfigParam{
		FormatVersion:  ConfigFormatVersion,
		ServerHostName: "0.0.0.0",
		ServerPort:     "8000",
		LogLevel:       "info",
		Auth: AuthConfig{
			PIN: DefaultPIN,
		},
		Display: DisplayConfig{
			Default:        ":0",
			SessionCommand: []string{"who", "-u"},
		},
		Typing: TypingConfig{
			Tool:          "xdotool",
			KeyDelay:      defaultKeyDelay.String(),
			SettleDelay:   defaultSettleDelay.String(),
			TriggerPhrase: "make it so",
			ConfirmKey:    "Return",
		},
		Keyboard: KeyboardConfig{
			Tool:   "setxkbmap",
			Layout: "de",
		},
	}
}

var cfg *ConfigParam

// Config returns the loaded configuration. It panics if LoadConfig has not
// succeeded.
func Config() *ConfigParam {
	if cfg == nil {
		panic("config: Config called before LoadConfig")
	}
	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks that all values are present and well formed.
func ValidateConfig(c *ConfigParam) error {
	if c.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", c.FormatVersion)
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name, d := range map[string]string{
		"typing.key_delay":    c.Typing.KeyDelay,
		"typing.settle_delay": c.Typing.SettleDelay,
	} {
		v, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", name, err)
		}
		if v < 0 {
			return fmt.Errorf("invalid %s: negative duration", name)
		}
	}
	return nil
}

// LoadConfig builds the configuration from defaults, the optional TOML file
// and the environment, validates it and installs it as the process-wide
// configuration. An empty filename skips the file.
func LoadConfig(filename string) error {
	c := Defaults()

	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading config file: %v", err)
		}
		if _, err := toml.Decode(string(content), c); err != nil {
			return fmt.Errorf("error parsing config file: %v", err)
		}
	}

	if pin, ok := os.LookupEnv(EnvPIN); ok {
		c.Auth.PIN = pin
		c.PINFromEnv = true
	}

	if err := ValidateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	cfg = c
	return nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ConfigFileFromEnv returns the config file named by EnvConfigFile.
func ConfigFileFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvConfigFile))
}

func mustDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
