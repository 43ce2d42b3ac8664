package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tansive/keyboardserver/internal/keyboardserver/dispatcher"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

const configVersion = "0.1.0"

// Config is the keyboardctl configuration file.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the URL and port of the keyboard server
	ServerURL string `yaml:"server_url"`
	PIN       string `yaml:"pin"`
	// TriggerPhrase is appended by "type --execute". It must match the
	// server's trigger phrase.
	TriggerPhrase string `yaml:"trigger_phrase,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// (e.g., ~/.config/keyboardctl/config.yaml on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "keyboardctl", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from file, or from the default location
// if file is empty.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}
	c.ServerURL = MorphServer(c.ServerURL)
	if err := c.ValidateConfig(); err != nil {
		return err
	}

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to file with owner-only permissions.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig checks for required fields and proper formatting
func (cfg *Config) ValidateConfig() error {
	if cfg.ServerURL == "" {
		return errors.New("server:port is required")
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return errors.New("server:port must start with http:// or https://")
	}
	if !strings.Contains(strings.TrimPrefix(strings.TrimPrefix(cfg.ServerURL, "http://"), "https://"), ":") {
		return errors.New("server:port must include port number")
	}
	if cfg.PIN == "" {
		return errors.New("pin is required")
	}
	return nil
}

// Print prints the configuration in a human-readable format. The PIN is
// never printed.
func (cfg *Config) Print() {
	fmt.Printf("Server: %s\n", cfg.ServerURL)
	fmt.Printf("Trigger phrase: %q\n", cfg.GetTriggerPhrase())
}

// MorphServer removes trailing slashes and adds http:// if no scheme is given.
func MorphServer(server string) string {
	if server == "" {
		return server
	}
	server = strings.TrimRight(server, "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	return server
}

func (cfg *Config) GetServerURL() string {
	return MorphServer(cfg.ServerURL)
}

func (cfg *Config) GetPIN() string {
	return cfg.PIN
}

// GetTriggerPhrase returns the configured trigger phrase or the server default.
func (cfg *Config) GetTriggerPhrase() string {
	if cfg.TriggerPhrase == "" {
		return dispatcher.DefaultTriggerPhrase
	}
	return cfg.TriggerPhrase
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like the server address and PIN.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the configuration file",
	Long: `Create the configuration file, replacing any existing one.

Examples:
  keyboardctl config create --server localhost:8000 --pin 123456
  keyboardctl config create --server 192.168.1.20:8000 --pin 4711 --trigger-phrase "make it so"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		pin, _ := cmd.Flags().GetString("pin")
		trigger, _ := cmd.Flags().GetString("trigger-phrase")
		return createConfig(configFile, server, pin, trigger)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			return err
		}
		cfg := GetConfig()
		if jsonOutput {
			printJSON(map[string]string{
				"server":         cfg.ServerURL,
				"trigger_phrase": cfg.GetTriggerPhrase(),
				"config_file":    configFile,
			})
		} else {
			cfg.Print()
			fmt.Printf("Config file: %s\n", configFile)
		}
		return nil
	},
}

func init() {
	configCreateCmd.Flags().String("server", "", "Server URL and port (e.g., localhost:8000)")
	configCreateCmd.Flags().String("pin", "", "PIN configured on the server")
	configCreateCmd.Flags().String("trigger-phrase", "", "Phrase appended by type --execute (default \""+dispatcher.DefaultTriggerPhrase+"\")")
	configCreateCmd.MarkFlagRequired("server")
	configCreateCmd.MarkFlagRequired("pin")

	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func createConfig(configPath, server, pin, trigger string) error {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	cfg := &Config{
		Version:       configVersion,
		ServerURL:     MorphServer(server),
		PIN:           pin,
		TriggerPhrase: trigger,
	}
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"server":      cfg.ServerURL,
			"config_file": configPath,
		})
	} else {
		fmt.Printf("Server configured: %s\n", cfg.ServerURL)
		fmt.Printf("Config file: %s\n", configPath)
	}
	return nil
}
