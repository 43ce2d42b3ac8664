// Package cli implements keyboardctl, the command line client for the
// keyboard server.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var warnLabel = color.New(color.FgYellow)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "keyboardctl [command] [flags]",
	Short: "keyboardctl - send text to a keyboard server",
	Long: `keyboardctl is a command line client for the keyboard server.
It sends text to be typed into the server's graphical session and reports
on the server's status.

Examples:
  # Point the CLI at a server
  keyboardctl config create --server localhost:8000 --pin 123456

  # Type some text
  keyboardctl type hello world

  # Type a line and press Return
  keyboardctl type --execute ls -la

  # Check the server
  keyboardctl status`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(map[string]string{
				"error": err.Error(),
			})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents resolves the config file and loads it for commands
// that talk to a server.
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if !needsConfig(cmd) {
		return
	}
	if err := LoadConfig(configFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("keyboardctl config file not found. Configure keyboardctl with \"keyboardctl config create\" first.")
		} else {
			fmt.Printf("%s\n", err.Error())
		}
		os.Exit(1)
	}
}

func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "version", "help", "completion":
			return false
		}
	}
	return true
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of keyboardctl",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			if jsonOutput {
				printJSON(map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				})
			} else {
				cmd.Printf("keyboardctl %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints the given value as indented JSON to stdout
func printJSON(data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

func getCLIVersion() string {
	return "v0.1.0"
}
