package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"

	"github.com/tansive/keyboardserver/internal/common/httpclient"
	"github.com/tansive/keyboardserver/internal/keyboardserver/server"
)

// StatusResponse is the combined result of the version and readiness probes.
type StatusResponse struct {
	ServerURL     string `json:"serverURL"`
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
	State         string `json:"state"`
	Compatible    bool   `json:"compatible"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get server status",
	Long: `Get server status. This command reports the server and API versions,
whether the server is ready, and whether its API is compatible with this CLI.

Examples:
  # Get server status
  keyboardctl status

  # Get server status in JSON format
  keyboardctl status -j`,
	Args: cobra.NoArgs,
	RunE: getStatus,
}

func getStatus(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	status, err := fetchStatus(httpclient.NewClient(cfg), cfg.GetServerURL())
	if err != nil {
		if jsonOutput {
			printJSON(map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Unable to connect to server: " + err.Error(),
			})
		} else {
			fmt.Printf("keyboardctl %s\n", getCLIVersion())
			errorLabel.Println("Error: Unable to connect to server: " + err.Error())
		}
		return ErrAlreadyHandled
	}

	if jsonOutput {
		printJSON(map[string]any{
			"result":      1,
			"version_cli": getCLIVersion(),
			"value":       status,
		})
		return nil
	}

	out, err := yaml.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to format output: %v", err)
	}
	fmt.Printf("keyboardctl %s\n", getCLIVersion())
	fmt.Print(string(out))
	if !status.Compatible {
		warnLabel.Printf("Server API %s is not compatible with this CLI (API %s)\n", status.ApiVersion, server.APIVersion)
	}
	return nil
}

func fetchStatus(client httpclient.HTTPClientInterface, serverURL string) (*StatusResponse, error) {
	version, err := client.GetVersion()
	if err != nil {
		return nil, err
	}

	state := "not ready"
	ready, err := client.Ready()
	if err != nil {
		return nil, err
	}
	if ready {
		state = "ready"
	}

	return &StatusResponse{
		ServerURL:     serverURL,
		ServerVersion: version.ServerVersion,
		ApiVersion:    version.ApiVersion,
		State:         cases.Title(language.English).String(state),
		Compatible:    server.IsAPIVersionCompatible(version.ApiVersion),
	}, nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
