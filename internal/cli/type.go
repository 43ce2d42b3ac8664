package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tansive/keyboardserver/internal/common/httpclient"
)

var (
	typeExecute bool
	typeStdin   bool
)

var typeCmd = &cobra.Command{
	Use:   "type [TEXT...] [flags]",
	Short: "Type text into the server's session",
	Long: `Type text into the server's graphical session. Arguments are joined with
single spaces.

With --execute the configured trigger phrase is appended, so the server types
the text and then presses Return. With no text and --execute only Return is
pressed.

Examples:
  # Type a sentence
  keyboardctl type Hello from the other machine

  # Run a shell command in the focused terminal
  keyboardctl type --execute uptime

  # Type the contents of a file
  keyboardctl type --stdin < notes.txt`,
	RunE: typeText,
}

func typeText(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	text, err := buildText(args, cmd.InOrStdin(), typeStdin, typeExecute, cfg.GetTriggerPhrase())
	if err != nil {
		return err
	}

	client := httpclient.NewClient(cfg)
	rsp, err := client.TypeText(text)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(rsp)
	} else {
		okLabel.Println(rsp.Message)
	}
	return nil
}

// buildText assembles the text to send. Text read from stdin has its
// trailing newline removed so the server does not type an extra line break.
func buildText(args []string, stdin io.Reader, useStdin, execute bool, trigger string) (string, error) {
	var text string
	if useStdin {
		if len(args) > 0 {
			return "", errors.New("text arguments cannot be combined with --stdin")
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %v", err)
		}
		text = strings.TrimRight(string(b), "\r\n")
	} else {
		text = strings.Join(args, " ")
	}

	if execute {
		if text == "" {
			return trigger, nil
		}
		return text + " " + trigger, nil
	}
	if text == "" {
		return "", errors.New("nothing to type")
	}
	if strings.HasSuffix(text, trigger) {
		warnLabel.Fprintf(os.Stderr, "Text ends with %q and will be sent as a command\n", trigger)
	}
	return text, nil
}

func init() {
	typeCmd.Flags().BoolVarP(&typeExecute, "execute", "x", false, "Press Return after typing")
	typeCmd.Flags().BoolVar(&typeStdin, "stdin", false, "Read the text from stdin")
	rootCmd.AddCommand(typeCmd)
}
