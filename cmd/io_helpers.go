package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcriptflow-api/pkg/client"
	"github.com/killallgit/transcriptflow-api/pkg/config"
)

// addClientFlags registers the flags every command that talks to a running
// server shares. Unset flags fall back to the client section of the config.
func addClientFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server", "", "API base URL (default from client.server)")
	cmd.PersistentFlags().String("token", "", "bearer token (default from client.token)")
	cmd.PersistentFlags().Duration("timeout", 0, "request timeout (default from client.timeout)")
}

func newAPIClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = config.GetString("client.server")
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = config.GetString("client.token")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = config.GetDuration("client.timeout")
	}
	return client.New(client.Config{
		BaseURL:   server,
		Token:     token,
		Timeout:   timeout,
		UserAgent: "transcriptflow-cli/" + Version,
	})
}

func pollInterval(cmd *cobra.Command) time.Duration {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = config.GetDuration("client.poll_interval")
	}
	if interval <= 0 {
		interval = client.DefaultPollInterval
	}
	return interval
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to path, or to w when path is empty or "-". A
// directory path receives the file under name.
func writeOutput(w io.Writer, path, name string, data []byte) (string, error) {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if name == "" {
			return "", fmt.Errorf("%s is a directory and the server sent no file name", path)
		}
		path = filepath.Join(path, filepath.Base(name))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
