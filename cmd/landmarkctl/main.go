// Package main implements landmarkctl, a read-only terminal client for landmark-service.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	landmark_api_client "landmark-service/internal/adapters/landmark_api_client"
	logger_adapter "landmark-service/internal/adapters/logger"
	"landmark-service/internal/adapters/presentation"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	verbose   bool
	version   = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "landmarkctl",
	Short: "Browse landmarks from the terminal",
	Long: `landmarkctl talks to a running landmark-service over its REST API.

Examples:
  # First page of every landmark, newest first
  landmarkctl browse

  # Three pages of large castles ordered by likes
  landmarkctl browse --size large --type castle --sort likes-desc --pages 3

  # Home view
  landmarkctl home --server http://localhost:8080`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "landmark-service URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(showCmd)
}

func newClient() *landmark_api_client.Client {
	return landmark_api_client.NewClient(serverURL, timeout)
}

func newPrinter(cmd *cobra.Command) *presentation.TablePrinter {
	return presentation.NewTablePrinter(cmd.OutOrStdout())
}

// commandContext carries a trace id and, with --verbose, a stderr logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var out io.Writer = io.Discard
	level := slog.LevelError
	if verbose {
		out = cmd.ErrOrStderr()
		level = slog.LevelDebug
	}
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: out, Level: level})

	ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{"component": "landmarkctl"}))
	return contextkeys.ContextWithTraceID(ctx, uuid.NewString())
}
