package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/logging"
	"github.com/sadopc/chop/internal/mock"
)

var (
	mockPort       int
	mockLatency    time.Duration
	mockErrorRate  float64
	mockBaseURL    string
	mockCORSOrigin string
	mockPath       string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local fake shortening service",
	Long: `Start a local HTTP server that speaks the shortening API. Short
links it hands out redirect to their long URL. CORS headers are included
for frontend development.

Examples:
  chop mock
  chop mock --port 3000
  chop mock --latency 200ms
  chop mock --error-rate 0.1
  chop mock --base-url https://sho.rt`,
	Args: cobra.NoArgs,
	RunE: runMock,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPort, "port", "p", 8787, "Port to listen on")
	mockCmd.Flags().DurationVar(&mockLatency, "latency", 0, "Artificial response latency (e.g. 200ms, 1s)")
	mockCmd.Flags().Float64Var(&mockErrorRate, "error-rate", 0, "Random error rate (0.0-1.0)")
	mockCmd.Flags().StringVar(&mockBaseURL, "base-url", "", "Prefix for returned short URLs (default the listen address)")
	mockCmd.Flags().StringVar(&mockCORSOrigin, "cors-origin", "*", "Access-Control-Allow-Origin header value")
	mockCmd.Flags().StringVar(&mockPath, "path", "", "Shortening path (default the configured shorten_path)")
}

func runMock(cmd *cobra.Command, args []string) error {
	if mockErrorRate < 0 || mockErrorRate > 1 {
		return fmt.Errorf("error-rate must be between 0.0 and 1.0")
	}
	if mockPort < 0 || mockPort > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}

	cfg := loadConfig()
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	log := logging.New(logCfg, cmd.ErrOrStderr())

	path := mockPath
	if path == "" {
		path = cfg.ShortenPath
	}

	opts := []mock.Option{
		mock.WithPort(mockPort),
		mock.WithShortenPath(path),
		mock.WithCORSOrigin(mockCORSOrigin),
		mock.WithLogger(logging.WithComponent(log, "mock")),
	}
	if mockLatency > 0 {
		opts = append(opts, mock.WithLatency(mockLatency))
	}
	if mockErrorRate > 0 {
		opts = append(opts, mock.WithErrorRate(mockErrorRate))
	}
	if mockBaseURL != "" {
		opts = append(opts, mock.WithBaseURL(mockBaseURL))
	}

	srv := mock.New(opts...)
	out := cmd.OutOrStdout()
	return srv.Start(commandContext(cmd), func(addr string) {
		fmt.Fprintf(out, "Mock shortening service on http://%s/%s\n", addr, path)
		fmt.Fprintln(out, "Press Ctrl+C to stop.")
	})
}
