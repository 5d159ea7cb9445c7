package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/server"
)

var (
	serveAddr string
	certPath  string
	keyPath   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the control point as an HTTP API",
	Long: `Run an HTTP server exposing discovery, descriptions, schemas and action
invocation as a JSON API, with a WebSocket endpoint that streams discovery
results as they arrive.

Endpoints:
  GET  /healthz
  GET  /api/discover?target=&timeout=
  GET  /api/device?location=
  GET  /api/schema?location=&service=
  POST /api/invoke
  GET  /ws/discover?target=&timeout=

TLS is enabled when both --cert and --key are given.`,
	Example: `  upnpctl serve --addr :8080
  upnpctl serve --addr :8443 --cert server.crt --key server.key`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "TLS certificate (PEM)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "TLS private key (PEM)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cp, &server.Config{
		Addr:            serveAddr,
		CertPath:        certPath,
		KeyPath:         keyPath,
		DiscoverTimeout: registry.Preferences.DiscoverTimeout,
		SearchTarget:    registry.Preferences.SearchTarget,
	}, logging.GetLogger())

	return srv.Run(ctx)
}

