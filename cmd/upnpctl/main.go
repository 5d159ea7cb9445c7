// Upnpctl is a UPnP control point for the command line.
//
// It finds devices with SSDP (and optionally mDNS), prints their device and
// service descriptions, invokes actions, and can serve the same operations
// as an HTTP API. Devices found with --save are remembered by UDN and can
// be referred to by nickname.
//
// Usage:
//
//	upnpctl [command] [flags]
//
// See 'upnpctl --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/config"
	"github.com/muurk/upnpctl/internal/controlpoint"
	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/ui"
	"github.com/muurk/upnpctl/internal/version"
)

// exitError carries a process exit status without printing anything more
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errNotTerminal = errors.New("this command needs an interactive terminal")

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		if ui.IsTerminal() {
			fmt.Fprintln(os.Stderr, ui.NewFailureResult(rootCmd.CalledAs(), err).Render())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel    string
	httpTimeout time.Duration
	interfaces  []string
	configPath  string
)

// Loaded by the root PersistentPreRunE
var (
	registry *config.Registry
	cp       *controlpoint.ControlPoint
)

var rootCmd = &cobra.Command{
	Use:   "upnpctl",
	Short: "UPnP control point",
	Long: `A UPnP control point for the command line.

Discovers devices with SSDP, reads their device and service descriptions,
and invokes actions over SOAP. Devices can be remembered by UDN and
addressed by nickname.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		var err error
		if configPath != "" {
			registry, err = config.LoadFile(configPath)
		} else {
			registry, err = config.Load()
		}
		if err != nil {
			return err
		}

		prefs := registry.Preferences
		timeout := prefs.HTTPTimeout
		if cmd.Flags().Changed("http-timeout") {
			timeout = httpTimeout
		}
		ifaces := prefs.Interfaces
		if cmd.Flags().Changed("interface") {
			ifaces = interfaces
		}

		cp = controlpoint.New(controlpoint.Options{
			HTTPTimeout: timeout,
			Interfaces:  ifaces,
			Logger:      logging.GetLogger(),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "http-timeout", config.DefaultHTTPTimeout, "Timeout for each HTTP request to a device")
	rootCmd.PersistentFlags().StringSliceVar(&interfaces, "interface", nil, "Network interfaces to search on (default: all)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $"+config.DirEnv+"/config.yaml or the user config dir)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "upnpctl %s\n", version.Full())
	},
}
