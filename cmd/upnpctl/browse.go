package main

import (
	"context"
	"iter"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/controlpoint"
	"github.com/muurk/upnpctl/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse devices on the network",
	Long: `Open a full-screen browser that lists devices as they are discovered.

Select a device to see its description. Press 's' to remember the selected
device in the config file and 'r' to search again.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&searchTarget, "target", "", "Search target (ST); default from config")
	browseCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Listening window per scan (default from config)")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return errNotTerminal
	}
	target, timeout := searchParams()

	discover := func(ctx context.Context) iter.Seq2[controlpoint.Found, error] {
		return cp.DiscoverDevices(ctx, target, timeout)
	}
	save := func(found controlpoint.Found) error {
		registry.Remember(found.Device, found.Response.Location, time.Now())
		return registry.Save()
	}

	return ui.Browse(discover, save, timeout, cmd.OutOrStdout())
}
