package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/server"
	"github.com/muurk/upnpctl/internal/ui"
)

var (
	searchTarget   string
	searchTimeout  time.Duration
	uniqueOnly     bool
	withMDNS       bool
	saveDiscovered bool
	outputFormat   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Search the network for UPnP devices",
	Long: `Send an SSDP M-SEARCH on every usable interface and print the responses
as they arrive.

With --save, the description of each distinct device is fetched and the
device is remembered in the config file, so later commands can refer to it
by UDN or nickname.`,
	Example: `  # Everything on the network
  upnpctl discover

  # Only media renderers, one line per device
  upnpctl discover --target urn:schemas-upnp-org:device:MediaRenderer:1 --unique

  # Remember what was found
  upnpctl discover --save

  # Also browse DNS-SD hints for devices that do not answer SSDP
  upnpctl discover --mdns`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&searchTarget, "target", "", "Search target (ST); default from config, normally ssdp:all")
	discoverCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Listening window (default from config, normally 3s)")
	discoverCmd.Flags().BoolVar(&uniqueOnly, "unique", false, "Print each device once")
	discoverCmd.Flags().BoolVar(&withMDNS, "mdns", false, "Also browse mDNS/DNS-SD for description URLs")
	discoverCmd.Flags().BoolVar(&saveDiscovered, "save", false, "Fetch descriptions and remember devices in the config file")
	discoverCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(discoverCmd)
}

// searchParams applies config defaults to the discovery flags
func searchParams() (string, time.Duration) {
	target, timeout := searchTarget, searchTimeout
	if target == "" {
		target = registry.Preferences.SearchTarget
	}
	if timeout <= 0 {
		timeout = registry.Preferences.DiscoverTimeout
	}
	return target, timeout
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if saveDiscovered {
		return runDiscoverSave(cmd)
	}

	ctx := cmd.Context()
	target, timeout := searchParams()
	out := cmd.OutOrStdout()

	// mDNS browses alongside the SSDP search; its results print afterwards
	var (
		mdnsFound []discovery.Response
		mdnsDone  chan struct{}
	)
	if withMDNS {
		scanner := discovery.NewMDNSScanner()
		scanner.Service = registry.Preferences.MDNSService
		scanner.Timeout = timeout
		ch, err := scanner.Scan(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "mDNS unavailable: %v\n", err)
		} else {
			mdnsDone = make(chan struct{})
			go func() {
				defer close(mdnsDone)
				for r := range ch {
					mdnsFound = append(mdnsFound, r)
				}
			}()
		}
	}

	search, err := cp.Discover(ctx, target, timeout)
	if err != nil {
		return err
	}

	responses := search.All()
	if uniqueOnly {
		responses = discovery.Unique(responses)
	}

	collected := []any{}
	count := 0
	emit := func(r discovery.Response) {
		count++
		if outputFormat == "json" {
			collected = append(collected, server.ResponseJSON(r))
			return
		}
		fmt.Fprintln(out, ui.RenderResponses([]discovery.Response{r}))
	}

	for r := range responses {
		emit(r)
	}
	if mdnsDone != nil {
		<-mdnsDone
		for _, r := range mdnsFound {
			emit(r)
		}
	}

	for _, f := range search.Failures() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", f)
	}

	if outputFormat == "json" {
		return writeJSON(out, collected)
	}
	if count == 0 {
		fmt.Fprintf(out, "No responses for %s within %s.\n", target, timeout)
	}
	return nil
}

func runDiscoverSave(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	target, timeout := searchParams()
	out := cmd.OutOrStdout()

	saved := 0
	for found, err := range cp.DiscoverDevices(ctx, target, timeout) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			continue
		}
		registry.Remember(found.Device, found.Response.Location, time.Now())
		saved++
		fmt.Fprintf(out, "%s  %s  %s\n", found.Device.UDN, found.Device.Name(), found.Response.Location)
	}

	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d device(s) to %s\n", saved, registry.Path())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
