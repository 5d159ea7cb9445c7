package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/server"
	"github.com/muurk/upnpctl/internal/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <location|udn|nickname>",
	Short: "Fetch and print a device description",
	Long: `Fetch the device description document and print the device tree with
its services, embedded devices and icons.

The device can be given as a description URL, or as the UDN or nickname of
a device remembered with 'discover --save'.`,
	Example: `  upnpctl describe http://192.168.1.20:49152/description.xml
  upnpctl describe livingroom --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

var schemaCmd = &cobra.Command{
	Use:   "schema <location|udn|nickname> <service>",
	Short: "Fetch and print a service's actions and state variables",
	Long: `Fetch the SCPD of one service and print its action signatures and
state variables with their types, allowed values and ranges.

The service may be its full type URN, its serviceId, or the short name
such as "AVTransport" or "RenderingControl".`,
	Example: `  upnpctl schema livingroom RenderingControl
  upnpctl schema livingroom urn:schemas-upnp-org:service:AVTransport:1 --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runSchema,
}

func init() {
	describeCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
	schemaCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(schemaCmd)
}

// fetchDevice resolves ref through the registry and fetches its description
func fetchDevice(ctx context.Context, ref string) (*description.Device, string, error) {
	location, err := registry.ResolveLocation(ref)
	if err != nil {
		return nil, "", err
	}
	dev, err := cp.FetchDevice(ctx, location)
	if err != nil {
		return nil, location, err
	}
	return dev, location, nil
}

// lookupService finds name anywhere in the device tree
func lookupService(dev *description.Device, name string) (*description.Service, error) {
	svc := dev.LookupService(name)
	if svc == nil {
		return nil, fmt.Errorf("device %s has no service %q", dev.Name(), name)
	}
	return svc, nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	dev, location, err := fetchDevice(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, server.DeviceJSON(dev))
	}

	header := ui.NewHeader("Device Description", "describe",
		ui.Param{Key: "Location", Value: location},
		ui.Param{Key: "Services", Value: fmt.Sprint(dev.CountServices())},
	)
	fmt.Fprintln(out, header.Render())
	fmt.Fprintln(out, ui.RenderDevice(dev))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dev, _, err := fetchDevice(ctx, args[0])
	if err != nil {
		return err
	}
	svc, err := lookupService(dev, args[1])
	if err != nil {
		return err
	}
	schema, err := cp.FetchSchema(ctx, svc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, server.SchemaJSON(schema))
	}

	header := ui.NewHeader("Service Schema", "schema",
		ui.Param{Key: "Device", Value: dev.Name()},
		ui.Param{Key: "Service", Value: svc.ServiceType},
		ui.Param{Key: "SCPD", Value: svc.SCPDURL},
	)
	fmt.Fprintln(out, header.Render())
	fmt.Fprintln(out, ui.RenderSchema(schema))
	return nil
}
