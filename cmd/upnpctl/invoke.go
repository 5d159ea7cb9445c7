package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/scpd"
	"github.com/muurk/upnpctl/internal/server"
	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/ui"
)

var typedInvoke bool

var invokeCmd = &cobra.Command{
	Use:   "invoke <location|udn|nickname> <service> <action> [Name=Value...]",
	Short: "Invoke an action on a device service",
	Long: `Invoke a UPnP action over SOAP and print its output arguments.

Input arguments are given as Name=Value pairs and sent in the order given.
With --typed, the service schema is fetched first and each value is checked
against its state variable's type, allowed values and range before the
request is sent; output values are decoded to their declared types.

A UPnP fault from the device is printed with its code and description and
the command exits with status 2.`,
	Example: `  # Current volume of the master channel
  upnpctl invoke livingroom RenderingControl GetVolume InstanceID=0 Channel=Master

  # Checked against the schema before sending
  upnpctl invoke livingroom RenderingControl SetVolume InstanceID=0 Channel=Master DesiredVolume=30 --typed`,
	Args: cobra.MinimumNArgs(3),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().BoolVar(&typedInvoke, "typed", false, "Validate inputs and decode outputs using the service schema")
	invokeCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(invokeCmd)
}

// parseArguments turns Name=Value pairs into an ordered argument set
func parseArguments(pairs []string) (*soap.ArgumentSet, error) {
	args := soap.NewArgumentSet()
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("argument %q is not Name=Value", pair)
		}
		args.Set(name, value)
	}
	return args, nil
}

func runInvoke(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ref, serviceName, action := args[0], args[1], args[2]

	in, err := parseArguments(args[3:])
	if err != nil {
		return err
	}

	dev, _, err := fetchDevice(ctx, ref)
	if err != nil {
		return err
	}
	svc, err := lookupService(dev, serviceName)
	if err != nil {
		return err
	}

	var schema *scpd.Schema
	if typedInvoke {
		if schema, err = cp.FetchSchema(ctx, svc); err != nil {
			return err
		}
		if in, err = schema.CoerceSet(action, in); err != nil {
			return err
		}
	}

	outcome, err := cp.Invoke(ctx, svc, action, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outcome.Faulted() {
		if outputFormat == "json" {
			_ = writeJSON(out, server.InvokeResponse{Fault: outcome.Fault})
		} else {
			fmt.Fprintln(out, ui.NewFaultResult(action, outcome.Fault).Render())
		}
		return &exitError{code: 2}
	}

	if schema != nil {
		values, err := schema.Decode(action, outcome.Arguments)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(out, server.InvokeResponse{Values: values})
		}
		result := ui.NewSuccessResult(action)
		for _, name := range outcome.Arguments.Names() {
			result.AddDetail(name, fmt.Sprint(values[name]))
		}
		fmt.Fprintln(out, result.Render())
		return nil
	}

	if outputFormat == "json" {
		return writeJSON(out, server.InvokeResponse{Arguments: outcome.Arguments})
	}
	if outcome.Arguments.Len() == 0 {
		fmt.Fprintln(out, ui.NewSuccessResult(action).Render())
		return nil
	}
	fmt.Fprintln(out, ui.RenderArguments(outcome.Arguments))
	return nil
}
