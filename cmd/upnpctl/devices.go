package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/upnpctl/internal/ui"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage remembered devices",
	Long: `List, name and forget the devices remembered in the config file.

Devices are added with 'discover --save' or from 'browse'.`,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered devices",
	Args:  cobra.NoArgs,
	RunE:  runDevicesList,
}

var devicesNameCmd = &cobra.Command{
	Use:     "name <udn> <nickname>",
	Short:   "Give a remembered device a nickname",
	Example: `  upnpctl devices name uuid:4d696e69-444c-164e-9d41-b827eb1f0a3c livingroom`,
	Args:    cobra.ExactArgs(2),
	RunE:    runDevicesName,
}

var devicesForgetCmd = &cobra.Command{
	Use:   "forget <udn>",
	Short: "Remove a device from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesForget,
}

func init() {
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesNameCmd)
	devicesCmd.AddCommand(devicesForgetCmd)

	rootCmd.AddCommand(devicesCmd)
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	udns := registry.UDNs()
	if len(udns) == 0 {
		fmt.Fprintln(out, "No devices remembered. Run 'upnpctl discover --save' to add some.")
		return nil
	}

	for _, udn := range udns {
		dev := registry.GetDevice(udn)
		fmt.Fprintln(out, ui.DeviceNameStyle.Render(dev.DisplayName()))
		fmt.Fprintf(out, "  %s %s\n", ui.DetailKeyStyle.Render("UDN:     "), ui.DetailValueStyle.Render(udn))
		fmt.Fprintf(out, "  %s %s\n", ui.DetailKeyStyle.Render("Location:"), ui.DetailValueStyle.Render(dev.Location))
		if dev.DeviceType != "" {
			fmt.Fprintf(out, "  %s %s\n", ui.DetailKeyStyle.Render("Type:    "), ui.DetailValueStyle.Render(dev.DeviceType))
		}
		if !dev.LastSeen.IsZero() {
			fmt.Fprintf(out, "  %s %s\n", ui.DetailKeyStyle.Render("Seen:    "), ui.DetailValueStyle.Render(dev.LastSeen.Local().Format(time.DateTime)))
		}
	}
	return nil
}

func runDevicesName(cmd *cobra.Command, args []string) error {
	if err := registry.SetDeviceNickname(args[0], args[1]); err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %q\n", ui.SuccessMarker, args[0], args[1])
	return nil
}

func runDevicesForget(cmd *cobra.Command, args []string) error {
	if !registry.Forget(args[0]) {
		return fmt.Errorf("device %s is not remembered", args[0])
	}
	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s forgot %s\n", ui.SuccessMarker, args[0])
	return nil
}
