package upnperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/upnpctl/internal/urls"
)

// Hint returns user-facing troubleshooting advice for an error
func Hint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the device is powered on and on this network",
			"  • Increase --http-timeout for slow embedded web servers",
			"  • Some devices only answer on the interface they were discovered on",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The device refused the connection.",
			"Troubleshooting:",
			"  • The LOCATION from discovery may be stale; run discover again",
			"  • The device's UPnP stack may be disabled in its settings",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the device hostname.",
			"Troubleshooting:",
			"  • Use the IP address from the SSDP LOCATION header instead",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeHTTP:
		if e.StatusCode == 404 {
			return "The device does not serve a document at that URL. Re-run discovery to get a fresh LOCATION."
		}
		if e.StatusCode >= 500 {
			return fmt.Sprintf("The device returned HTTP %d without a SOAP fault. This is a device firmware issue.", e.StatusCode)
		}
		return fmt.Sprintf("The device returned HTTP error %d.", e.StatusCode)

	case ErrTypeDescription:
		hint := []string{
			"The device sent XML that does not follow the UPnP Device Architecture.",
		}
		if e.Path != "" {
			hint = append(hint, "  Offending element: "+e.Path)
		}
		hint = append(hint, "  Reference: "+urls.DeviceArchitecture)
		return strings.Join(hint, "\n")

	case ErrTypeValidation:
		return strings.Join([]string{
			"An argument does not match the service schema: " + e.Message,
			"  Run 'upnpctl schema' to list allowed values and ranges,",
			"  or invoke without --typed to send the value unchecked.",
		}, "\n")

	case ErrTypeTransport:
		hint := []string{"Network communication failed."}
		switch e.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The device is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the device is on the same subnet",
				"  • Check firewall rules for UDP 1900 and the device's HTTP port")
		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the device's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Use --interface to pick the LAN-facing adapter")
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Ensure multicast is permitted on this network",
				"  • See "+urls.SSDPOverview)
		}
		return strings.Join(hint, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// Short returns a concise, user-facing error message
func Short(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeHTTP:
		return fmt.Sprintf("Device error (HTTP %d)", e.StatusCode)
	case ErrTypeDescription:
		if e.Path != "" {
			return fmt.Sprintf("Invalid device XML at %s", e.Path)
		}
		return "Invalid device XML"
	case ErrTypeTransport:
		switch e.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	default:
		return e.Message
	}
}
