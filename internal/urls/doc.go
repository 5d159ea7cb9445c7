// Package urls provides centralized constants for reference URLs printed by
// the CLI.
//
// Keeping them in one place lets the links be updated without hunting
// through troubleshooting text.
//
// Usage:
//
//	import "github.com/muurk/upnpctl/internal/urls"
//
//	fmt.Printf("See: %s\n", urls.DeviceArchitecture)
package urls
