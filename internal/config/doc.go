// Package config provides user configuration management for upnpctl.
//
// This package manages a YAML-based configuration file that remembers UPnP
// devices seen on the network, keyed by UDN, along with nicknames and
// application preferences. The configuration follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - $UPNPCTL_CONFIG_DIR/config.yaml when the variable is set
//   - Linux: $XDG_CONFIG_HOME/upnpctl/config.yaml or $HOME/.config/upnpctl/config.yaml
//   - macOS: $HOME/.config/upnpctl/config.yaml
//   - Windows: %LOCALAPPDATA%\upnpctl\config.yaml
//
// # Usage Example
//
//	registry, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.Remember(dev, location, time.Now())
//	_ = registry.SetDeviceNickname(dev.UDN, "Kitchen")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
//	location, err := registry.ResolveLocation("kitchen")
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes. A
// Registry value itself is not safe for concurrent mutation.
package config
