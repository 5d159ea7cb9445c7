// Package description retrieves and parses UPnP device descriptions.
//
// A description document is fetched from the LOCATION a device advertised
// during discovery and parsed into an immutable Device tree: each Device
// owns its Services and its embedded Devices, with no parent pointers.
//
// Relative references (control, SCPD, eventing and icon URLs) resolve
// against the document's URLBase element when present, otherwise against
// the scheme and host of the fetch location. Absolute references are kept
// as written.
//
// Parsing is tolerant of vendor extensions: unknown elements are ignored.
// Only missing required content fails, with an error whose Path names the
// element, e.g. "root/device/deviceList/device[1]/UDN".
package description
