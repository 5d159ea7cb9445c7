// Package controlpoint ties the UPnP pipeline together: SSDP discovery
// feeds description fetches, which feed schema lookups and action
// invocations. A ControlPoint shares one HTTP client and one schema cache
// across all of them.
package controlpoint
