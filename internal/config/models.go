package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/discovery"
)

const (
	// DefaultHTTPTimeout bounds description, schema and action requests
	DefaultHTTPTimeout = 10 * time.Second
)

// Registry represents the entire user configuration file.
// It remembers devices seen on the network and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by UDN
	Preferences *Preferences       `yaml:"preferences,omitempty"`

	path string
}

// Device represents what is remembered about one UPnP root device.
type Device struct {
	Nickname     string    `yaml:"nickname,omitempty"`      // User-friendly name
	Location     string    `yaml:"location"`                // Last known description URL
	DeviceType   string    `yaml:"device_type,omitempty"`   // Root device type URN
	FriendlyName string    `yaml:"friendly_name,omitempty"` // As advertised by the device
	LastSeen     time.Time `yaml:"last_seen,omitempty"`     // Last discovery time
}

// DisplayName returns the nickname, the friendly name or "" in that order
func (d *Device) DisplayName() string {
	if d.Nickname != "" {
		return d.Nickname
	}
	return d.FriendlyName
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	SearchTarget    string        `yaml:"search_target"`          // ST for discover and browse
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`       // SSDP listening window
	HTTPTimeout     time.Duration `yaml:"http_timeout"`           // Per-request HTTP timeout
	Interfaces      []string      `yaml:"interfaces,omitempty"`   // Allow-list of interface names
	MDNSService     string        `yaml:"mdns_service,omitempty"` // DNS-SD service browsed by --mdns
}

func defaultPreferences() *Preferences {
	return &Preferences{
		SearchTarget:    discovery.SearchAll,
		DiscoverTimeout: discovery.DefaultTimeout,
		HTTPTimeout:     DefaultHTTPTimeout,
		MDNSService:     discovery.DefaultMDNSService,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

func (r *Registry) fillDefaults() {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	def := defaultPreferences()
	if r.Preferences == nil {
		r.Preferences = def
		return
	}
	p := r.Preferences
	if p.SearchTarget == "" {
		p.SearchTarget = def.SearchTarget
	}
	if p.DiscoverTimeout <= 0 {
		p.DiscoverTimeout = def.DiscoverTimeout
	}
	if p.HTTPTimeout <= 0 {
		p.HTTPTimeout = def.HTTPTimeout
	}
	if p.MDNSService == "" {
		p.MDNSService = def.MDNSService
	}
}

// GetDevice retrieves a device by UDN.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(udn string) *Device {
	return r.Devices[udn]
}

// EnsureDevice ensures a device entry exists in the registry and returns it.
func (r *Registry) EnsureDevice(udn string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[udn]; exists {
		return device
	}
	device := &Device{}
	r.Devices[udn] = device
	return device
}

// Remember records a fetched root device and where it was found. The
// nickname of a known device is kept.
func (r *Registry) Remember(dev *description.Device, location string, seen time.Time) *Device {
	entry := r.EnsureDevice(dev.UDN)
	entry.Location = location
	entry.DeviceType = dev.DeviceType
	entry.FriendlyName = dev.FriendlyName
	entry.LastSeen = seen
	return entry
}

// SetDeviceNickname names a known device. Nicknames are unique, compared
// case-insensitively; an empty nickname clears it.
func (r *Registry) SetDeviceNickname(udn, nickname string) error {
	device := r.GetDevice(udn)
	if device == nil {
		return fmt.Errorf("unknown device %s", udn)
	}
	if nickname != "" {
		for other, d := range r.Devices {
			if other != udn && strings.EqualFold(d.Nickname, nickname) {
				return fmt.Errorf("nickname %q is already used by %s", nickname, other)
			}
		}
	}
	device.Nickname = nickname
	return nil
}

// Forget removes a device and reports whether it was known
func (r *Registry) Forget(udn string) bool {
	if _, ok := r.Devices[udn]; !ok {
		return false
	}
	delete(r.Devices, udn)
	return true
}

// UDNs returns the known UDNs sorted by display name, then UDN
func (r *Registry) UDNs() []string {
	udns := make([]string, 0, len(r.Devices))
	for udn := range r.Devices {
		udns = append(udns, udn)
	}
	slices.SortFunc(udns, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(r.Devices[a].DisplayName()), strings.ToLower(r.Devices[b].DisplayName())); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return udns
}

// ResolveLocation turns a device reference into a description URL. ref may
// be an absolute URL, a UDN (with or without the uuid: prefix) or a
// nickname.
func (r *Registry) ResolveLocation(ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return ref, nil
	}

	device := r.Devices[ref]
	if device == nil {
		device = r.Devices["uuid:"+ref]
	}
	if device == nil {
		for _, d := range r.Devices {
			if d.Nickname != "" && strings.EqualFold(d.Nickname, ref) {
				device = d
				break
			}
		}
	}

	if device == nil {
		return "", fmt.Errorf("no known device %q (run discover --save, or pass a description URL)", ref)
	}
	if device.Location == "" {
		return "", fmt.Errorf("device %q has no recorded location", ref)
	}
	return device.Location, nil
}
