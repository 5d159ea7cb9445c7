package description

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Root is a parsed root device description document
type Root struct {
	SpecVersion SpecVersion
	// URLBase is the raw URLBase element, empty when the document has none
	URLBase string
	Device  Device
}

// SpecVersion is the UDA version a document claims to follow
type SpecVersion struct {
	Major int
	Minor int
}

// String returns "major.minor"
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Device is a UPnP device and its embedded devices. A Device returned by
// the Fetcher is shared read-only: callers must not modify it.
type Device struct {
	UDN              string
	FriendlyName     string
	DeviceType       string
	Manufacturer     string
	ManufacturerURL  string
	ModelDescription string
	ModelName        string
	ModelNumber      string
	ModelURL         string
	SerialNumber     string
	UPC              string
	PresentationURL  string

	Icons    []Icon
	Services []Service
	Devices  []Device

	base *url.URL
}

// BaseURL returns a copy of the base that relative references in this
// device resolve against. It is nil for documents parsed without a
// location and without URLBase.
func (d *Device) BaseURL() *url.URL {
	return cloneURL(d.base)
}

// Resolve resolves ref against the device base
func (d *Device) Resolve(ref string) (*url.URL, error) {
	return resolve(d.base, ref)
}

// UUID parses the UDN ("uuid:...") into a UUID
func (d *Device) UUID() (uuid.UUID, error) {
	id, ok := strings.CutPrefix(d.UDN, "uuid:")
	if !ok {
		return uuid.Nil, fmt.Errorf("UDN %q has no uuid: prefix", d.UDN)
	}
	return uuid.Parse(id)
}

// Name returns the friendly name, falling back to the model name and the UDN
func (d *Device) Name() string {
	switch {
	case d.FriendlyName != "":
		return d.FriendlyName
	case d.ModelName != "":
		return d.ModelName
	default:
		return d.UDN
	}
}

// String returns a human-readable representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s) %s", d.Name(), d.DeviceType, d.UDN)
}

// VisitDevices calls visit for the device and all its descendants, depth
// first, stopping when visit returns false.
func (d *Device) VisitDevices(visit func(*Device) bool) bool {
	if !visit(d) {
		return false
	}
	for i := range d.Devices {
		if !d.Devices[i].VisitDevices(visit) {
			return false
		}
	}
	return true
}

// VisitServices calls visit for every service of the device and its
// descendants, stopping when visit returns false.
func (d *Device) VisitServices(visit func(*Device, *Service) bool) bool {
	return d.VisitDevices(func(dev *Device) bool {
		for i := range dev.Services {
			if !visit(dev, &dev.Services[i]) {
				return false
			}
		}
		return true
	})
}

// FindService returns the first service in the tree with the given
// service type
func (d *Device) FindService(serviceType string) *Service {
	var found *Service
	d.VisitServices(func(_ *Device, s *Service) bool {
		if s.ServiceType == serviceType {
			found = s
			return false
		}
		return true
	})
	return found
}

// FindServiceByID returns the first service in the tree with the given
// service ID
func (d *Device) FindServiceByID(serviceID string) *Service {
	var found *Service
	d.VisitServices(func(_ *Device, s *Service) bool {
		if s.ServiceID == serviceID {
			found = s
			return false
		}
		return true
	})
	return found
}

// LookupService finds a service by type or ID. A bare name such as
// "AVTransport" matches the type or ID segment before the version.
func (d *Device) LookupService(name string) *Service {
	if s := d.FindService(name); s != nil {
		return s
	}
	if s := d.FindServiceByID(name); s != nil {
		return s
	}
	var found *Service
	d.VisitServices(func(_ *Device, s *Service) bool {
		if s.ShortType() == name || s.ShortID() == name {
			found = s
			return false
		}
		return true
	})
	return found
}

// FindDevice returns the first device in the tree, including d, with the
// given device type
func (d *Device) FindDevice(deviceType string) *Device {
	var found *Device
	d.VisitDevices(func(dev *Device) bool {
		if dev.DeviceType == deviceType {
			found = dev
			return false
		}
		return true
	})
	return found
}

// CountServices returns the number of services in the whole tree
func (d *Device) CountServices() int {
	n := 0
	d.VisitServices(func(*Device, *Service) bool {
		n++
		return true
	})
	return n
}

// Service is a service offered by a device. The URL fields hold the
// document's references; the Location accessors return them resolved.
type Service struct {
	ServiceType string
	ServiceID   string
	ControlURL  string
	SCPDURL     string
	EventSubURL string

	control  *url.URL
	scpd     *url.URL
	eventSub *url.URL
}

// ControlLocation returns the resolved control URL
func (s *Service) ControlLocation() *url.URL {
	return cloneURL(s.control)
}

// SCPDLocation returns the resolved service description URL, or nil when
// the document has none
func (s *Service) SCPDLocation() *url.URL {
	return cloneURL(s.scpd)
}

// EventSubLocation returns the resolved eventing URL, or nil when the
// document has none
func (s *Service) EventSubLocation() *url.URL {
	return cloneURL(s.eventSub)
}

// ShortType returns the type name without its URN prefix and version,
// e.g. "AVTransport" for "urn:schemas-upnp-org:service:AVTransport:1"
func (s *Service) ShortType() string {
	return urnName(s.ServiceType)
}

// ShortID returns the last segment of the service ID
func (s *Service) ShortID() string {
	if i := strings.LastIndex(s.ServiceID, ":"); i >= 0 {
		return s.ServiceID[i+1:]
	}
	return s.ServiceID
}

// String returns a human-readable representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s)", s.ServiceType, s.ServiceID)
}

// Icon is an image a device offers for display
type Icon struct {
	MimeType string
	Width    int
	Height   int
	Depth    int
	URL      string

	location *url.URL
}

// Location returns the resolved icon URL
func (i *Icon) Location() *url.URL {
	return cloneURL(i.location)
}

// urnName extracts the name from "urn:domain:kind:Name:version"
func urnName(urn string) string {
	parts := strings.Split(urn, ":")
	if len(parts) >= 5 && parts[0] == "urn" {
		return parts[3]
	}
	return urn
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// resolve applies the two-tier base rules: absolute references are kept,
// relative ones resolve against base
func resolve(base *url.URL, ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() || base == nil {
		return u, nil
	}
	return base.ResolveReference(u), nil
}
