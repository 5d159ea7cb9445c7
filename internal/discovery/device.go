package discovery

import (
	"fmt"
	"iter"
	"net"
	"net/url"
	"strings"
	"time"
)

// Response is a device or service found by SSDP. It exists only during
// discovery; callers turn the Location into a description.Device.
type Response struct {
	// Location is the URL of the root device description
	Location string

	// ST is the search target the device answered for
	// (e.g., "urn:schemas-upnp-org:device:MediaRenderer:1")
	ST string

	// USN is the unique service name
	// (e.g., "uuid:4d696e69-444c-164e-9d41-b827eb96c6c2::upnp:rootdevice")
	USN string

	// MaxAge is the advertisement validity from CACHE-CONTROL (0 if absent)
	MaxAge time.Duration

	// Server is the SERVER product token, if sent
	Server string

	// Interface is the name of the local interface the response arrived on
	Interface string

	// From is the sender's address
	From net.Addr

	// ReceivedAt is when the response was received
	ReceivedAt time.Time
}

// String returns a human-readable representation of the response
func (r Response) String() string {
	return fmt.Sprintf("%s (%s) at %s", r.USN, r.ST, r.Location)
}

// UDN returns the "uuid:..." device identity part of the USN
func (r Response) UDN() string {
	udn, _, _ := strings.Cut(r.USN, "::")
	return udn
}

// LocationURL parses Location
func (r Response) LocationURL() (*url.URL, error) {
	return url.Parse(r.Location)
}

// BaseURL returns the scheme and host of Location
func (r Response) BaseURL() string {
	u, err := r.LocationURL()
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ExpiresAt returns when the advertisement lapses. The zero time means the
// device sent no max-age.
func (r Response) ExpiresAt() time.Time {
	if r.MaxAge == 0 || r.ReceivedAt.IsZero() {
		return time.Time{}
	}
	return r.ReceivedAt.Add(r.MaxAge)
}

// Unique filters seq so that each USN is yielded once. Responses without a
// USN are keyed by Location.
func Unique(seq iter.Seq[Response]) iter.Seq[Response] {
	return func(yield func(Response) bool) {
		seen := make(map[string]struct{})
		for r := range seq {
			key := r.USN
			if key == "" {
				key = r.Location
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if !yield(r) {
				return
			}
		}
	}
}
