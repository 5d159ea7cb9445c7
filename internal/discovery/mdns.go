package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/logging"
)

const (
	// DefaultMDNSService is the DNS-SD service type browsed for description hints
	DefaultMDNSService = "_http._tcp"

	// MDNSDomain is the mDNS domain
	MDNSDomain = "local."

	// MDNSTarget is the ST value given to responses found over mDNS
	MDNSTarget = "mdns"

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 80
)

// MDNSScanner finds description locations advertised over mDNS/DNS-SD. It
// complements SSDP on networks that filter UDP 1900: devices that publish a
// TXT record "upnp=<description path or URL>" (or a "path=" ending in
// ".xml") are reported as Responses with ST "mdns".
type MDNSScanner struct {
	// Service is the DNS-SD service type to browse
	Service string

	// Timeout is the maximum time to browse
	Timeout time.Duration

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// NewMDNSScanner creates a scanner with default settings
func NewMDNSScanner() *MDNSScanner {
	return &MDNSScanner{
		Service: DefaultMDNSService,
		Timeout: DefaultTimeout,
	}
}

// Scan browses until the timeout or ctx ends, sending each usable entry on
// the returned channel. The channel is closed when browsing stops.
func (s *MDNSScanner) Scan(ctx context.Context) (<-chan Response, error) {
	service := s.Service
	if service == "" {
		service = DefaultMDNSService
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := logging.Or(s.Logger)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	entries := make(chan *zeroconf.ServiceEntry)
	out := make(chan Response)

	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				resp, ok := s.parseServiceEntry(entry)
				if !ok {
					log.Debug("mDNS entry ignored", zap.String("instance", entry.Instance))
					continue
				}
				select {
				case out <- resp:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, service, MDNSDomain, entries); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	return out, nil
}

// parseServiceEntry converts a zeroconf entry to a Response. It reports
// false for entries that carry no description hint or no address.
func (s *MDNSScanner) parseServiceEntry(entry *zeroconf.ServiceEntry) (Response, bool) {
	txt := make(map[string]string)
	for _, record := range entry.Text {
		key, value, _ := strings.Cut(record, "=")
		txt[strings.ToLower(key)] = value
	}

	hint := txt["upnp"]
	if hint == "" && strings.HasSuffix(strings.ToLower(txt["path"]), ".xml") {
		hint = txt["path"]
	}
	if hint == "" {
		return Response{}, false
	}

	var location string
	if strings.HasPrefix(hint, "http://") || strings.HasPrefix(hint, "https://") {
		location = hint
	} else {
		var host string
		switch {
		case len(entry.AddrIPv4) > 0:
			host = entry.AddrIPv4[0].String()
		case len(entry.AddrIPv6) > 0:
			host = "[" + entry.AddrIPv6[0].String() + "]"
		default:
			return Response{}, false
		}

		port := entry.Port
		if port == 0 {
			port = DefaultPort
		}
		if !strings.HasPrefix(hint, "/") {
			hint = "/" + hint
		}
		location = fmt.Sprintf("http://%s:%d%s", host, port, hint)
	}

	usn := txt["udn"]
	if usn == "" {
		usn = "mdns:" + entry.Instance
	}

	return Response{
		Location:   location,
		ST:         MDNSTarget,
		USN:        usn,
		MaxAge:     time.Duration(entry.TTL) * time.Second,
		Server:     entry.HostName,
		ReceivedAt: time.Now(),
	}, true
}
