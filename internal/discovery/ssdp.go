package discovery

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// MulticastAddr is the SSDP IPv4 multicast group and port
	MulticastAddr = "239.255.255.250:1900"

	// SearchAll is the search target matching every device and service
	SearchAll = "ssdp:all"

	// RootDevice is the search target matching root devices only
	RootDevice = "upnp:rootdevice"

	// MinMX and MaxMX bound the MX header per UDA 1.1
	MinMX = 1
	MaxMX = 5
)

var (
	errNotSSDP       = errors.New("not an SSDP response or alive notification")
	errMissingHeader = errors.New("missing required header")
)

// BuildSearch returns the exact M-SEARCH request bytes for target.
// userAgent is omitted from the request when empty.
func BuildSearch(target string, mx int, userAgent string) []byte {
	var b bytes.Buffer
	b.WriteString("M-SEARCH * HTTP/1.1\r\n")
	b.WriteString("HOST: " + MulticastAddr + "\r\n")
	b.WriteString("MAN: \"ssdp:discover\"\r\n")
	fmt.Fprintf(&b, "MX: %d\r\n", mx)
	b.WriteString("ST: " + target + "\r\n")
	if userAgent != "" {
		b.WriteString("USER-AGENT: " + userAgent + "\r\n")
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// mxFor derives the MX value for a listening window
func mxFor(timeout time.Duration) int {
	mx := int(timeout / time.Second)
	if mx < MinMX {
		return MinMX
	}
	if mx > MaxMX {
		return MaxMX
	}
	return mx
}

// ParseMessage parses a datagram received during discovery. It accepts
// unicast M-SEARCH responses ("HTTP/1.1 200 OK") and "ssdp:alive" NOTIFY
// requests; anything else is an error and should be dropped.
func ParseMessage(b []byte) (Response, error) {
	r := bufio.NewReader(bytes.NewReader(b))

	switch {
	case bytes.HasPrefix(b, []byte("HTTP/")):
		resp, err := http.ReadResponse(r, nil)
		if err != nil {
			return Response{}, fmt.Errorf("malformed response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return fromHeader(resp.Header, resp.Header.Get("ST"))

	case bytes.HasPrefix(b, []byte("NOTIFY ")):
		req, err := http.ReadRequest(r)
		if err != nil {
			return Response{}, fmt.Errorf("malformed notify: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(req.Header.Get("NTS")), "ssdp:alive") {
			return Response{}, errNotSSDP
		}
		return fromHeader(req.Header, req.Header.Get("NT"))

	default:
		return Response{}, errNotSSDP
	}
}

func fromHeader(h http.Header, st string) (Response, error) {
	location := strings.TrimSpace(h.Get("LOCATION"))
	if location == "" {
		return Response{}, fmt.Errorf("%w: LOCATION", errMissingHeader)
	}
	u, err := url.Parse(location)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Response{}, fmt.Errorf("invalid LOCATION %q", location)
	}

	usn := strings.TrimSpace(h.Get("USN"))
	if usn == "" {
		return Response{}, fmt.Errorf("%w: USN", errMissingHeader)
	}

	return Response{
		Location: location,
		ST:       strings.TrimSpace(st),
		USN:      usn,
		MaxAge:   parseMaxAge(h.Get("CACHE-CONTROL")),
		Server:   strings.TrimSpace(h.Get("SERVER")),
	}, nil
}

// parseMaxAge extracts max-age from a CACHE-CONTROL value. Devices vary in
// spacing and casing ("max-age = 1800", "MAX-AGE=120, no-cache").
// Missing or unparseable values yield zero.
func parseMaxAge(v string) time.Duration {
	for _, directive := range strings.Split(v, ",") {
		name, value, ok := strings.Cut(directive, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "max-age") {
			continue
		}
		secs, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	return 0
}
