package discovery

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSearch(t *testing.T) {
	got := string(BuildSearch("upnp:rootdevice", 2, "Linux/6.1 UPnP/1.1 upnpctl/1.0"))
	want := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USER-AGENT: Linux/6.1 UPnP/1.1 upnpctl/1.0\r\n" +
		"\r\n"
	if got != want {
		t.Errorf("BuildSearch() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildSearch_NoUserAgent(t *testing.T) {
	got := string(BuildSearch(SearchAll, 3, ""))
	if strings.Contains(got, "USER-AGENT") {
		t.Errorf("USER-AGENT should be omitted: %q", got)
	}
	if !strings.HasSuffix(got, "ST: ssdp:all\r\n\r\n") {
		t.Errorf("request not terminated by blank line: %q", got)
	}
}

func TestMXFor(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    int
	}{
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{3 * time.Second, 3},
		{5 * time.Second, 5},
		{30 * time.Second, 5},
	}
	for _, tt := range tests {
		if got := mxFor(tt.timeout); got != tt.want {
			t.Errorf("mxFor(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name       string
		datagram   string
		wantErr    bool
		wantST     string
		wantUSN    string
		wantMaxAge time.Duration
	}{
		{
			name: "search response",
			datagram: "HTTP/1.1 200 OK\r\n" +
				"CACHE-CONTROL: max-age=1800\r\n" +
				"EXT:\r\n" +
				"LOCATION: http://192.168.1.40:49152/description.xml\r\n" +
				"SERVER: Linux/4.9 UPnP/1.0 Renderer/1.0\r\n" +
				"ST: urn:schemas-upnp-org:device:MediaRenderer:1\r\n" +
				"USN: uuid:4d696e69-444c-164e-9d41-b827eb96c6c2::urn:schemas-upnp-org:device:MediaRenderer:1\r\n" +
				"\r\n",
			wantST:     "urn:schemas-upnp-org:device:MediaRenderer:1",
			wantUSN:    "uuid:4d696e69-444c-164e-9d41-b827eb96c6c2::urn:schemas-upnp-org:device:MediaRenderer:1",
			wantMaxAge: 1800 * time.Second,
		},
		{
			name: "lowercase headers without cache-control",
			datagram: "HTTP/1.1 200 OK\r\n" +
				"location: http://10.0.0.5/desc.xml\r\n" +
				"st: upnp:rootdevice\r\n" +
				"usn: uuid:abc::upnp:rootdevice\r\n" +
				"\r\n",
			wantST:  "upnp:rootdevice",
			wantUSN: "uuid:abc::upnp:rootdevice",
		},
		{
			name: "alive notification",
			datagram: "NOTIFY * HTTP/1.1\r\n" +
				"HOST: 239.255.255.250:1900\r\n" +
				"CACHE-CONTROL: max-age = 120\r\n" +
				"LOCATION: http://10.0.0.7:8080/root.xml\r\n" +
				"NT: upnp:rootdevice\r\n" +
				"NTS: ssdp:alive\r\n" +
				"USN: uuid:def::upnp:rootdevice\r\n" +
				"\r\n",
			wantST:     "upnp:rootdevice",
			wantUSN:    "uuid:def::upnp:rootdevice",
			wantMaxAge: 120 * time.Second,
		},
		{
			name: "byebye notification",
			datagram: "NOTIFY * HTTP/1.1\r\n" +
				"HOST: 239.255.255.250:1900\r\n" +
				"NT: upnp:rootdevice\r\n" +
				"NTS: ssdp:byebye\r\n" +
				"USN: uuid:def::upnp:rootdevice\r\n" +
				"\r\n",
			wantErr: true,
		},
		{
			name:     "another control point's search",
			datagram: string(BuildSearch(SearchAll, 1, "")),
			wantErr:  true,
		},
		{
			name: "missing location",
			datagram: "HTTP/1.1 200 OK\r\n" +
				"ST: upnp:rootdevice\r\n" +
				"USN: uuid:abc\r\n" +
				"\r\n",
			wantErr: true,
		},
		{
			name: "missing usn",
			datagram: "HTTP/1.1 200 OK\r\n" +
				"LOCATION: http://10.0.0.5/desc.xml\r\n" +
				"\r\n",
			wantErr: true,
		},
		{
			name: "non-http location",
			datagram: "HTTP/1.1 200 OK\r\n" +
				"LOCATION: ftp://10.0.0.5/desc.xml\r\n" +
				"USN: uuid:abc\r\n" +
				"\r\n",
			wantErr: true,
		},
		{
			name: "error status",
			datagram: "HTTP/1.1 404 Not Found\r\n" +
				"LOCATION: http://10.0.0.5/desc.xml\r\n" +
				"USN: uuid:abc\r\n" +
				"\r\n",
			wantErr: true,
		},
		{
			name:     "garbage",
			datagram: "\x00\x01\x02garbage",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseMessage([]byte(tt.datagram))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if resp.ST != tt.wantST {
				t.Errorf("ST = %q, want %q", resp.ST, tt.wantST)
			}
			if resp.USN != tt.wantUSN {
				t.Errorf("USN = %q, want %q", resp.USN, tt.wantUSN)
			}
			if resp.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %v, want %v", resp.MaxAge, tt.wantMaxAge)
			}
		})
	}
}

func TestParseMaxAge(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"max-age=1800", 1800 * time.Second},
		{"MAX-AGE = 60", 60 * time.Second},
		{"no-cache, max-age=10", 10 * time.Second},
		{"max-age=abc", 0},
		{"max-age=-5", 0},
		{"", 0},
		{"no-cache", 0},
	}
	for _, tt := range tests {
		if got := parseMaxAge(tt.in); got != tt.want {
			t.Errorf("parseMaxAge(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
