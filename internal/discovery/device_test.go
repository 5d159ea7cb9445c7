package discovery

import (
	"slices"
	"testing"
	"time"
)

func TestResponse_UDN(t *testing.T) {
	tests := []struct {
		usn  string
		want string
	}{
		{"uuid:abc::upnp:rootdevice", "uuid:abc"},
		{"uuid:abc::urn:schemas-upnp-org:service:AVTransport:1", "uuid:abc"},
		{"uuid:abc", "uuid:abc"},
		{"", ""},
	}
	for _, tt := range tests {
		r := Response{USN: tt.usn}
		if got := r.UDN(); got != tt.want {
			t.Errorf("UDN() for %q = %q, want %q", tt.usn, got, tt.want)
		}
	}
}

func TestResponse_BaseURL(t *testing.T) {
	r := Response{Location: "http://10.0.0.5:49152/desc/root.xml"}
	if got := r.BaseURL(); got != "http://10.0.0.5:49152" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := (Response{Location: "://bad"}).BaseURL(); got != "" {
		t.Errorf("BaseURL() for bad location = %q, want empty", got)
	}
}

func TestResponse_ExpiresAt(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := Response{MaxAge: 30 * time.Minute, ReceivedAt: at}
	if got := r.ExpiresAt(); !got.Equal(at.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt() = %v", got)
	}
	if !(Response{ReceivedAt: at}).ExpiresAt().IsZero() {
		t.Error("ExpiresAt() without max-age should be zero")
	}
}

func TestUnique(t *testing.T) {
	in := []Response{
		{USN: "uuid:a::upnp:rootdevice", Location: "http://10.0.0.1/d.xml"},
		{USN: "uuid:b::upnp:rootdevice", Location: "http://10.0.0.2/d.xml"},
		{USN: "uuid:a::upnp:rootdevice", Location: "http://10.0.0.1/d.xml"},
		{Location: "http://10.0.0.3/d.xml"},
		{Location: "http://10.0.0.3/d.xml"},
	}

	var got []string
	for r := range Unique(slices.Values(in)) {
		got = append(got, r.Location)
	}

	want := []string{"http://10.0.0.1/d.xml", "http://10.0.0.2/d.xml", "http://10.0.0.3/d.xml"}
	if !slices.Equal(got, want) {
		t.Errorf("Unique() = %v, want %v", got, want)
	}
}

func TestUnique_StopsEarly(t *testing.T) {
	in := []Response{{USN: "a"}, {USN: "b"}, {USN: "c"}}
	n := 0
	for range Unique(slices.Values(in)) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d, want 2", n)
	}
}
