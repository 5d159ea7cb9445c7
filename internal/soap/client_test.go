package soap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/upnperr"
)

const renderingControl = "urn:schemas-upnp-org:service:RenderingControl:1"

// newDevice serves a description whose only service is controlled at
// /ctl/RenderingControl and returns the parsed service.
func newDevice(t *testing.T, control http.HandlerFunc) *description.Service {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/desc.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<root xmlns="urn:schemas-upnp-org:device-1-0"><device>`+
			`<deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType><UDN>uuid:1</UDN>`+
			`<serviceList><service><serviceType>`+renderingControl+`</serviceType>`+
			`<controlURL>/ctl/RenderingControl</controlURL></service></serviceList>`+
			`</device></root>`)
	})
	mux.HandleFunc("/ctl/RenderingControl", control)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dev, err := (&description.Fetcher{HTTPClient: srv.Client()}).Fetch(context.Background(), srv.URL+"/desc.xml")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	return &dev.Services[0]
}

func TestClient_Invoke(t *testing.T) {
	var (
		gotAction      string
		gotContentType string
		gotBody        string
		gotMethod      string
	)
	svc := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAction = r.Header.Get("SOAPACTION")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
		_, _ = io.WriteString(w, `<?xml version="1.0"?><s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>`+
			`<u:GetVolumeResponse xmlns:u="`+renderingControl+`"><CurrentVolume>42</CurrentVolume></u:GetVolumeResponse>`+
			`</s:Body></s:Envelope>`)
	})

	client := &Client{UserAgent: "test/1.0"}
	args := NewArgumentSet(Argument{Name: "InstanceID", Value: "0"}, Argument{Name: "Channel", Value: "Master"})
	outcome, err := client.Invoke(context.Background(), svc, "GetVolume", args)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotAction != `"`+renderingControl+`#GetVolume"` {
		t.Errorf("SOAPACTION = %s", gotAction)
	}
	if gotContentType != `text/xml; charset="utf-8"` {
		t.Errorf("Content-Type = %s", gotContentType)
	}
	if !strings.Contains(gotBody, "<InstanceID>0</InstanceID><Channel>Master</Channel>") {
		t.Errorf("body = %s", gotBody)
	}
	if v, _ := outcome.Arguments.Get("CurrentVolume"); v != "42" {
		t.Errorf("CurrentVolume = %q, want 42", v)
	}
}

func TestClient_InvokeFault(t *testing.T) {
	svc := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, faultBody)
	})

	client := &Client{}
	outcome, err := client.Invoke(context.Background(), svc, "Frobnicate", nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v, faults are not errors", err)
	}
	if outcome.Fault == nil || outcome.Fault.Code != 401 {
		t.Fatalf("Fault = %+v, want 401", outcome.Fault)
	}

	_, err = client.Call(context.Background(), svc, "Frobnicate", nil)
	var fault *Fault
	if !errors.As(err, &fault) || fault.Code != 401 {
		t.Errorf("Call() error = %v, want *Fault 401", err)
	}
	if upnperr.IsTransport(err) || upnperr.IsDescription(err) {
		t.Error("a fault must not look like a Transport or Description error")
	}
}

func TestClient_Invoke500WithoutFault(t *testing.T) {
	svc := newDevice(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	_, err := (&Client{}).Invoke(context.Background(), svc, "Play", nil)
	if !upnperr.IsDescription(err) {
		t.Fatalf("error = %v, want Description error", err)
	}
	var e *upnperr.Error
	if errors.As(err, &e) && !strings.HasSuffix(e.URL, "/ctl/RenderingControl") {
		t.Errorf("URL = %q, want the control URL", e.URL)
	}
}

func TestClient_InvokeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := (&Client{}).InvokeURL(context.Background(), url+"/ctl", renderingControl, "GetVolume", nil)
	if !upnperr.IsTransport(err) {
		t.Errorf("error = %v, want Transport error", err)
	}
}

func TestClient_InvokeRelativeControlURL(t *testing.T) {
	root, err := description.Parse(strings.NewReader(`<root><device><deviceType>t</deviceType><UDN>uuid:1</UDN>`+
		`<serviceList><service><serviceType>urn:x:service:S:1</serviceType><controlURL>/ctl</controlURL></service></serviceList>`+
		`</device></root>`), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	_, err = (&Client{}).Invoke(context.Background(), &root.Device.Services[0], "Play", nil)
	if !upnperr.IsDescription(err) {
		t.Errorf("error = %v, want Description error", err)
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateBuilding:       "building",
		StateSent:           "sent",
		StateDecoded:        "decoded",
		StateFaulted:        "faulted",
		StateTransportError: "transport_error",
		StateProtocolError:  "protocol_error",
		State(99):           "unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
