package ui

import (
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/scpd"
	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/upnperr"
)

const rendererDesc = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Living Room</friendlyName>
    <manufacturer>Acme</manufacturer>
    <modelName>Streamer</modelName>
    <UDN>uuid:4d696e69-444c-164e-9d41-b827eb96c6c2</UDN>
    <serviceList>
      <service>
        <serviceType>urn:schemas-upnp-org:service:RenderingControl:1</serviceType>
        <serviceId>urn:upnp-org:serviceId:RenderingControl</serviceId>
        <SCPDURL>/rc.xml</SCPDURL>
        <controlURL>/ctl/rc</controlURL>
      </service>
    </serviceList>
    <deviceList>
      <device>
        <deviceType>urn:schemas-upnp-org:device:Speaker:1</deviceType>
        <friendlyName>Left Speaker</friendlyName>
        <UDN>uuid:00000000-0000-0000-0000-000000000001</UDN>
      </device>
    </deviceList>
  </device>
</root>`

func parseDevice(t *testing.T) *description.Device {
	t.Helper()
	loc, _ := url.Parse("http://10.0.0.5:80/desc.xml")
	root, err := description.Parse(strings.NewReader(rendererDesc), loc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return &root.Device
}

func TestRenderDevice(t *testing.T) {
	out := RenderDevice(parseDevice(t))

	for _, want := range []string{
		"Living Room",
		"uuid:4d696e69-444c-164e-9d41-b827eb96c6c2",
		"Acme Streamer",
		"RenderingControl",
		"http://10.0.0.5:80/ctl/rc",
		"└── Left Speaker",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDevice() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSchema(t *testing.T) {
	schema := &scpd.Schema{
		Actions: []scpd.Action{{
			Name: "SetVolume",
			Arguments: []scpd.Argument{
				{Name: "InstanceID", Direction: scpd.DirectionIn, RelatedStateVariable: "A_ARG_TYPE_InstanceID"},
				{Name: "DesiredVolume", Direction: scpd.DirectionIn, RelatedStateVariable: "Volume"},
			},
		}},
		StateVariables: []scpd.StateVariable{
			{Name: "A_ARG_TYPE_InstanceID", DataType: scpd.TypeUI4},
			{Name: "Volume", DataType: scpd.TypeUI2, SendEvents: true,
				AllowedRange: &scpd.AllowedValueRange{Minimum: 0, Maximum: math.Inf(1), Step: 5}},
		},
	}

	out := RenderSchema(schema)
	for _, want := range []string{"SetVolume(InstanceID, DesiredVolume)", "DesiredVolume ui2", "evented", "[0..] step 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSchema() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResponsesAndArguments(t *testing.T) {
	out := RenderResponses([]discovery.Response{{ST: "upnp:rootdevice", USN: "uuid:1::upnp:rootdevice", Location: "http://10.0.0.5/d.xml"}})
	if !strings.Contains(out, "uuid:1::upnp:rootdevice") || !strings.Contains(out, "http://10.0.0.5/d.xml") {
		t.Errorf("RenderResponses() = %q", out)
	}

	args := soap.NewArgumentSet(
		soap.Argument{Name: "CurrentVolume", Value: "35"},
		soap.Argument{Name: "Mute", Value: "0"},
	)
	out = RenderArguments(args)
	if !strings.Contains(out, "CurrentVolume = 35") || !strings.Contains(out, "Mute          = 0") {
		t.Errorf("RenderArguments() = %q", out)
	}
}

func TestResults(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("GetVolume", Param{"Device", "Living Room"}),
			want:   []string{"SUCCESS", "GetVolume", "Living Room"},
		},
		{
			name:   "failure hint",
			result: NewFailureResult("describe", upnperr.NewDescriptionError("missing required element", "root/device/UDN", nil)),
			want:   []string{"FAILED", "Invalid device XML at root/device/UDN", "Offending element"},
		},
		{
			name:   "fault",
			result: NewFaultResult("Seek", &soap.Fault{Code: 701, Description: "Transition not available"}),
			want:   []string{"FAULT", "Seek rejected by device", "701", "Transition not available"},
		},
		{
			name:   "plain error",
			result: NewFailureResult("invoke", errors.New("boom")),
			want:   []string{"boom"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(100).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Render() missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestHeader(t *testing.T) {
	out := NewHeader("Device description", "upnpctl describe kitchen", Param{"Location", "http://10.0.0.5/d.xml"}).SetWidth(80).Render()
	if !strings.Contains(out, "DEVICE DESCRIPTION") || !strings.Contains(out, "Location: http://10.0.0.5/d.xml") {
		t.Errorf("Render() = \n%s", out)
	}
}
