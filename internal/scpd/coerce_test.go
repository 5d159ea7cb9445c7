package scpd

import (
	"testing"

	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/upnperr"
)

func TestSchema_Coerce(t *testing.T) {
	s := parseRC(t)

	args, err := s.Coerce("SetVolume", map[string]any{
		"DesiredVolume": 30,
		"Channel":       "Master",
		"InstanceID":    uint32(0),
	})
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}

	names := args.Names()
	want := []string{"InstanceID", "Channel", "DesiredVolume"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want declared order %v", names, want)
		}
	}
	if v, _ := args.Get("DesiredVolume"); v != "30" {
		t.Errorf("DesiredVolume = %q", v)
	}
}

func TestSchema_CoerceRejects(t *testing.T) {
	s := parseRC(t)

	tests := []struct {
		name   string
		action string
		values map[string]any
	}{
		{"unknown action", "Explode", nil},
		{"missing argument", "GetVolume", map[string]any{"InstanceID": 0}},
		{"unknown argument", "GetVolume", map[string]any{"InstanceID": 0, "Channel": "Master", "Loudness": 1}},
		{"out of range", "SetVolume", map[string]any{"InstanceID": 0, "Channel": "Master", "DesiredVolume": 101}},
		{"disallowed value", "SetVolume", map[string]any{"InstanceID": 0, "Channel": "Center", "DesiredVolume": 1}},
		{"wrong type", "SetVolume", map[string]any{"InstanceID": 0, "Channel": "Master", "DesiredVolume": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Coerce(tt.action, tt.values)
			if !upnperr.IsValidation(err) {
				t.Errorf("Coerce() error = %v, want Validation error", err)
			}
		})
	}
}

func TestSchema_CoerceSet(t *testing.T) {
	s := parseRC(t)
	in := soap.NewArgumentSet(
		soap.Argument{Name: "Channel", Value: "LF"},
		soap.Argument{Name: "InstanceID", Value: "0"},
	)
	out, err := s.CoerceSet("GetVolume", in)
	if err != nil {
		t.Fatalf("CoerceSet() error = %v", err)
	}
	if out.Names()[0] != "InstanceID" || !out.Equal(in) {
		t.Errorf("CoerceSet() = %v", out.Names())
	}
}

func TestSchema_Decode(t *testing.T) {
	s := parseRC(t)
	out := soap.NewArgumentSet(
		soap.Argument{Name: "CurrentVolume", Value: "42"},
		soap.Argument{Name: "X_Extra", Value: "raw"},
	)

	values, err := s.Decode("GetVolume", out)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if values["CurrentVolume"] != uint16(42) {
		t.Errorf("CurrentVolume = %#v, want uint16(42)", values["CurrentVolume"])
	}
	if values["X_Extra"] != "raw" {
		t.Errorf("undescribed argument = %#v, want string", values["X_Extra"])
	}

	bad := soap.NewArgumentSet(soap.Argument{Name: "CurrentVolume", Value: "loud"})
	if _, err := s.Decode("GetVolume", bad); !upnperr.IsValidation(err) {
		t.Errorf("Decode() error = %v, want Validation error", err)
	}
}
