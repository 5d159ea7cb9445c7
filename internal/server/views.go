package server

import (
	"math"
	"net/url"
	"time"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/scpd"
)

// JSON shapes of the API. Library types carry no JSON tags; these views
// pin the wire names.

// ResponseJSON returns the API representation of a discovery response
func ResponseJSON(r discovery.Response) any { return newResponseView(r) }

// DeviceJSON returns the API representation of a device tree
func DeviceJSON(d *description.Device) any { return newDeviceView(d) }

// SchemaJSON returns the API representation of a service schema
func SchemaJSON(s *scpd.Schema) any { return newSchemaView(s) }

type responseView struct {
	Location   string    `json:"location"`
	ST         string    `json:"st"`
	USN        string    `json:"usn"`
	MaxAge     int       `json:"max_age,omitempty"` // seconds
	Server     string    `json:"server,omitempty"`
	Interface  string    `json:"interface,omitempty"`
	From       string    `json:"from,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// discoverResult is the body of GET /api/discover. Failures lists the
// interfaces that could not be searched.
type discoverResult struct {
	Responses []responseView `json:"responses"`
	Failures  []string       `json:"failures"`
}

func newResponseView(r discovery.Response) responseView {
	v := responseView{
		Location:   r.Location,
		ST:         r.ST,
		USN:        r.USN,
		MaxAge:     int(r.MaxAge / time.Second),
		Server:     r.Server,
		Interface:  r.Interface,
		ReceivedAt: r.ReceivedAt,
	}
	if r.From != nil {
		v.From = r.From.String()
	}
	return v
}

type deviceView struct {
	UDN              string        `json:"udn"`
	FriendlyName     string        `json:"friendly_name,omitempty"`
	DeviceType       string        `json:"device_type"`
	Manufacturer     string        `json:"manufacturer,omitempty"`
	ManufacturerURL  string        `json:"manufacturer_url,omitempty"`
	ModelDescription string        `json:"model_description,omitempty"`
	ModelName        string        `json:"model_name,omitempty"`
	ModelNumber      string        `json:"model_number,omitempty"`
	ModelURL         string        `json:"model_url,omitempty"`
	SerialNumber     string        `json:"serial_number,omitempty"`
	UPC              string        `json:"upc,omitempty"`
	PresentationURL  string        `json:"presentation_url,omitempty"`
	BaseURL          string        `json:"base_url,omitempty"`
	Icons            []iconView    `json:"icons,omitempty"`
	Services         []serviceView `json:"services,omitempty"`
	Devices          []deviceView  `json:"devices,omitempty"`
}

type serviceView struct {
	ServiceType string `json:"service_type"`
	ServiceID   string `json:"service_id,omitempty"`
	ControlURL  string `json:"control_url"`
	SCPDURL     string `json:"scpd_url"`
	EventSubURL string `json:"event_sub_url,omitempty"`
}

type iconView struct {
	MimeType string `json:"mimetype"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Depth    int    `json:"depth"`
	URL      string `json:"url"`
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func newDeviceView(d *description.Device) deviceView {
	v := deviceView{
		UDN:              d.UDN,
		FriendlyName:     d.FriendlyName,
		DeviceType:       d.DeviceType,
		Manufacturer:     d.Manufacturer,
		ManufacturerURL:  d.ManufacturerURL,
		ModelDescription: d.ModelDescription,
		ModelName:        d.ModelName,
		ModelNumber:      d.ModelNumber,
		ModelURL:         d.ModelURL,
		SerialNumber:     d.SerialNumber,
		UPC:              d.UPC,
		PresentationURL:  d.PresentationURL,
		BaseURL:          urlString(d.BaseURL()),
	}
	for i := range d.Icons {
		icon := &d.Icons[i]
		v.Icons = append(v.Icons, iconView{
			MimeType: icon.MimeType,
			Width:    icon.Width,
			Height:   icon.Height,
			Depth:    icon.Depth,
			URL:      urlString(icon.Location()),
		})
	}
	for i := range d.Services {
		svc := &d.Services[i]
		v.Services = append(v.Services, serviceView{
			ServiceType: svc.ServiceType,
			ServiceID:   svc.ServiceID,
			ControlURL:  urlString(svc.ControlLocation()),
			SCPDURL:     urlString(svc.SCPDLocation()),
			EventSubURL: urlString(svc.EventSubLocation()),
		})
	}
	for i := range d.Devices {
		v.Devices = append(v.Devices, newDeviceView(&d.Devices[i]))
	}
	return v
}

type schemaView struct {
	ServiceType    string              `json:"service_type"`
	SpecVersion    string              `json:"spec_version"`
	Actions        []actionView        `json:"actions"`
	StateVariables []stateVariableView `json:"state_variables"`
}

type actionView struct {
	Name      string         `json:"name"`
	Arguments []argumentView `json:"arguments,omitempty"`
}

type argumentView struct {
	Name                 string `json:"name"`
	Direction            string `json:"direction"`
	RelatedStateVariable string `json:"related_state_variable"`
	Retval               bool   `json:"retval,omitempty"`
}

type stateVariableView struct {
	Name          string     `json:"name"`
	DataType      string     `json:"data_type"`
	SendEvents    bool       `json:"send_events"`
	Multicast     bool       `json:"multicast,omitempty"`
	DefaultValue  string     `json:"default_value,omitempty"`
	AllowedValues []string   `json:"allowed_values,omitempty"`
	AllowedRange  *rangeView `json:"allowed_range,omitempty"`
}

// rangeView omits open bounds; JSON has no infinity
type rangeView struct {
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	Step    float64  `json:"step"`
}

func finite(f float64) *float64 {
	if math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func newSchemaView(s *scpd.Schema) schemaView {
	v := schemaView{
		ServiceType:    s.ServiceType,
		SpecVersion:    s.SpecVersion.String(),
		Actions:        make([]actionView, 0, len(s.Actions)),
		StateVariables: make([]stateVariableView, 0, len(s.StateVariables)),
	}
	for _, a := range s.Actions {
		av := actionView{Name: a.Name}
		for _, arg := range a.Arguments {
			av.Arguments = append(av.Arguments, argumentView{
				Name:                 arg.Name,
				Direction:            string(arg.Direction),
				RelatedStateVariable: arg.RelatedStateVariable,
				Retval:               arg.Retval,
			})
		}
		v.Actions = append(v.Actions, av)
	}
	for _, sv := range s.StateVariables {
		svv := stateVariableView{
			Name:          sv.Name,
			DataType:      string(sv.DataType),
			SendEvents:    sv.SendEvents,
			Multicast:     sv.Multicast,
			DefaultValue:  sv.DefaultValue,
			AllowedValues: sv.AllowedValues,
		}
		if r := sv.AllowedRange; r != nil {
			svv.AllowedRange = &rangeView{Minimum: finite(r.Minimum), Maximum: finite(r.Maximum), Step: r.Step}
		}
		v.StateVariables = append(v.StateVariables, svv)
	}
	return v
}
