package scpd

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// ServiceNamespace is the XML namespace of service description documents
const ServiceNamespace = "urn:schemas-upnp-org:service-1-0"

type xmlSCPD struct {
	XMLName     xml.Name
	SpecVersion struct {
		Major string `xml:"major"`
		Minor string `xml:"minor"`
	} `xml:"specVersion"`
	Actions        []xmlAction        `xml:"actionList>action"`
	StateVariables []xmlStateVariable `xml:"serviceStateTable>stateVariable"`
}

type xmlAction struct {
	Name      string        `xml:"name"`
	Arguments []xmlArgument `xml:"argumentList>argument"`
}

type xmlArgument struct {
	Name                 string    `xml:"name"`
	Direction            string    `xml:"direction"`
	RelatedStateVariable string    `xml:"relatedStateVariable"`
	Retval               *struct{} `xml:"retval"`
}

type xmlStateVariable struct {
	SendEvents        string   `xml:"sendEvents,attr"`
	Multicast         string   `xml:"multicast,attr"`
	Name              string   `xml:"name"`
	DataType          string   `xml:"dataType"`
	DefaultValue      string   `xml:"defaultValue"`
	AllowedValues     []string `xml:"allowedValueList>allowedValue"`
	AllowedValueRange *struct {
		Minimum string `xml:"minimum"`
		Maximum string `xml:"maximum"`
		Step    string `xml:"step"`
	} `xml:"allowedValueRange"`
	Optional *struct{} `xml:"Optional"`
}

// Parse parses a service description for serviceType. Unknown elements are
// ignored; a missing required element is a Description error naming it.
func Parse(r io.Reader, serviceType string) (*Schema, error) {
	var doc xmlSCPD
	if err := description.NewDecoder(r).Decode(&doc); err != nil {
		return nil, upnperr.NewDescriptionError("malformed service description", "scpd", err)
	}
	if doc.XMLName.Local != "scpd" {
		return nil, upnperr.NewDescriptionError(
			fmt.Sprintf("unexpected document element <%s>", doc.XMLName.Local), "scpd", nil)
	}

	schema := &Schema{
		ServiceType: serviceType,
		SpecVersion: SpecVersion{
			Major: atoi(doc.SpecVersion.Major),
			Minor: atoi(doc.SpecVersion.Minor),
		},
	}

	for i, xa := range doc.Actions {
		path := fmt.Sprintf("scpd/actionList/action[%d]", i)
		a := Action{Name: strings.TrimSpace(xa.Name)}
		if a.Name == "" {
			return nil, missing(path + "/name")
		}

		for j, xarg := range xa.Arguments {
			argPath := fmt.Sprintf("%s/argumentList/argument[%d]", path, j)
			arg := Argument{
				Name:                 strings.TrimSpace(xarg.Name),
				RelatedStateVariable: strings.TrimSpace(xarg.RelatedStateVariable),
				Retval:               xarg.Retval != nil,
			}
			if arg.Name == "" {
				return nil, missing(argPath + "/name")
			}
			switch strings.ToLower(strings.TrimSpace(xarg.Direction)) {
			case "in":
				arg.Direction = DirectionIn
			case "out":
				arg.Direction = DirectionOut
			case "":
				return nil, missing(argPath + "/direction")
			default:
				return nil, upnperr.NewDescriptionError(
					fmt.Sprintf("direction %q is neither in nor out", xarg.Direction), argPath+"/direction", nil)
			}
			a.Arguments = append(a.Arguments, arg)
		}
		schema.Actions = append(schema.Actions, a)
	}

	for i, xv := range doc.StateVariables {
		path := fmt.Sprintf("scpd/serviceStateTable/stateVariable[%d]", i)
		v := StateVariable{
			Name:         strings.TrimSpace(xv.Name),
			SendEvents:   yesNo(xv.SendEvents, true),
			Multicast:    yesNo(xv.Multicast, false),
			DataType:     DataType(strings.TrimSpace(xv.DataType)),
			DefaultValue: strings.TrimSpace(xv.DefaultValue),
			Optional:     xv.Optional != nil,
		}
		if v.Name == "" {
			return nil, missing(path + "/name")
		}
		if v.DataType == "" {
			return nil, missing(path + "/dataType")
		}
		for _, av := range xv.AllowedValues {
			v.AllowedValues = append(v.AllowedValues, strings.TrimSpace(av))
		}
		if xr := xv.AllowedValueRange; xr != nil {
			r, err := parseRange(xr.Minimum, xr.Maximum, xr.Step)
			if err != nil {
				return nil, upnperr.NewDescriptionError("invalid allowed value range", path+"/allowedValueRange", err)
			}
			v.AllowedRange = r
		}
		schema.StateVariables = append(schema.StateVariables, v)
	}

	return schema, nil
}

// parseRange reads a range. An omitted step is 1. An omitted minimum or
// maximum is an open bound (-Inf or +Inf), not 1: a range declaring only
// <maximum>100</maximum> must still accept 0.
func parseRange(minimum, maximum, step string) (*AllowedValueRange, error) {
	r := &AllowedValueRange{Minimum: math.Inf(-1), Maximum: math.Inf(1), Step: 1}
	var err error
	if s := strings.TrimSpace(minimum); s != "" {
		if r.Minimum, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("minimum: %w", err)
		}
	}
	if s := strings.TrimSpace(maximum); s != "" {
		if r.Maximum, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("maximum: %w", err)
		}
	}
	if s := strings.TrimSpace(step); s != "" {
		if r.Step, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("step: %w", err)
		}
	}
	if r.Maximum < r.Minimum {
		return nil, fmt.Errorf("maximum %v below minimum %v", r.Maximum, r.Minimum)
	}
	return r, nil
}

func yesNo(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "1", "true":
		return true
	case "no", "0", "false":
		return false
	default:
		return def
	}
}

func missing(path string) *upnperr.Error {
	return upnperr.NewDescriptionError("missing required element", path, nil)
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
