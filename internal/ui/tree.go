package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/scpd"
	"github.com/muurk/upnpctl/internal/soap"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// RenderDevice renders a device and its embedded devices as a tree
func RenderDevice(dev *description.Device) string {
	var b strings.Builder
	renderDevice(&b, dev, "")
	return strings.TrimRight(b.String(), "\n")
}

func renderDevice(b *strings.Builder, dev *description.Device, prefix string) {
	b.WriteString(DeviceNameStyle.Render(dev.Name()))
	b.WriteString("\n")

	type entry struct {
		line   string
		device *description.Device
	}
	var entries []entry
	field := func(key, value string) {
		if value != "" {
			entries = append(entries, entry{line: DetailKeyStyle.Render(key+": ") + DetailValueStyle.Render(value)})
		}
	}
	field("type", dev.DeviceType)
	field("udn", dev.UDN)
	if dev.Manufacturer != "" || dev.ModelName != "" {
		field("model", strings.TrimSpace(dev.Manufacturer+" "+dev.ModelName+" "+dev.ModelNumber))
	}
	field("serial", dev.SerialNumber)
	field("presentation", dev.PresentationURL)
	for i := range dev.Icons {
		icon := &dev.Icons[i]
		loc := icon.URL
		if u := icon.Location(); u != nil {
			loc = u.String()
		}
		field("icon", fmt.Sprintf("%s %dx%dx%d %s", icon.MimeType, icon.Width, icon.Height, icon.Depth, loc))
	}
	for i := range dev.Services {
		svc := &dev.Services[i]
		line := ServiceNameStyle.Render(svc.ShortType())
		if svc.ServiceID != "" {
			line += DetailKeyStyle.Render("  " + svc.ServiceID)
		}
		if u := svc.ControlLocation(); u != nil {
			line += DetailKeyStyle.Render("  control " + u.String())
		}
		entries = append(entries, entry{line: line})
	}
	for i := range dev.Devices {
		entries = append(entries, entry{device: &dev.Devices[i]})
	}

	for i, e := range entries {
		branch, indent := branchMid, indentMid
		if i == len(entries)-1 {
			branch, indent = branchLast, indentLast
		}
		b.WriteString(prefix + TreeBranchStyle.Render(branch))
		if e.device != nil {
			renderDevice(b, e.device, prefix+TreeBranchStyle.Render(indent))
			continue
		}
		b.WriteString(e.line + "\n")
	}
}

// RenderSchema lists the actions with their signatures and the state
// variables with their types and constraints
func RenderSchema(schema *scpd.Schema) string {
	var b strings.Builder
	b.WriteString(DeviceNameStyle.Render("Actions"))
	b.WriteString("\n")
	for i := range schema.Actions {
		a := &schema.Actions[i]
		b.WriteString("  " + ServiceNameStyle.Render(a.Signature()) + "\n")
		for _, arg := range a.Arguments {
			sv := schema.StateVariable(arg.RelatedStateVariable)
			typ := "?"
			if sv != nil {
				typ = string(sv.DataType)
			}
			b.WriteString(DetailKeyStyle.Render(fmt.Sprintf("      %-3s %s %s", arg.Direction, arg.Name, typ)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(DeviceNameStyle.Render("State variables"))
	b.WriteString("\n")
	for i := range schema.StateVariables {
		sv := &schema.StateVariables[i]
		line := fmt.Sprintf("  %-32s %-12s", sv.Name, sv.DataType)
		var notes []string
		if sv.SendEvents {
			notes = append(notes, "evented")
		}
		if len(sv.AllowedValues) > 0 {
			notes = append(notes, "{"+strings.Join(sv.AllowedValues, ", ")+"}")
		}
		if r := sv.AllowedRange; r != nil {
			notes = append(notes, formatRange(r))
		}
		if sv.DefaultValue != "" {
			notes = append(notes, "default "+sv.DefaultValue)
		}
		b.WriteString(DetailValueStyle.Render(line) + DetailKeyStyle.Render(strings.Join(notes, " ")) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRange(r *scpd.AllowedValueRange) string {
	bound := func(f float64) string {
		if math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := "[" + bound(r.Minimum) + ".." + bound(r.Maximum) + "]"
	if r.Step != 1 {
		s += " step " + bound(r.Step)
	}
	return s
}

// RenderResponses renders discovery responses as ST, USN and location blocks
func RenderResponses(responses []discovery.Response) string {
	lines := make([]string, 0, len(responses))
	for _, r := range responses {
		lines = append(lines,
			ServiceNameStyle.Render(r.ST)+"\n"+
				DetailKeyStyle.Render("    usn: ")+DetailValueStyle.Render(r.USN)+"\n"+
				DetailKeyStyle.Render("    location: ")+DetailValueStyle.Render(r.Location))
	}
	return strings.Join(lines, "\n")
}

// RenderArguments renders output arguments as aligned name = value lines
func RenderArguments(args *soap.ArgumentSet) string {
	width := 0
	for _, name := range args.Names() {
		width = max(width, len(name))
	}
	var lines []string
	for name, value := range args.All() {
		lines = append(lines, DetailKeyStyle.Render(padRight(name, width))+" = "+DetailValueStyle.Render(value))
	}
	return strings.Join(lines, "\n")
}
