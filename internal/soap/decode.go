package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// Outcome is the result of an invocation that reached the device and got a
// well-formed answer: either output arguments or a fault.
type Outcome struct {
	Arguments *ArgumentSet `json:"arguments,omitempty"`
	Fault     *Fault       `json:"fault,omitempty"`
}

// Faulted reports whether the device rejected the action
func (o *Outcome) Faulted() bool {
	return o.Fault != nil
}

// node is a generic element tree; namespaces are matched by local name only
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Inner    string `xml:",innerxml"`
	Children []node `xml:",any"`
}

func (n *node) child(local string) *node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *node) text(local string) string {
	if c := n.child(local); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// DecodeResponse decodes the body of a control response. A Fault in the
// body yields an Outcome carrying it, whatever the status. A 2xx body with
// the <action>Response element yields its arguments in document order.
// Anything else is a Description error.
func DecodeResponse(status int, body []byte, action string) (*Outcome, error) {
	var env node
	if err := description.NewDecoder(bytes.NewReader(body)).Decode(&env); err != nil {
		return nil, protocolError(status, "malformed SOAP response", "Envelope", err)
	}
	if env.XMLName.Local != "Envelope" {
		return nil, protocolError(status, fmt.Sprintf("unexpected document element <%s>", env.XMLName.Local), "Envelope", nil)
	}
	bodyNode := env.child("Body")
	if bodyNode == nil {
		return nil, protocolError(status, "missing required element", "Envelope/Body", nil)
	}

	if f := bodyNode.child("Fault"); f != nil {
		fault, err := decodeFault(f)
		if err != nil {
			return nil, protocolError(status, err.Error(), "Envelope/Body/Fault/detail/UPnPError/errorCode", nil)
		}
		fault.StatusCode = status
		return &Outcome{Fault: fault}, nil
	}

	if status < 200 || status > 299 {
		return nil, protocolError(status, fmt.Sprintf("HTTP %d without SOAP Fault", status), "Envelope/Body/Fault", nil)
	}

	resp := bodyNode.child(action + "Response")
	if resp == nil {
		return nil, protocolError(status, "missing required element", "Envelope/Body/"+action+"Response", nil)
	}

	args := &ArgumentSet{}
	for _, c := range resp.Children {
		value := c.Text
		if len(c.Children) > 0 {
			// Some devices embed unescaped XML (e.g. DIDL-Lite) in an argument
			value = c.Inner
		}
		name := c.XMLName.Local
		if _, dup := args.Get(name); dup {
			return nil, protocolError(status, fmt.Sprintf("duplicate output argument %q", name), "Envelope/Body/"+action+"Response/"+name, nil)
		}
		args.Set(name, value)
	}
	return &Outcome{Arguments: args}, nil
}

func decodeFault(f *node) (*Fault, error) {
	fault := &Fault{
		FaultCode:   f.text("faultcode"),
		FaultString: f.text("faultstring"),
	}

	var upnpErr *node
	if detail := f.child("detail"); detail != nil {
		upnpErr = detail.child("UPnPError")
	}
	if upnpErr == nil {
		fault.Description = fault.FaultString
		return fault, nil
	}

	raw := upnpErr.text("errorCode")
	code, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("errorCode %q is not an integer", raw)
	}
	fault.Code = code
	fault.Description = upnpErr.text("errorDescription")
	if fault.Description == "" {
		fault.Description = FaultDescription(code)
	}
	return fault, nil
}

func protocolError(status int, msg, path string, err error) *upnperr.Error {
	e := upnperr.NewDescriptionError(msg, path, err)
	e.StatusCode = status
	return e
}
