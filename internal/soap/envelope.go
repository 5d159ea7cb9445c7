package soap

import (
	"bytes"
	"encoding/xml"
)

const (
	// EnvelopeNamespace is the SOAP 1.1 envelope namespace
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	// EncodingStyle is the SOAP 1.1 encoding style UPnP requires
	EncodingStyle = "http://schemas.xmlsoap.org/soap/encoding/"

	// ContentType is the request Content-Type
	ContentType = `text/xml; charset="utf-8"`

	xmlHeader = `<?xml version="1.0" encoding="utf-8"?>`
)

// SOAPActionHeader returns the SOAPACTION header value, quotes included
func SOAPActionHeader(serviceType, action string) string {
	return `"` + serviceType + "#" + action + `"`
}

// BuildEnvelope returns the request body invoking action with args, in the
// order they appear in args. Values are XML-escaped; names are used as
// element names verbatim.
func BuildEnvelope(serviceType, action string, args *ArgumentSet) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<s:Envelope xmlns:s="` + EnvelopeNamespace + `" s:encodingStyle="` + EncodingStyle + `">`)
	b.WriteString("<s:Body>")
	b.WriteString(`<u:` + action + ` xmlns:u="`)
	_ = xml.EscapeText(&b, []byte(serviceType))
	b.WriteString(`">`)
	for name, value := range args.All() {
		b.WriteString("<" + name + ">")
		_ = xml.EscapeText(&b, []byte(value))
		b.WriteString("</" + name + ">")
	}
	b.WriteString(`</u:` + action + `>`)
	b.WriteString("</s:Body></s:Envelope>")
	return b.Bytes()
}
