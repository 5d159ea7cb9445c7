package description

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/muurk/upnpctl/internal/upnperr"
)

// DeviceNamespace is the XML namespace of device description documents
const DeviceNamespace = "urn:schemas-upnp-org:device-1-0"

// Wire structs mirror the document. Element matching ignores namespaces and
// unknown elements are skipped.

type xmlRoot struct {
	XMLName     xml.Name
	SpecVersion struct {
		Major string `xml:"major"`
		Minor string `xml:"minor"`
	} `xml:"specVersion"`
	URLBase string     `xml:"URLBase"`
	Device  *xmlDevice `xml:"device"`
}

type xmlDevice struct {
	DeviceType       string       `xml:"deviceType"`
	FriendlyName     string       `xml:"friendlyName"`
	Manufacturer     string       `xml:"manufacturer"`
	ManufacturerURL  string       `xml:"manufacturerURL"`
	ModelDescription string       `xml:"modelDescription"`
	ModelName        string       `xml:"modelName"`
	ModelNumber      string       `xml:"modelNumber"`
	ModelURL         string       `xml:"modelURL"`
	SerialNumber     string       `xml:"serialNumber"`
	UDN              string       `xml:"UDN"`
	UPC              string       `xml:"UPC"`
	PresentationURL  string       `xml:"presentationURL"`
	Icons            []xmlIcon    `xml:"iconList>icon"`
	Services         []xmlService `xml:"serviceList>service"`
	Devices          []xmlDevice  `xml:"deviceList>device"`
}

type xmlIcon struct {
	MimeType string `xml:"mimetype"`
	Width    string `xml:"width"`
	Height   string `xml:"height"`
	Depth    string `xml:"depth"`
	URL      string `xml:"url"`
}

type xmlService struct {
	ServiceType string `xml:"serviceType"`
	ServiceID   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`
}

// NewDecoder returns an XML decoder that understands the non-UTF-8
// encodings devices declare in their XML prolog.
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// Parse parses a root device description. location is the URL the
// document was fetched from; its origin is the base for relative
// references when the document has no usable URLBase. location may be nil.
func Parse(r io.Reader, location *url.URL) (*Root, error) {
	var doc xmlRoot
	if err := NewDecoder(r).Decode(&doc); err != nil {
		return nil, upnperr.NewDescriptionError("malformed device description", "root", err)
	}
	if doc.XMLName.Local != "root" {
		return nil, upnperr.NewDescriptionError(
			fmt.Sprintf("unexpected document element <%s>", doc.XMLName.Local), "root", nil)
	}
	if doc.Device == nil {
		return nil, missing("root/device")
	}

	root := &Root{
		SpecVersion: SpecVersion{
			Major: atoi(doc.SpecVersion.Major),
			Minor: atoi(doc.SpecVersion.Minor),
		},
		URLBase: strings.TrimSpace(doc.URLBase),
	}

	base := baseURL(root.URLBase, location)
	dev, err := buildDevice(doc.Device, base, "root/device")
	if err != nil {
		return nil, err
	}
	root.Device = dev

	return root, nil
}

// baseURL returns URLBase when it is an absolute URL, otherwise the
// scheme and host of location.
func baseURL(urlBase string, location *url.URL) *url.URL {
	if urlBase != "" {
		if u, err := url.Parse(urlBase); err == nil && u.IsAbs() && u.Host != "" {
			return u
		}
	}
	if location == nil || location.Host == "" {
		return nil
	}
	return &url.URL{Scheme: location.Scheme, Host: location.Host}
}

func buildDevice(x *xmlDevice, base *url.URL, path string) (Device, error) {
	d := Device{
		UDN:              strings.TrimSpace(x.UDN),
		FriendlyName:     strings.TrimSpace(x.FriendlyName),
		DeviceType:       strings.TrimSpace(x.DeviceType),
		Manufacturer:     strings.TrimSpace(x.Manufacturer),
		ManufacturerURL:  strings.TrimSpace(x.ManufacturerURL),
		ModelDescription: strings.TrimSpace(x.ModelDescription),
		ModelName:        strings.TrimSpace(x.ModelName),
		ModelNumber:      strings.TrimSpace(x.ModelNumber),
		ModelURL:         strings.TrimSpace(x.ModelURL),
		SerialNumber:     strings.TrimSpace(x.SerialNumber),
		UPC:              strings.TrimSpace(x.UPC),
		PresentationURL:  strings.TrimSpace(x.PresentationURL),
		base:             base,
	}

	if d.DeviceType == "" {
		return Device{}, missing(path + "/deviceType")
	}
	if d.UDN == "" {
		return Device{}, missing(path + "/UDN")
	}

	for i := range x.Icons {
		icon := x.Icons[i]
		loc, _ := resolve(base, icon.URL)
		d.Icons = append(d.Icons, Icon{
			MimeType: strings.TrimSpace(icon.MimeType),
			Width:    atoi(icon.Width),
			Height:   atoi(icon.Height),
			Depth:    atoi(icon.Depth),
			URL:      strings.TrimSpace(icon.URL),
			location: loc,
		})
	}

	for i := range x.Services {
		svc, err := buildService(&x.Services[i], base, fmt.Sprintf("%s/serviceList/service[%d]", path, i))
		if err != nil {
			return Device{}, err
		}
		d.Services = append(d.Services, svc)
	}

	for i := range x.Devices {
		child, err := buildDevice(&x.Devices[i], base, fmt.Sprintf("%s/deviceList/device[%d]", path, i))
		if err != nil {
			return Device{}, err
		}
		d.Devices = append(d.Devices, child)
	}

	return d, nil
}

func buildService(x *xmlService, base *url.URL, path string) (Service, error) {
	s := Service{
		ServiceType: strings.TrimSpace(x.ServiceType),
		ServiceID:   strings.TrimSpace(x.ServiceID),
		ControlURL:  strings.TrimSpace(x.ControlURL),
		SCPDURL:     strings.TrimSpace(x.SCPDURL),
		EventSubURL: strings.TrimSpace(x.EventSubURL),
	}

	if s.ServiceType == "" {
		return Service{}, missing(path + "/serviceType")
	}
	if s.ControlURL == "" {
		return Service{}, missing(path + "/controlURL")
	}

	var err error
	if s.control, err = resolve(base, s.ControlURL); err != nil {
		return Service{}, upnperr.NewDescriptionError("invalid URL", path+"/controlURL", err)
	}
	if s.scpd, err = resolve(base, s.SCPDURL); err != nil {
		return Service{}, upnperr.NewDescriptionError("invalid URL", path+"/SCPDURL", err)
	}
	// Eventing is not used by a control point; a bad reference is not fatal.
	s.eventSub, _ = resolve(base, s.EventSubURL)

	return s, nil
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
