package description

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/upnperr"
)

const (
	// DefaultTimeout is the HTTP timeout used by NewFetcher
	DefaultTimeout = 10 * time.Second

	// MaxDocumentSize caps description and SCPD bodies
	MaxDocumentSize = 4 << 20
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves and parses device descriptions
type Fetcher struct {
	// HTTPClient performs the GET (nil = http.DefaultClient)
	HTTPClient Doer

	// UserAgent is sent with every request (empty = Go default)
	UserAgent string

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// NewFetcher creates a fetcher with its own HTTP client
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  userAgent,
	}
}

// Fetch retrieves the description at location and returns its root device
func (f *Fetcher) Fetch(ctx context.Context, location string) (*Device, error) {
	root, err := f.FetchRoot(ctx, location)
	if err != nil {
		return nil, err
	}
	return &root.Device, nil
}

// FetchRoot retrieves the description at location. Transport failures and
// non-2xx statuses are Transport errors; unusable XML is a Description
// error naming the offending element.
func (f *Fetcher) FetchRoot(ctx context.Context, location string) (*Root, error) {
	u, err := url.Parse(location)
	if err != nil || !u.IsAbs() {
		return nil, upnperr.NewTransportError("invalid description location", location, err)
	}

	log := logging.Or(f.Logger)
	body, err := Get(ctx, f.HTTPClient, u.String(), f.UserAgent, log)
	if err != nil {
		return nil, err
	}

	root, err := Parse(body, u)
	if err != nil {
		var e *upnperr.Error
		if errors.As(err, &e) {
			e.URL = location
		}
		return nil, err
	}

	log.Debug("Device description parsed",
		zap.String("location", location),
		zap.String("udn", root.Device.UDN),
		zap.String("device_type", root.Device.DeviceType),
		zap.Int("services", root.Device.CountServices()),
	)
	return root, nil
}

// Get performs a GET for an XML document and returns a reader over the
// whole body, capped at MaxDocumentSize.
func Get(ctx context.Context, client Doer, target, userAgent string, log *zap.Logger) (io.Reader, error) {
	if client == nil {
		client = http.DefaultClient
	}
	log = logging.Or(log)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, upnperr.NewTransportError("failed to create request", target, err)
	}
	req.Header.Set("Accept", "text/xml, application/xml")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	logging.LogHTTPRequest(log, req.Method, target, map[string]string{
		"User-Agent": userAgent,
	})

	resp, err := client.Do(req)
	if err != nil {
		return nil, upnperr.NewTransportError("GET failed", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
	if err != nil {
		return nil, upnperr.NewTransportError("failed to read response body", target, err)
	}
	logging.LogHTTPResponse(log, target, resp.StatusCode, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upnperr.NewHTTPError(resp.StatusCode, target)
	}

	return bytes.NewReader(body), nil
}
