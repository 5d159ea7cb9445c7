package soap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/upnperr"
)

const (
	// DefaultTimeout is the HTTP timeout used by NewClient
	DefaultTimeout = 10 * time.Second

	// maxResponseSize caps control response bodies
	maxResponseSize = 4 << 20
)

// State is a step of one invocation
type State int

const (
	StateBuilding State = iota
	StateSent
	StateDecoded
	StateFaulted
	StateTransportError
	StateProtocolError
)

// String returns the state name used in logs
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSent:
		return "sent"
	case StateDecoded:
		return "decoded"
	case StateFaulted:
		return "faulted"
	case StateTransportError:
		return "transport_error"
	case StateProtocolError:
		return "protocol_error"
	default:
		return "unknown"
	}
}

// Client invokes actions on a device's services. It never retries: UPnP
// actions are not guaranteed to be idempotent.
type Client struct {
	// HTTPClient performs the POST (nil = http.DefaultClient)
	HTTPClient description.Doer

	// UserAgent is sent with every request (empty = Go default)
	UserAgent string

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// NewClient creates a client with its own HTTP client
func NewClient(userAgent string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  userAgent,
	}
}

// Invoke calls action on svc. A device-reported rejection is returned in
// Outcome.Fault with a nil error; the error is reserved for Transport and
// Description failures.
func (c *Client) Invoke(ctx context.Context, svc *description.Service, action string, args *ArgumentSet) (*Outcome, error) {
	control := svc.ControlLocation()
	if control == nil || !control.IsAbs() {
		return nil, upnperr.NewDescriptionError("control URL is not absolute", "service/controlURL", nil)
	}
	return c.InvokeURL(ctx, control.String(), svc.ServiceType, action, args)
}

// InvokeURL calls action at an explicit control URL
func (c *Client) InvokeURL(ctx context.Context, controlURL, serviceType, action string, args *ArgumentSet) (*Outcome, error) {
	log := logging.Or(c.Logger)
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	logging.LogSOAPState(log, action, StateBuilding.String(),
		zap.String("service_type", serviceType),
		zap.Int("arguments", args.Len()),
	)
	envelope := BuildEnvelope(serviceType, action, args)
	soapAction := SOAPActionHeader(serviceType, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, controlURL, bytes.NewReader(envelope))
	if err != nil {
		logging.LogSOAPState(log, action, StateTransportError.String(), zap.Error(err))
		return nil, upnperr.NewTransportError("failed to create request", controlURL, err)
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("SOAPACTION", soapAction)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogHTTPRequest(log, req.Method, controlURL, map[string]string{
		"SOAPACTION": soapAction,
	})
	logging.LogRawBytes(log, "SOAP request body", envelope)

	resp, err := client.Do(req)
	if err != nil {
		logging.LogSOAPState(log, action, StateTransportError.String(), zap.Error(err))
		return nil, upnperr.NewTransportError("POST failed", controlURL, err)
	}
	defer resp.Body.Close()
	logging.LogSOAPState(log, action, StateSent.String(), zap.Int("status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		logging.LogSOAPState(log, action, StateTransportError.String(), zap.Error(err))
		return nil, upnperr.NewTransportError("failed to read response body", controlURL, err)
	}
	logging.LogHTTPResponse(log, controlURL, resp.StatusCode, body)
	logging.LogRawBytes(log, "SOAP response body", body)

	outcome, err := DecodeResponse(resp.StatusCode, body, action)
	if err != nil {
		var e *upnperr.Error
		if errors.As(err, &e) {
			e.URL = controlURL
		}
		logging.LogSOAPState(log, action, StateProtocolError.String(), zap.Error(err))
		return nil, err
	}

	if outcome.Faulted() {
		logging.LogSOAPState(log, action, StateFaulted.String(),
			zap.Int("error_code", outcome.Fault.Code),
			zap.String("error_description", outcome.Fault.Description),
		)
		return outcome, nil
	}

	logging.LogSOAPState(log, action, StateDecoded.String(), zap.Int("arguments", outcome.Arguments.Len()))
	return outcome, nil
}

// Call is Invoke with the fault folded into the error. Use errors.As with
// a *Fault to tell a rejection from a failure.
func (c *Client) Call(ctx context.Context, svc *description.Service, action string, args *ArgumentSet) (*ArgumentSet, error) {
	outcome, err := c.Invoke(ctx, svc, action, args)
	if err != nil {
		return nil, err
	}
	if outcome.Faulted() {
		return nil, outcome.Fault
	}
	return outcome.Arguments, nil
}
