package scpd

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// Fetcher retrieves and parses service descriptions
type Fetcher struct {
	// HTTPClient performs the GET (nil = http.DefaultClient)
	HTTPClient description.Doer

	// UserAgent is sent with every request (empty = Go default)
	UserAgent string

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// NewFetcher creates a fetcher with its own HTTP client
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: description.DefaultTimeout},
		UserAgent:  userAgent,
	}
}

// Fetch retrieves the schema of svc from its SCPD URL
func (f *Fetcher) Fetch(ctx context.Context, svc *description.Service) (*Schema, error) {
	loc := svc.SCPDLocation()
	if loc == nil || !loc.IsAbs() {
		return nil, upnperr.NewDescriptionError("service has no absolute SCPDURL", "service/SCPDURL", nil)
	}
	target := loc.String()
	log := logging.Or(f.Logger)

	body, err := description.Get(ctx, f.HTTPClient, target, f.UserAgent, log)
	if err != nil {
		return nil, err
	}

	schema, err := Parse(body, svc.ServiceType)
	if err != nil {
		var e *upnperr.Error
		if errors.As(err, &e) {
			e.URL = target
		}
		return nil, err
	}

	log.Debug("Service description parsed",
		zap.String("scpd_url", target),
		zap.String("service_type", svc.ServiceType),
		zap.Int("actions", len(schema.Actions)),
		zap.Int("state_variables", len(schema.StateVariables)),
	)
	return schema, nil
}
