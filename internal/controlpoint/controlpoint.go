package controlpoint

import (
	"context"
	"iter"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/discovery"
	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/scpd"
	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/version"
)

// DefaultFetchConcurrency bounds parallel description fetches in
// DiscoverDevices
const DefaultFetchConcurrency = 4

// Options configures a ControlPoint. Zero values select defaults.
type Options struct {
	// HTTPClient is shared by description, schema and action requests
	HTTPClient description.Doer

	// HTTPTimeout applies when HTTPClient is nil
	HTTPTimeout time.Duration

	// Interfaces restricts discovery to these interface names
	Interfaces []string

	// Resolver overrides interface enumeration
	Resolver discovery.Resolver

	// Listen overrides socket binding
	Listen discovery.ListenFunc

	// SchemaTTL is how long fetched schemas are cached
	SchemaTTL time.Duration

	// UserAgent is sent in SSDP and HTTP requests
	UserAgent string

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// ControlPoint wires the discovery, description, schema and invocation
// stages with one HTTP client and one schema cache. It is safe for
// concurrent use.
type ControlPoint struct {
	Engine       *discovery.Engine
	Descriptions *description.Fetcher
	Schemas      *scpd.Cache
	SOAP         *soap.Client

	log *zap.Logger
}

// New creates a control point
func New(opts Options) *ControlPoint {
	ua := opts.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	log := logging.Or(opts.Logger)

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = description.DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	engine := discovery.NewEngine()
	engine.UserAgent = ua
	engine.Logger = log
	switch {
	case opts.Resolver != nil:
		engine.Resolver = opts.Resolver
	case len(opts.Interfaces) > 0:
		engine.Resolver = discovery.SystemResolver{Allow: opts.Interfaces}
	}
	if opts.Listen != nil {
		engine.Listen = opts.Listen
	}

	ttl := opts.SchemaTTL
	if ttl == 0 {
		ttl = scpd.DefaultCacheTTL
	}

	return &ControlPoint{
		Engine:       engine,
		Descriptions: &description.Fetcher{HTTPClient: client, UserAgent: ua, Logger: log},
		Schemas:      scpd.NewCache(&scpd.Fetcher{HTTPClient: client, UserAgent: ua, Logger: log}, ttl),
		SOAP:         &soap.Client{HTTPClient: client, UserAgent: ua, Logger: log},
		log:          log,
	}
}

// Discover starts an SSDP search
func (cp *ControlPoint) Discover(ctx context.Context, target string, timeout time.Duration) (*discovery.Search, error) {
	return cp.Engine.Discover(ctx, target, timeout)
}

// FetchDevice retrieves the device description at location
func (cp *ControlPoint) FetchDevice(ctx context.Context, location string) (*description.Device, error) {
	return cp.Descriptions.Fetch(ctx, location)
}

// FetchSchema returns the schema of svc, from the cache when possible
func (cp *ControlPoint) FetchSchema(ctx context.Context, svc *description.Service) (*scpd.Schema, error) {
	return cp.Schemas.Get(ctx, svc)
}

// Invoke calls action on svc
func (cp *ControlPoint) Invoke(ctx context.Context, svc *description.Service, action string, args *soap.ArgumentSet) (*soap.Outcome, error) {
	return cp.SOAP.Invoke(ctx, svc, action, args)
}

// InvokeTyped coerces values with the service schema before invoking, and
// decodes the output arguments with it
func (cp *ControlPoint) InvokeTyped(ctx context.Context, svc *description.Service, action string, values map[string]any) (map[string]any, *soap.Fault, error) {
	schema, err := cp.FetchSchema(ctx, svc)
	if err != nil {
		return nil, nil, err
	}
	args, err := schema.Coerce(action, values)
	if err != nil {
		return nil, nil, err
	}
	outcome, err := cp.Invoke(ctx, svc, action, args)
	if err != nil {
		return nil, nil, err
	}
	if outcome.Faulted() {
		return nil, outcome.Fault, nil
	}
	out, err := schema.Decode(action, outcome.Arguments)
	return out, nil, err
}

// Found is one device located during DiscoverDevices
type Found struct {
	Response discovery.Response
	Device   *description.Device
}

// DiscoverDevices searches for target and fetches the description of each
// distinct location as responses arrive. Description failures are yielded
// with the response they came from; discovery failures end the sequence
// after one error. Breaking out of the loop stops the search.
func (cp *ControlPoint) DiscoverDevices(ctx context.Context, target string, timeout time.Duration) iter.Seq2[Found, error] {
	return func(yield func(Found, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		search, err := cp.Discover(ctx, target, timeout)
		if err != nil {
			yield(Found{}, err)
			return
		}
		defer search.Close()

		type result struct {
			found Found
			err   error
		}
		results := make(chan result)
		sem := make(chan struct{}, DefaultFetchConcurrency)
		var wg sync.WaitGroup

		// The reader never waits on a fetch slot, so slow descriptions cannot
		// stall the engine's receivers inside the discovery window.
		go func() {
			seen := make(map[string]struct{})
			for resp := range search.Responses() {
				if _, dup := seen[resp.Location]; dup {
					continue
				}
				seen[resp.Location] = struct{}{}

				wg.Add(1)
				go func(resp discovery.Response) {
					defer wg.Done()
					select {
					case sem <- struct{}{}:
					case <-ctx.Done():
						return
					}
					defer func() { <-sem }()
					dev, err := cp.FetchDevice(ctx, resp.Location)
					select {
					case results <- result{found: Found{Response: resp, Device: dev}, err: err}:
					case <-ctx.Done():
					}
				}(resp)
			}
			wg.Wait()
			close(results)
		}()

		for r := range results {
			if !yield(r.found, r.err) {
				cancel()
				for range results {
				}
				return
			}
		}
	}
}
