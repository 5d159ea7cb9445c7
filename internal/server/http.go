package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/muurk/upnpctl/internal/description"
	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// maxRequestBody bounds POST bodies
const maxRequestBody = 1 << 20

// InvokeRequest is the body of POST /api/invoke. Service is a service
// type, service ID or short name.
type InvokeRequest struct {
	Location  string            `json:"location"`
	Service   string            `json:"service"`
	Action    string            `json:"action"`
	Arguments *soap.ArgumentSet `json:"arguments,omitempty"`

	// Typed coerces the arguments with the service schema and decodes the
	// output arguments to typed values
	Typed bool `json:"typed,omitempty"`
}

// InvokeResponse carries either the output arguments or the fault
type InvokeResponse struct {
	Arguments *soap.ArgumentSet `json:"arguments,omitempty"`
	Values    map[string]any    `json:"values,omitempty"`
	Fault     *soap.Fault       `json:"fault,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) discover(w http.ResponseWriter, r *http.Request) {
	target, timeout, err := s.searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	search, err := s.cp.Discover(r.Context(), target, timeout)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}

	result := discoverResult{Responses: []responseView{}, Failures: []string{}}
	for resp := range search.All() {
		result.Responses = append(result.Responses, newResponseView(resp))
	}
	for _, f := range search.Failures() {
		s.log.Warn("Discovery interface failure", zap.Error(f))
		result.Failures = append(result.Failures, f.Error())
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) device(w http.ResponseWriter, r *http.Request) {
	dev, ok := s.fetchDevice(w, r, r.URL.Query().Get("location"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newDeviceView(dev))
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.lookupService(w, r, r.URL.Query().Get("location"), r.URL.Query().Get("service"))
	if !ok {
		return
	}
	schema, err := s.cp.FetchSchema(r.Context(), svc)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSchemaView(schema))
}

func (s *Server) invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload", "action is required")
		return
	}

	svc, ok := s.lookupService(w, r, req.Location, req.Service)
	if !ok {
		return
	}

	if req.Typed {
		s.invokeTyped(w, r, svc, &req)
		return
	}

	outcome, err := s.cp.Invoke(r.Context(), svc, req.Action, req.Arguments)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InvokeResponse{Arguments: outcome.Arguments, Fault: outcome.Fault})
}

func (s *Server) invokeTyped(w http.ResponseWriter, r *http.Request, svc *description.Service, req *InvokeRequest) {
	schema, err := s.cp.FetchSchema(r.Context(), svc)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	args, err := schema.CoerceSet(req.Action, req.Arguments)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	outcome, err := s.cp.Invoke(r.Context(), svc, req.Action, args)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	if outcome.Faulted() {
		writeJSON(w, http.StatusOK, InvokeResponse{Fault: outcome.Fault})
		return
	}
	values, err := schema.Decode(req.Action, outcome.Arguments)
	if err != nil {
		s.writeUPnPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InvokeResponse{Arguments: outcome.Arguments, Values: values})
}

func (s *Server) fetchDevice(w http.ResponseWriter, r *http.Request, location string) (*description.Device, bool) {
	if location == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "location is required")
		return nil, false
	}
	dev, err := s.cp.FetchDevice(r.Context(), location)
	if err != nil {
		s.writeUPnPError(w, err)
		return nil, false
	}
	return dev, true
}

func (s *Server) lookupService(w http.ResponseWriter, r *http.Request, location, service string) (*description.Service, bool) {
	if service == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "service is required")
		return nil, false
	}
	dev, ok := s.fetchDevice(w, r, location)
	if !ok {
		return nil, false
	}
	svc := dev.LookupService(service)
	if svc == nil {
		writeError(w, http.StatusNotFound, "service_not_found", "device has no service "+service)
		return nil, false
	}
	return svc, true
}

// statusFor maps library errors onto API status codes
func statusFor(err error) (int, string) {
	var e *upnperr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "internal"
	}
	switch {
	case e.Type == upnperr.ErrTypeValidation:
		return http.StatusBadRequest, "invalid_argument"
	case e.Type == upnperr.ErrTypeDescription:
		return http.StatusUnprocessableEntity, "bad_description"
	case e.Type == upnperr.ErrTypeTimeout:
		return http.StatusGatewayTimeout, "device_timeout"
	default:
		return http.StatusBadGateway, "device_unreachable"
	}
}

func (s *Server) writeUPnPError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": err.Error(),
			"hint":    upnperr.Hint(err),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// logRequests logs each request once it completes
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("API request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
