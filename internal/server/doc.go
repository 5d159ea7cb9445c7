// Package server exposes a control point over HTTP.
//
// # Endpoints
//
//	GET  /healthz
//	GET  /api/discover?target=ssdp:all&timeout=3s   {responses, failures}
//	GET  /api/device?location=URL                  device tree
//	GET  /api/schema?location=URL&service=NAME     actions and state variables
//	POST /api/invoke                               {location, service, action, arguments, typed}
//	GET  /ws/discover?target=&timeout=             WebSocket stream of responses
//
// A service may be named by its type, its ID or a short name such as
// "AVTransport".
//
// # Invocation Results
//
// A device fault is a normal result: /api/invoke answers 200 with either
// "arguments" or "fault". Library errors map to status codes:
//   - 400 for arguments the schema rejects
//   - 422 for malformed descriptions or SOAP responses
//   - 502 when the device could not be reached or answered non-2xx
//   - 504 when the device timed out
//
// # Discovery Stream
//
// /ws/discover sends each response as a JSON text frame as it arrives. The
// last frame is {"done":true,"failures":[...]} listing interfaces that
// could not be used, after which the server closes the connection. The
// search is cancelled if the client disconnects first.
package server
