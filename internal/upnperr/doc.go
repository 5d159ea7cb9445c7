// Package upnperr defines the error taxonomy shared by the control point
// components.
//
// Two classes of failure are distinguished:
//
//   - Transport: the socket or HTTP layer failed. This includes timeouts,
//     refused connections, DNS failures and non-2xx responses that carried
//     no SOAP fault. Network errors are classified into subtypes so the CLI
//     can print specific advice.
//   - Description: the device answered with XML that is present but violates
//     the required structure. Path names the offending element.
//
// UPnP faults reported by a device are not errors of this package; see
// soap.Fault. Nothing in the library retries. Retryable is advisory for
// callers that implement their own policy.
//
// Inspect errors with the predicates, which use errors.As and so see
// through %w wrapping:
//
//	dev, err := fetcher.Fetch(ctx, location)
//	switch {
//	case upnperr.IsDescription(err):
//	    // vendor XML problem
//	case upnperr.IsTransport(err):
//	    // network problem
//	}
package upnperr
