// Package soap invokes UPnP actions over SOAP 1.1.
//
// A request is an envelope whose Body holds one element named after the
// action, in the service type namespace, with one child per argument. It is
// POSTed to the service control URL with
//
//	Content-Type: text/xml; charset="utf-8"
//	SOAPACTION: "<serviceType>#<action>"
//
// The response is either <action>Response with the output arguments, or a
// Fault whose detail carries a UPnPError. A Fault is returned as part of
// the Outcome, not as an error: callers can tell "the device rejected the
// action" apart from transport and protocol failures.
//
// # Usage Example
//
//	client := soap.NewClient(version.UserAgent())
//	args := soap.NewArgumentSet(
//	    soap.Argument{Name: "InstanceID", Value: "0"},
//	    soap.Argument{Name: "Channel", Value: "Master"},
//	)
//	outcome, err := client.Invoke(ctx, svc, "GetVolume", args)
//	if err != nil {
//	    return err // Transport or Description
//	}
//	if outcome.Faulted() {
//	    fmt.Println(outcome.Fault.Code, outcome.Fault.Description)
//	}
//
// Invocations are never retried.
package soap
