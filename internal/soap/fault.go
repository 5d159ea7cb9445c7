package soap

import "fmt"

// UPnP Device Architecture error codes
const (
	CodeInvalidAction           = 401
	CodeInvalidArgs             = 402
	CodeActionFailed            = 501
	CodeArgumentValueInvalid    = 600
	CodeArgumentValueOutOfRange = 601
	CodeOptionalNotImplemented  = 602
	CodeOutOfMemory             = 603
	CodeHumanIntervention       = 604
	CodeStringTooLong           = 605
	CodeNotAuthorized           = 606
)

var faultDescriptions = map[int]string{
	CodeInvalidAction:           "Invalid Action",
	CodeInvalidArgs:             "Invalid Args",
	CodeActionFailed:            "Action Failed",
	CodeArgumentValueInvalid:    "Argument Value Invalid",
	CodeArgumentValueOutOfRange: "Argument Value Out of Range",
	CodeOptionalNotImplemented:  "Optional Action Not Implemented",
	CodeOutOfMemory:             "Out of Memory",
	CodeHumanIntervention:       "Human Intervention Required",
	CodeStringTooLong:           "String Argument Too Long",
	CodeNotAuthorized:           "Action Not Authorized",
}

// FaultDescription returns the standard description of an error code, or a
// description of its reserved range
func FaultDescription(code int) string {
	if d, ok := faultDescriptions[code]; ok {
		return d
	}
	switch {
	case code >= 600 && code <= 699:
		return "Common action error"
	case code >= 700 && code <= 799:
		return "Action-specific error"
	case code >= 800 && code <= 899:
		return "Vendor-defined error"
	default:
		return "Unknown error"
	}
}

// Fault is a device's rejection of an action. It is a normal outcome of an
// invocation, distinct from transport and description errors.
type Fault struct {
	// Code is the UPnPError errorCode (0 when the fault had no UPnPError)
	Code int `json:"code"`

	// Description is the UPnPError errorDescription, or faultstring
	Description string `json:"description"`

	// FaultCode and FaultString are the SOAP-level fields
	FaultCode   string `json:"faultcode,omitempty"`
	FaultString string `json:"faultstring,omitempty"`

	// StatusCode is the HTTP status the fault arrived with
	StatusCode int `json:"status,omitempty"`
}

// Error implements the error interface
func (f *Fault) Error() string {
	desc := f.Description
	if desc == "" {
		desc = FaultDescription(f.Code)
	}
	return fmt.Sprintf("UPnP fault %d: %s", f.Code, desc)
}
