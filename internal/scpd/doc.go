// Package scpd fetches and parses UPnP service descriptions (SCPD).
//
// A Schema lists a service's actions with their ordered arguments and its
// state variables with data types, allowed values and ranges. It is
// advisory: soap.Client invokes actions without one. When a schema is
// available, Coerce and Decode map between Go values and the strings
// carried on the wire.
//
// Defaults follow the Device Architecture: sendEvents is yes, multicast is
// no and an allowedValueRange without step has step 1.
//
// Cache holds schemas across invocations, keyed by SCPD URL.
package scpd
