package scpd

import (
	"fmt"
	"slices"
	"sort"

	"github.com/muurk/upnpctl/internal/soap"
	"github.com/muurk/upnpctl/internal/upnperr"
)

// Coerce builds the arguments of action from typed Go values. Values are
// formatted with the data type of each argument's related state variable,
// validated against allowed values and ranges, and ordered as the action
// declares them. Every input argument must be supplied.
func (s *Schema) Coerce(action string, values map[string]any) (*soap.ArgumentSet, error) {
	a := s.Action(action)
	if a == nil {
		return nil, upnperr.NewValidationError(fmt.Sprintf("service has no action %q", action))
	}

	inputs := a.InputArguments()
	var unknown []string
	for name := range values {
		if !slices.ContainsFunc(inputs, func(arg Argument) bool { return arg.Name == name }) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, upnperr.NewValidationError(fmt.Sprintf("%s has no input arguments %v", action, unknown))
	}

	args := &soap.ArgumentSet{}
	for _, arg := range inputs {
		v, ok := values[arg.Name]
		if !ok {
			return nil, upnperr.NewValidationError(fmt.Sprintf("%s: missing argument %s", action, arg.Name))
		}

		sv := s.StateVariable(arg.RelatedStateVariable)
		if sv == nil {
			args.Set(arg.Name, fmt.Sprint(v))
			continue
		}

		str, err := FormatValue(sv.DataType, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg.Name, err)
		}
		if err := sv.Validate(str); err != nil {
			return nil, fmt.Errorf("%s: %w", arg.Name, err)
		}
		args.Set(arg.Name, str)
	}
	return args, nil
}

// CoerceSet is Coerce for string arguments, e.g. from a command line
func (s *Schema) CoerceSet(action string, in *soap.ArgumentSet) (*soap.ArgumentSet, error) {
	values := make(map[string]any, in.Len())
	for name, value := range in.All() {
		values[name] = value
	}
	return s.Coerce(action, values)
}

// Decode converts the output arguments of action to Go values using the
// related state variable types. Arguments the schema does not describe
// stay strings.
func (s *Schema) Decode(action string, out *soap.ArgumentSet) (map[string]any, error) {
	a := s.Action(action)
	values := make(map[string]any, out.Len())
	for name, raw := range out.All() {
		values[name] = raw
		if a == nil {
			continue
		}
		arg := a.Argument(name)
		if arg == nil {
			continue
		}
		sv := s.StateVariable(arg.RelatedStateVariable)
		if sv == nil {
			continue
		}
		v, err := ParseValue(sv.DataType, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}
