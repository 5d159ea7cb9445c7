package scpd

import (
	"fmt"
	"strings"
)

// ArgTypePrefix is the conventional prefix of state variables that exist
// only to type action arguments
const ArgTypePrefix = "A_ARG_TYPE_"

// Schema is the parsed service description of one service type. It is a
// companion to description.Service, fetched on demand.
type Schema struct {
	ServiceType    string
	SpecVersion    SpecVersion
	Actions        []Action
	StateVariables []StateVariable
}

// SpecVersion is the UDA version a document claims to follow
type SpecVersion struct {
	Major int
	Minor int
}

// String returns "major.minor"
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Action returns the named action, or nil
func (s *Schema) Action(name string) *Action {
	for i := range s.Actions {
		if s.Actions[i].Name == name {
			return &s.Actions[i]
		}
	}
	return nil
}

// StateVariable returns the named state variable, or nil
func (s *Schema) StateVariable(name string) *StateVariable {
	for i := range s.StateVariables {
		if s.StateVariables[i].Name == name {
			return &s.StateVariables[i]
		}
	}
	return nil
}

// ArgumentVariable returns the state variable an argument of action is
// typed by, or nil when either is unknown
func (s *Schema) ArgumentVariable(action, argument string) *StateVariable {
	a := s.Action(action)
	if a == nil {
		return nil
	}
	arg := a.Argument(argument)
	if arg == nil {
		return nil
	}
	return s.StateVariable(arg.RelatedStateVariable)
}

// Action describes one action and its ordered arguments
type Action struct {
	Name      string
	Arguments []Argument
}

// Argument returns the named argument, or nil
func (a *Action) Argument(name string) *Argument {
	for i := range a.Arguments {
		if a.Arguments[i].Name == name {
			return &a.Arguments[i]
		}
	}
	return nil
}

// InputArguments returns the "in" arguments in declared order
func (a *Action) InputArguments() []Argument {
	return a.filter(DirectionIn)
}

// OutputArguments returns the "out" arguments in declared order
func (a *Action) OutputArguments() []Argument {
	return a.filter(DirectionOut)
}

func (a *Action) filter(dir Direction) []Argument {
	var out []Argument
	for _, arg := range a.Arguments {
		if arg.Direction == dir {
			out = append(out, arg)
		}
	}
	return out
}

// Signature returns e.g. "GetVolume(InstanceID, Channel) -> (CurrentVolume)"
func (a *Action) Signature() string {
	names := func(args []Argument) string {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = arg.Name
		}
		return strings.Join(parts, ", ")
	}
	sig := fmt.Sprintf("%s(%s)", a.Name, names(a.InputArguments()))
	if out := a.OutputArguments(); len(out) > 0 {
		sig += fmt.Sprintf(" -> (%s)", names(out))
	}
	return sig
}

// Direction is an argument's direction
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Argument is one formal argument of an action
type Argument struct {
	Name                 string
	Direction            Direction
	RelatedStateVariable string
	Retval               bool
}

// StateVariable describes a variable of the service; arguments refer to
// them for their types
type StateVariable struct {
	Name          string
	SendEvents    bool
	Multicast     bool
	DataType      DataType
	DefaultValue  string
	AllowedValues []string
	AllowedRange  *AllowedValueRange
	Optional      bool
}

// ShortName returns the name without the A_ARG_TYPE_ prefix
func (v *StateVariable) ShortName() string {
	return strings.TrimPrefix(v.Name, ArgTypePrefix)
}

// AllowedValueRange bounds a numeric state variable. Bounds are inclusive.
type AllowedValueRange struct {
	Minimum float64
	Maximum float64
	Step    float64
}
