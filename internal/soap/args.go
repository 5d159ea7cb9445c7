package soap

import (
	"encoding/json"
	"iter"
)

// Argument is one named action argument
type Argument struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ArgumentSet is an ordered set of action arguments. Order is kept exactly
// as inserted for requests and as it appears in the document for responses;
// setting an existing name replaces its value in place. The zero value is
// an empty set ready to use.
type ArgumentSet struct {
	args []Argument
}

// NewArgumentSet creates a set from args. Later duplicates replace earlier
// values.
func NewArgumentSet(args ...Argument) *ArgumentSet {
	s := &ArgumentSet{}
	for _, a := range args {
		s.Set(a.Name, a.Value)
	}
	return s
}

// Set adds or replaces an argument
func (s *ArgumentSet) Set(name, value string) {
	for i := range s.args {
		if s.args[i].Name == name {
			s.args[i].Value = value
			return
		}
	}
	s.args = append(s.args, Argument{Name: name, Value: value})
}

// Get returns the value of the named argument
func (s *ArgumentSet) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, a := range s.args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Len returns the number of arguments
func (s *ArgumentSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.args)
}

// Names returns the argument names in order
func (s *ArgumentSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.args))
	for i, a := range s.args {
		names[i] = a.Name
	}
	return names
}

// All iterates over name/value pairs in order
func (s *ArgumentSet) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if s == nil {
			return
		}
		for _, a := range s.args {
			if !yield(a.Name, a.Value) {
				return
			}
		}
	}
}

// Arguments returns a copy of the arguments in order
func (s *ArgumentSet) Arguments() []Argument {
	if s == nil {
		return nil
	}
	out := make([]Argument, len(s.args))
	copy(out, s.args)
	return out
}

// Map returns the arguments as a map
func (s *ArgumentSet) Map() map[string]string {
	m := make(map[string]string, s.Len())
	for name, value := range s.All() {
		m[name] = value
	}
	return m
}

// Equal reports whether both sets hold the same names and values,
// regardless of order
func (s *ArgumentSet) Equal(other *ArgumentSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for name, value := range s.All() {
		if v, ok := other.Get(name); !ok || v != value {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an ordered array of {name, value}
func (s *ArgumentSet) MarshalJSON() ([]byte, error) {
	args := s.Arguments()
	if args == nil {
		args = []Argument{}
	}
	return json.Marshal(args)
}

// UnmarshalJSON decodes an array of {name, value}
func (s *ArgumentSet) UnmarshalJSON(data []byte) error {
	var args []Argument
	if err := json.Unmarshal(data, &args); err != nil {
		return err
	}
	s.args = nil
	for _, a := range args {
		s.Set(a.Name, a.Value)
	}
	return nil
}
