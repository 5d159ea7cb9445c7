package scpd

import (
	"fmt"
	"math"
	"slices"

	"github.com/muurk/upnpctl/internal/upnperr"
)

func valueError(dt DataType, s string, err error) error {
	return &upnperr.Error{
		Type:    upnperr.ErrTypeValidation,
		Message: fmt.Sprintf("%q is not a valid %s", s, dt),
		Err:     err,
	}
}

func typeError(dt DataType, v any) error {
	return upnperr.NewValidationError(fmt.Sprintf("cannot encode %T as %s", v, dt))
}

// Validate checks s against the variable's data type, allowed value list
// and allowed range
func (v *StateVariable) Validate(s string) error {
	if _, err := ParseValue(v.DataType, s); err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}

	if len(v.AllowedValues) > 0 && !slices.Contains(v.AllowedValues, s) {
		return upnperr.NewValidationError(fmt.Sprintf("%s: %q is not one of %v", v.Name, s, v.AllowedValues))
	}

	if r := v.AllowedRange; r != nil && v.DataType.Numeric() {
		n, err := Number(v.DataType, s)
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		if n < r.Minimum || n > r.Maximum {
			return upnperr.NewValidationError(fmt.Sprintf("%s: %v outside %v..%v", v.Name, n, r.Minimum, r.Maximum))
		}
		if r.Step > 0 && !math.IsInf(r.Minimum, 0) {
			steps := (n - r.Minimum) / r.Step
			if math.Abs(steps-math.Round(steps)) > 1e-9 {
				return upnperr.NewValidationError(fmt.Sprintf("%s: %v is not a multiple of step %v from %v", v.Name, n, r.Step, r.Minimum))
			}
		}
	}

	return nil
}
