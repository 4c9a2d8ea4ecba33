package convert

import (
	"errors"
	"fmt"
)

var (
	ErrParse                = errors.New("unable to parse wire value")
	ErrMissingRequiredValue = errors.New("missing required value")
	ErrUnknownEnumValue     = errors.New("unknown enum value")
	ErrUnknownField         = errors.New("unknown field")
)

// ReadOnlyFieldError is returned when a read-only field is assigned outside
// of wire deserialization.
type ReadOnlyFieldError struct {
	Field string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %q is read-only", e.Field)
}

// UnknownVariantError is returned when a discriminator matches no registered
// variant.
type UnknownVariantError struct {
	Kind          string
	Discriminator any
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s type %v", e.Kind, e.Discriminator)
}

func parseError(what string, wire any, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s from %T %v", ErrParse, what, wire, wire)
	}
	return fmt.Errorf("%w: %s from %v: %w", ErrParse, what, wire, cause)
}
