package di

import (
	"fmt"
	"reflect"
)

// Matching binds a concrete type to capabilities for every registration producing it.
type Matching struct {
	origin       reflect.Type
	capabilities []any
	err          error
}

// NewMatching matches concrete type to capabilities (dig.As).
func NewMatching(origin any, capabilities ...any) Matching {
	if origin == nil || reflect.TypeOf(origin).Kind() != reflect.Pointer {
		return Matching{
			err: fmt.Errorf("%w: origin must be a pointer, got %T", ErrInvalidRegistration, origin),
		}
	}

	for i, capability := range capabilities {
		if !isPointerToInterface(capability) {
			return Matching{
				err: fmt.Errorf("%w: capability must be pointer to interface, got %T at index %d", ErrInvalidRegistration, capability, i),
			}
		}
	}

	return Matching{
		origin:       reflect.TypeOf(origin).Elem(),
		capabilities: capabilities,
	}
}

func (m *Matching) Origin() reflect.Type {
	return m.origin
}

func (m *Matching) Error() error {
	return m.err
}

func applyMatchingsToList(regs []Registration, matchings []any) ([]Registration, error) {
	result := make([]Registration, 0, len(regs))
	for _, registration := range regs {
		reg := registration
		if err := reg.Error(); err != nil {
			return nil, err
		}
		if err := applyMatchings(&reg, matchings); err != nil {
			return nil, err
		}
		if err := reg.Error(); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, nil
}

// applyMatchings accepts Matching values and pointers to interfaces; the latter
// bind every registration whose type implements the interface.
func applyMatchings(reg *Registration, matchings []any) error {
	var capabilities []any

	for _, matching := range matchings {
		if m, ok := matching.(Matching); ok {
			if err := m.Error(); err != nil {
				return fmt.Errorf("matching has an error: %w", err)
			}
			t := reg.Type()
			if t == m.Origin() || (t != nil && t.Kind() == reflect.Pointer && t.Elem() == m.Origin()) {
				capabilities = append(capabilities, m.capabilities...)
			}
			continue
		}

		if isPointerToInterface(matching) {
			t := reg.Type()
			iface := reflect.TypeOf(matching).Elem()
			if t != nil && t != iface && t.Implements(iface) {
				capabilities = append(capabilities, matching)
			}
			continue
		}

		return fmt.Errorf("%w: matching must be a pointer to interface or Matching, got %T", ErrInvalidRegistration, matching)
	}

	if len(capabilities) == 0 {
		return nil
	}

	return reg.AddCapability(capabilities...)
}
