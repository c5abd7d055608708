package di

import (
	"fmt"
	"reflect"
	"slices"
)

// Lifestyle controls how long a resolved instance lives.
type Lifestyle int

const (
	// LifestylePerScope creates one instance per resolution scope.
	LifestylePerScope Lifestyle = iota
	// LifestyleSingleton creates one instance per registry, shared by all scopes.
	LifestyleSingleton
)

func (l Lifestyle) String() string {
	switch l {
	case LifestylePerScope:
		return "per-scope"
	case LifestyleSingleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifestyle(%d)", int(l))
	}
}

// Registration binds a constructor to the capabilities it produces.
type Registration struct {
	constructor  any
	capabilities []any
	key          *string
	lifestyle    Lifestyle
	kind         registrationKind
	err          error
}

type registrationKind int

const (
	registrationKindRegister registrationKind = iota
	registrationKindReplace
)

func (k registrationKind) String() string {
	if k == registrationKindReplace {
		return "replace"
	}
	return "register"
}

func NewRegistration(constructor any, opts ...RegistrationOption) Registration {
	r := Registration{constructor: constructor, kind: registrationKindRegister}

	if err := validateConstructor(constructor); err != nil {
		r.err = fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		return r
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// Bind registers constructor as the producer of capability C.
func Bind[C any](constructor any, opts ...RegistrationOption) Registration {
	return NewRegistration(constructor, append(slices.Clone(opts), As(new(C)))...)
}

// Replace declares an explicit replacement for an existing binding.
// Without a prior binding it behaves like NewRegistration.
func Replace(constructor any, opts ...RegistrationOption) Registration {
	r := NewRegistration(constructor, opts...)
	r.kind = registrationKindReplace
	return r
}

func (r *Registration) Type() reflect.Type {
	if r.err != nil {
		return nil
	}

	return reflect.TypeOf(r.constructor).Out(0)
}

// ExposedTypes returns the capability types this registration is bound to.
// Without explicit capabilities the constructor's result type is exposed.
func (r *Registration) ExposedTypes() []reflect.Type {
	if r.err != nil {
		return nil
	}

	if len(r.capabilities) == 0 {
		return []reflect.Type{r.Type()}
	}

	seen := map[reflect.Type]struct{}{}
	result := make([]reflect.Type, 0, len(r.capabilities))
	for _, capability := range r.capabilities {
		t := reflect.TypeOf(capability).Elem()
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

func (r *Registration) Lifestyle() Lifestyle {
	return r.lifestyle
}

func (r *Registration) Error() error {
	return r.err
}

// AddCapability binds the registration to more capabilities (dig.As).
func (r *Registration) AddCapability(as ...any) error {
	for _, a := range as {
		if !isPointerToInterface(a) {
			return fmt.Errorf("%w: capability must be pointer to interface, got %T", ErrInvalidRegistration, a)
		}
	}

	r.capabilities = append(r.capabilities, as...)
	return nil
}

type Registrations struct {
	list []Registration
}

func (r Registrations) List() []Registration {
	return r.list
}

func Collect(regs ...Registration) Registrations {
	return Registrations{list: regs}
}
