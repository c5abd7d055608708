package di

import "errors"

var (
	// ErrCapabilityNotRegistered is returned when a capability has no bound producer.
	ErrCapabilityNotRegistered = errors.New("di: capability not registered")

	// ErrRegisterAfterBuild is returned by Register and Build once the registry is built.
	ErrRegisterAfterBuild = errors.New("di: registry already built")

	// ErrScopeMisuse is returned by any operation on a released scope.
	ErrScopeMisuse = errors.New("di: scope already released")

	ErrDuplicateRegistration = errors.New("di: duplicate registration")
	ErrInvalidRegistration   = errors.New("di: invalid registration")

	// ErrLifestyleMismatch is returned when a singleton depends on a per-scope capability.
	ErrLifestyleMismatch = errors.New("di: lifestyle mismatch")

	ErrDependencyCycle = errors.New("di: dependency cycle")
	ErrRegistryClosed  = errors.New("di: registry closed")
)
