package di

type RegistrationOption func(*Registration)

// As binds the registration to an interface capability (dig.As).
func As(capability any) RegistrationOption {
	return func(r *Registration) {
		if err := r.AddCapability(capability); err != nil && r.err == nil {
			r.err = err
		}
	}
}

// WithLifestyle overrides the default per-scope lifestyle.
func WithLifestyle(l Lifestyle) RegistrationOption {
	return func(r *Registration) { r.lifestyle = l }
}

// Singleton is shorthand for WithLifestyle(LifestyleSingleton).
func Singleton() RegistrationOption {
	return WithLifestyle(LifestyleSingleton)
}

// WithKey attaches a metadata key for diagnostics (no effect on resolution).
func WithKey(key string) RegistrationOption {
	return func(r *Registration) { r.key = &key }
}
