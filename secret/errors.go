package secret

import "errors"

var (
	// ErrMissingEnv indicates ${VAR} named a variable that is not set.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrUnknownProvider indicates a reference to an unregistered provider.
	ErrUnknownProvider = errors.New("secret: provider is not registered")

	// ErrNotFound indicates a provider has no value for a reference.
	ErrNotFound = errors.New("secret: not found")

	// ErrEmptySecret indicates a strict resolver received an empty value.
	ErrEmptySecret = errors.New("secret: provider returned empty value")
)
