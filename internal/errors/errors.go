// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures surfaced to the user via
// command exit codes and wrapped error messages.
package errors

import (
	"errors"
)

var (
	// ErrConfigNotFound indicates that the project configuration file does not exist.
	// This occurs when a command requiring project config runs outside an initialized project.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrUnknownPreset indicates that the requested mirror preset is not one of the supported values.
	ErrUnknownPreset = errors.New("unknown mirror preset")

	// ErrUnknownTarget indicates that the requested mirror target (docker, git, npm, pip)
	// is not supported.
	ErrUnknownTarget = errors.New("unknown mirror target")

	// ErrUnknownProvider indicates that the requested secrets provider is not supported.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrSecretNotFound indicates that no credential is stored for the requested provider.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrUnknownTemplate indicates that the requested scaffold template does not exist.
	ErrUnknownTemplate = errors.New("unknown scaffold template")

	// ErrConnectivityTest indicates that a provider connectivity smoke test failed.
	// The credential involved may still have been persisted; persistence is not
	// rolled back on test failure.
	ErrConnectivityTest = errors.New("connectivity test failed")

	// ErrServiceRestart indicates that restarting a system service failed.
	ErrServiceRestart = errors.New("service restart failed")
)
