package errors

import "errors"

// Common error types for the NotAgain core
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrRequestInFlight    = errors.New("a session request is already in flight")

	// Onboarding errors
	ErrNameRequired = errors.New("name is required")
	ErrInvalidStep  = errors.New("invalid onboarding step")

	// Navigation errors
	ErrRouteNotRegistered = errors.New("route not registered")
	ErrStackUnderflow     = errors.New("navigation stack underflow")

	// General errors
	ErrNotFound = errors.New("not found")
)
