package session

import "context"

// Account is what the auth backend returns for a signed-in user. The core
// only inspects the onboarding flag and the optional prefill fields, never
// backend-specific payloads.
type Account struct {
	UserID              string
	Email               string
	OnboardingCompleted bool

	// Set by federated providers that supply profile data at sign-in.
	PrefillName      string
	PrefillAvatarRef string
}

// ProfileFields carries the data collected by the onboarding flow to the
// backend's complete-onboarding call.
type ProfileFields struct {
	Name      string
	AvatarRef string
}

// Backend is the hosted auth/profile collaborator. Calls are network round
// trips; a timeout surfaces as an ordinary error and leaves session state
// unchanged.
type Backend interface {
	Login(ctx context.Context, email, password string) (*Account, error)
	Signup(ctx context.Context, email, password string) (*Account, error)
	FederatedLogin(ctx context.Context, provider string) (*Account, error)
	Logout(ctx context.Context, userID string) error
	CompleteOnboarding(ctx context.Context, userID string, fields ProfileFields) error
}
