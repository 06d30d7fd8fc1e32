package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"
	"github.com/notagain-app/notagain-core/session"
	"github.com/notagain-app/notagain-core/session/backendfake"
	"github.com/notagain-app/notagain-core/storage/kvfake"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Password123"
)

type serviceFixture struct {
	backend *backendfake.FakeBackend
	store   *session.Store
	kv      *kvfake.FakeKV
	tokens  *session.TokenStore
	service *session.Service
}

func setupService(t *testing.T) *serviceFixture {
	t.Helper()

	backend := backendfake.NewFakeBackend()
	store := session.NewStore()
	kv := kvfake.NewFakeKV()

	tokens, err := session.NewTokenStore(kv, []byte(testSecret))
	require.NoError(t, err)

	service, err := session.NewService(backend, store, tokens)
	require.NoError(t, err)

	return &serviceFixture{
		backend: backend,
		store:   store,
		kv:      kv,
		tokens:  tokens,
		service: service,
	}
}

// TestLogin_Success tests a password login establishing the session
func TestLogin_Success(t *testing.T) {
	f := setupService(t)
	userID, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)

	state, err := f.service.Login(context.Background(), testEmail, testPassword)

	require.NoError(t, err)
	require.True(t, state.Authenticated)
	require.True(t, state.OnboardingCompleted)
	require.Equal(t, userID, state.UserID)
	require.Equal(t, testEmail, state.Email)
	require.Equal(t, state, f.store.Snapshot())
}

// TestLogin_InvalidCredentials tests that a failed login leaves state unchanged
func TestLogin_InvalidCredentials(t *testing.T) {
	f := setupService(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, false)
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), testEmail, "wrong-password")

	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrInvalidCredentials))
	require.False(t, f.store.Snapshot().Authenticated)
	require.Zero(t, f.kv.Len(), "no token persisted for a failed login")
}

// TestSignup_StartsUnonboarded tests that a fresh account lands in onboarding
func TestSignup_StartsUnonboarded(t *testing.T) {
	f := setupService(t)

	state, err := f.service.Signup(context.Background(), testEmail, testPassword)

	require.NoError(t, err)
	require.True(t, state.Authenticated)
	require.False(t, state.OnboardingCompleted)
}

// TestFederatedLogin_CarriesPrefill tests that provider profile data lands in the state
func TestFederatedLogin_CarriesPrefill(t *testing.T) {
	f := setupService(t)
	f.backend.SeedFederated("apple", backendfake.FederatedIdentity{
		Email:     "cy@example.com",
		Name:      "Cy",
		AvatarRef: "x",
	})

	state, err := f.service.FederatedLogin(context.Background(), "apple")

	require.NoError(t, err)
	require.True(t, state.Authenticated)
	require.Equal(t, "Cy", state.PrefillName)
	require.Equal(t, "x", state.PrefillAvatarRef)
}

// TestRestore_FromPersistedToken tests session restore at app launch
func TestRestore_FromPersistedToken(t *testing.T) {
	f := setupService(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)
	_, err = f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	// Fresh service over the same storage, as after a process restart.
	tokens, err := session.NewTokenStore(f.kv, []byte(testSecret))
	require.NoError(t, err)
	service, err := session.NewService(f.backend, session.NewStore(), tokens)
	require.NoError(t, err)

	state := service.Restore()

	require.True(t, state.Authenticated)
	require.True(t, state.OnboardingCompleted)
	require.Equal(t, testEmail, state.Email)
}

// TestRestore_NoToken tests the logged-out default at first launch
func TestRestore_NoToken(t *testing.T) {
	f := setupService(t)

	state := f.service.Restore()

	require.False(t, state.Authenticated)
}

// TestLogout_ClearsStateAndToken tests the full local reset
func TestLogout_ClearsStateAndToken(t *testing.T) {
	f := setupService(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, true)
	require.NoError(t, err)
	_, err = f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background()))

	require.False(t, f.store.Snapshot().Authenticated)
	require.Zero(t, f.kv.Len())
}

// TestCompleteOnboarding_FlipsFlagAfterBackendSuccess tests the completion transition
func TestCompleteOnboarding_FlipsFlagAfterBackendSuccess(t *testing.T) {
	f := setupService(t)
	userID, err := f.backend.SeedAccount(testEmail, testPassword, false)
	require.NoError(t, err)
	_, err = f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	err = f.service.CompleteOnboarding(context.Background(), session.ProfileFields{Name: "Ada"})

	require.NoError(t, err)
	require.True(t, f.store.Snapshot().OnboardingCompleted)

	profile, ok := f.backend.Profile(userID)
	require.True(t, ok)
	require.Equal(t, "Ada", profile.Name)
}

// TestCompleteOnboarding_BackendFailureKeepsFlagFalse tests the retryable failure path
func TestCompleteOnboarding_BackendFailureKeepsFlagFalse(t *testing.T) {
	f := setupService(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, false)
	require.NoError(t, err)
	_, err = f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	f.backend.CompleteOnboardingErr = errors.New("backend unavailable")
	err = f.service.CompleteOnboarding(context.Background(), session.ProfileFields{Name: "Ada"})

	require.Error(t, err)
	require.False(t, f.store.Snapshot().OnboardingCompleted)
}

// TestCompleteOnboarding_RequiresAuthentication tests the precondition
func TestCompleteOnboarding_RequiresAuthentication(t *testing.T) {
	f := setupService(t)

	err := f.service.CompleteOnboarding(context.Background(), session.ProfileFields{Name: "Ada"})

	require.True(t, errors.Is(err, apperrors.ErrNotAuthenticated))
}

// TestService_RejectsReentrantCall tests the single in-flight rule: a
// subscriber reacting to a login cannot start a second transition.
func TestService_RejectsReentrantCall(t *testing.T) {
	f := setupService(t)
	_, err := f.backend.SeedAccount(testEmail, testPassword, false)
	require.NoError(t, err)

	var reentrantErr error
	f.store.Subscribe(func(state session.State) {
		if state.Authenticated {
			_, reentrantErr = f.service.Login(context.Background(), testEmail, testPassword)
		}
	})

	_, err = f.service.Login(context.Background(), testEmail, testPassword)

	require.NoError(t, err)
	require.True(t, errors.Is(reentrantErr, apperrors.ErrRequestInFlight))
}

// TestNewService_MissingDependencies tests constructor validation
func TestNewService_MissingDependencies(t *testing.T) {
	store := session.NewStore()
	tokens, err := session.NewTokenStore(kvfake.NewFakeKV(), []byte(testSecret))
	require.NoError(t, err)
	backend := backendfake.NewFakeBackend()

	_, err = session.NewService(nil, store, tokens)
	require.Error(t, err)
	require.Contains(t, err.Error(), "backend is required")

	_, err = session.NewService(backend, nil, tokens)
	require.Error(t, err)
	require.Contains(t, err.Error(), "store is required")

	_, err = session.NewService(backend, store, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token store is required")
}
