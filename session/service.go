package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"
)

// Service drives the session lifecycle against the auth backend: login,
// signup, federated sign-in, logout and onboarding completion. It is the
// only mutator of the session Store.
//
// Only one state-changing call may be in flight at a time; a re-entrant
// call fails immediately with ErrRequestInFlight so two concurrent
// transitions can never race to decide the post-auth destination.
type Service struct {
	backend  Backend
	store    *Store
	tokens   *TokenStore
	inFlight *atomic.Bool
}

// NewService initializes a session service with required dependencies.
func NewService(backend Backend, store *Store, tokens *TokenStore) (*Service, error) {
	if backend == nil {
		return nil, errors.New("[NewService] backend is required")
	}
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token store is required")
	}
	return &Service{
		backend:  backend,
		store:    store,
		tokens:   tokens,
		inFlight: atomic.NewBool(false),
	}, nil
}

// Store returns the session store the service mutates.
func (s *Service) Store() *Store {
	return s.store
}

// Restore loads the persisted session token at app launch. An absent or
// expired token resolves to the logged-out default. No network call.
func (s *Service) Restore() State {
	state, ok := s.tokens.Load()
	if !ok {
		state = State{}
	}
	s.store.set(state)
	return state
}

// Login authenticates with email and password. On failure the session
// state is left unchanged.
func (s *Service) Login(ctx context.Context, email, password string) (State, error) {
	if !s.begin() {
		return s.store.Snapshot(), apperrors.ErrRequestInFlight
	}
	defer s.end()

	account, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return s.store.Snapshot(), errors.Wrap(err, "[Service.Login] backend.Login")
	}
	return s.establish(account), nil
}

// Signup registers a new account. A fresh account always starts with
// onboarding incomplete.
func (s *Service) Signup(ctx context.Context, email, password string) (State, error) {
	if !s.begin() {
		return s.store.Snapshot(), apperrors.ErrRequestInFlight
	}
	defer s.end()

	account, err := s.backend.Signup(ctx, email, password)
	if err != nil {
		return s.store.Snapshot(), errors.Wrap(err, "[Service.Signup] backend.Signup")
	}
	return s.establish(account), nil
}

// FederatedLogin signs in through an external identity provider. Prefill
// name and avatar, when the provider supplies them, land in the session
// state for the onboarding flow to consume.
func (s *Service) FederatedLogin(ctx context.Context, provider string) (State, error) {
	if !s.begin() {
		return s.store.Snapshot(), apperrors.ErrRequestInFlight
	}
	defer s.end()

	account, err := s.backend.FederatedLogin(ctx, provider)
	if err != nil {
		return s.store.Snapshot(), errors.Wrap(err, "[Service.FederatedLogin] backend.FederatedLogin")
	}
	return s.establish(account), nil
}

// Logout resets the session to the logged-out default and clears the
// persisted token. The backend call is best effort: local state resets
// even if the network sign-out fails.
func (s *Service) Logout(ctx context.Context) error {
	if !s.begin() {
		return apperrors.ErrRequestInFlight
	}
	defer s.end()

	current := s.store.Snapshot()
	if current.Authenticated {
		if err := s.backend.Logout(ctx, current.UserID); err != nil {
			log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}
	if err := s.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear persisted session token")
	}
	s.store.set(State{})
	return nil
}

// CompleteOnboarding submits the collected profile fields. The onboarding
// flag only flips after the backend call succeeds; on failure the caller
// stays on the current step and may retry.
func (s *Service) CompleteOnboarding(ctx context.Context, fields ProfileFields) error {
	if !s.begin() {
		return apperrors.ErrRequestInFlight
	}
	defer s.end()

	current := s.store.Snapshot()
	if !current.Authenticated {
		return apperrors.ErrNotAuthenticated
	}

	if err := s.backend.CompleteOnboarding(ctx, current.UserID, fields); err != nil {
		return errors.Wrap(err, "[Service.CompleteOnboarding] backend.CompleteOnboarding")
	}

	current.OnboardingCompleted = true
	current.PrefillName = ""
	current.PrefillAvatarRef = ""
	s.store.set(current)
	s.persistToken(current)
	return nil
}

func (s *Service) establish(account *Account) State {
	state := State{
		Authenticated:       true,
		OnboardingCompleted: account.OnboardingCompleted,
		UserID:              account.UserID,
		Email:               account.Email,
		PrefillName:         account.PrefillName,
		PrefillAvatarRef:    account.PrefillAvatarRef,
	}
	s.store.set(state)
	s.persistToken(state)
	return state
}

// persistToken saves the session token best effort. A write failure means
// the session will not survive a restart; it never fails the sign-in.
func (s *Service) persistToken(state State) {
	if err := s.tokens.Save(state); err != nil {
		log.Warn().Err(err).Msg("failed to persist session token")
	}
}

func (s *Service) begin() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *Service) end() {
	s.inFlight.Store(false)
}
