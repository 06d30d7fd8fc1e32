package backendfake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"
	"github.com/notagain-app/notagain-core/session"
)

var _ session.Backend = (*FakeBackend)(nil)

type account struct {
	userID       string
	email        string
	passwordHash string
	onboarded    bool
	profile      session.ProfileFields
}

// FederatedIdentity configures what a provider returns from a federated
// sign-in.
type FederatedIdentity struct {
	Email     string
	Name      string
	AvatarRef string
}

// FakeBackend is an in-memory stand-in for the hosted auth/profile service.
type FakeBackend struct {
	lock      sync.Mutex
	accounts  map[string]*account // keyed by email
	federated map[string]FederatedIdentity

	// CompleteOnboardingErr, when non-nil, fails every CompleteOnboarding call.
	CompleteOnboardingErr error
	// LoginErr, when non-nil, fails every Login call.
	LoginErr error
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		accounts:  make(map[string]*account),
		federated: make(map[string]FederatedIdentity),
	}
}

// SeedAccount registers an account with a bcrypt-hashed password and
// returns its user id.
func (b *FakeBackend) SeedAccount(email, password string, onboarded bool) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	id := uuid.New().String()
	b.accounts[email] = &account{
		userID:       id,
		email:        email,
		passwordHash: string(hash),
		onboarded:    onboarded,
	}
	return id, nil
}

// SeedFederated configures the identity a provider returns.
func (b *FakeBackend) SeedFederated(provider string, identity FederatedIdentity) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.federated[provider] = identity
}

func (b *FakeBackend) Login(_ context.Context, email, password string) (*session.Account, error) {
	if b.LoginErr != nil {
		return nil, b.LoginErr
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	acct, ok := b.accounts[email]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return acct.toAccount(), nil
}

func (b *FakeBackend) Signup(_ context.Context, email, password string) (*session.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, exists := b.accounts[email]; exists {
		return nil, apperrors.ErrInvalidCredentials
	}
	acct := &account{
		userID:       uuid.New().String(),
		email:        email,
		passwordHash: string(hash),
	}
	b.accounts[email] = acct
	return acct.toAccount(), nil
}

func (b *FakeBackend) FederatedLogin(_ context.Context, provider string) (*session.Account, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	identity, ok := b.federated[provider]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	acct, exists := b.accounts[identity.Email]
	if !exists {
		acct = &account{
			userID: uuid.New().String(),
			email:  identity.Email,
		}
		b.accounts[identity.Email] = acct
	}

	out := acct.toAccount()
	out.PrefillName = identity.Name
	out.PrefillAvatarRef = identity.AvatarRef
	return out, nil
}

func (b *FakeBackend) Logout(_ context.Context, _ string) error {
	return nil
}

func (b *FakeBackend) CompleteOnboarding(_ context.Context, userID string, fields session.ProfileFields) error {
	if b.CompleteOnboardingErr != nil {
		return b.CompleteOnboardingErr
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for _, acct := range b.accounts {
		if acct.userID == userID {
			acct.onboarded = true
			acct.profile = fields
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// Profile returns the stored profile fields for a user, for test assertions.
func (b *FakeBackend) Profile(userID string) (session.ProfileFields, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, acct := range b.accounts {
		if acct.userID == userID {
			return acct.profile, true
		}
	}
	return session.ProfileFields{}, false
}

func (a *account) toAccount() *session.Account {
	return &session.Account{
		UserID:              a.userID,
		Email:               a.email,
		OnboardingCompleted: a.onboarded,
	}
}
