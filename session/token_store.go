package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/notagain-app/notagain-core/storage"
)

const sessionTokenKey = "session/token"

const defaultTokenTTL = 30 * 24 * time.Hour

type sessionClaims struct {
	Email     string `json:"email"`
	Onboarded bool   `json:"onboarded"`
	jwt.RegisteredClaims
}

// TokenStore persists the signed session token to local storage so the app
// can restore a session at launch without a network round trip.
type TokenStore struct {
	kv      storage.KV
	secret  []byte
	ttl     time.Duration
	nowTime func() time.Time
}

// TokenStoreOption modifies a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithTokenTTL overrides the default token lifetime.
func WithTokenTTL(ttl time.Duration) TokenStoreOption {
	return func(ts *TokenStore) {
		ts.ttl = ttl
	}
}

// WithTokenNowTime sets the now time function (primarily for testing).
func WithTokenNowTime(nowFunc func() time.Time) TokenStoreOption {
	return func(ts *TokenStore) {
		ts.nowTime = nowFunc
	}
}

// NewTokenStore creates a token store over the given key-value storage.
func NewTokenStore(kv storage.KV, secret []byte, options ...TokenStoreOption) (*TokenStore, error) {
	if kv == nil {
		return nil, errors.New("[NewTokenStore] kv storage is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("[NewTokenStore] signing secret is required")
	}

	ts := &TokenStore{
		kv:      kv,
		secret:  secret,
		ttl:     defaultTokenTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(ts)
	}
	return ts, nil
}

// Save signs and stores a token for an authenticated state.
func (ts *TokenStore) Save(state State) error {
	if !state.Authenticated {
		return errors.New("[TokenStore.Save] cannot persist a logged-out session")
	}

	now := ts.nowTime()
	claims := sessionClaims{
		Email:     state.Email,
		Onboarded: state.OnboardingCompleted,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   state.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return errors.Wrap(err, "[TokenStore.Save] sign token")
	}
	if err := ts.kv.Set(sessionTokenKey, []byte(signed)); err != nil {
		return errors.Wrap(err, "[TokenStore.Save] persist token")
	}
	return nil
}

// Load restores session state from the persisted token. A missing, invalid
// or expired token resolves to the logged-out default with ok=false rather
// than an error: the user simply signs in again.
func (ts *TokenStore) Load() (State, bool) {
	raw, ok, err := ts.kv.Get(sessionTokenKey)
	if err != nil || !ok {
		return State{}, false
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithTimeFunc(ts.nowTime))
	if err != nil || !token.Valid {
		return State{}, false
	}

	return State{
		Authenticated:       true,
		OnboardingCompleted: claims.Onboarded,
		UserID:              claims.Subject,
		Email:               claims.Email,
	}, true
}

// Clear removes the persisted token.
func (ts *TokenStore) Clear() error {
	return ts.kv.Delete(sessionTokenKey)
}
