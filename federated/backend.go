package federated

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/notagain-app/notagain-core/session"
)

// CodeFlow drives the interactive part of federated sign-in: the platform
// opens the authorization URL in a browser session and hands back the
// authorization code from the redirect.
type CodeFlow interface {
	Authorize(ctx context.Context, authURL string) (code string, err error)
}

// Backend adapts OIDC providers to the session backend boundary.
// FederatedLogin runs the full code flow against the named provider and
// maps the verified identity onto the account's prefill fields; every
// other operation delegates to the hosted backend.
type Backend struct {
	session.Backend
	flow    CodeFlow
	clients map[string]*Client
}

// NewBackend wraps the hosted backend with federated sign-in support.
func NewBackend(delegate session.Backend, flow CodeFlow, clients map[string]*Client) (*Backend, error) {
	if delegate == nil {
		return nil, errors.New("[federated.NewBackend] delegate backend is required")
	}
	if flow == nil {
		return nil, errors.New("[federated.NewBackend] code flow is required")
	}
	if len(clients) == 0 {
		return nil, errors.New("[federated.NewBackend] at least one provider client is required")
	}
	return &Backend{
		Backend: delegate,
		flow:    flow,
		clients: clients,
	}, nil
}

// FederatedLogin authorizes against the provider, exchanges the code and
// returns an account carrying the provider's profile claims as prefill. A
// federated account always starts with onboarding incomplete; the hosted
// backend flips the flag through CompleteOnboarding.
func (b *Backend) FederatedLogin(ctx context.Context, provider string) (*session.Account, error) {
	client, ok := b.clients[provider]
	if !ok {
		return nil, errors.Errorf("[Backend.FederatedLogin] unknown provider %q", provider)
	}

	state := uuid.NewString()
	nonce := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	code, err := b.flow.Authorize(ctx, client.AuthURL(state, nonce, oauth2.S256ChallengeFromVerifier(verifier)))
	if err != nil {
		return nil, errors.Wrap(err, "[Backend.FederatedLogin] authorize")
	}

	identity, err := client.Exchange(ctx, code, verifier, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "[Backend.FederatedLogin] exchange")
	}

	return &session.Account{
		UserID:           identity.Subject,
		Email:            identity.Email,
		PrefillName:      identity.Name,
		PrefillAvatarRef: identity.Picture,
	}, nil
}
