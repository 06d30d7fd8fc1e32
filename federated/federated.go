// Package federated wraps the OIDC provider used for federated sign-in.
// It exchanges the authorization code, verifies the ID token and extracts
// the profile claims the onboarding flow can prefill from.
package federated

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Identity is the verified result of a federated sign-in. Name and
// Picture are optional; when present they prefill the onboarding draft.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Client talks to one OIDC provider.
type Client struct {
	provider *oidc.Provider
	config   oauth2.Config
}

// NewClient discovers the provider configuration from its issuer URL.
func NewClient(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Client, error) {
	if issuer == "" {
		return nil, errors.New("[federated.NewClient] issuer is required")
	}
	if clientID == "" {
		return nil, errors.New("[federated.NewClient] client id is required")
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[federated.NewClient] provider discovery")
	}

	return &Client{
		provider: provider,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// AuthURL builds the provider authorization URL for the sign-in redirect.
func (c *Client) AuthURL(state, nonce, codeChallenge string) string {
	opts := []oauth2.AuthCodeOption{oidc.Nonce(nonce)}
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return c.config.AuthCodeURL(state, opts...)
}

// Exchange trades the authorization code for tokens, verifies the ID token
// and nonce, and returns the verified identity.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Identity, error) {
	token, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Exchange] token exchange")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("[Client.Exchange] no id_token in response")
	}

	idToken, err := c.provider.Verifier(&oidc.Config{ClientID: c.config.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Exchange] id token verification")
	}

	var claims struct {
		Nonce   string `json:"nonce"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "[Client.Exchange] extract claims")
	}
	if claims.Nonce != nonce {
		return nil, errors.New("[Client.Exchange] invalid nonce")
	}

	return &Identity{
		Subject: claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
