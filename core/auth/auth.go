// Package auth bridges the external identity provider. Users are not
// stored locally: every request carries claims loaded from the session,
// which is populated at login from the provider's tokens.
package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/lehackerdu95/collector-market/core/claims"
	"golang.org/x/oauth2"
)

const (
	sessionUserID    = "user_id"
	sessionUsername  = "username"
	sessionEmail     = "email"
	sessionStaff     = "is_staff"
	sessionSuperuser = "is_superuser"

	sessionOauthState = "oauth_state"
)

// Provider is a configured connection to an OIDC identity provider.
type Provider struct {
	*oidc.Provider
	Config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// MakeProviders discovers every configured provider and prepares its
// oauth2 exchange config.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider, len(cfgs))

	for _, cfg := range cfgs {
		p, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider %q at %s: %w", cfg.Name, cfg.URL, err)
		}

		provs[cfg.Name] = Provider{
			Provider: p,
			Config: oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			verifier: p.Verifier(&oidc.Config{ClientID: cfg.Client}),
		}
	}

	return provs, nil
}

// identityClaims is the shape of the token claims the identity service
// exposes for a user.
type identityClaims struct {
	Sub         string `json:"sub"`
	Username    string `json:"preferred_username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (ic identityClaims) toClaims() claims.Claims {
	return claims.Claims{
		UserID:      ic.Sub,
		Username:    ic.Username,
		Email:       ic.Email,
		IsStaff:     ic.IsStaff,
		IsSuperuser: ic.IsSuperuser,
	}
}

// userFromToken extracts the user's claims from the id_token carried by
// an oauth2 token, or falls back to the userinfo endpoint.
func (p Provider) userFromToken(ctx context.Context, tok *oauth2.Token) (claims.Claims, error) {
	var ic identityClaims

	if raw, ok := tok.Extra("id_token").(string); ok {
		idt, err := p.verifier.Verify(ctx, raw)
		if err != nil {
			return claims.Claims{}, fmt.Errorf("verifying id token: %w", err)
		}
		if err := idt.Claims(&ic); err != nil {
			return claims.Claims{}, fmt.Errorf("decoding id token claims: %w", err)
		}
		return ic.toClaims(), nil
	}

	info, err := p.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return claims.Claims{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	if err := info.Claims(&ic); err != nil {
		return claims.Claims{}, fmt.Errorf("decoding userinfo claims: %w", err)
	}
	return ic.toClaims(), nil
}

// Authenticate exchanges user credentials for the user's identity via
// the provider's password grant. A failed exchange means unknown user.
func (p Provider) Authenticate(ctx context.Context, username, password string) (claims.Claims, error) {
	tok, err := p.Config.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return claims.Claims{}, fmt.Errorf("exchanging credentials: %w", err)
	}
	return p.userFromToken(ctx, tok)
}
