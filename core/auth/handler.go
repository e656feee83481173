package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/api/weberr"
	"github.com/lehackerdu95/collector-market/random"
	"github.com/lehackerdu95/collector-market/validate"
)

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates credentials against the identity provider
// and binds the resulting user to a fresh session.
func HandleLogin(session *scs.SessionManager, provider Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		c, err := provider.Authenticate(ctx, creds.Username, creds.Password)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("authenticating user[%s]: %w", creds.Username, err))
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		saveClaims(ctx, session, c)

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleOauthLogin starts the browser flow by redirecting to the
// provider's consent page with a fresh state token.
func HandleOauthLogin(session *scs.SessionManager, providers map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state, err := random.StringSecure(32)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		session.Put(ctx, sessionOauthState, state)

		http.Redirect(w, r, p.Config.AuthCodeURL(state), http.StatusTemporaryRedirect)
		return nil
	}
}

// HandleOauthCallback finishes the browser flow: the code is exchanged,
// the id token verified, and the user bound to the session.
func HandleOauthCallback(session *scs.SessionManager, providers map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state := session.PopString(ctx, sessionOauthState)
		if state == "" || state != web.QueryParam(r, "state") {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		tok, err := p.Config.Exchange(ctx, web.QueryParam(r, "code"))
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("exchanging oauth code: %w", err))
		}

		c, err := p.userFromToken(ctx, tok)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("resolving user from token: %w", err))
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		saveClaims(ctx, session, c)

		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return nil
	}
}

// HandleShowCurrent returns the claims of the logged-in actor.
func HandleShowCurrent(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, ok := sessionClaims(ctx, session)
		if !ok {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
