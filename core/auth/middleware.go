package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/api/weberr"
	"github.com/lehackerdu95/collector-market/core/claims"
)

// LoadAndSave wraps the scs session middleware around our handler type.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var err error
			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))

			sh.ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

func sessionClaims(ctx context.Context, session *scs.SessionManager) (claims.Claims, bool) {
	id := session.GetString(ctx, sessionUserID)
	if id == "" {
		return claims.Claims{}, false
	}

	return claims.Claims{
		UserID:      id,
		Username:    session.GetString(ctx, sessionUsername),
		Email:       session.GetString(ctx, sessionEmail),
		IsStaff:     session.GetBool(ctx, sessionStaff),
		IsSuperuser: session.GetBool(ctx, sessionSuperuser),
	}, true
}

func saveClaims(ctx context.Context, session *scs.SessionManager, c claims.Claims) {
	session.Put(ctx, sessionUserID, c.UserID)
	session.Put(ctx, sessionUsername, c.Username)
	session.Put(ctx, sessionEmail, c.Email)
	session.Put(ctx, sessionStaff, c.IsStaff)
	session.Put(ctx, sessionSuperuser, c.IsSuperuser)
}

// Authenticate rejects requests without a logged-in session and injects
// the actor's claims into the context.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			c, ok := sessionClaims(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(claims.Set(ctx, c), w, r)
		}
		return h
	}
	return m
}

// Staff additionally requires the actor to carry the staff flag.
func Staff(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			c, ok := sessionClaims(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			if !c.IsStaff && !c.IsSuperuser {
				return weberr.Forbidden(errors.New("staff access required"))
			}

			return handler(claims.Set(ctx, c), w, r)
		}
		return h
	}
	return m
}
