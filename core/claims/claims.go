package claims

import (
	"context"
	"errors"
)

// Claims identifies the actor behind a request, as asserted by the
// external identity provider.
type Claims struct {
	UserID      string
	Username    string
	Email       string
	IsStaff     bool
	IsSuperuser bool
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

// IsStaff reports whether the actor carries the staff flag.
func IsStaff(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.IsStaff || c.IsSuperuser
}

// IsUser reports whether the actor is the user with the given id.
func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.UserID == id
}
