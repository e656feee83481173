package purchase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/api/weberr"
	"github.com/lehackerdu95/collector-market/core/claims"
)

func HandleHistory(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ps, err := FetchByBuyer(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing purchase history: %w", err)
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}

// HandleRecent returns the actor's five most recent purchases, backing
// the post-checkout confirmation page.
func HandleRecent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ps, err := FetchRecentByBuyer(ctx, db, clm.UserID, 5)
		if err != nil {
			return fmt.Errorf("listing recent purchases: %w", err)
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}
