package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/api/web"
	"github.com/lehackerdu95/collector-market/api/weberr"
	"github.com/lehackerdu95/collector-market/core/claims"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/validate"
)

// mapErr translates trade rule violations into typed responses.
// Anything unmapped propagates as an opaque 500.
func mapErr(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return weberr.NotFound(err)
	case errors.Is(err, errNotOwner):
		return weberr.Forbidden(err)
	case errors.Is(err, errOfferResolved):
		return weberr.Conflict(errOfferResolved)
	case errors.Is(err, tradeerr.ErrSelfDealing):
		return weberr.Unprocessable(tradeerr.ErrSelfDealing)
	case errors.Is(err, tradeerr.ErrNotForSale):
		return weberr.Unprocessable(tradeerr.ErrNotForSale)
	default:
		return err
	}
}

// HandleBuyNow purchases a listed item outright at its asking price.
func HandleBuyNow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		p, err := buyNow(ctx, db, itemID, clm.UserID)
		if err != nil {
			return mapErr(fmt.Errorf("buying item[%s]: %w", itemID, err))
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

// HandleAcceptOffer lets the item's owner accept one offer, rejecting
// the rest and recording the sale in the same transaction.
func HandleAcceptOffer(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		offerID := web.Param(r, "id")
		if err := validate.CheckID(offerID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		o, err := acceptOffer(ctx, db, offerID, clm.UserID)
		if err != nil {
			return mapErr(fmt.Errorf("accepting offer[%s]: %w", offerID, err))
		}

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

// HandleCheckout buys everything still purchasable in the cart and
// empties it, skipped items included.
func HandleCheckout(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ps, err := checkout(ctx, db, clm.UserID)
		if err != nil {
			return mapErr(fmt.Errorf("checking out cart: %w", err))
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}

// HandleCloseAuction lets the seller close an auction. A repeated close
// responds with the already-terminal auction unchanged.
func HandleCloseAuction(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		auctionID := web.Param(r, "id")
		if err := validate.CheckID(auctionID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		a, err := closeAuction(ctx, db, auctionID, clm.UserID)
		if err != nil {
			return mapErr(fmt.Errorf("closing auction[%s]: %w", auctionID, err))
		}

		return web.Respond(ctx, w, a, http.StatusOK)
	}
}
