package offer

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
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/validate"
)

// HandleSubmit creates a pending offer on a listed item, or overwrites
// the buyer's existing pending offer in place. There is never more than
// one pending offer per (item, buyer).
func HandleSubmit(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var on OfferNew
		if err := web.Decode(w, r, &on); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(on); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		amount, err := validate.CheckAmount(on.Amount)
		if err != nil {
			return weberr.Unprocessable(tradeerr.ErrInvalidAmount)
		}

		o, err := Submit(ctx, db, itemID, clm.UserID, amount, on.Message)
		switch {
		case err == nil:
			return web.Respond(ctx, w, o, http.StatusCreated)
		case errors.Is(err, sql.ErrNoRows):
			return weberr.NotFound(err)
		case errors.Is(err, tradeerr.ErrSelfDealing):
			return weberr.Unprocessable(tradeerr.ErrSelfDealing)
		case errors.Is(err, tradeerr.ErrNotForSale):
			return weberr.Unprocessable(tradeerr.ErrNotForSale)
		default:
			return fmt.Errorf("submitting offer on item[%s]: %w", itemID, err)
		}
	}
}

// HandleListByItem lists offers on a listed item: every offer for the
// owner, only their own for anybody else.
func HandleListByItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it, err := item.Fetch(ctx, db, itemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		os, err := FetchByItem(ctx, db, itemID)
		if err != nil {
			return err
		}

		if it.OwnerID != clm.UserID {
			own := make([]Offer, 0, 1)
			for _, o := range os {
				if o.BuyerID == clm.UserID {
					own = append(own, o)
				}
			}
			os = own
		}

		return web.Respond(ctx, w, os, http.StatusOK)
	}
}

// HandleReject lets the item's owner decline an offer. Nothing else
// changes: the item stays listed and other offers stay pending.
func HandleReject(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		offerID := web.Param(r, "id")
		if err := validate.CheckID(offerID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		o, err := Fetch(ctx, db, offerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		it, err := item.Fetch(ctx, db, o.ItemID)
		if err != nil {
			return err
		}

		if it.OwnerID != clm.UserID {
			return weberr.Forbidden(errors.New("only the item's owner may reject an offer"))
		}

		if o.Status != Pending {
			return weberr.Conflict(fmt.Errorf("offer is already %s", o.Status))
		}

		if err := UpdateStatus(ctx, db, offerID, Rejected); err != nil {
			return fmt.Errorf("rejecting offer[%s]: %w", offerID, err)
		}

		o.Status = Rejected
		return web.Respond(ctx, w, o, http.StatusOK)
	}
}
