package cart

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
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
)

// HandleShow returns the cart's items with the total price of those
// still for sale. Skipped members are priced at zero, not hidden:
// membership is only validated at checkout.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		its, err := FetchItems(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, it := range its {
			if it.IsForSale && it.SalePrice.Valid {
				total = total.Add(it.SalePrice.Decimal)
			}
		}

		c := Cart{
			UserID:     clm.UserID,
			Items:      its,
			TotalPrice: total,
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

// HandleAddItem adds a listed item to the cart. Re-adding is a no-op
// success.
func HandleAddItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		it, err := item.Fetch(ctx, db, in.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !it.IsForSale {
			return weberr.NotFound(fmt.Errorf("item[%s] is not listed", in.ItemID))
		}

		if err := AddItem(ctx, db, clm.UserID, in.ItemID); err != nil {
			return fmt.Errorf("adding to cart: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleRemoveItem removes an item from the cart. Removing an absent
// item is a no-op success.
func HandleRemoveItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		itemID := web.Param(r, "item_id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := RemoveItem(ctx, db, clm.UserID, itemID); err != nil {
			return fmt.Errorf("removing from cart: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
