package offer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/database"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
)

// Submit places a pending offer on a listed item, or overwrites the
// buyer's existing pending offer in place so a (item, buyer) pair never
// holds more than one.
func Submit(ctx context.Context, db *sqlx.DB, itemID string, buyerID string, amount decimal.Decimal, message string) (Offer, error) {
	if !amount.IsPositive() {
		return Offer{}, tradeerr.ErrInvalidAmount
	}

	it, err := item.Fetch(ctx, db, itemID)
	if err != nil {
		return Offer{}, err
	}

	if it.OwnerID == buyerID {
		return Offer{}, tradeerr.ErrSelfDealing
	}
	if !it.IsForSale {
		return Offer{}, tradeerr.ErrNotForSale
	}

	var o Offer
	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		now := time.Now().UTC()

		existing, err := FetchPending(ctx, tx, itemID, buyerID)
		switch {
		case err == nil:
			existing.Amount = amount
			existing.Message = message
			existing.UpdatedAt = now
			if err := Update(ctx, tx, existing); err != nil {
				return err
			}
			o = existing
			return nil

		case errors.Is(err, sql.ErrNoRows):
			o = Offer{
				ID:        validate.GenerateID(),
				ItemID:    itemID,
				BuyerID:   buyerID,
				Amount:    amount,
				Message:   message,
				Status:    Pending,
				CreatedAt: now,
				UpdatedAt: now,
			}
			return Create(ctx, tx, o)

		default:
			return err
		}
	})
	if err != nil {
		return Offer{}, err
	}
	return o, nil
}
