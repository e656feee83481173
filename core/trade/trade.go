// Package trade is the transaction orchestrator: the operations that
// touch items, offers, auctions, purchases and the cart together. Each
// operation runs as one database transaction so the marketplace state
// can never be observed half-applied.
package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/core/auction"
	"github.com/lehackerdu95/collector-market/core/cart"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/offer"
	"github.com/lehackerdu95/collector-market/core/purchase"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/database"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
)

var (
	errNotOwner      = errors.New("actor does not own the item")
	errOfferResolved = errors.New("this offer has already been resolved")
)

// complete applies the common tail of every completed transaction on an
// item: record the purchase, take the item off the market, resolve the
// remaining pending offers and cancel any running auction. An item that
// is no longer for sale must have neither.
func complete(ctx context.Context, tx sqlx.ExtContext, itemID string, buyerID string, price decimal.Decimal, offerStatus offer.Status, exceptOfferID string) (purchase.Purchase, error) {
	p := purchase.Purchase{
		ID:           validate.GenerateID(),
		ItemID:       itemID,
		BuyerID:      buyerID,
		PricePaid:    price,
		Status:       purchase.Completed,
		PurchaseDate: time.Now().UTC(),
	}

	if err := purchase.Create(ctx, tx, p); err != nil {
		return purchase.Purchase{}, err
	}
	if err := item.Unlist(ctx, tx, itemID); err != nil {
		return purchase.Purchase{}, err
	}
	if err := offer.ResolvePending(ctx, tx, itemID, offerStatus, exceptOfferID); err != nil {
		return purchase.Purchase{}, err
	}
	if err := auction.CancelActiveByItem(ctx, tx, itemID); err != nil {
		return purchase.Purchase{}, err
	}
	return p, nil
}

// buyNow purchases a listed item at its asking price. Offers still
// pending are withdrawn, not rejected: the listing went away, nobody
// declined them.
func buyNow(ctx context.Context, db *sqlx.DB, itemID string, buyerID string) (purchase.Purchase, error) {
	var p purchase.Purchase

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		it, err := item.FetchForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if it.OwnerID == buyerID {
			return tradeerr.ErrSelfDealing
		}
		if !it.IsForSale || !it.SalePrice.Valid {
			return tradeerr.ErrNotForSale
		}

		p, err = complete(ctx, tx, it.ID, buyerID, it.SalePrice.Decimal, offer.Withdrawn, "")
		return err
	})
	if err != nil {
		return purchase.Purchase{}, err
	}
	return p, nil
}

// acceptOffer completes a negotiation: the chosen offer is accepted,
// every other pending offer rejected, and the sale recorded at the
// offered amount.
func acceptOffer(ctx context.Context, db *sqlx.DB, offerID string, actorID string) (offer.Offer, error) {
	var o offer.Offer

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		var err error
		o, err = offer.FetchForUpdate(ctx, tx, offerID)
		if err != nil {
			return err
		}

		it, err := item.FetchForUpdate(ctx, tx, o.ItemID)
		if err != nil {
			return err
		}

		if it.OwnerID != actorID {
			return errNotOwner
		}
		if o.Status != offer.Pending {
			return fmt.Errorf("offer is already %s: %w", o.Status, errOfferResolved)
		}

		if err := offer.UpdateStatus(ctx, tx, o.ID, offer.Accepted); err != nil {
			return err
		}
		o.Status = offer.Accepted

		_, err = complete(ctx, tx, it.ID, o.BuyerID, o.Amount, offer.Rejected, o.ID)
		return err
	})
	if err != nil {
		return offer.Offer{}, err
	}
	return o, nil
}

// checkout buys every cart item that is still purchasable, with the
// same per-item effects as buyNow, then empties the cart even for the
// members that were skipped.
func checkout(ctx context.Context, db *sqlx.DB, buyerID string) ([]purchase.Purchase, error) {
	ps := []purchase.Purchase{}

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		its, err := cart.FetchItems(ctx, tx, buyerID)
		if err != nil {
			return err
		}

		for _, pick := range its {
			it, err := item.FetchForUpdate(ctx, tx, pick.ID)
			if err != nil {
				// The item vanished between listing and checkout.
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return err
			}

			if !it.IsForSale || !it.SalePrice.Valid || it.OwnerID == buyerID {
				continue
			}

			p, err := complete(ctx, tx, it.ID, buyerID, it.SalePrice.Decimal, offer.Withdrawn, "")
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}

		return cart.Clear(ctx, tx, buyerID)
	})
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// closeAuction resolves an auction. With a standing highest bidder the
// auction is sold and the sale recorded at the current price; without
// bids it just ends. Closing a finished auction changes nothing.
func closeAuction(ctx context.Context, db *sqlx.DB, auctionID string, actorID string) (auction.Auction, error) {
	var a auction.Auction

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		var err error
		a, err = auction.FetchForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}

		if a.SellerID != actorID {
			return errNotOwner
		}

		// Idempotent: a second close observes the terminal state.
		if a.Status.Terminal() {
			return nil
		}

		if a.HighestBidder == nil {
			a.Status = auction.Ended
			return auction.UpdateStatus(ctx, tx, a.ID, auction.Ended)
		}

		if err := auction.UpdateStatus(ctx, tx, a.ID, auction.Sold); err != nil {
			return err
		}
		a.Status = auction.Sold

		_, err = complete(ctx, tx, a.ItemID, *a.HighestBidder, a.CurrentPrice, offer.Withdrawn, "")
		return err
	})
	if err != nil {
		return auction.Auction{}, err
	}
	return a, nil
}
