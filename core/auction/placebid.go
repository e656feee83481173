package auction

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/database"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
)

// PlaceBid runs the bid rules and records the bid, the new price and
// the new highest bidder as one transaction. The auction row stays
// locked from the rule check to the write, so two concurrent bidders
// cannot both observe a stale price.
func PlaceBid(ctx context.Context, db *sqlx.DB, auctionID string, bidderID string, amount decimal.Decimal) (Bid, error) {
	var b Bid

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		a, err := FetchForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := a.CanBid(bidderID, amount, now); err != nil {
			return err
		}

		b = Bid{
			ID:        validate.GenerateID(),
			AuctionID: a.ID,
			BidderID:  bidderID,
			Amount:    amount,
			BidDate:   now,
		}
		return RecordBid(ctx, tx, a, b)
	})
	if err != nil {
		return Bid{}, err
	}
	return b, nil
}
