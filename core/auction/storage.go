package auction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, a Auction) error {
	const q = `
	INSERT INTO auctions
		(auction_id, item_id, seller_id, starting_price, current_price,
		 highest_bidder, start_date, end_date, status)
	VALUES
		(:auction_id, :item_id, :seller_id, :starting_price, :current_price,
		 :highest_bidder, :start_date, :end_date, :status)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, a); err != nil {
		return fmt.Errorf("inserting auction: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, auctionID string) (Auction, error) {
	const q = `
	SELECT * FROM auctions
	WHERE auction_id = $1`

	var a Auction
	if err := sqlx.GetContext(ctx, db, &a, q, auctionID); err != nil {
		return Auction{}, fmt.Errorf("fetching auction[%s]: %w", auctionID, err)
	}
	return a, nil
}

// FetchForUpdate locks the auction row so the bid check and the price
// write serialize against concurrent bidders.
func FetchForUpdate(ctx context.Context, tx sqlx.ExtContext, auctionID string) (Auction, error) {
	const q = `
	SELECT * FROM auctions
	WHERE auction_id = $1
	FOR UPDATE`

	var a Auction
	if err := sqlx.GetContext(ctx, tx, &a, q, auctionID); err != nil {
		return Auction{}, fmt.Errorf("fetching auction[%s] for update: %w", auctionID, err)
	}
	return a, nil
}

func FetchActive(ctx context.Context, db sqlx.ExtContext) ([]Auction, error) {
	const q = `
	SELECT * FROM auctions
	WHERE status = 'active'
	ORDER BY start_date DESC`

	as := []Auction{}
	if err := sqlx.SelectContext(ctx, db, &as, q); err != nil {
		return nil, fmt.Errorf("fetching active auctions: %w", err)
	}
	return as, nil
}

func FetchBySeller(ctx context.Context, db sqlx.ExtContext, sellerID string) ([]Auction, error) {
	const q = `
	SELECT * FROM auctions
	WHERE seller_id = $1
	ORDER BY start_date DESC`

	as := []Auction{}
	if err := sqlx.SelectContext(ctx, db, &as, q, sellerID); err != nil {
		return nil, fmt.Errorf("fetching auctions of seller[%s]: %w", sellerID, err)
	}
	return as, nil
}

// FetchActiveByItem returns the item's active auction, sql.ErrNoRows
// when there is none.
func FetchActiveByItem(ctx context.Context, db sqlx.ExtContext, itemID string) (Auction, error) {
	const q = `
	SELECT * FROM auctions
	WHERE item_id = $1 AND status = 'active'`

	var a Auction
	if err := sqlx.GetContext(ctx, db, &a, q, itemID); err != nil {
		return Auction{}, fmt.Errorf("fetching active auction of item[%s]: %w", itemID, err)
	}
	return a, nil
}

// RecordBid applies a winning bid: the bid row, the new price and the
// new highest bidder, all in the caller's transaction.
func RecordBid(ctx context.Context, tx sqlx.ExtContext, a Auction, b Bid) error {
	if err := CreateBid(ctx, tx, b); err != nil {
		return err
	}

	const q = `
	UPDATE auctions
	SET current_price = $2, highest_bidder = $3
	WHERE auction_id = $1`

	if _, err := tx.ExecContext(ctx, q, a.ID, b.Amount, b.BidderID); err != nil {
		return fmt.Errorf("updating price of auction[%s]: %w", a.ID, err)
	}
	return nil
}

func CreateBid(ctx context.Context, db sqlx.ExtContext, b Bid) error {
	const q = `
	INSERT INTO bids (bid_id, auction_id, bidder_id, amount, bid_date)
	VALUES (:bid_id, :auction_id, :bidder_id, :amount, :bid_date)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, b); err != nil {
		return fmt.Errorf("inserting bid: %w", err)
	}
	return nil
}

func FetchBids(ctx context.Context, db sqlx.ExtContext, auctionID string) ([]Bid, error) {
	const q = `
	SELECT * FROM bids
	WHERE auction_id = $1
	ORDER BY bid_date DESC`

	bs := []Bid{}
	if err := sqlx.SelectContext(ctx, db, &bs, q, auctionID); err != nil {
		return nil, fmt.Errorf("fetching bids of auction[%s]: %w", auctionID, err)
	}
	return bs, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, auctionID string, status Status) error {
	const q = `
	UPDATE auctions
	SET status = $2
	WHERE auction_id = $1`

	res, err := db.ExecContext(ctx, q, auctionID, status)
	if err != nil {
		return fmt.Errorf("updating status of auction[%s]: %w", auctionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CancelActiveByItem cancels any active auction on the item. Trade
// paths call it inside the transaction that unlists the item, keeping
// the no-active-auction-on-unlisted-item invariant.
func CancelActiveByItem(ctx context.Context, tx sqlx.ExtContext, itemID string) error {
	const q = `
	UPDATE auctions
	SET status = 'cancelled'
	WHERE item_id = $1 AND status = 'active'`

	if _, err := tx.ExecContext(ctx, q, itemID); err != nil {
		return fmt.Errorf("cancelling active auctions of item[%s]: %w", itemID, err)
	}
	return nil
}
