package offer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, o Offer) error {
	const q = `
	INSERT INTO offers (offer_id, item_id, buyer_id, amount, message, status, created_at, updated_at)
	VALUES (:offer_id, :item_id, :buyer_id, :amount, :message, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, o); err != nil {
		return fmt.Errorf("inserting offer: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, offerID string) (Offer, error) {
	const q = `
	SELECT * FROM offers
	WHERE offer_id = $1`

	var o Offer
	if err := sqlx.GetContext(ctx, db, &o, q, offerID); err != nil {
		return Offer{}, fmt.Errorf("fetching offer[%s]: %w", offerID, err)
	}
	return o, nil
}

// FetchForUpdate locks the offer row for the rest of the transaction.
func FetchForUpdate(ctx context.Context, tx sqlx.ExtContext, offerID string) (Offer, error) {
	const q = `
	SELECT * FROM offers
	WHERE offer_id = $1
	FOR UPDATE`

	var o Offer
	if err := sqlx.GetContext(ctx, tx, &o, q, offerID); err != nil {
		return Offer{}, fmt.Errorf("fetching offer[%s] for update: %w", offerID, err)
	}
	return o, nil
}

func FetchByItem(ctx context.Context, db sqlx.ExtContext, itemID string) ([]Offer, error) {
	const q = `
	SELECT * FROM offers
	WHERE item_id = $1
	ORDER BY created_at DESC`

	os := []Offer{}
	if err := sqlx.SelectContext(ctx, db, &os, q, itemID); err != nil {
		return nil, fmt.Errorf("fetching offers of item[%s]: %w", itemID, err)
	}
	return os, nil
}

// FetchPending returns the single pending offer of a buyer on an item,
// sql.ErrNoRows when there is none.
func FetchPending(ctx context.Context, db sqlx.ExtContext, itemID string, buyerID string) (Offer, error) {
	const q = `
	SELECT * FROM offers
	WHERE item_id = $1 AND buyer_id = $2 AND status = 'pending'`

	var o Offer
	if err := sqlx.GetContext(ctx, db, &o, q, itemID, buyerID); err != nil {
		return Offer{}, fmt.Errorf("fetching pending offer on item[%s] by user[%s]: %w", itemID, buyerID, err)
	}
	return o, nil
}

// Update overwrites the mutable fields of an offer in place.
func Update(ctx context.Context, db sqlx.ExtContext, o Offer) error {
	const q = `
	UPDATE offers
	SET amount = :amount, message = :message, status = :status, updated_at = :updated_at
	WHERE offer_id = :offer_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, o)
	if err != nil {
		return fmt.Errorf("updating offer[%s]: %w", o.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, offerID string, status Status) error {
	const q = `
	UPDATE offers
	SET status = $2, updated_at = NOW() AT TIME ZONE 'utc'
	WHERE offer_id = $1`

	res, err := db.ExecContext(ctx, q, offerID, status)
	if err != nil {
		return fmt.Errorf("updating status of offer[%s]: %w", offerID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ResolvePending flips every pending offer on the item to the given
// terminal status, optionally sparing one offer id.
func ResolvePending(ctx context.Context, tx sqlx.ExtContext, itemID string, status Status, exceptID string) error {
	const q = `
	UPDATE offers
	SET status = $2, updated_at = NOW() AT TIME ZONE 'utc'
	WHERE item_id = $1 AND status = 'pending' AND offer_id <> $3`

	if _, err := tx.ExecContext(ctx, q, itemID, status, exceptID); err != nil {
		return fmt.Errorf("resolving pending offers of item[%s]: %w", itemID, err)
	}
	return nil
}
