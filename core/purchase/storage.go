package purchase

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, p Purchase) error {
	const q = `
	INSERT INTO purchases (purchase_id, item_id, buyer_id, price_paid, status, purchase_date)
	VALUES (:purchase_id, :item_id, :buyer_id, :price_paid, :status, :purchase_date)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting purchase: %w", err)
	}
	return nil
}

func FetchByBuyer(ctx context.Context, db sqlx.ExtContext, buyerID string) ([]HistoryRow, error) {
	const q = `
	SELECT p.*, i.name AS item_name
	FROM purchases p
	JOIN items i ON i.item_id = p.item_id
	WHERE p.buyer_id = $1
	ORDER BY p.purchase_date DESC`

	ps := []HistoryRow{}
	if err := sqlx.SelectContext(ctx, db, &ps, q, buyerID); err != nil {
		return nil, fmt.Errorf("fetching purchases of user[%s]: %w", buyerID, err)
	}
	return ps, nil
}

// FetchRecentByBuyer returns the buyer's latest purchases, newest
// first, capped at limit.
func FetchRecentByBuyer(ctx context.Context, db sqlx.ExtContext, buyerID string, limit int) ([]HistoryRow, error) {
	const q = `
	SELECT p.*, i.name AS item_name
	FROM purchases p
	JOIN items i ON i.item_id = p.item_id
	WHERE p.buyer_id = $1
	ORDER BY p.purchase_date DESC
	LIMIT $2`

	ps := []HistoryRow{}
	if err := sqlx.SelectContext(ctx, db, &ps, q, buyerID, limit); err != nil {
		return nil, fmt.Errorf("fetching recent purchases of user[%s]: %w", buyerID, err)
	}
	return ps, nil
}

// FetchByItem returns the item's sale history. Used by tests and by the
// seller's item view.
func FetchByItem(ctx context.Context, db sqlx.ExtContext, itemID string) ([]Purchase, error) {
	const q = `
	SELECT * FROM purchases
	WHERE item_id = $1
	ORDER BY purchase_date DESC`

	ps := []Purchase{}
	if err := sqlx.SelectContext(ctx, db, &ps, q, itemID); err != nil {
		return nil, fmt.Errorf("fetching purchases of item[%s]: %w", itemID, err)
	}
	return ps, nil
}
