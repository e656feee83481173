package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/core/item"
)

// ensure creates the user's cart row on first touch.
func ensure(ctx context.Context, db sqlx.ExtContext, userID string) error {
	const q = `
	INSERT INTO carts (user_id, created_at, updated_at)
	VALUES ($1, $2, $2)
	ON CONFLICT (user_id) DO NOTHING`

	if _, err := db.ExecContext(ctx, q, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("ensuring cart of user[%s]: %w", userID, err)
	}
	return nil
}

// AddItem puts an item in the cart. Adding a member already present is
// a no-op: the cart has set semantics.
func AddItem(ctx context.Context, db sqlx.ExtContext, userID string, itemID string) error {
	if err := ensure(ctx, db, userID); err != nil {
		return err
	}

	const q = `
	INSERT INTO cart_items (user_id, item_id, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, item_id) DO NOTHING`

	if _, err := db.ExecContext(ctx, q, userID, itemID, time.Now().UTC()); err != nil {
		return fmt.Errorf("adding item[%s] to cart of user[%s]: %w", itemID, userID, err)
	}
	return nil
}

// RemoveItem drops an item from the cart; removing an absent member is
// a no-op.
func RemoveItem(ctx context.Context, db sqlx.ExtContext, userID string, itemID string) error {
	const q = `
	DELETE FROM cart_items
	WHERE user_id = $1 AND item_id = $2`

	if _, err := db.ExecContext(ctx, q, userID, itemID); err != nil {
		return fmt.Errorf("removing item[%s] from cart of user[%s]: %w", itemID, userID, err)
	}
	return nil
}

// FetchItems returns the full item records currently in the cart, in no
// particular order.
func FetchItems(ctx context.Context, db sqlx.ExtContext, userID string) ([]item.Item, error) {
	const q = `
	SELECT i.*, c.owner_id
	FROM cart_items ci
	JOIN items i ON i.item_id = ci.item_id
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE ci.user_id = $1`

	its := []item.Item{}
	if err := sqlx.SelectContext(ctx, db, &its, q, userID); err != nil {
		return nil, fmt.Errorf("fetching cart items of user[%s]: %w", userID, err)
	}
	return its, nil
}

// Clear empties the cart unconditionally.
func Clear(ctx context.Context, db sqlx.ExtContext, userID string) error {
	const q = `
	DELETE FROM cart_items
	WHERE user_id = $1`

	if _, err := db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("clearing cart of user[%s]: %w", userID, err)
	}
	return nil
}
