package item

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO items
		(item_id, collection_id, name, description, value, acquisition_date,
		 condition, image_url, is_for_sale, sale_price, created_at, updated_at)
	VALUES
		(:item_id, :collection_id, :name, :description, :value, :acquisition_date,
		 :condition, :image_url, :is_for_sale, :sale_price, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// Fetch returns an item regardless of owner, with the owner id joined
// in. Trade paths use it to decide who the counterparty is.
func Fetch(ctx context.Context, db sqlx.ExtContext, itemID string) (Item, error) {
	const q = `
	SELECT i.*, c.owner_id
	FROM items i
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE i.item_id = $1`

	var it Item
	if err := sqlx.GetContext(ctx, db, &it, q, itemID); err != nil {
		return Item{}, fmt.Errorf("fetching item[%s]: %w", itemID, err)
	}
	return it, nil
}

// FetchForUpdate locks the item row for the rest of the transaction so
// that concurrent trade operations on the same item serialize.
func FetchForUpdate(ctx context.Context, tx sqlx.ExtContext, itemID string) (Item, error) {
	const q = `
	SELECT i.*, c.owner_id
	FROM items i
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE i.item_id = $1
	FOR UPDATE OF i`

	var it Item
	if err := sqlx.GetContext(ctx, tx, &it, q, itemID); err != nil {
		return Item{}, fmt.Errorf("fetching item[%s] for update: %w", itemID, err)
	}
	return it, nil
}

// FetchOwned returns the item only when ownerID owns its collection.
func FetchOwned(ctx context.Context, db sqlx.ExtContext, itemID string, ownerID string) (Item, error) {
	const q = `
	SELECT i.*, c.owner_id
	FROM items i
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE i.item_id = $1 AND c.owner_id = $2`

	var it Item
	if err := sqlx.GetContext(ctx, db, &it, q, itemID, ownerID); err != nil {
		return Item{}, fmt.Errorf("fetching owned item[%s]: %w", itemID, err)
	}
	return it, nil
}

func FetchByCollection(ctx context.Context, db sqlx.ExtContext, collectionID string) ([]Item, error) {
	const q = `
	SELECT i.*, c.owner_id
	FROM items i
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE i.collection_id = $1
	ORDER BY i.created_at DESC`

	its := []Item{}
	if err := sqlx.SelectContext(ctx, db, &its, q, collectionID); err != nil {
		return nil, fmt.Errorf("fetching items of collection[%s]: %w", collectionID, err)
	}
	return its, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	UPDATE items
	SET name = :name, description = :description, value = :value,
		acquisition_date = :acquisition_date, condition = :condition,
		image_url = :image_url, is_for_sale = :is_for_sale,
		sale_price = :sale_price, updated_at = :updated_at
	WHERE item_id = :item_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, it)
	if err != nil {
		return fmt.Errorf("updating item[%s]: %w", it.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, itemID string, ownerID string) error {
	const q = `
	DELETE FROM items i
	USING collections c
	WHERE i.collection_id = c.collection_id
		AND i.item_id = $1 AND c.owner_id = $2`

	res, err := db.ExecContext(ctx, q, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting item[%s]: %w", itemID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Unlist takes the item off the market. Callers run it inside the same
// transaction that resolves the item's pending offers and auctions.
func Unlist(ctx context.Context, tx sqlx.ExtContext, itemID string) error {
	const q = `
	UPDATE items
	SET is_for_sale = FALSE, updated_at = NOW() AT TIME ZONE 'utc'
	WHERE item_id = $1`

	if _, err := tx.ExecContext(ctx, q, itemID); err != nil {
		return fmt.Errorf("unlisting item[%s]: %w", itemID, err)
	}
	return nil
}

// marketSorts whitelists the sortable columns of the marketplace.
var marketSorts = map[string]string{
	"":        "i.updated_at DESC",
	"updated": "i.updated_at DESC",
	"price":   "i.sale_price ASC NULLS LAST",
	"-price":  "i.sale_price DESC NULLS LAST",
	"name":    "i.name ASC",
	"newest":  "i.created_at DESC",
}

// FetchForSale lists the marketplace: every listed item with its
// pending-offer count projected in.
func FetchForSale(ctx context.Context, db sqlx.ExtContext, f Filter) ([]MarketItem, error) {
	order, ok := marketSorts[f.Sort]
	if !ok {
		order = marketSorts[""]
	}

	q := `
	SELECT i.*, c.owner_id, c.name AS collection_name,
		(SELECT COUNT(*) FROM offers o
		 WHERE o.item_id = i.item_id AND o.status = 'pending') AS offer_count
	FROM items i
	JOIN collections c ON c.collection_id = i.collection_id
	WHERE i.is_for_sale`

	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := fmt.Sprintf("$%d", len(args))
		q += ` AND (i.name ILIKE ` + n + ` OR i.description ILIKE ` + n + ` OR c.name ILIKE ` + n + `)`
	}
	if f.Condition != "" {
		args = append(args, f.Condition)
		q += fmt.Sprintf(` AND i.condition = $%d`, len(args))
	}
	q += ` ORDER BY ` + order

	its := []MarketItem{}
	if err := sqlx.SelectContext(ctx, db, &its, q, args...); err != nil {
		return nil, fmt.Errorf("fetching items for sale: %w", err)
	}
	return its, nil
}
