package collection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, c Collection) error {
	const q = `
	INSERT INTO collections (collection_id, owner_id, name, description, created_at, updated_at)
	VALUES (:collection_id, :owner_id, :name, :description, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}
	return nil
}

// Fetch returns the collection only when it belongs to ownerID. A
// mismatch is indistinguishable from an absent id.
func Fetch(ctx context.Context, db sqlx.ExtContext, collectionID string, ownerID string) (Collection, error) {
	const q = `
	SELECT * FROM collections
	WHERE collection_id = $1 AND owner_id = $2`

	var c Collection
	if err := sqlx.GetContext(ctx, db, &c, q, collectionID, ownerID); err != nil {
		return Collection{}, fmt.Errorf("fetching collection[%s]: %w", collectionID, err)
	}
	return c, nil
}

func FetchByOwner(ctx context.Context, db sqlx.ExtContext, ownerID string) ([]Collection, error) {
	const q = `
	SELECT * FROM collections
	WHERE owner_id = $1
	ORDER BY created_at DESC`

	cs := []Collection{}
	if err := sqlx.SelectContext(ctx, db, &cs, q, ownerID); err != nil {
		return nil, fmt.Errorf("fetching collections of user[%s]: %w", ownerID, err)
	}
	return cs, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Collection) error {
	const q = `
	UPDATE collections
	SET name = :name, description = :description, updated_at = :updated_at
	WHERE collection_id = :collection_id AND owner_id = :owner_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("updating collection[%s]: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the collection and, through cascade, its items.
func Delete(ctx context.Context, db sqlx.ExtContext, collectionID string, ownerID string) error {
	const q = `
	DELETE FROM collections
	WHERE collection_id = $1 AND owner_id = $2`

	res, err := db.ExecContext(ctx, q, collectionID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting collection[%s]: %w", collectionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FetchStats computes item count and total value for one collection.
// An empty collection yields zero for both.
func FetchStats(ctx context.Context, db sqlx.ExtContext, collectionID string) (Stats, error) {
	const q = `
	SELECT COUNT(item_id) AS item_count, COALESCE(SUM(value), 0) AS total_value
	FROM items
	WHERE collection_id = $1`

	var s Stats
	if err := sqlx.GetContext(ctx, db, &s, q, collectionID); err != nil {
		return Stats{}, fmt.Errorf("computing stats of collection[%s]: %w", collectionID, err)
	}
	return s, nil
}

// FetchSummary aggregates the user's catalog across all collections.
func FetchSummary(ctx context.Context, db sqlx.ExtContext, ownerID string) (Summary, error) {
	const q = `
	SELECT
		COUNT(DISTINCT c.collection_id) AS collections,
		COUNT(i.item_id) AS items,
		COALESCE(SUM(i.value), 0) AS total_value
	FROM collections c
	LEFT JOIN items i ON i.collection_id = c.collection_id
	WHERE c.owner_id = $1`

	var s Summary
	if err := sqlx.GetContext(ctx, db, &s, q, ownerID); err != nil {
		return Summary{}, fmt.Errorf("computing summary of user[%s]: %w", ownerID, err)
	}
	return s, nil
}
