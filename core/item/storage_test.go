package item_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lehackerdu95/collector-market/core/collection"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/database/databasetest"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// cmpOpts makes decimals compare by value and tolerates the precision
// Postgres keeps on timestamps.
var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b decimal.NullDecimal) bool {
		if a.Valid != b.Valid {
			return false
		}
		return !a.Valid || a.Decimal.Equal(b.Decimal)
	}),
	cmpopts.EquateApproxTime(time.Second),
}

func TestItemStorage(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := validate.GenerateID()
	col := collection.Collection{
		ID:        validate.GenerateID(),
		OwnerID:   owner,
		Name:      "trading cards",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, collection.Create(ctx, db, col))

	val, err := decimal.NewFromString("42.50")
	require.NoError(t, err)
	it := item.Item{
		ID:           validate.GenerateID(),
		CollectionID: col.ID,
		Name:         "holo charizard",
		Description:  "base set",
		Value:        val,
		Condition:    item.Fair,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, item.Create(ctx, db, it))

	got, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)

	want := it
	want.OwnerID = owner
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Fatalf("fetched item mismatch (-want +got):\n%s", diff)
	}

	price, err := decimal.NewFromString("60.00")
	require.NoError(t, err)
	got.IsForSale = true
	got.SalePrice = decimal.NullDecimal{Decimal: price, Valid: true}
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, item.Update(ctx, db, got))

	after, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(got, after, cmpOpts...); diff != "" {
		t.Fatalf("updated item mismatch (-want +got):\n%s", diff)
	}

	market, err := item.FetchForSale(ctx, db, item.Filter{Condition: "fair"})
	require.NoError(t, err)
	require.Len(t, market, 1)
	require.Equal(t, it.ID, market[0].ID)
	require.Equal(t, col.Name, market[0].CollectionName)
	require.Zero(t, market[0].OfferCount)

	market, err = item.FetchForSale(ctx, db, item.Filter{Condition: "poor"})
	require.NoError(t, err)
	require.Empty(t, market)

	market, err = item.FetchForSale(ctx, db, item.Filter{Search: "charizard"})
	require.NoError(t, err)
	require.Len(t, market, 1)

	require.NoError(t, item.Delete(ctx, db, it.ID, owner))
	_, err = item.Fetch(ctx, db, it.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
