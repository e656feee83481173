package collection_test

import (
	"context"
	"testing"
	"time"

	"github.com/lehackerdu95/collector-market/core/collection"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/database/databasetest"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFetchStats(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := validate.GenerateID()
	c := collection.Collection{
		ID:        validate.GenerateID(),
		OwnerID:   owner,
		Name:      "stamps",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, collection.Create(ctx, db, c))

	stats, err := collection.FetchStats(ctx, db, c.ID)
	require.NoError(t, err)
	require.Zero(t, stats.ItemCount)
	require.True(t, stats.TotalValue.IsZero())

	for _, v := range []string{"100.00", "50.00"} {
		val, err := decimal.NewFromString(v)
		require.NoError(t, err)
		it := item.Item{
			ID:           validate.GenerateID(),
			CollectionID: c.ID,
			Name:         "stamp " + v,
			Value:        val,
			Condition:    item.Excellent,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, item.Create(ctx, db, it))
	}

	stats, err = collection.FetchStats(ctx, db, c.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ItemCount)

	want, err := decimal.NewFromString("150.00")
	require.NoError(t, err)
	require.True(t, stats.TotalValue.Equal(want))
}
