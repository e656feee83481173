package trade

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lehackerdu95/collector-market/core/auction"
	"github.com/lehackerdu95/collector-market/core/cart"
	"github.com/lehackerdu95/collector-market/core/collection"
	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/lehackerdu95/collector-market/core/offer"
	"github.com/lehackerdu95/collector-market/core/purchase"
	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/lehackerdu95/collector-market/database/databasetest"
	"github.com/lehackerdu95/collector-market/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedCollection(t *testing.T, db *sqlx.DB, ownerID string) collection.Collection {
	t.Helper()
	now := time.Now().UTC()
	c := collection.Collection{
		ID:        validate.GenerateID(),
		OwnerID:   ownerID,
		Name:      "vinyl records",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, collection.Create(context.Background(), db, c))
	return c
}

func seedItem(t *testing.T, db *sqlx.DB, collectionID string, value string, salePrice string) item.Item {
	t.Helper()
	now := time.Now().UTC()
	it := item.Item{
		ID:           validate.GenerateID(),
		CollectionID: collectionID,
		Name:         "first pressing",
		Value:        dec(t, value),
		Condition:    item.Good,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if salePrice != "" {
		it.IsForSale = true
		it.SalePrice = decimal.NullDecimal{Decimal: dec(t, salePrice), Valid: true}
	}
	require.NoError(t, item.Create(context.Background(), db, it))
	return it
}

func seedAuction(t *testing.T, db *sqlx.DB, itemID, sellerID string, start string) auction.Auction {
	t.Helper()
	now := time.Now().UTC()
	a := auction.Auction{
		ID:            validate.GenerateID(),
		ItemID:        itemID,
		SellerID:      sellerID,
		StartingPrice: dec(t, start),
		CurrentPrice:  dec(t, start),
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, 7),
		Status:        auction.Active,
	}
	require.NoError(t, auction.Create(context.Background(), db, a))
	return a
}

func TestAcceptOffer(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	buyer1 := validate.GenerateID()
	buyer2 := validate.GenerateID()

	col := seedCollection(t, db, seller)
	it := seedItem(t, db, col.ID, "100.00", "120.00")

	o1, err := offer.Submit(ctx, db, it.ID, buyer1, dec(t, "90.00"), "take it?")
	require.NoError(t, err)
	_, err = offer.Submit(ctx, db, it.ID, buyer2, dec(t, "95.00"), "")
	require.NoError(t, err)

	// A competing auction must not survive the sale.
	seedAuction(t, db, it.ID, seller, "50.00")

	_, err = acceptOffer(ctx, db, o1.ID, buyer1)
	require.ErrorIs(t, err, errNotOwner)

	accepted, err := acceptOffer(ctx, db, o1.ID, seller)
	require.NoError(t, err)
	require.Equal(t, offer.Accepted, accepted.Status)

	os, err := offer.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, os, 2)
	for _, o := range os {
		if o.ID == o1.ID {
			require.Equal(t, offer.Accepted, o.Status)
		} else {
			require.Equal(t, offer.Rejected, o.Status)
		}
	}

	ps, err := purchase.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	require.True(t, ps[0].PricePaid.Equal(dec(t, "90.00")))
	require.Equal(t, purchase.Completed, ps[0].Status)
	require.Equal(t, buyer1, ps[0].BuyerID)

	got, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)
	require.False(t, got.IsForSale)

	a, err := auction.FetchBySeller(ctx, db, seller)
	require.NoError(t, err)
	require.Len(t, a, 1)
	require.Equal(t, auction.Cancelled, a[0].Status)

	// Accepting twice fails: the offer is no longer pending.
	_, err = acceptOffer(ctx, db, o1.ID, seller)
	require.ErrorIs(t, err, errOfferResolved)
}

func TestBuyNow(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	buyer := validate.GenerateID()
	bystander := validate.GenerateID()

	col := seedCollection(t, db, seller)
	it := seedItem(t, db, col.ID, "100.00", "120.00")

	_, err := offer.Submit(ctx, db, it.ID, bystander, dec(t, "80.00"), "")
	require.NoError(t, err)

	_, err = buyNow(ctx, db, it.ID, seller)
	require.ErrorIs(t, err, tradeerr.ErrSelfDealing)

	p, err := buyNow(ctx, db, it.ID, buyer)
	require.NoError(t, err)
	require.True(t, p.PricePaid.Equal(dec(t, "120.00")))
	require.Equal(t, purchase.Completed, p.Status)

	got, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)
	require.False(t, got.IsForSale)

	// The bystander's offer was mooted, not declined.
	os, err := offer.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, os, 1)
	require.Equal(t, offer.Withdrawn, os[0].Status)

	_, err = buyNow(ctx, db, it.ID, buyer)
	require.ErrorIs(t, err, tradeerr.ErrNotForSale)
}

func TestOfferResubmission(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	buyer := validate.GenerateID()

	col := seedCollection(t, db, seller)
	it := seedItem(t, db, col.ID, "100.00", "120.00")

	first, err := offer.Submit(ctx, db, it.ID, buyer, dec(t, "40.00"), "initial")
	require.NoError(t, err)

	second, err := offer.Submit(ctx, db, it.ID, buyer, dec(t, "50.00"), "raised")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	os, err := offer.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, os, 1)
	require.True(t, os[0].Amount.Equal(dec(t, "50.00")))
	require.Equal(t, "raised", os[0].Message)
	require.Equal(t, offer.Pending, os[0].Status)
}

func TestCheckout(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	buyer := validate.GenerateID()

	col := seedCollection(t, db, seller)
	it1 := seedItem(t, db, col.ID, "100.00", "120.00")
	it2 := seedItem(t, db, col.ID, "60.00", "75.50")
	it3 := seedItem(t, db, col.ID, "10.00", "") // not for sale

	require.NoError(t, cart.AddItem(ctx, db, buyer, it1.ID))
	require.NoError(t, cart.AddItem(ctx, db, buyer, it2.ID))
	require.NoError(t, cart.AddItem(ctx, db, buyer, it3.ID))
	// Re-adding is a no-op: the cart has set semantics.
	require.NoError(t, cart.AddItem(ctx, db, buyer, it1.ID))

	its, err := cart.FetchItems(ctx, db, buyer)
	require.NoError(t, err)
	require.Len(t, its, 3)

	ps, err := checkout(ctx, db, buyer)
	require.NoError(t, err)
	require.Len(t, ps, 2)

	total := decimal.Zero
	for _, p := range ps {
		total = total.Add(p.PricePaid)
	}
	require.True(t, total.Equal(dec(t, "195.50")))

	// The cart empties even for the skipped item.
	its, err = cart.FetchItems(ctx, db, buyer)
	require.NoError(t, err)
	require.Empty(t, its)

	for _, id := range []string{it1.ID, it2.ID} {
		got, err := item.Fetch(ctx, db, id)
		require.NoError(t, err)
		require.False(t, got.IsForSale)
	}
}

func TestAuctionFlow(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	bidder1 := validate.GenerateID()
	bidder2 := validate.GenerateID()

	col := seedCollection(t, db, seller)
	it := seedItem(t, db, col.ID, "100.00", "120.00")
	a := seedAuction(t, db, it.ID, seller, "10.00")

	_, err := auction.PlaceBid(ctx, db, a.ID, bidder1, dec(t, "12.00"))
	require.NoError(t, err)
	_, err = auction.PlaceBid(ctx, db, a.ID, bidder2, dec(t, "15.00"))
	require.NoError(t, err)

	_, err = auction.PlaceBid(ctx, db, a.ID, bidder1, dec(t, "15.00"))
	require.ErrorIs(t, err, tradeerr.ErrBidTooLow)
	_, err = auction.PlaceBid(ctx, db, a.ID, bidder1, dec(t, "14.00"))
	require.ErrorIs(t, err, tradeerr.ErrBidTooLow)
	_, err = auction.PlaceBid(ctx, db, a.ID, seller, dec(t, "20.00"))
	require.ErrorIs(t, err, tradeerr.ErrSelfDealing)
	_, err = auction.PlaceBid(ctx, db, a.ID, bidder2, dec(t, "20.00"))
	require.ErrorIs(t, err, tradeerr.ErrAlreadyWinning)

	got, err := auction.Fetch(ctx, db, a.ID)
	require.NoError(t, err)
	require.True(t, got.CurrentPrice.Equal(dec(t, "15.00")))
	require.NotNil(t, got.HighestBidder)
	require.Equal(t, bidder2, *got.HighestBidder)

	bs, err := auction.FetchBids(ctx, db, a.ID)
	require.NoError(t, err)
	require.Len(t, bs, 2)

	_, err = closeAuction(ctx, db, a.ID, bidder2)
	require.ErrorIs(t, err, errNotOwner)

	closed, err := closeAuction(ctx, db, a.ID, seller)
	require.NoError(t, err)
	require.Equal(t, auction.Sold, closed.Status)

	ps, err := purchase.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	require.True(t, ps[0].PricePaid.Equal(dec(t, "15.00")))
	require.Equal(t, bidder2, ps[0].BuyerID)

	gotIt, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)
	require.False(t, gotIt.IsForSale)

	// A repeated close changes nothing.
	again, err := closeAuction(ctx, db, a.ID, seller)
	require.NoError(t, err)
	require.Equal(t, auction.Sold, again.Status)

	ps, err = purchase.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
}

func TestCloseAuctionWithoutBids(t *testing.T) {
	db := databasetest.Setup(t)
	ctx := context.Background()

	seller := validate.GenerateID()
	col := seedCollection(t, db, seller)
	it := seedItem(t, db, col.ID, "100.00", "120.00")
	a := seedAuction(t, db, it.ID, seller, "10.00")

	closed, err := closeAuction(ctx, db, a.ID, seller)
	require.NoError(t, err)
	require.Equal(t, auction.Ended, closed.Status)

	ps, err := purchase.FetchByItem(ctx, db, it.ID)
	require.NoError(t, err)
	require.Empty(t, ps)

	// Ending without a sale leaves the listing alone.
	got, err := item.Fetch(ctx, db, it.ID)
	require.NoError(t, err)
	require.True(t, got.IsForSale)
}
