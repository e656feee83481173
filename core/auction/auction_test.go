package auction

import (
	"testing"
	"time"

	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestIsActive(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		status  Status
		endDate time.Time
		want    bool
	}{
		{name: "active_before_end", status: Active, endDate: now.Add(time.Hour), want: true},
		{name: "active_past_end", status: Active, endDate: now.Add(-time.Hour), want: false},
		{name: "active_at_end", status: Active, endDate: now, want: false},
		{name: "sold", status: Sold, endDate: now.Add(time.Hour), want: false},
		{name: "ended", status: Ended, endDate: now.Add(time.Hour), want: false},
		{name: "cancelled", status: Cancelled, endDate: now.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Auction{Status: tt.status, EndDate: tt.endDate}
			require.Equal(t, tt.want, a.IsActive(now))
		})
	}
}

func TestCanBid(t *testing.T) {
	now := time.Now().UTC()
	winner := "2f0a1a4e-889c-4b43-bb0b-3b2f85e2a851"

	base := Auction{
		SellerID:      "7a45c0a1-4c92-4b9e-9a6f-16b8b4f3a001",
		StartingPrice: dec(t, "10.00"),
		CurrentPrice:  dec(t, "12.00"),
		HighestBidder: &winner,
		Status:        Active,
		EndDate:       now.Add(time.Hour),
	}

	tests := []struct {
		name    string
		mutate  func(*Auction)
		bidder  string
		amount  string
		wantErr error
	}{
		{name: "higher_bid", bidder: "bidder-2", amount: "15.00"},
		{name: "equal_bid", bidder: "bidder-2", amount: "12.00", wantErr: tradeerr.ErrBidTooLow},
		{name: "lower_bid", bidder: "bidder-2", amount: "11.50", wantErr: tradeerr.ErrBidTooLow},
		{name: "seller_bid", bidder: base.SellerID, amount: "20.00", wantErr: tradeerr.ErrSelfDealing},
		{name: "highest_bidder_raises_self", bidder: winner, amount: "20.00", wantErr: tradeerr.ErrAlreadyWinning},
		{
			name:    "expired_auction",
			mutate:  func(a *Auction) { a.EndDate = now.Add(-time.Minute) },
			bidder:  "bidder-2",
			amount:  "20.00",
			wantErr: tradeerr.ErrAlreadyTerminal,
		},
		{
			name:    "sold_auction",
			mutate:  func(a *Auction) { a.Status = Sold },
			bidder:  "bidder-2",
			amount:  "20.00",
			wantErr: tradeerr.ErrAlreadyTerminal,
		},
		{
			name:   "first_bid_above_start",
			mutate: func(a *Auction) { a.HighestBidder = nil; a.CurrentPrice = a.StartingPrice },
			bidder: "bidder-2",
			amount: "10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			if tt.mutate != nil {
				tt.mutate(&a)
			}

			err := a.CanBid(tt.bidder, dec(t, tt.amount), now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	require.False(t, Active.Terminal())
	require.True(t, Ended.Terminal())
	require.True(t, Sold.Terminal())
	require.True(t, Cancelled.Terminal())
}
