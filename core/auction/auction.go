package auction

import (
	"time"

	"github.com/lehackerdu95/collector-market/core/trade/tradeerr"
	"github.com/shopspring/decimal"
)

type Status string

const (
	Active    Status = "active"
	Ended     Status = "ended"
	Sold      Status = "sold"
	Cancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == Ended || s == Sold || s == Cancelled
}

type Auction struct {
	ID            string          `json:"id" db:"auction_id"`
	ItemID        string          `json:"itemId" db:"item_id"`
	SellerID      string          `json:"sellerId" db:"seller_id"`
	StartingPrice decimal.Decimal `json:"startingPrice" db:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"currentPrice" db:"current_price"`
	HighestBidder *string         `json:"highestBidder" db:"highest_bidder"`
	StartDate     time.Time       `json:"startDate" db:"start_date"`
	EndDate       time.Time       `json:"endDate" db:"end_date"`
	Status        Status          `json:"status" db:"status"`
}

type AuctionNew struct {
	StartingPrice string `json:"startingPrice" validate:"required"`
	DurationDays  int    `json:"durationDays" validate:"omitempty,gte=1,lte=90"`
}

// Bid is an append-only record; at creation its amount strictly
// exceeded the auction's current price.
type Bid struct {
	ID        string          `json:"id" db:"bid_id"`
	AuctionID string          `json:"auctionId" db:"auction_id"`
	BidderID  string          `json:"bidderId" db:"bidder_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	BidDate   time.Time       `json:"bidDate" db:"bid_date"`
}

type BidNew struct {
	Amount string `json:"amount" validate:"required"`
}

// IsActive is a pure predicate over the stored fields, recomputed on
// every read. The status column can lag behind end_date since nothing
// sweeps expired auctions; expiry is observed lazily.
func (a Auction) IsActive(now time.Time) bool {
	return a.Status == Active && a.EndDate.After(now)
}

// CanBid applies the bidding rules without touching storage. It returns
// one of the tradeerr sentinels on violation.
func (a Auction) CanBid(bidderID string, amount decimal.Decimal, now time.Time) error {
	if !a.IsActive(now) {
		return tradeerr.ErrAlreadyTerminal
	}
	if bidderID == a.SellerID {
		return tradeerr.ErrSelfDealing
	}
	if a.HighestBidder != nil && *a.HighestBidder == bidderID {
		return tradeerr.ErrAlreadyWinning
	}
	if amount.LessThanOrEqual(a.CurrentPrice) {
		return tradeerr.ErrBidTooLow
	}
	return nil
}
