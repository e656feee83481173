package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Pending  Status = "pending"
	Accepted Status = "accepted"
	Rejected Status = "rejected"

	// Withdrawn marks an offer mooted by another completed transaction
	// on the item, as opposed to one the owner declined.
	Withdrawn Status = "withdrawn"
)

type Offer struct {
	ID        string          `json:"id" db:"offer_id"`
	ItemID    string          `json:"itemId" db:"item_id"`
	BuyerID   string          `json:"buyerId" db:"buyer_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Message   string          `json:"message" db:"message"`
	Status    Status          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

type OfferNew struct {
	Amount  string `json:"amount" validate:"required"`
	Message string `json:"message"`
}
