package collection

import (
	"time"

	"github.com/shopspring/decimal"
)

type Collection struct {
	ID          string    `json:"id" db:"collection_id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CollectionNew struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

type CollectionUp struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
}

// Stats are the derived numbers for one collection.
type Stats struct {
	ItemCount  int             `json:"itemCount" db:"item_count"`
	TotalValue decimal.Decimal `json:"totalValue" db:"total_value"`
}

// Summary aggregates a user's whole catalog for the dashboard.
type Summary struct {
	Collections int             `json:"collections" db:"collections"`
	Items       int             `json:"items" db:"items"`
	TotalValue  decimal.Decimal `json:"totalValue" db:"total_value"`
}
