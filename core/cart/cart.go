package cart

import (
	"time"

	"github.com/lehackerdu95/collector-market/core/item"
	"github.com/shopspring/decimal"
)

type Cart struct {
	UserID    string    `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Items      []item.Item     `json:"items" db:"-"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"-"`
}

type Item struct {
	UserID    string    `json:"-" db:"user_id"`
	ItemID    string    `json:"itemId" db:"item_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ItemNew struct {
	ItemID string `json:"itemId" validate:"required,uuid"`
}
