package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
)

// Purchase is an append-only ledger entry. Rows are never mutated after
// creation.
type Purchase struct {
	ID           string          `json:"id" db:"purchase_id"`
	ItemID       string          `json:"itemId" db:"item_id"`
	BuyerID      string          `json:"buyerId" db:"buyer_id"`
	PricePaid    decimal.Decimal `json:"pricePaid" db:"price_paid"`
	Status       Status          `json:"status" db:"status"`
	PurchaseDate time.Time       `json:"purchaseDate" db:"purchase_date"`
}

// HistoryRow is a purchase joined with display data about the item.
type HistoryRow struct {
	Purchase
	ItemName string `json:"itemName" db:"item_name"`
}
