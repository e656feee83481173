package item

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condition grades the physical state of an object.
type Condition string

const (
	Excellent Condition = "excellent"
	Good      Condition = "good"
	Fair      Condition = "fair"
	Poor      Condition = "poor"
)

func (c Condition) Valid() bool {
	switch c {
	case Excellent, Good, Fair, Poor:
		return true
	}
	return false
}

type Item struct {
	ID              string              `json:"id" db:"item_id"`
	CollectionID    string              `json:"collectionId" db:"collection_id"`
	Name            string              `json:"name" db:"name"`
	Description     string              `json:"description" db:"description"`
	Value           decimal.Decimal     `json:"value" db:"value"`
	AcquisitionDate *time.Time          `json:"acquisitionDate" db:"acquisition_date"`
	Condition       Condition           `json:"condition" db:"condition"`
	ImageURL        string              `json:"imageUrl" db:"image_url"`
	IsForSale       bool                `json:"isForSale" db:"is_for_sale"`
	SalePrice       decimal.NullDecimal `json:"salePrice" db:"sale_price"`
	CreatedAt       time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" db:"updated_at"`

	// OwnerID comes joined from the owning collection.
	OwnerID string `json:"-" db:"owner_id"`
}

type ItemNew struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Description     string     `json:"description"`
	Value           string     `json:"value" validate:"required"`
	AcquisitionDate *time.Time `json:"acquisitionDate"`
	Condition       string     `json:"condition"`
	ImageURL        string     `json:"imageUrl" validate:"omitempty,url"`
	IsForSale       bool       `json:"isForSale"`
	SalePrice       *string    `json:"salePrice"`
}

type ItemUp struct {
	Name            *string    `json:"name" validate:"omitempty,max=200"`
	Description     *string    `json:"description"`
	Value           *string    `json:"value"`
	AcquisitionDate *time.Time `json:"acquisitionDate"`
	Condition       *string    `json:"condition"`
	ImageURL        *string    `json:"imageUrl" validate:"omitempty,url"`
	IsForSale       *bool      `json:"isForSale"`
	SalePrice       *string    `json:"salePrice"`
}

type ImageUp struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// MarketItem is a read-only marketplace projection: the listed item
// plus display data computed in the query, never stored on the entity.
type MarketItem struct {
	Item
	CollectionName string `json:"collectionName" db:"collection_name"`
	OfferCount     int    `json:"offerCount" db:"offer_count"`
}

// Filter narrows and orders the marketplace listing.
type Filter struct {
	Search    string
	Condition Condition
	Sort      string
}
