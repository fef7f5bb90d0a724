package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a clothing purchase made by a buyer
type Transaction struct {
	ID           string          `json:"id"`
	Buyer        int64           `json:"buyer"`
	PurchaseDate string          `json:"purchase_date"` // YYYY-MM-DD
	Cloth        int64           `json:"cloth"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalPrice   string          `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OwnedBy reports whether the transaction belongs to the given user
func (t *Transaction) OwnedBy(userID int64) bool {
	return t.Buyer == userID
}

// TransactionChanges carries the fields supplied for a create or update.
// A nil field was not supplied and is left untouched by Apply.
type TransactionChanges struct {
	Buyer        *int64
	PurchaseDate *string
	Cloth        *int64
	Quantity     *decimal.Decimal
	TotalPrice   *string
}

// IsEmpty reports whether no field was supplied
func (c TransactionChanges) IsEmpty() bool {
	return c.Buyer == nil && c.PurchaseDate == nil && c.Cloth == nil &&
		c.Quantity == nil && c.TotalPrice == nil
}

// Apply copies the supplied fields onto the transaction
func (c TransactionChanges) Apply(t *Transaction) {
	if c.Buyer != nil {
		t.Buyer = *c.Buyer
	}
	if c.PurchaseDate != nil {
		t.PurchaseDate = *c.PurchaseDate
	}
	if c.Cloth != nil {
		t.Cloth = *c.Cloth
	}
	if c.Quantity != nil {
		t.Quantity = *c.Quantity
	}
	if c.TotalPrice != nil {
		t.TotalPrice = *c.TotalPrice
	}
}

// NewestFirst orders transactions by creation time descending, breaking
// ties on ID so the order is stable across stores.
func NewestFirst(a, b *Transaction) int {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	default:
		return 0
	}
}
