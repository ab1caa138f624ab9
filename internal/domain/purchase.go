package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase represents a priced, dated acquisition of one product.
// Purchases are always read back with their product (and the product's
// category, when set) attached.
type Purchase struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	Product      *Product  `json:"product,omitempty" db:"-"`
	Price        float64   `json:"price" db:"price"`
	PurchaseDate time.Time `json:"purchase_date" db:"purchase_date"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TopProduct is the single most purchased product by occurrence count.
// CategoryName is nil when the product has no category.
type TopProduct struct {
	ProductName  string  `json:"product_name"`
	Occurrences  int     `json:"occurrences"`
	CategoryName *string `json:"category_name,omitempty"`
}

// FinancialSummary aggregates all purchases with no filtering. An empty
// store yields a zero summary, never an error.
type FinancialSummary struct {
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	PurchaseCount int     `json:"purchase_count"`
}
