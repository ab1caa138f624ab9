package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a purchasable item, optionally attached to a category
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Brand       string     `json:"brand" db:"brand"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	Category    *Category  `json:"category,omitempty" db:"-"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
