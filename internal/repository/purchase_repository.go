package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mon-pannier/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrNoPurchases is returned by aggregate queries that need at least one
	// purchase row to produce a meaningful answer.
	ErrNoPurchases = errors.New("no purchases found")
)

// PurchaseRepository defines the interface for purchase data access
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) error
	Update(ctx context.Context, purchase *domain.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	List(ctx context.Context) ([]*domain.Purchase, error)
	TopProduct(ctx context.Context) (*domain.TopProduct, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// purchaseColumns selects a purchase joined with its product and the
// product's optional category.
const purchaseColumns = `
	SELECT pu.id, pu.product_id, pu.price, pu.purchase_date, pu.notes, pu.created_at, pu.updated_at,
	       p.id, p.name, p.description, p.brand, p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.description, c.created_at
	FROM purchases pu
	JOIN products p ON p.id = pu.product_id
	LEFT JOIN categories c ON c.id = p.category_id
`

// Create inserts a new purchase into the database using parameterized queries
func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (id, product_id, price, purchase_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		purchase.ID,
		purchase.ProductID,
		purchase.Price,
		purchase.PurchaseDate,
		purchase.Notes,
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	return nil
}

// Update updates an existing purchase in the database
func (r *purchaseRepository) Update(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		UPDATE purchases
		SET product_id = $2, price = $3, purchase_date = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		purchase.ID,
		purchase.ProductID,
		purchase.Price,
		purchase.PurchaseDate,
		purchase.Notes,
		purchase.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}

// Delete removes a purchase from the database
func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM purchases WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}

// FindByID retrieves a purchase by ID with its product and category attached
func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	query := purchaseColumns + ` WHERE pu.id = $1`

	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to find purchase by ID: %w", err)
	}

	return purchase, nil
}

// List retrieves all purchases, most recent first
func (r *purchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	query := purchaseColumns + ` ORDER BY pu.purchase_date DESC, pu.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*domain.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}

// TopProduct returns the product with the most purchase occurrences.
// Ties are broken by product name ascending so the winner is deterministic.
// Returns ErrNoPurchases when the store holds no purchases at all.
func (r *purchaseRepository) TopProduct(ctx context.Context) (*domain.TopProduct, error) {
	query := `
		SELECT p.name, c.name, COUNT(pu.id) AS occurrences
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		GROUP BY p.id, p.name, c.name
		ORDER BY COUNT(pu.id) DESC, p.name ASC
		LIMIT 1
	`

	top := &domain.TopProduct{}
	var categoryName sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&top.ProductName, &categoryName, &top.Occurrences)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoPurchases
		}
		return nil, fmt.Errorf("failed to query top product: %w", err)
	}

	if categoryName.Valid {
		top.CategoryName = &categoryName.String
	}

	return top, nil
}

// FinancialSummary returns the total spent and count over all purchases.
// An empty store yields a zero summary.
func (r *purchaseRepository) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	query := `
		SELECT COALESCE(SUM(price), 0), COUNT(id)
		FROM purchases
	`

	summary := &domain.FinancialSummary{Currency: "EUR"}
	err := r.db.QueryRowContext(ctx, query).Scan(&summary.TotalAmount, &summary.PurchaseCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial summary: %w", err)
	}

	return summary, nil
}

// scanPurchase scans a purchase row joined with its product and optional category
func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	purchase := &domain.Purchase{}
	product := &domain.Product{}
	var (
		notes        sql.NullString
		prodDesc     sql.NullString
		prodBrand    sql.NullString
		catID        *uuid.UUID
		catName      sql.NullString
		catDesc      sql.NullString
		catCreatedAt sql.NullTime
	)

	err := row.Scan(
		&purchase.ID,
		&purchase.ProductID,
		&purchase.Price,
		&purchase.PurchaseDate,
		&notes,
		&purchase.CreatedAt,
		&purchase.UpdatedAt,
		&product.ID,
		&product.Name,
		&prodDesc,
		&prodBrand,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&catID,
		&catName,
		&catDesc,
		&catCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	purchase.Notes = notes.String
	product.Description = prodDesc.String
	product.Brand = prodBrand.String

	if catID != nil {
		product.Category = &domain.Category{
			ID:          *catID,
			Name:        catName.String,
			Description: catDesc.String,
			CreatedAt:   catCreatedAt.Time,
		}
	}

	purchase.Product = product
	return purchase, nil
}
