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
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, brand, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, brand = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Brand,
		product.CategoryID,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID, with its category attached when set
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.brand, p.category_id, p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.created_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products ordered by name, optionally filtered by category
func (r *productRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.brand, p.category_id, p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.created_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
	`
	args := []interface{}{}

	if categoryID != nil {
		query += " WHERE p.category_id = $1"
		args = append(args, *categoryID)
	}

	query += " ORDER BY p.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct scans a product row joined with its optional category
func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		description  sql.NullString
		brand        sql.NullString
		catID        *uuid.UUID
		catName      sql.NullString
		catDesc      sql.NullString
		catCreatedAt sql.NullTime
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&description,
		&brand,
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

	product.Description = description.String
	product.Brand = brand.String

	if catID != nil {
		product.Category = &domain.Category{
			ID:          *catID,
			Name:        catName.String,
			Description: catDesc.String,
			CreatedAt:   catCreatedAt.Time,
		}
	}

	return product, nil
}
