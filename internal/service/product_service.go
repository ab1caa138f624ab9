package service

import (
	"context"
	"fmt"
	"time"

	"mon-pannier/internal/domain"
	"mon-pannier/internal/repository"

	"github.com/google/uuid"
)

// CreateProductInput carries the fields for a new product
type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	CategoryID  *uuid.UUID
}

// UpdateProductInput carries a partial product update. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Brand       *string
	CategoryID  *uuid.UUID
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product after checking that the referenced
// category exists when one is supplied
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := s.checkCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Brand:       input.Brand,
		CategoryID:  input.CategoryID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.productRepo.FindByID(ctx, product.ID)
}

// Update applies a partial update to an existing product. The referenced
// category is re-checked only when the update supplies one.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.checkCategoryExists(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.productRepo.FindByID(ctx, id)
}

// Delete removes a product by ID
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List retrieves products ordered by name, optionally filtered by category
func (s *productService) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, categoryID)
}

// checkCategoryExists rejects a supplied category ID that resolves to nothing
func (s *productService) checkCategoryExists(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	_, err := s.categoryRepo.FindByID(ctx, *categoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return NewValidationError("category with ID %s not found", categoryID)
		}
		return fmt.Errorf("failed to check category: %w", err)
	}

	return nil
}
