package service

import (
	"context"
	"fmt"
	"time"

	"mon-pannier/internal/domain"
	"mon-pannier/internal/repository"

	"github.com/google/uuid"
)

// CreatePurchaseInput carries the fields for a new purchase
type CreatePurchaseInput struct {
	ProductID    uuid.UUID
	Price        float64
	PurchaseDate time.Time
	Notes        string
}

// UpdatePurchaseInput carries a partial purchase update. Nil fields are
// left unchanged and are not re-validated.
type UpdatePurchaseInput struct {
	ProductID    *uuid.UUID
	Price        *float64
	PurchaseDate *time.Time
	Notes        *string
}

// PurchaseService defines the interface for purchase business logic
type PurchaseService interface {
	Create(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePurchaseInput) (*domain.Purchase, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	List(ctx context.Context) ([]*domain.Purchase, error)
	TopProduct(ctx context.Context) (*domain.TopProduct, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	now          func() time.Time
}

// NewPurchaseService creates a new instance of PurchaseService
func NewPurchaseService(purchaseRepo repository.PurchaseRepository, productRepo repository.ProductRepository) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		now:          time.Now,
	}
}

// Create validates and creates a new purchase. All rules are checked
// before any write: the price must be positive, the date must not be in
// the future and the referenced product must exist.
func (s *purchaseService) Create(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error) {
	if input.Price <= 0 {
		return nil, ErrNonPositivePrice
	}
	if err := s.checkNotFuture(input.PurchaseDate); err != nil {
		return nil, err
	}
	if err := s.checkProductExists(ctx, input.ProductID); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		ID:           uuid.New(),
		ProductID:    input.ProductID,
		Price:        input.Price,
		PurchaseDate: input.PurchaseDate,
		Notes:        input.Notes,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	return s.purchaseRepo.FindByID(ctx, purchase.ID)
}

// Update applies a partial update to an existing purchase. Business rules
// are evaluated only for the fields actually supplied.
func (s *purchaseService) Update(ctx context.Context, id uuid.UUID, input UpdatePurchaseInput) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, ErrNonPositivePrice
		}
		purchase.Price = *input.Price
	}
	if input.PurchaseDate != nil {
		if err := s.checkNotFuture(*input.PurchaseDate); err != nil {
			return nil, err
		}
		purchase.PurchaseDate = *input.PurchaseDate
	}
	if input.ProductID != nil {
		if err := s.checkProductExists(ctx, *input.ProductID); err != nil {
			return nil, err
		}
		purchase.ProductID = *input.ProductID
	}
	if input.Notes != nil {
		purchase.Notes = *input.Notes
	}
	purchase.UpdatedAt = s.now()

	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		if err == repository.ErrPurchaseNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}

	return s.purchaseRepo.FindByID(ctx, id)
}

// Delete removes a purchase by ID
func (s *purchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrPurchaseNotFound {
			return err
		}
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase by ID
func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	return s.purchaseRepo.FindByID(ctx, id)
}

// List retrieves all purchases, most recent first
func (s *purchaseService) List(ctx context.Context) ([]*domain.Purchase, error) {
	return s.purchaseRepo.List(ctx)
}

// TopProduct returns the most purchased product. A store with no purchases
// yields repository.ErrNoPurchases, not a zero result.
func (s *purchaseService) TopProduct(ctx context.Context) (*domain.TopProduct, error) {
	return s.purchaseRepo.TopProduct(ctx)
}

// FinancialSummary returns the aggregate total and count over all purchases
func (s *purchaseService) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	return s.purchaseRepo.FinancialSummary(ctx)
}

// checkNotFuture rejects purchase dates after the end of the current day.
// Comparing against 23:59:59.999 of today keeps a purchase dated today
// valid regardless of the time of submission.
func (s *purchaseService) checkNotFuture(purchaseDate time.Time) error {
	now := s.now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999_000_000, now.Location())
	if purchaseDate.After(endOfToday) {
		return ErrFutureDate
	}
	return nil
}

// checkProductExists rejects a product ID that resolves to nothing
func (s *purchaseService) checkProductExists(ctx context.Context, productID uuid.UUID) error {
	_, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return NewValidationError("product with ID %s not found", productID)
		}
		return fmt.Errorf("failed to check product: %w", err)
	}
	return nil
}
