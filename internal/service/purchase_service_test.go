package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mon-pannier/internal/domain"
	"mon-pannier/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mock repositories for testing
type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

type mockPurchaseRepository struct {
	purchases map[uuid.UUID]*domain.Purchase
}

func newMockPurchaseRepository() *mockPurchaseRepository {
	return &mockPurchaseRepository{
		purchases: make(map[uuid.UUID]*domain.Purchase),
	}
}

func (m *mockPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	copied := *purchase
	m.purchases[purchase.ID] = &copied
	return nil
}

func (m *mockPurchaseRepository) Update(ctx context.Context, purchase *domain.Purchase) error {
	if _, exists := m.purchases[purchase.ID]; !exists {
		return repository.ErrPurchaseNotFound
	}
	copied := *purchase
	m.purchases[purchase.ID] = &copied
	return nil
}

func (m *mockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.purchases[id]; !exists {
		return repository.ErrPurchaseNotFound
	}
	delete(m.purchases, id)
	return nil
}

func (m *mockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	purchase, exists := m.purchases[id]
	if !exists {
		return nil, repository.ErrPurchaseNotFound
	}
	copied := *purchase
	return &copied, nil
}

func (m *mockPurchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	purchases := []*domain.Purchase{}
	for _, p := range m.purchases {
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func (m *mockPurchaseRepository) TopProduct(ctx context.Context) (*domain.TopProduct, error) {
	if len(m.purchases) == 0 {
		return nil, repository.ErrNoPurchases
	}
	return &domain.TopProduct{}, nil
}

func (m *mockPurchaseRepository) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	summary := &domain.FinancialSummary{Currency: "EUR"}
	for _, p := range m.purchases {
		summary.TotalAmount += p.Price
		summary.PurchaseCount++
	}
	return summary, nil
}

func newTestPurchaseService(t *testing.T) (PurchaseService, *mockPurchaseRepository, *mockProductRepository, uuid.UUID) {
	t.Helper()

	purchaseRepo := newMockPurchaseRepository()
	productRepo := newMockProductRepository()

	product := &domain.Product{
		ID:        uuid.New(),
		Name:      "Riz parfumé",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := productRepo.Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return NewPurchaseService(purchaseRepo, productRepo), purchaseRepo, productRepo, product.ID
}

func TestProperty_PositivePriceIsAccepted(t *testing.T) {
	svc, _, _, productID := newTestPurchaseService(t)

	properties := gopter.NewProperties(nil)

	properties.Property("any purchase with a positive price and a past date is created", prop.ForAll(
		func(price float64, daysAgo int) bool {
			purchase, err := svc.Create(context.Background(), CreatePurchaseInput{
				ProductID:    productID,
				Price:        price,
				PurchaseDate: time.Now().AddDate(0, 0, -daysAgo),
			})
			if err != nil {
				t.Logf("FAIL: expected creation to succeed, got %v", err)
				return false
			}
			return purchase.Price == price
		},
		gen.Float64Range(0.01, 1_000_000),
		gen.IntRange(0, 365),
	))

	properties.TestingRun(t)
}

func TestProperty_NonPositivePriceIsRejected(t *testing.T) {
	svc, purchaseRepo, _, productID := newTestPurchaseService(t)

	properties := gopter.NewProperties(nil)

	properties.Property("any purchase with a non-positive price is rejected", prop.ForAll(
		func(price float64) bool {
			_, err := svc.Create(context.Background(), CreatePurchaseInput{
				ProductID:    productID,
				Price:        price,
				PurchaseDate: time.Now(),
			})
			if !errors.Is(err, ErrNonPositivePrice) {
				t.Logf("FAIL: expected ErrNonPositivePrice for price %f, got %v", price, err)
				return false
			}
			// Validation happens before persistence: no partial writes
			return len(purchaseRepo.purchases) == 0
		},
		gen.Float64Range(-1_000_000, 0),
	))

	properties.TestingRun(t)
}

func TestCreate_TodayIsAlwaysAccepted(t *testing.T) {
	svc, _, _, productID := newTestPurchaseService(t)

	// A purchase dated today must be valid regardless of submission time,
	// including late in the evening
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		ProductID:    productID,
		Price:        9.5,
		PurchaseDate: today,
	})
	if err != nil {
		t.Fatalf("purchase dated today was rejected: %v", err)
	}
}

func TestCreate_TomorrowIsRejected(t *testing.T) {
	svc, _, _, productID := newTestPurchaseService(t)

	tomorrow := time.Now().AddDate(0, 0, 1)

	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		ProductID:    productID,
		Price:        9.5,
		PurchaseDate: tomorrow,
	})
	if !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestCreate_UnknownProductIsRejected(t *testing.T) {
	svc, _, _, _ := newTestPurchaseService(t)

	unknownID := uuid.New()
	_, err := svc.Create(context.Background(), CreatePurchaseInput{
		ProductID:    unknownID,
		Price:        5,
		PurchaseDate: time.Now(),
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if want := "product with ID " + unknownID.String() + " not found"; validationErr.Message != want {
		t.Errorf("expected message %q, got %q", want, validationErr.Message)
	}
}

func TestUpdate_NotesOnlyPreservesOtherFields(t *testing.T) {
	svc, _, _, productID := newTestPurchaseService(t)

	purchaseDate := time.Now().AddDate(0, 0, -3)
	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		ProductID:    productID,
		Price:        42.5,
		PurchaseDate: purchaseDate,
		Notes:        "promo",
	})
	if err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}

	notes := "acheté au marché"
	updated, err := svc.Update(context.Background(), created.ID, UpdatePurchaseInput{
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("failed to update purchase: %v", err)
	}

	if updated.Notes != notes {
		t.Errorf("expected notes %q, got %q", notes, updated.Notes)
	}
	if updated.Price != created.Price {
		t.Errorf("price changed from %f to %f", created.Price, updated.Price)
	}
	if !updated.PurchaseDate.Equal(created.PurchaseDate) {
		t.Errorf("purchase date changed from %v to %v", created.PurchaseDate, updated.PurchaseDate)
	}
	if updated.ProductID != created.ProductID {
		t.Errorf("product changed from %s to %s", created.ProductID, updated.ProductID)
	}
}

func TestUpdate_ValidatesOnlySuppliedFields(t *testing.T) {
	svc, purchaseRepo, _, productID := newTestPurchaseService(t)

	created, err := svc.Create(context.Background(), CreatePurchaseInput{
		ProductID:    productID,
		Price:        10,
		PurchaseDate: time.Now().AddDate(0, 0, -1),
	})
	if err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}

	badPrice := -1.0
	if _, err := svc.Update(context.Background(), created.ID, UpdatePurchaseInput{Price: &badPrice}); !errors.Is(err, ErrNonPositivePrice) {
		t.Fatalf("expected ErrNonPositivePrice, got %v", err)
	}

	badDate := time.Now().AddDate(0, 0, 2)
	if _, err := svc.Update(context.Background(), created.ID, UpdatePurchaseInput{PurchaseDate: &badDate}); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}

	// Rejected updates leave the stored purchase untouched
	stored, err := purchaseRepo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("failed to reload purchase: %v", err)
	}
	if stored.Price != 10 {
		t.Errorf("expected stored price 10, got %f", stored.Price)
	}
}

func TestUpdate_UnknownPurchaseReturnsNotFound(t *testing.T) {
	svc, _, _, _ := newTestPurchaseService(t)

	notes := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdatePurchaseInput{Notes: &notes})
	if !errors.Is(err, repository.ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
}

func TestTopProduct_EmptyStoreSignalsNotFound(t *testing.T) {
	svc, _, _, _ := newTestPurchaseService(t)

	_, err := svc.TopProduct(context.Background())
	if !errors.Is(err, repository.ErrNoPurchases) {
		t.Fatalf("expected ErrNoPurchases, got %v", err)
	}
}

func TestFinancialSummary_EmptyStoreIsZero(t *testing.T) {
	svc, _, _, _ := newTestPurchaseService(t)

	summary, err := svc.FinancialSummary(context.Background())
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.TotalAmount != 0 || summary.PurchaseCount != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}
