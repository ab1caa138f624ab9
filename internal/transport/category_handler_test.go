package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"mon-pannier/internal/domain"
	"mon-pannier/internal/repository"
	"mon-pannier/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) nameTaken(name string, exclude uuid.UUID) bool {
	for _, c := range m.categories {
		if c.Name == name && c.ID != exclude {
			return true
		}
	}
	return false
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.ID]; !exists {
		return repository.ErrCategoryNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrCategoryAlreadyExists
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func newCategoryRouter() (chi.Router, *mockCategoryRepository) {
	repo := newMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo), zap.NewNop())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCategoryCreate_DuplicateNameIsConflict(t *testing.T) {
	router, _ := newCategoryRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{
		"name": "Courses",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{
		"name": "Courses",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error.Code == "" {
		t.Error("expected a machine-readable error code in the envelope")
	}
}

func TestCategoryRename_ToTakenNameIsConflict(t *testing.T) {
	router, _ := newCategoryRouter()

	doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{"name": "Courses"})
	rec := doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{"name": "Loisirs"})

	var category domain.Category
	if err := json.NewDecoder(rec.Body).Decode(&category); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	rec = doJSON(t, router, http.MethodPatch, "/api/categories/"+category.ID.String(), map[string]interface{}{
		"name": "Courses",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCategoryCreate_MissingNameIsRejected(t *testing.T) {
	router, repo := newCategoryRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{
		"description": "sans nom",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(repo.categories) != 0 {
		t.Error("rejected category must not be persisted")
	}
}

func TestCategoryList_SortedByName(t *testing.T) {
	router, _ := newCategoryRouter()

	for _, name := range []string{"Loisirs", "Courses", "Transport"} {
		doJSON(t, router, http.MethodPost, "/api/categories", map[string]interface{}{"name": name})
	}

	rec := doJSON(t, router, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []domain.Category
	if err := json.NewDecoder(rec.Body).Decode(&categories); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []string{"Courses", "Loisirs", "Transport"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(categories))
	}
	for i, name := range want {
		if categories[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, categories[i].Name)
		}
	}
}

func TestCategoryDelete_UnknownIDIsNotFound(t *testing.T) {
	router, _ := newCategoryRouter()

	rec := doJSON(t, router, http.MethodDelete, "/api/categories/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
