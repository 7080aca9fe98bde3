package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domappointment "example.com/storefront/internal/domain/appointment"
	domcategory "example.com/storefront/internal/domain/category"
	"example.com/storefront/internal/domain/listing"
	domproduct "example.com/storefront/internal/domain/product"
	domstore "example.com/storefront/internal/domain/store"
	domtour "example.com/storefront/internal/domain/tour"
	"example.com/storefront/internal/infra/fallback"
	"example.com/storefront/internal/infra/security"
	appointmentuc "example.com/storefront/internal/usecase/appointment"
	authuc "example.com/storefront/internal/usecase/auth"
	categoryuc "example.com/storefront/internal/usecase/category"
	productuc "example.com/storefront/internal/usecase/product"
	storeuc "example.com/storefront/internal/usecase/store"
	touruc "example.com/storefront/internal/usecase/tour"
)

const testSecret = "test-secret"

type mockProductRepository struct {
	products  []*domproduct.Product
	searchErr error
}

func (m *mockProductRepository) List(ctx context.Context, filter domproduct.Filter) ([]*domproduct.Product, int, error) {
	matched := []*domproduct.Product{}
	for _, p := range m.products {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	domproduct.Sort(matched, filter.SortBy, filter.SortOrder)
	return listing.Slice(matched, filter.Page), len(matched), nil
}

func (m *mockProductRepository) Facets(ctx context.Context) (domproduct.Facets, error) {
	f := domproduct.Facets{Brands: []string{}, Forms: []string{}}
	for i, p := range m.products {
		if p.Brand != nil {
			f.Brands = append(f.Brands, *p.Brand)
		}
		if p.Form != nil {
			f.Forms = append(f.Forms, *p.Form)
		}
		if i == 0 || p.Price < f.PriceRange.Min {
			f.PriceRange.Min = p.Price
		}
		if p.Price > f.PriceRange.Max {
			f.PriceRange.Max = p.Price
		}
	}
	return f, nil
}

func (m *mockProductRepository) Search(ctx context.Context, q domproduct.SearchQuery) ([]*domproduct.Product, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return []*domproduct.Product{}, nil
}

func (m *mockProductRepository) Suggest(ctx context.Context, text string, limit int) ([]string, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return []string{}, nil
}

type mockCategoryRepository struct {
	categories []*domcategory.Category
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domcategory.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug && c.IsActive {
			return c, nil
		}
	}
	return nil, domcategory.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	out := []*domcategory.Category{}
	for _, c := range m.categories {
		if !filter.OnlyActive || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockStoreRepository struct {
	stores []*domstore.Store
}

func (m *mockStoreRepository) Find(ctx context.Context, filter domstore.Filter) ([]*domstore.Store, error) {
	out := []*domstore.Store{}
	for _, s := range m.stores {
		if filter.Matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStoreRepository) GetActiveByID(ctx context.Context, id int64) (*domstore.Store, error) {
	for _, s := range m.stores {
		if s.ID == id && s.IsActive {
			return s, nil
		}
	}
	return nil, domstore.ErrStoreNotFound
}

func (m *mockStoreRepository) Facets(ctx context.Context) (domstore.Facets, error) {
	return domstore.Facets{Cities: []string{"Москва", "Санкт-Петербург"}, Services: []string{"Доставка"}}, nil
}

type mockAppointmentRepository struct {
	mu     sync.Mutex
	items  []*domappointment.Appointment
	nextID int64
}

func (m *mockAppointmentRepository) Create(ctx context.Context, a *domappointment.Appointment) (*domappointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Status != domappointment.StatusCancelled && existing.Slot() == a.Slot() {
			return nil, domappointment.ErrSlotConflict
		}
	}
	m.nextID++
	created := *a
	created.ID = m.nextID
	created.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.items = append(m.items, &created)
	return &created, nil
}

func (m *mockAppointmentRepository) List(ctx context.Context, filter domappointment.ListFilter) ([]*domappointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domappointment.Appointment{}
	for _, a := range m.items {
		if filter.StoreID != nil && a.StoreID != *filter.StoreID {
			continue
		}
		if filter.Date != nil && a.Date != *filter.Date {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type mockTourRepository struct {
	tours []*domtour.Tour
}

func (m *mockTourRepository) List(ctx context.Context, filter domtour.Filter) ([]*domtour.Tour, int, error) {
	matched := []*domtour.Tour{}
	for _, t := range m.tours {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}
	domtour.Sort(matched, filter.SortBy, filter.SortOrder)
	return listing.Slice(matched, filter.Page), len(matched), nil
}

func (m *mockTourRepository) Facets(ctx context.Context) (domtour.Facets, error) {
	return domtour.Facets{
		Locations: []string{"Турция", "Египет"},
		TourTypes: []string{"Отель"},
		MealTypes: []string{"Всё включено"},
	}, nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

func ptr[T any](v T) *T { return &v }

type testEnv struct {
	products *mockProductRepository
	router   http.Handler
	tokens   *security.JWTService
}

type envOption func(*Dependencies)

func withSearchRate(perSecond float64, burst int) envOption {
	return func(d *Dependencies) {
		d.SearchRate = perSecond
		d.SearchBurst = burst
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	catalog, err := fallback.Load()
	require.NoError(t, err)

	products := &mockProductRepository{products: seedProducts()}
	categories := &mockCategoryRepository{categories: seedCategories()}
	stores := &mockStoreRepository{stores: seedStores()}
	tokens := security.NewJWTService(testSecret, time.Hour)

	deps := Dependencies{
		ProductService: productuc.NewService(productuc.Dependencies{
			Repository: products,
			Categories: categories,
			Fallback:   catalog,
		}),
		CategoryService:    categoryuc.NewService(categories),
		StoreService:       storeuc.NewService(stores),
		AppointmentService: appointmentuc.NewService(&mockAppointmentRepository{}, stores),
		TourService:        touruc.NewService(&mockTourRepository{tours: seedTours()}),
		AuthService:        authuc.NewService(tokens),
		DB:                 mockPinger{},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testEnv{
		products: products,
		router:   NewAPI(deps).Router(),
		tokens:   tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, target, nil, nil)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func seedCategories() []*domcategory.Category {
	return []*domcategory.Category{
		{ID: 1, Name: "Лекарственные препараты", Slug: "medicines", IsActive: true},
		{ID: 2, Name: "Витамины и БАДы", Slug: "vitamins", IsActive: true},
		{ID: 3, Name: "Обезболивающие", Slug: "painkillers", ParentID: ptr(int64(1)), IsActive: true},
		{ID: 4, Name: "Архив", Slug: "archive", IsActive: false},
	}
}

func seedProducts() []*domproduct.Product {
	medicines := domproduct.CategoryRef{ID: 1, Name: "Лекарственные препараты", Slug: "medicines"}
	vitamins := domproduct.CategoryRef{ID: 2, Name: "Витамины и БАДы", Slug: "vitamins"}
	return []*domproduct.Product{
		{ID: 1, Name: "Парацетамол 500мг", Slug: "paracetamol-500mg", Price: 89.5, OldPrice: ptr(120.0),
			Category: medicines, Brand: ptr("Фармстандарт"), Form: ptr("Таблетки"), InStock: true, Rating: 4.5},
		{ID: 2, Name: "Витамин D3 2000 МЕ", Slug: "vitamin-d3-2000", Price: 450,
			Category: vitamins, Brand: ptr("Solgar"), Form: ptr("Капсулы"), InStock: true, Rating: 4.8},
		{ID: 3, Name: "Тонометр", Slug: "tonometer", Price: 100000, OldPrice: ptr(230000.0),
			Category: medicines, Brand: ptr("Omron"), InStock: false, Rating: 4.7},
		{ID: 4, Name: "Ибупрофен 400мг", Slug: "ibuprofen-400mg", Price: 125, OldPrice: ptr(125.0),
			Category: medicines, Form: ptr("Таблетки"), InStock: true, PrescriptionRequired: true, Rating: 4.4},
	}
}

func seedStores() []*domstore.Store {
	return []*domstore.Store{
		{ID: 1, Name: "ЭкоЛайф на Тверской", Address: "ул. Тверская, 15", City: "Москва",
			Latitude: ptr(55.7558), Longitude: ptr(37.6176), Phone: ptr("+7 (495) 123-45-67"),
			WorkingHours: json.RawMessage(`{"mon":"08:00-22:00"}`),
			Services:     []string{"Доставка"}, HasParking: true, IsActive: true},
		{ID: 2, Name: "ЭкоЛайф Центральная", Address: "Невский пр., 28", City: "Санкт-Петербург",
			Latitude: ptr(59.9311), Longitude: ptr(30.3609), Is24h: true, IsActive: true},
		{ID: 3, Name: "ЭкоЛайф на Арбате", Address: "ул. Арбат, 10", City: "Москва",
			Latitude: ptr(55.7520), Longitude: ptr(37.5924), IsActive: true},
		{ID: 4, Name: "ЭкоЛайф Сокольники", Address: "ул. Сокольническая, 3", City: "Москва",
			Latitude: ptr(55.7887), Longitude: ptr(37.6693), IsActive: true},
		{ID: 5, Name: "ЭкоЛайф закрыта", City: "Москва", Latitude: ptr(55.7558), Longitude: ptr(37.6176)},
	}
}

func seedTours() []*domtour.Tour {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return []*domtour.Tour{
		{ID: 1, Title: "Анталья", Slug: "antalya", Location: "Турция", Price: 80000, OriginalPrice: ptr(100000.0),
			DurationDays: 4, TourType: "Отель", MealType: "Всё включено", MaxGuests: 4, Rating: 4.6,
			AvailableFrom: &from, AvailableTo: &to},
		{ID: 2, Title: "Хургада", Slug: "hurghada", Location: "Египет", Price: 60000,
			DurationDays: 7, TourType: "Отель", MealType: "Всё включено", MaxGuests: 2, Rating: 4.2},
		{ID: 3, Title: "Кемер", Slug: "kemer", Location: "Турция", Price: 95000,
			DurationDays: 12, TourType: "Вилла", MealType: "Завтрак", MaxGuests: 6, Rating: 4.9},
	}
}
