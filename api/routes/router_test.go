package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/internal/categories"
	"github.com/rakaputra/warungpos-backend/internal/customers"
	"github.com/rakaputra/warungpos-backend/internal/items"
	"github.com/rakaputra/warungpos-backend/internal/orders"
	"github.com/rakaputra/warungpos-backend/internal/products"
	"github.com/rakaputra/warungpos-backend/internal/purchases"
	"github.com/rakaputra/warungpos-backend/internal/suppliers"
	"github.com/rakaputra/warungpos-backend/internal/users"
	pkgauth "github.com/rakaputra/warungpos-backend/pkg/auth"
	"github.com/rakaputra/warungpos-backend/pkg/config"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

func (stubOrdersService) Update(ctx context.Context, input orders.UpdateInput) (*models.Order, error) {
	return &models.Order{ID: input.OrderID}, nil
}

func (stubOrdersService) SoftDelete(ctx context.Context, orderID uuid.UUID) error {
	return nil
}

func (stubOrdersService) Restore(ctx context.Context, orderID uuid.UUID) error {
	return nil
}

func (stubOrdersService) ForceDelete(ctx context.Context, orderID uuid.UUID) error {
	return nil
}

func (stubOrdersService) AddPayment(ctx context.Context, input orders.PaymentInput) error {
	return nil
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID}, nil
}

func (stubOrdersService) List(ctx context.Context, filter orders.ListFilter) ([]models.Order, error) {
	return nil, nil
}

type stubPurchasesService struct{}

func (stubPurchasesService) Create(ctx context.Context, input purchases.CreateInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{ID: uuid.New()}, nil
}

func (stubPurchasesService) Update(ctx context.Context, input purchases.UpdateInput) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{ID: input.PurchaseID}, nil
}

func (stubPurchasesService) Get(ctx context.Context, purchaseID uuid.UUID) (*models.PurchaseOrder, error) {
	return &models.PurchaseOrder{ID: purchaseID}, nil
}

func (stubPurchasesService) List(ctx context.Context, filter purchases.ListFilter) ([]models.PurchaseOrder, error) {
	return nil, nil
}

func (stubPurchasesService) AddLine(ctx context.Context, input purchases.LineInput) (*models.PurchaseLine, error) {
	return &models.PurchaseLine{ID: uuid.New()}, nil
}

func (stubPurchasesService) UpdateLine(ctx context.Context, input purchases.UpdateLineInput) (*models.PurchaseLine, error) {
	return &models.PurchaseLine{ID: input.LineID}, nil
}

func (stubPurchasesService) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) Create(ctx context.Context, input products.CreateInput) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}

func (stubProductsService) Update(ctx context.Context, input products.UpdateInput) (*models.Product, error) {
	return &models.Product{ID: input.ProductID}, nil
}

func (stubProductsService) Delete(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubProductsService) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return &models.Product{ID: productID}, nil
}

func (stubProductsService) List(ctx context.Context, filter products.ListFilter) ([]models.Product, error) {
	return nil, nil
}

func (stubProductsService) SetComponents(ctx context.Context, productID uuid.UUID, components []products.ComponentInput) (*models.Product, error) {
	return &models.Product{ID: productID}, nil
}

type stubItemsService struct{}

func (stubItemsService) Create(ctx context.Context, input items.CreateInput) (*models.Item, error) {
	return &models.Item{ID: uuid.New()}, nil
}

func (stubItemsService) Update(ctx context.Context, input items.UpdateInput) (*models.Item, error) {
	return &models.Item{ID: input.ItemID}, nil
}

func (stubItemsService) Delete(ctx context.Context, itemID uuid.UUID) error {
	return nil
}

func (stubItemsService) Get(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	return &models.Item{ID: itemID}, nil
}

func (stubItemsService) List(ctx context.Context, filter items.ListFilter) ([]models.Item, error) {
	return nil, nil
}

type stubCategoriesService struct{}

func (stubCategoriesService) Create(ctx context.Context, input categories.CreateInput) (*models.Category, error) {
	return &models.Category{ID: uuid.New()}, nil
}

func (stubCategoriesService) Update(ctx context.Context, input categories.UpdateInput) (*models.Category, error) {
	return &models.Category{ID: input.CategoryID}, nil
}

func (stubCategoriesService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	return nil
}

func (stubCategoriesService) Get(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	return &models.Category{ID: categoryID}, nil
}

func (stubCategoriesService) List(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

type stubSuppliersService struct{}

func (stubSuppliersService) Create(ctx context.Context, input suppliers.CreateInput) (*models.Supplier, error) {
	return &models.Supplier{ID: uuid.New()}, nil
}

func (stubSuppliersService) Update(ctx context.Context, input suppliers.UpdateInput) (*models.Supplier, error) {
	return &models.Supplier{ID: input.SupplierID}, nil
}

func (stubSuppliersService) Delete(ctx context.Context, supplierID uuid.UUID) error {
	return nil
}

func (stubSuppliersService) Get(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	return &models.Supplier{ID: supplierID}, nil
}

func (stubSuppliersService) List(ctx context.Context) ([]models.Supplier, error) {
	return nil, nil
}

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateInput) (*models.Customer, error) {
	return &models.Customer{ID: uuid.New()}, nil
}

func (stubCustomersService) Update(ctx context.Context, input customers.UpdateInput) (*models.Customer, error) {
	return &models.Customer{ID: input.CustomerID}, nil
}

func (stubCustomersService) Delete(ctx context.Context, customerID uuid.UUID) error {
	return nil
}

func (stubCustomersService) Get(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	return &models.Customer{ID: customerID}, nil
}

func (stubCustomersService) List(ctx context.Context, search string) ([]models.Customer, error) {
	return nil, nil
}

type stubUsersService struct{}

func (stubUsersService) Create(ctx context.Context, input users.CreateInput) (*models.User, error) {
	return &models.User{ID: uuid.New()}, nil
}

func (stubUsersService) Update(ctx context.Context, input users.UpdateInput) (*models.User, error) {
	return &models.User{ID: input.UserID}, nil
}

func (stubUsersService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return nil
}

func (stubUsersService) Login(ctx context.Context, email, password string) (*users.LoginResult, error) {
	return &users.LoginResult{User: &models.User{ID: uuid.New()}}, nil
}

func (stubUsersService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return &models.User{ID: userID}, nil
}

func (stubUsersService) List(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

type stubReportsService struct{}

func (stubReportsService) SummaryForDate(ctx context.Context, date time.Time) (*models.DailySummary, error) {
	return &models.DailySummary{ID: uuid.New(), ReportDate: date}, nil
}

func (stubReportsService) SummaryRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	return nil, nil
}

func (stubReportsService) SnapshotsForDate(ctx context.Context, date time.Time) ([]models.OrderSnapshot, error) {
	return nil, nil
}

func (stubReportsService) ExportSummariesCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	return []byte("report_date\n"), nil
}

func (stubReportsService) ExportSummariesXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	return []byte{0x50, 0x4b}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		nil,
		Services{
			Orders:     stubOrdersService{},
			Purchases:  stubPurchasesService{},
			Products:   stubProductsService{},
			Items:      stubItemsService{},
			Categories: stubCategoriesService{},
			Suppliers:  stubSuppliersService{},
			Customers:  stubCustomersService{},
			Users:      stubUsersService{},
			Reports:    stubReportsService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/orders", "/api/v1/products", "/api/v1/reports/summary"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token got %d", path, resp.Code)
		}
	}
}

func TestProtectedRouteSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for order list got %d", resp.Code)
	}
}

func TestUsersGroupRequiresElevatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	cashier := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	cashier.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, cashier)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier got %d", resp.Code)
	}

	manager := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager got %d", resp.Code)
	}
}

func TestOrderPurgeRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/orders/" + uuid.NewString() + "/purge"

	cashier := httptest.NewRequest(http.MethodDelete, target, nil)
	cashier.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, cashier)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier purge got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin purge got %d", resp.Code)
	}
}

func TestReportsSummaryWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary?date=2026-08-31", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleManager))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for summary got %d", resp.Code)
	}
}
