package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authcontrollers "github.com/rakaputra/warungpos-backend/api/controllers/auth"
	categorycontrollers "github.com/rakaputra/warungpos-backend/api/controllers/categories"
	customercontrollers "github.com/rakaputra/warungpos-backend/api/controllers/customers"
	itemcontrollers "github.com/rakaputra/warungpos-backend/api/controllers/items"
	ordercontrollers "github.com/rakaputra/warungpos-backend/api/controllers/orders"
	productcontrollers "github.com/rakaputra/warungpos-backend/api/controllers/products"
	purchasecontrollers "github.com/rakaputra/warungpos-backend/api/controllers/purchases"
	reportcontrollers "github.com/rakaputra/warungpos-backend/api/controllers/reports"
	suppliercontrollers "github.com/rakaputra/warungpos-backend/api/controllers/suppliers"
	usercontrollers "github.com/rakaputra/warungpos-backend/api/controllers/users"
	"github.com/rakaputra/warungpos-backend/api/handlers"
	"github.com/rakaputra/warungpos-backend/api/middleware"
	"github.com/rakaputra/warungpos-backend/internal/categories"
	"github.com/rakaputra/warungpos-backend/internal/customers"
	"github.com/rakaputra/warungpos-backend/internal/items"
	"github.com/rakaputra/warungpos-backend/internal/orders"
	"github.com/rakaputra/warungpos-backend/internal/products"
	"github.com/rakaputra/warungpos-backend/internal/purchases"
	"github.com/rakaputra/warungpos-backend/internal/reports"
	"github.com/rakaputra/warungpos-backend/internal/suppliers"
	"github.com/rakaputra/warungpos-backend/internal/users"
	"github.com/rakaputra/warungpos-backend/pkg/config"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/metrics"
	"github.com/rakaputra/warungpos-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Orders     orders.Service
	Purchases  purchases.Service
	Products   products.Service
	Items      items.Service
	Categories categories.Service
	Suppliers  suppliers.Service
	Customers  customers.Service
	Users      users.Service
	Reports    reports.Service
}

// NewRouter assembles the HTTP surface of the back office.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP handlers.Pinger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HealthLive(cfg))
		r.Get("/ready", handlers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", authcontrollers.Login(svcs.Users, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/me", authcontrollers.Me(svcs.Users, logg))
		r.Post("/me/password", authcontrollers.ChangePassword(svcs.Users, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(svcs.Orders, logg))
			r.Post("/", ordercontrollers.Create(svcs.Orders, logg))
			r.Get("/{orderID}", ordercontrollers.Detail(svcs.Orders, logg))
			r.Patch("/{orderID}", ordercontrollers.Update(svcs.Orders, logg))
			r.Delete("/{orderID}", ordercontrollers.Delete(svcs.Orders, logg))
			r.Post("/{orderID}/restore", ordercontrollers.Restore(svcs.Orders, logg))
			r.Post("/{orderID}/payments", ordercontrollers.AddPayment(svcs.Orders, logg))

			r.With(middleware.RequireRole(logg, string(enums.UserRoleAdmin))).
				Delete("/{orderID}/purge", ordercontrollers.Purge(svcs.Orders, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", purchasecontrollers.List(svcs.Purchases, logg))
			r.Post("/", purchasecontrollers.Create(svcs.Purchases, logg))
			r.Get("/{purchaseID}", purchasecontrollers.Detail(svcs.Purchases, logg))
			r.Patch("/{purchaseID}", purchasecontrollers.Update(svcs.Purchases, logg))
			r.Post("/{purchaseID}/lines", purchasecontrollers.AddLine(svcs.Purchases, logg))
			r.Patch("/lines/{lineID}", purchasecontrollers.UpdateLine(svcs.Purchases, logg))
			r.Delete("/lines/{lineID}", purchasecontrollers.DeleteLine(svcs.Purchases, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productcontrollers.List(svcs.Products, logg))
			r.Post("/", productcontrollers.Create(svcs.Products, logg))
			r.Get("/{productID}", productcontrollers.Detail(svcs.Products, logg))
			r.Patch("/{productID}", productcontrollers.Update(svcs.Products, logg))
			r.Delete("/{productID}", productcontrollers.Delete(svcs.Products, logg))
			r.Put("/{productID}/components", productcontrollers.SetComponents(svcs.Products, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemcontrollers.List(svcs.Items, logg))
			r.Post("/", itemcontrollers.Create(svcs.Items, logg))
			r.Get("/{itemID}", itemcontrollers.Detail(svcs.Items, logg))
			r.Patch("/{itemID}", itemcontrollers.Update(svcs.Items, logg))
			r.Delete("/{itemID}", itemcontrollers.Delete(svcs.Items, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categorycontrollers.List(svcs.Categories, logg))
			r.Post("/", categorycontrollers.Create(svcs.Categories, logg))
			r.Get("/{categoryID}", categorycontrollers.Detail(svcs.Categories, logg))
			r.Patch("/{categoryID}", categorycontrollers.Update(svcs.Categories, logg))
			r.Delete("/{categoryID}", categorycontrollers.Delete(svcs.Categories, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", suppliercontrollers.List(svcs.Suppliers, logg))
			r.Post("/", suppliercontrollers.Create(svcs.Suppliers, logg))
			r.Get("/{supplierID}", suppliercontrollers.Detail(svcs.Suppliers, logg))
			r.Patch("/{supplierID}", suppliercontrollers.Update(svcs.Suppliers, logg))
			r.Delete("/{supplierID}", suppliercontrollers.Delete(svcs.Suppliers, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customercontrollers.List(svcs.Customers, logg))
			r.Post("/", customercontrollers.Create(svcs.Customers, logg))
			r.Get("/{customerID}", customercontrollers.Detail(svcs.Customers, logg))
			r.Patch("/{customerID}", customercontrollers.Update(svcs.Customers, logg))
			r.Delete("/{customerID}", customercontrollers.Delete(svcs.Customers, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reportcontrollers.Summary(svcs.Reports, logg))
			r.Get("/summary/range", reportcontrollers.SummaryRange(svcs.Reports, logg))
			r.Get("/snapshots", reportcontrollers.Snapshots(svcs.Reports, logg))
			r.Get("/export/csv", reportcontrollers.ExportCSV(svcs.Reports, logg))
			r.Get("/export/xlsx", reportcontrollers.ExportXLSX(svcs.Reports, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleManager)))
			r.Get("/", usercontrollers.List(svcs.Users, logg))
			r.Post("/", usercontrollers.Create(svcs.Users, logg))
			r.Get("/{userID}", usercontrollers.Detail(svcs.Users, logg))
			r.Patch("/{userID}", usercontrollers.Update(svcs.Users, logg))
		})
	})

	return r
}
