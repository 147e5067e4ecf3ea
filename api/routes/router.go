package routes

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/promonitor/storefront/api/controllers"
	"github.com/promonitor/storefront/api/middleware"
	"github.com/promonitor/storefront/internal/auth"
	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
	"github.com/promonitor/storefront/internal/orders"
	product "github.com/promonitor/storefront/internal/products"
	"github.com/promonitor/storefront/pkg/auth/session"
	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/enums"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type redisStore interface {
	Ping(ctx context.Context) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type contentStore interface {
	Get(ctx context.Context) (content.Value, error)
	Save(ctx context.Context, doc content.Value) (content.Value, error)
	Meta(ctx context.Context) (content.Meta, error)
}

type catalogService interface {
	Sync(ctx context.Context) catalog.Result
	CollectionProducts(ctx context.Context, handle string) catalog.CollectionResult
}

type uploadStore interface {
	SaveFile(ctx context.Context, header *multipart.FileHeader) (string, error)
	Dir() string
	PublicPrefix() string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	dbP db.Pinger,
	redisClient redisStore,
	sessionManager sessionManager,
	authService auth.Service,
	contentService contentStore,
	productService product.Service,
	catalogService catalogService,
	uploadStorage uploadStore,
	cartService cart.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, metrics.NewHTTPMetrics(registry)),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	prefix := "/" + strings.Trim(uploadStorage.PublicPrefix(), "/")
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(uploadStorage.Dir()))))

	cartCfg := cfg.Cart
	if cfg.App.IsProd() {
		cartCfg.CookieSecure = true
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cartCfg, logg))

		r.Get("/content", controllers.GetContent(contentService, logg))
		r.Get("/products", controllers.ListProducts(productService, logg))
		r.Get("/products/{slug}", controllers.GetProduct(productService, logg))
		r.Get("/offers", controllers.ListOffers(productService, logg))
		r.Get("/collections", controllers.ListCollections(contentService, logg))
		r.Get("/collections/{handle}", controllers.GetCollection(contentService, catalogService, productService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items", controllers.UpdateCart(cartService, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(cartService, logg))
		})
		r.Post("/checkout", controllers.Checkout(orderService, logg))
		r.Get("/orders/{orderId}", controllers.GetOrderConfirmation(orderService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminLogin(authService, logg))
			r.Post("/refresh", controllers.AdminRefresh(sessionManager, cfg.JWT, logg))
			r.Post("/logout", controllers.AdminLogout(sessionManager, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Use(middleware.RequireRole(enums.AdminRoleAdmin, logg))

			r.Get("/dashboard", controllers.AdminDashboard(orderService, logg))

			r.Get("/content", controllers.AdminGetContent(contentService, logg))
			r.Put("/content", controllers.AdminSaveContent(contentService, logg))
			r.Post("/content/hero-image", controllers.AdminUploadHeroImage(contentService, uploadStorage, cfg.Uploads.MaxBytes, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(productService, logg))
				r.Post("/", controllers.AdminCreateProduct(productService, uploadStorage, cfg.Uploads, logg))
				r.Post("/reorder", controllers.AdminReorderProducts(productService, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(productService, logg))
				r.Put("/{productId}", controllers.AdminUpdateProduct(productService, uploadStorage, cfg.Uploads, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
				r.Delete("/{productId}/images/{imageId}", controllers.AdminDeleteProductImage(productService, logg))
			})

			r.Post("/catalog/sync", controllers.AdminSyncCatalog(catalogService, logg))

			r.Get("/orders", controllers.AdminListOrders(orderService, logg))
			r.Get("/orders/{orderId}", controllers.AdminGetOrder(orderService, logg))
		})
	})

	return r
}
