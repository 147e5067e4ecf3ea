package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promonitor/storefront/internal/auth"
	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
	"github.com/promonitor/storefront/internal/orders"
	product "github.com/promonitor/storefront/internal/products"
	"github.com/promonitor/storefront/internal/uploads"
	pkgAuth "github.com/promonitor/storefront/pkg/auth"
	"github.com/promonitor/storefront/pkg/auth/session"
	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/db/dbtest"
	"github.com/promonitor/storefront/pkg/enums"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRedis struct {
	allow bool
}

func (stubRedis) Ping(context.Context) error { return nil }

func (s stubRedis) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	if s.allow {
		return true, 1, nil
	}
	return false, 99, nil
}

type stubSessionManager struct {
	live bool
}

func (s stubSessionManager) HasSession(context.Context, string) (bool, error) { return s.live, nil }

func (stubSessionManager) Rotate(context.Context, string, string) (string, string, error) {
	return "", "", session.ErrInvalidRefreshToken
}

func (stubSessionManager) Revoke(context.Context, string) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "a", RefreshToken: "r", Admin: &auth.AdminDTO{ID: 1}}, nil
}

func (stubAuthService) EnsureAdmin(context.Context, string, string) (bool, error) { return false, nil }

type stubCatalog struct{}

func (stubCatalog) Sync(context.Context) catalog.Result { return catalog.Result{OK: true, Count: 3} }

func (stubCatalog) CollectionProducts(context.Context, string) catalog.CollectionResult {
	return catalog.CollectionResult{Disabled: true}
}

type stubCart struct{}

func (stubCart) Get(context.Context, string) (*cart.View, error) { return &cart.View{}, nil }

func (stubCart) Add(context.Context, string, uint, int) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) Update(context.Context, string, map[uint]int) (*cart.View, error) {
	return &cart.View{}, nil
}

func (stubCart) Remove(context.Context, string, uint) (*cart.View, error) { return &cart.View{}, nil }

func (stubCart) Items(context.Context, string) ([]cart.Item, error) { return nil, nil }

func (stubCart) Clear(context.Context, string) error { return nil }

type stubOrders struct{}

func (stubOrders) Checkout(context.Context, string, orders.CheckoutInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: 1}, nil
}

func (stubOrders) Get(context.Context, uint) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: 1}, nil
}

func (stubOrders) List(context.Context) ([]orders.OrderDTO, error) { return nil, nil }

func (stubOrders) Dashboard(context.Context) (*orders.DashboardDTO, error) {
	return &orders.DashboardDTO{}, nil
}

var testJWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "storefront-test", ExpirationMinutes: 15}

type routerFixture struct {
	handler   http.Handler
	uploadDir string
}

func newRouterFixture(t *testing.T, redisAllow, sessionLive bool, opts ...func(*config.Config)) routerFixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := dbtest.New(t)

	store, err := content.NewStore(client.DB(), logg)
	require.NoError(t, err)
	require.NoError(t, store.Ensure(context.Background()))

	products, err := product.NewService(product.NewRepository(client.DB()), client, logg)
	require.NoError(t, err)

	dir := t.TempDir()
	storage, err := uploads.NewStorage(config.UploadsConfig{Dir: dir, PublicPrefix: "/uploads", MaxBytes: 1 << 20, MaxGallery: 2})
	require.NoError(t, err)

	cfg := &config.Config{
		App:           config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		JWT:           testJWT,
		AuthRateLimit: config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginEmailLimit: 5, LoginIPLimit: 20},
		Uploads:       config.UploadsConfig{Dir: dir, PublicPrefix: "/uploads", MaxBytes: 1 << 20, MaxGallery: 2},
		Cart:          config.CartConfig{TTL: time.Hour},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := NewRouter(cfg, logg, metrics.NewRegistry(), stubPinger{}, stubRedis{allow: redisAllow},
		stubSessionManager{live: sessionLive}, stubAuthService{}, store, products, stubCatalog{},
		storage, stubCart{}, stubOrders{})
	return routerFixture{handler: handler, uploadDir: dir}
}

func (f routerFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: 1,
		Email:   "admin@promonitor.no",
		Role:    enums.AdminRoleAdmin,
		JTI:     session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func TestCartCookieSecureInProd(t *testing.T) {
	cookieFor := func(f routerFixture) *http.Cookie {
		rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		return cookies[0]
	}

	assert.False(t, cookieFor(newRouterFixture(t, true, true)).Secure)

	prod := newRouterFixture(t, true, true, func(cfg *config.Config) { cfg.App.Env = config.AppEnvProd })
	assert.True(t, cookieFor(prod).Secure)
}

func TestPublicRoutes(t *testing.T) {
	f := newRouterFixture(t, true, true)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Result().Cookies())

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/content", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hero"`)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/collections/dual-monitor", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"catalog"`)
}

func TestMetricsEndpointReportsRoutes(t *testing.T) {
	f := newRouterFixture(t, true, true)
	f.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUploadsAreServed(t *testing.T) {
	f := newRouterFixture(t, true, true)
	require.NoError(t, os.WriteFile(filepath.Join(f.uploadDir, "hero.txt"), []byte("hei"), 0o644))

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/uploads/hero.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hei", rec.Body.String())
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t, true, true)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = f.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/catalog/sync", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = f.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestAdminRoutesRejectRevokedSession(t *testing.T) {
	f := newRouterFixture(t, true, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := f.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	body := `{"email":"admin@promonitor.no","password":"hemmelig"}`

	f := newRouterFixture(t, true, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	f = newRouterFixture(t, false, true)
	rec = f.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRefreshWithoutTokenIsUnauthorized(t *testing.T) {
	f := newRouterFixture(t, true, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
