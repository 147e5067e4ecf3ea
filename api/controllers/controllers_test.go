package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promonitor/storefront/api/middleware"
	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
	"github.com/promonitor/storefront/internal/orders"
	product "github.com/promonitor/storefront/internal/products"
	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), stubPinger{}, stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Storefront-Env"))

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), stubPinger{}, stubPinger{err: errors.New("connection refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Contains(t, string(env.Error.Details), "redis")
}

type stubContent struct {
	doc   content.Value
	saved []content.Value
}

func newStubContent() *stubContent {
	return &stubContent{doc: content.Sanitize(content.Defaults())}
}

func (s *stubContent) Get(context.Context) (content.Value, error) { return s.doc, nil }

func (s *stubContent) Save(_ context.Context, doc content.Value) (content.Value, error) {
	s.doc = content.Sanitize(doc)
	s.saved = append(s.saved, doc)
	return s.doc, nil
}

func (s *stubContent) Meta(context.Context) (content.Meta, error) {
	return content.Meta{Version: int64(len(s.saved) + 1)}, nil
}

func TestAdminSaveContentRejectsNonObject(t *testing.T) {
	store := newStubContent()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/content", strings.NewReader(`{"content":[1,2]}`))
	rec := httptest.NewRecorder()
	AdminSaveContent(store, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.saved)
}

func TestAdminSaveContentStoresDocument(t *testing.T) {
	store := newStubContent()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/content", strings.NewReader(`{"content":{"brand":"ProMonitor Norge"}}`))
	rec := httptest.NewRecorder()
	AdminSaveContent(store, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.saved, 1)

	var payload struct {
		Content map[string]any `json:"content"`
		Meta    struct {
			Version int64 `json:"version"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	assert.Equal(t, "ProMonitor Norge", payload.Content["brand"])
	assert.Contains(t, payload.Content, "hero")
	assert.Equal(t, int64(2), payload.Meta.Version)
}

type stubImages struct {
	saved []string
	err   error
}

func (s *stubImages) SaveFile(_ context.Context, header *multipart.FileHeader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	path := "/uploads/" + header.Filename
	s.saved = append(s.saved, path)
	return path, nil
}

type formFile struct {
	field, name string
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files []formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminUploadHeroImage(t *testing.T) {
	store := newStubContent()
	images := &stubImages{}
	req := multipartRequest(t, http.MethodPost, "/api/admin/v1/content/hero-image", nil, []formFile{{"image", "hero.png"}})
	rec := httptest.NewRecorder()
	AdminUploadHeroImage(store, images, 2<<20, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	image, _ := store.doc.Path("hero", "image").AsString()
	assert.Equal(t, "/uploads/hero.png", image)
	title, _ := store.doc.Path("hero", "title").AsString()
	assert.NotEmpty(t, title)
}

func TestAdminUploadHeroImageRequiresFile(t *testing.T) {
	store := newStubContent()
	req := multipartRequest(t, http.MethodPost, "/api/admin/v1/content/hero-image", map[string]string{"x": "y"}, nil)
	rec := httptest.NewRecorder()
	AdminUploadHeroImage(store, &stubImages{}, 2<<20, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.saved)
}

type stubFeed struct {
	result catalog.CollectionResult
}

func (s stubFeed) CollectionProducts(context.Context, string) catalog.CollectionResult {
	return s.result
}

type stubCatalog struct {
	items []product.ProductDTO
}

func (s stubCatalog) ListPublic(context.Context) ([]product.ProductDTO, error) { return s.items, nil }

func (s stubCatalog) ListOffers(context.Context) ([]product.ProductDTO, error) { return s.items, nil }

func (s stubCatalog) GetBySlug(_ context.Context, slug string) (*product.ProductDTO, error) {
	for i := range s.items {
		if s.items[i].Slug == slug {
			return &s.items[i], nil
		}
	}
	return nil, errors.New("missing")
}

func getCollection(t *testing.T, feed stubFeed, handle string) collectionResponse {
	t.Helper()
	products := stubCatalog{items: []product.ProductDTO{{ID: 4, Name: "Egen", Slug: "egen", PriceCents: 100, PriceFormatted: "kr 1,00"}}}
	req := withParams(httptest.NewRequest(http.MethodGet, "/api/v1/collections/"+handle, nil), map[string]string{"handle": handle})
	rec := httptest.NewRecorder()
	GetCollection(newStubContent(), feed, products, testLogger()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp collectionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	return resp
}

func TestGetCollectionFromFeed(t *testing.T) {
	resp := getCollection(t, stubFeed{result: catalog.CollectionResult{OK: true, Products: []catalog.CollectionProduct{
		{ID: 11, Name: "Trippel", Slug: "trippel", PriceCents: 599000, ImagePath: "https://promonitor.no/a.jpg"},
	}}}, "triple-monitor")

	assert.Equal(t, "feed", resp.Source)
	assert.Equal(t, "Trippeloppsett", resp.Collection.Subtitle)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, int64(11), resp.Products[0].ID)
	assert.Empty(t, resp.ErrorMessage)
}

func TestGetCollectionFallsBackWithNotice(t *testing.T) {
	resp := getCollection(t, stubFeed{result: catalog.CollectionResult{Products: []catalog.CollectionProduct{}}}, "dual-monitor")

	assert.Equal(t, "catalog", resp.Source)
	assert.Equal(t, catalog.CollectionFallbackMessage, resp.ErrorMessage)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "egen", resp.Products[0].Slug)
}

func TestGetCollectionDisabledFeedHasNoNotice(t *testing.T) {
	resp := getCollection(t, stubFeed{result: catalog.CollectionResult{Disabled: true}}, "ukjent")

	assert.Equal(t, "catalog", resp.Source)
	assert.Empty(t, resp.ErrorMessage)
	assert.Equal(t, fallbackCollectionTitle, resp.Collection.Title)
	assert.Equal(t, fallbackCollectionLead, resp.Collection.Lead)
}

type stubCart struct {
	session   string
	productID uint
	qty       int
	updated   map[uint]int
}

func (s *stubCart) Get(_ context.Context, sessionID string) (*cart.View, error) {
	s.session = sessionID
	return &cart.View{}, nil
}

func (s *stubCart) Add(_ context.Context, sessionID string, productID uint, qty int) (*cart.View, error) {
	s.session, s.productID, s.qty = sessionID, productID, qty
	return &cart.View{Count: qty}, nil
}

func (s *stubCart) Update(_ context.Context, sessionID string, quantities map[uint]int) (*cart.View, error) {
	s.session, s.updated = sessionID, quantities
	return &cart.View{}, nil
}

func (s *stubCart) Remove(_ context.Context, sessionID string, productID uint) (*cart.View, error) {
	s.session, s.productID = sessionID, productID
	return &cart.View{}, nil
}

func TestAddCartItemUsesSession(t *testing.T) {
	svc := &stubCart{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":3,"qty":2}`))
	req = req.WithContext(middleware.WithCartSession(req.Context(), "sess-1"))
	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sess-1", svc.session)
	assert.Equal(t, uint(3), svc.productID)
	assert.Equal(t, 2, svc.qty)
}

func TestAddCartItemRequiresProduct(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"qty":2}`))
	rec := httptest.NewRecorder()
	AddCartItem(&stubCart{}, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCartItemRejectsHugeQuantity(t *testing.T) {
	svc := &stubCart{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":3,"qty":1000}`))
	req = req.WithContext(middleware.WithCartSession(req.Context(), "sess-1"))
	rec := httptest.NewRecorder()
	AddCartItem(svc, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.session)
}

func TestUpdateCartDecodesQuantities(t *testing.T) {
	svc := &stubCart{}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items", strings.NewReader(`{"quantities":{"3":1,"7":0}}`))
	rec := httptest.NewRecorder()
	UpdateCart(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[uint]int{3: 1, 7: 0}, svc.updated)
}

type stubOrders struct {
	input orders.CheckoutInput
	order *orders.OrderDTO
	err   error
}

func (s *stubOrders) Checkout(_ context.Context, _ string, input orders.CheckoutInput) (*orders.OrderDTO, error) {
	s.input = input
	return s.order, s.err
}

func (s *stubOrders) Get(context.Context, uint) (*orders.OrderDTO, error) { return s.order, s.err }

func (s *stubOrders) List(context.Context) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{*s.order}, s.err
}

func (s *stubOrders) Dashboard(context.Context) (*orders.DashboardDTO, error) {
	return &orders.DashboardDTO{}, s.err
}

func TestCheckoutValidationMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"name":"Kari","email":"","address":""}`))
	rec := httptest.NewRecorder()
	Checkout(&stubOrders{}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, checkoutFieldsMessage, env.Error.Message)
}

func TestCheckoutHidesContactDetails(t *testing.T) {
	svc := &stubOrders{order: &orders.OrderDTO{ID: 9, Name: "Kari", Email: "kari@example.no", Address: "Storgata 1", TotalCents: 449000, CreatedAt: time.Now()}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"name":" Kari ","email":"kari@example.no","address":"Storgata 1"}`))
	rec := httptest.NewRecorder()
	Checkout(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Kari", svc.input.Name)
	assert.NotContains(t, rec.Body.String(), "kari@example.no")
	assert.NotContains(t, rec.Body.String(), "Storgata")
}

type stubProductAdmin struct {
	input    product.ProductInput
	reorder  []uint
	applied  bool
	deleted  uint
	imageDel [2]uint
}

func (s *stubProductAdmin) AdminList(context.Context) ([]product.ProductDTO, error) { return nil, nil }

func (s *stubProductAdmin) AdminGet(_ context.Context, id uint) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

func (s *stubProductAdmin) CreateProduct(_ context.Context, input product.ProductInput) (*product.ProductDTO, error) {
	s.input = input
	return &product.ProductDTO{ID: 1, Name: input.Name}, nil
}

func (s *stubProductAdmin) UpdateProduct(_ context.Context, id uint, input product.ProductInput) (*product.ProductDTO, error) {
	s.input = input
	return &product.ProductDTO{ID: id, Name: input.Name}, nil
}

func (s *stubProductAdmin) DeleteProduct(_ context.Context, id uint) error {
	s.deleted = id
	return nil
}

func (s *stubProductAdmin) DeleteImage(_ context.Context, productID, imageID uint) (*product.ProductDTO, error) {
	s.imageDel = [2]uint{productID, imageID}
	return &product.ProductDTO{ID: productID}, nil
}

func (s *stubProductAdmin) Reorder(_ context.Context, ids []uint) (bool, error) {
	s.reorder = ids
	return s.applied, nil
}

var testUploads = config.UploadsConfig{MaxBytes: 2 << 20, MaxGallery: 3}

func TestAdminCreateProductStoresUploads(t *testing.T) {
	svc := &stubProductAdmin{}
	images := &stubImages{}
	req := multipartRequest(t, http.MethodPost, "/api/admin/v1/products",
		map[string]string{"name": "Dobbel", "description": "To skjermer", "price": "4 490,-", "is_featured": "on"},
		[]formFile{{"image", "main.png"}, {"gallery", "a.png"}, {"gallery", "b.png"}})
	rec := httptest.NewRecorder()
	AdminCreateProduct(svc, images, testUploads, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Dobbel", svc.input.Name)
	assert.Equal(t, "4 490,-", svc.input.Price)
	assert.True(t, svc.input.IsFeatured)
	assert.Equal(t, "/uploads/main.png", svc.input.Image)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, svc.input.Gallery)
}

func TestAdminCreateProductRejectsTooManyGalleryImages(t *testing.T) {
	images := &stubImages{}
	files := []formFile{{"gallery", "1.png"}, {"gallery", "2.png"}, {"gallery", "3.png"}, {"gallery", "4.png"}}
	req := multipartRequest(t, http.MethodPost, "/api/admin/v1/products", map[string]string{"name": "x"}, files)
	rec := httptest.NewRecorder()
	AdminCreateProduct(&stubProductAdmin{}, images, testUploads, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, images.saved)
}

func TestAdminReorderProducts(t *testing.T) {
	svc := &stubProductAdmin{applied: false}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/reorder", strings.NewReader(`{"order":"2, 3,x,1"}`))
	rec := httptest.NewRecorder()
	AdminReorderProducts(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []uint{2, 3, 1}, svc.reorder)
	var resp reorderResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.False(t, resp.Applied)

	rec = httptest.NewRecorder()
	AdminReorderProducts(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"order":"a,b"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteProductImageParsesIDs(t *testing.T) {
	svc := &stubProductAdmin{}
	req := withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"productId": "5", "imageId": "8"})
	rec := httptest.NewRecorder()
	AdminDeleteProductImage(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]uint{5, 8}, svc.imageDel)

	req = withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"productId": "abc", "imageId": "8"})
	rec = httptest.NewRecorder()
	AdminDeleteProductImage(svc, testLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	svc := &stubProductAdmin{}
	req := withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"productId": "5"})
	rec := httptest.NewRecorder()
	AdminDeleteProduct(svc, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(5), svc.deleted)
}

type stubSyncer struct{ result catalog.Result }

func (s stubSyncer) Sync(context.Context) catalog.Result { return s.result }

func TestAdminSyncCatalogReportsFailureAsData(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminSyncCatalog(stubSyncer{}, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"count":0}`, string(decodeEnvelope(t, rec).Data))
}

func jsonData(t *testing.T, rec *httptest.ResponseRecorder, dest any) error {
	t.Helper()
	return json.Unmarshal(decodeEnvelope(t, rec).Data, dest)
}
