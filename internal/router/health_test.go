package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/twaddington/olccprices/internal/importer"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *product.InMemoryRepository, *store.InMemoryRepository, *importer.InMemoryRecordRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := product.NewInMemoryRepository()
	stores := store.NewInMemoryRepository()
	records := importer.NewInMemoryRecordRepository()

	r := NewRouter(
		product.NewHandler(product.NewService(products)),
		store.NewHandler(store.NewService(stores)),
		records,
	)
	return r, products, stores, records
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := get(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestLandingPageShowsLastUpdated(t *testing.T) {
	r, _, _, records := newTestRouter(t)

	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["last_updated"]; ok {
		t.Fatal("no imports yet, last_updated should be absent")
	}

	records.Create(context.Background(), &importer.ImportRecord{URL: "http://example.com/prices.xls", ETag: "foo"})

	w = get(r, "/")
	json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body["last_updated"]; !ok {
		t.Fatal("expected last_updated after an import")
	}
}

func TestProductListing(t *testing.T) {
	r, products, _, _ := newTestRouter(t)

	p := &product.Product{Code: "0102B", Slug: "glenfiddich-snow-phoenix", Title: "Glenfiddich Snow Phoenix"}
	if err := products.Save(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	products.CreatePrice(context.Background(), p.ID, decimal.RequireFromString("92.95"),
		product.MonthStart(time.Now()))

	w := get(r, "/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Products []struct {
			Product product.Product       `json:"product"`
			Price   *product.ProductPrice `json:"price"`
		} `json:"products"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || len(body.Products) != 1 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if body.Products[0].Price == nil {
		t.Fatal("expected a current price in the listing")
	}
}

func TestProductDetailBySlug(t *testing.T) {
	r, products, _, _ := newTestRouter(t)

	p := &product.Product{Code: "0102B", Slug: "glenfiddich-snow-phoenix", Title: "Glenfiddich Snow Phoenix"}
	products.Save(context.Background(), p)

	if w := get(r, "/p/glenfiddich-snow-phoenix"); w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w := get(r, "/p/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestStoreListingFiltersByCounty(t *testing.T) {
	r, _, stores, _ := newTestRouter(t)

	stores.Save(context.Background(), &store.Store{Key: 1, Name: "Astoria Liquor", County: "Clatsop"})
	stores.Save(context.Background(), &store.Store{Key: 2, Name: "Bend Liquor", County: "Deschutes"})

	w := get(r, "/stores?county=clatsop")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Stores []store.Store `json:"stores"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Stores) != 1 || body.Stores[0].Key != 1 {
		t.Fatalf("unexpected stores: %s", w.Body.String())
	}
}

func TestAPIProductFiltering(t *testing.T) {
	r, products, _, _ := newTestRouter(t)

	onSale := &product.Product{Code: "0102B", Slug: "a", Title: "A Whiskey", OnSale: true}
	products.Save(context.Background(), onSale)
	products.Save(context.Background(), &product.Product{Code: "0103B", Slug: "b", Title: "B Whiskey"})

	var body struct {
		Objects []struct {
			Product product.Product `json:"product"`
		} `json:"objects"`
		Total int `json:"total"`
	}

	w := get(r, "/api/v1/products?on_sale=true")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || body.Objects[0].Product.Code != "0102B" {
		t.Fatalf("on_sale filter: %s", w.Body.String())
	}

	w = get(r, "/api/v1/products?title=b+whiskey")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || body.Objects[0].Product.Code != "0103B" {
		t.Fatalf("title filter: %s", w.Body.String())
	}

	if w := get(r, "/api/v1/products?on_sale=maybe"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter should 400, got %d", w.Code)
	}
}

func TestAPIPricesRequiresCode(t *testing.T) {
	r, products, _, _ := newTestRouter(t)

	p := &product.Product{Code: "0102B", Slug: "a", Title: "A Whiskey"}
	products.Save(context.Background(), p)
	products.CreatePrice(context.Background(), p.ID, decimal.RequireFromString("92.95"),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	if w := get(r, "/api/v1/prices"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing code should 400, got %d", w.Code)
	}

	w := get(r, "/api/v1/prices?code=0102B")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Objects []product.ProductPrice `json:"objects"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Objects) != 1 {
		t.Fatalf("expected 1 price row: %s", w.Body.String())
	}
}
