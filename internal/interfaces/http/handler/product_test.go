package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/cache"
	"github.com/podsuite/console/internal/session"
)

func TestProductHandler_CompareCaching(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var upstreamHits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/products/compare", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamHits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [{"id": 1, "title": "Classic Tee"}], "total": 1}`))
	})
	mux.HandleFunc("/products/switch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "switched"}`))
	})
	mux.HandleFunc("/products/user/add", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Product added successfully", "product": {"id": 11}, "matches_found": []}`))
	})

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok", "ref")

	qc := cache.NewInMemoryQueryCache()
	defer func() { _ = qc.Close() }()

	h := NewProductHandler(newTestUpstream(t, mux, store), qc, zap.NewNop())

	r := gin.New()
	r.GET("/products/compare", h.Compare)
	r.POST("/products/switch", h.Switch)
	r.POST("/products/user/add", h.AddUserProduct)

	compare := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/compare"+query, nil)
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("second read served from cache", func(t *testing.T) {
		first := compare("")
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, int64(1), atomic.LoadInt64(&upstreamHits))

		second := compare("")
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, int64(1), atomic.LoadInt64(&upstreamHits))
	})

	t.Run("different filters are cached separately", func(t *testing.T) {
		compare("?product_type=tshirt")
		assert.Equal(t, int64(2), atomic.LoadInt64(&upstreamHits))
	})

	t.Run("tracking a product invalidates cached comparisons", func(t *testing.T) {
		qcBefore := qc.Count()
		assert.Greater(t, qcBefore, 0)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products/user/add",
			strings.NewReader(`{"supplier_connection_id": 3, "supplier_product_id": 11}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "matches_found")
		assert.Equal(t, 0, qc.Count())

		compare("")
	})

	t.Run("supplier switch invalidates cached comparisons", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products/switch",
			strings.NewReader(`{"product_id": 1, "target_supplier": "printful"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, qc.Count())

		compare("")
		assert.Equal(t, int64(4), atomic.LoadInt64(&upstreamHits))
	})
}

func TestProductHandler_UserProducts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/products/user/list", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tshirt", r.URL.Query().Get("category"))
		assert.Equal(t, "printify", r.URL.Query().Get("supplier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"products": [{"id": 11, "product_name": "Classic Tee", "supplier_count": 2}],
			"pagination": {"page": 1, "per_page": 20, "total": 1, "pages": 1, "has_next": false, "has_prev": false}
		}`))
	})
	mux.HandleFunc("/products/user/11/suppliers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product": {"id": 11}, "suppliers": [{"supplier_type": "printify", "base_price": 8.5}]}`))
	})
	mux.HandleFunc("/products/user/11", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "Product removed from list"}`))
	})

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok", "ref")

	h := NewProductHandler(newTestUpstream(t, mux, store), nil, zap.NewNop())

	r := gin.New()
	r.GET("/products/user/list", h.UserProducts)
	r.GET("/products/user/:id/suppliers", h.UserProductSuppliers)
	r.DELETE("/products/user/:id", h.DeleteUserProduct)

	t.Run("list with filters", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/user/list?category=tshirt&supplier=printify", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"product_name":"Classic Tee"`)
		assert.Contains(t, w.Body.String(), `"meta":{"total":1`)
	})

	t.Run("suppliers for a tracked product", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products/user/11/suppliers", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"supplier_type":"printify"`)
	})

	t.Run("stop tracking", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/products/user/11", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
