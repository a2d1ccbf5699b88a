package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/session"
)

func TestListingHandler_PreviewCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewListingHandler(newTestUpstream(t, http.NewServeMux(), session.NewStore(nil)), zap.NewNop())

	r := gin.New()
	r.POST("/listings/preview", h.PreviewCSV)

	preview := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/listings/preview", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("well formed csv", func(t *testing.T) {
		w := preview("title,sku,price\nClassic Tee,TEE-001,19.99\nMug,MUG-002,12.50\n")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_rows":2`)
		assert.Contains(t, w.Body.String(), `"truncated":false`)
		assert.Contains(t, w.Body.String(), `"sku":"TEE-001"`)
	})

	t.Run("rows beyond the cap are counted but not returned", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("title\n")
		for i := 0; i < previewMaxRows+10; i++ {
			b.WriteString("row\n")
		}
		w := preview(b.String())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_rows":60`)
		assert.Contains(t, w.Body.String(), `"truncated":true`)
	})

	t.Run("ragged rows rejected", func(t *testing.T) {
		w := preview("title,sku\nonly-one-field\n")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "malformed CSV")
	})

	t.Run("empty body rejected", func(t *testing.T) {
		w := preview("")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListingHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/listings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gelato", r.URL.Query().Get("supplier"))
		assert.Equal(t, "mug", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"listings": [{"id": 3, "title": "Camp Mug", "shop_id": 7, "shop_name": "North Goods", "shop_type": "etsy"}],
			"pagination": {"page": 1, "per_page": 20, "total": 1, "pages": 1, "has_next": false, "has_prev": false},
			"shops": [{"id": 7, "shop_name": "North Goods", "shop_type": "etsy"}]
		}`))
	})
	mux.HandleFunc("/listings/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 3, "title": "Camp Mug", "variants": [{"sku": "MUG-3-BLK"}]}`))
	})

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok", "ref")

	h := NewListingHandler(newTestUpstream(t, mux, store), zap.NewNop())

	r := gin.New()
	r.GET("/listings", h.List)
	r.GET("/listings/:id", h.Get)

	t.Run("filters pass through and meta is set", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/listings?supplier=gelato&search=mug", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"shop_name":"North Goods"`)
		assert.Contains(t, w.Body.String(), `"meta":{"total":1`)
	})

	t.Run("detail keeps variants verbatim", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/listings/3", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sku":"MUG-3-BLK"`)
	})
}

func TestListingHandler_ExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/shops/7/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{
				"products": [
					{"listing_id": "L1", "title": "Classic Tee", "sku": "TEE-001", "supplier_type": "printify",
					 "price": "19.99", "currency": "USD", "product_type": "tshirt", "sync_status": "synced",
					 "is_active": true, "last_synced_at": "2026-08-30T10:00:00Z"}
				],
				"pagination": {"page": 1, "per_page": 100, "total": 2, "pages": 2, "has_next": true}
			}`))
		default:
			_, _ = w.Write([]byte(`{
				"products": [
					{"listing_id": "L2", "title": "Mug", "sku": "MUG-002", "supplier_type": "printful",
					 "price": "12.50", "currency": "USD", "product_type": "mug", "sync_status": "pending",
					 "is_active": false, "last_synced_at": ""}
				],
				"pagination": {"page": 2, "per_page": 100, "total": 2, "pages": 2, "has_next": false}
			}`))
		}
	})

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok", "ref")

	h := NewListingHandler(newTestUpstream(t, mux, store), zap.NewNop())

	r := gin.New()
	r.GET("/shops/:id/products/export", h.ExportCSV)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shops/7/products/export", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shop-7-listings.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "listing_id,title,sku,supplier_type,price,currency,product_type,sync_status,is_active,last_synced_at", lines[0])
	assert.Contains(t, lines[1], "L1,Classic Tee,TEE-001,printify,19.99,USD")
	assert.Contains(t, lines[2], "L2,Mug,MUG-002,printful,12.5,USD")
}
