package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/session"
)

func TestTemplateHandler_ProductPricing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("/templates/5/products/42/pricing", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "size", r.URL.Query().Get("view"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"view": "size",
			"rows": [{"size": "M", "base_cost": "8.50", "list_price": "19.99", "margin_percent": "57.5"}]
		}`))
	})

	store := session.NewStore(nil)
	store.Login(session.User{ID: 1, Email: "seller@example.com"}, "tok", "ref")

	h := NewTemplateHandler(newTestUpstream(t, mux, store), zap.NewNop())

	r := gin.New()
	r.GET("/templates/:id/products/:productId/pricing", h.ProductPricing)

	t.Run("view passes through verbatim", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/templates/5/products/42/pricing?view=size", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"margin_percent":"57.5"`)
	})

	t.Run("unknown view rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/templates/5/products/42/pricing?view=weight", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "view must be config, size, or color")
	})
}
