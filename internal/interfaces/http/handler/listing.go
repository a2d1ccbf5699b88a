package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// exportPageSize is the page size used when walking a shop's listings for
// a CSV export
const exportPageSize = 100

// exportMaxPages caps how much of a very large shop one export pulls
const exportMaxPages = 200

// previewMaxBytes bounds the uploaded CSV accepted for a preview
const previewMaxBytes = 2 << 20

// previewMaxRows is how many parsed rows the preview returns
const previewMaxRows = 50

// ListingHandler handles listing export and bulk-upload preview endpoints
type ListingHandler struct {
	BaseHandler
	upstream *upstream.Client
	logger   *zap.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(client *upstream.Client, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{upstream: client, logger: logger}
}

// List handles GET /listings, the unified view across every connected shop
func (h *ListingHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidInput), dto.ErrCodeInvalidInput, err.Error())
		return
	}

	page, err := h.upstream.Listings().List(c.Request.Context(), upstream.ListingFilter{
		Page:     req.Page,
		PerPage:  req.PerPage,
		ShopID:   req.ShopID,
		Supplier: c.Query("supplier"),
		Search:   req.Search,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.SuccessWithMeta(c, page, page.Pagination)
}

// Get handles GET /listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listing, err := h.upstream.Listings().Get(c.Request.Context(), id)
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}
	h.Success(c, listing)
}

// ExportCSV handles GET /shops/:id/products/export. It walks every page of
// the shop's listings and streams them as CSV, one row per listing.
func (h *ListingHandler) ExportCSV(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// First page up front so upstream errors still produce a JSON envelope
	// instead of a truncated CSV
	first, err := h.upstream.Shops().Products(c.Request.Context(), id, upstream.ListOptions{
		Page:    1,
		PerPage: exportPageSize,
	})
	if err != nil {
		h.HandleUpstreamError(c, h.logger, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shop-%d-listings.csv", id))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	header := []string{"listing_id", "title", "sku", "supplier_type", "price", "currency", "product_type", "sync_status", "is_active", "last_synced_at"}
	if err := w.Write(header); err != nil {
		return
	}

	rows := 0
	page := first
	for pageNum := 1; ; pageNum++ {
		for _, p := range page.Products {
			record := []string{
				p.ListingID,
				p.Title,
				p.SKU,
				p.SupplierType,
				p.Price.String(),
				p.Currency,
				p.ProductType,
				p.SyncStatus,
				strconv.FormatBool(p.IsActive),
				p.LastSyncedAt,
			}
			if err := w.Write(record); err != nil {
				h.logger.Warn("CSV export aborted mid-stream",
					zap.Int64("shop_id", id),
					zap.Error(err))
				return
			}
			rows++
		}

		if !page.Pagination.HasNext || pageNum >= exportMaxPages {
			break
		}

		page, err = h.upstream.Shops().Products(c.Request.Context(), id, upstream.ListOptions{
			Page:    pageNum + 1,
			PerPage: exportPageSize,
		})
		if err != nil {
			// Headers are already sent; all we can do is stop
			h.logger.Warn("CSV export aborted on upstream error",
				zap.Int64("shop_id", id),
				zap.Int("page", pageNum+1),
				zap.Error(err))
			return
		}
	}

	h.logger.Info("Shop listings exported",
		zap.Int64("shop_id", id),
		zap.Int("rows", rows),
		zap.String("request_id", getRequestID(c)))
}

// PreviewResponse is the parsed head of an uploaded bulk-listing CSV
type PreviewResponse struct {
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"total_rows"`
	Truncated bool                `json:"truncated"`
}

// PreviewCSV handles POST /listings/preview. The body is the raw CSV text of
// a bulk listing upload; the response is a bounded table the caller can show
// before committing. Nothing reaches the upstream.
func (h *ListingHandler) PreviewCSV(c *gin.Context) {
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, previewMaxBytes)
	defer func() { _ = reader.Close() }()

	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		h.BadRequest(c, "could not read CSV header: "+err.Error())
		return
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	resp := PreviewResponse{Headers: headers, Rows: []map[string]string{}}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.BadRequest(c, "malformed CSV: "+err.Error())
			return
		}
		resp.TotalRows++
		if len(resp.Rows) >= previewMaxRows {
			resp.Truncated = true
			continue
		}
		row := make(map[string]string, len(headers))
		for i, field := range record {
			row[headers[i]] = field
		}
		resp.Rows = append(resp.Rows, row)
	}

	h.Success(c, resp)
}
