// Package handler contains the gateway's HTTP handlers. Pages are thin:
// each handler binds the request, delegates to the upstream client, and
// wraps the result in the standard response envelope. Business logic stays
// upstream.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podsuite/console/internal/interfaces/http/dto"
	"github.com/podsuite/console/internal/upstream"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, p upstream.Pagination) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, dto.Meta{
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PerPage,
		TotalPages: p.Pages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleUpstreamError converts an upstream failure to an HTTP response.
// Upstream API errors keep their status and message; anything else (DNS,
// connection refused, timeout) surfaces as a 502.
func (h *BaseHandler) HandleUpstreamError(c *gin.Context, logger *zap.Logger, err error) {
	if err == nil {
		return
	}

	var apiErr *upstream.Error
	if errors.As(err, &apiErr) {
		code := apiErr.Code
		if code == "" {
			code = dto.ErrCodeUpstream
		}
		c.JSON(apiErr.StatusCode, dto.NewErrorResponse(code, apiErr.Message))
		return
	}

	if logger != nil {
		logger.Error("Upstream request failed",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable, "upstream service unavailable")
}

// bindListOptions binds the common pagination/filter query params
func bindListOptions(c *gin.Context) (upstream.ListOptions, error) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return upstream.ListOptions{}, err
	}
	return upstream.ListOptions{
		Page:     req.Page,
		PerPage:  req.PerPage,
		Search:   req.Search,
		Status:   req.Status,
		Platform: req.Platform,
		ShopID:   req.ShopID,
	}, nil
}

// bindID binds the numeric :id path parameter
func bindID(c *gin.Context) (int64, error) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		return 0, err
	}
	return req.ID, nil
}
