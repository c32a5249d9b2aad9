// Package http exposes the field-generation pipeline over a REST API.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.bahari.io/marine-fields/internal/adapter/store/runs"
	"go.bahari.io/marine-fields/internal/domain"
	"go.bahari.io/marine-fields/internal/usecase"
)

// FieldRunner executes one field-generation request.
type FieldRunner interface {
	Run(ctx context.Context, req usecase.Request) (*usecase.Result, error)
}

// RunLister reads back recorded runs.
type RunLister interface {
	List(ctx context.Context, limit int) ([]runs.Record, error)
}

// Handler handles HTTP requests for field generation.
type Handler struct {
	runner FieldRunner
	ledger RunLister
}

// NewHandler creates a new HTTP handler. The ledger may be nil when run
// recording is disabled.
func NewHandler(runner FieldRunner, ledger RunLister) *Handler {
	return &Handler{
		runner: runner,
		ledger: ledger,
	}
}

// ParameterInfo describes one requestable variable family.
type ParameterInfo struct {
	Name     string `json:"name"`
	Variable string `json:"variable"`
	HasDepth bool   `json:"has_depth"`
	Derived  bool   `json:"derived"`
}

// ListParameters handles GET /v1/parameters.
func (h *Handler) ListParameters(c *gin.Context) {
	params := domain.Parameters()
	response := make([]ParameterInfo, len(params))
	for i, p := range params {
		response[i] = ParameterInfo{
			Name:     p.Name,
			Variable: p.Variable,
			HasDepth: p.HasDepth,
			Derived:  p.Derived,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"parameters": response,
		"count":      len(response),
	})
}

// CreateRun handles POST /v1/fields/runs.
func (h *Handler) CreateRun(c *gin.Context) {
	var req usecase.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfig), errors.Is(err, domain.ErrDegenerate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAccess):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListRuns handles GET /v1/runs.
func (h *Handler) ListRuns(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run ledger is disabled"})
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.ledger.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":  records,
		"count": len(records),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
