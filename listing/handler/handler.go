// Package handler exposes listing discovery over HTTP.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/indexer"
	"github.com/samujjwal/rental-sub006/listing/service"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/samujjwal/rental-sub006/logging/logger"
	"github.com/samujjwal/rental-sub006/net/resp"
)

// InternalTokenHeader carries the token guarding the index routes.
const InternalTokenHeader = "X-Internal-Token"

// Indexer is the write path behind the index routes.
type Indexer interface {
	IndexListing(ctx context.Context, id string) error
	RemoveListing(ctx context.Context, id string) error
	BulkIndexListings(ctx context.Context, ids []string) (indexer.Report, error)
}

// StatsProvider reports data layer counters.
type StatsProvider interface {
	GetStats() map[string]any
}

// Handler serves the discovery API.
type Handler struct {
	svc     *service.Service
	indexer Indexer
	stats   StatsProvider
	logger  *logger.Logger
	token   string
}

// New creates a handler. ix and stats may be nil, in which case their
// routes are not registered.
func New(svc *service.Service, ix Indexer, stats StatsProvider, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.Nop()
	}
	return &Handler{svc: svc, indexer: ix, stats: stats, logger: l}
}

// WithInternalToken requires token in the X-Internal-Token header on the
// index routes.
func (h *Handler) WithInternalToken(token string) *Handler {
	h.token = token
	return h
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	if h.stats != nil {
		r.GET("/stats", h.Stats)
	}

	s := r.Group("/search")
	s.GET("", h.Search)
	s.POST("", h.SearchJSON)
	s.GET("/autocomplete", h.Autocomplete)
	s.GET("/suggestions", h.Suggestions)
	s.GET("/popular", h.Popular)

	r.GET("/listings/:id/similar", h.Similar)

	if h.indexer != nil {
		ix := r.Group("/index/listings", h.requireToken)
		ix.POST("/bulk", h.BulkIndex)
		ix.POST("/:id", h.IndexListing)
		ix.DELETE("/:id", h.RemoveListing)
	}
}

// Search handles GET /search with query string filters.
func (h *Handler) Search(c *gin.Context) {
	var q structs.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c.Writer, err.Error())
		return
	}
	q.Features = splitList(q.Features)
	h.search(c, &q)
}

// SearchJSON handles POST /search with a JSON query body.
func (h *Handler) SearchJSON(c *gin.Context) {
	var q structs.SearchQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		resp.BadRequest(c.Writer, err.Error())
		return
	}
	h.search(c, &q)
}

func (h *Handler) search(c *gin.Context, q *structs.SearchQuery) {
	result, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, result)
}

// Autocomplete handles GET /search/autocomplete?q=&limit=.
func (h *Handler) Autocomplete(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	titles, err := h.svc.Autocomplete(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, titles)
}

// Suggestions handles GET /search/suggestions?q=.
func (h *Handler) Suggestions(c *gin.Context) {
	s, err := h.svc.GetSuggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, s)
}

// Popular handles GET /search/popular?limit=.
func (h *Handler) Popular(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	resp.Success(c.Writer, h.svc.GetPopularSearches(c.Request.Context(), limit))
}

// Similar handles GET /listings/:id/similar?limit=.
func (h *Handler) Similar(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	hits, err := h.svc.FindSimilar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, hits)
}

// IndexListing handles POST /index/listings/:id.
func (h *Handler) IndexListing(c *gin.Context) {
	id := c.Param("id")
	if err := h.indexer.IndexListing(c.Request.Context(), id); err != nil {
		h.logger.Error(c.Request.Context(), "failed to index listing", "listing_id", id, "error", err)
		resp.Error(c.Writer, ecode.Unavailable("index listing", err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusAccepted, map[string]string{"listing_id": id})
}

// RemoveListing handles DELETE /index/listings/:id.
func (h *Handler) RemoveListing(c *gin.Context) {
	id := c.Param("id")
	if err := h.indexer.RemoveListing(c.Request.Context(), id); err != nil {
		h.logger.Error(c.Request.Context(), "failed to remove listing", "listing_id", id, "error", err)
		resp.Error(c.Writer, ecode.Unavailable("remove listing", err))
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusAccepted, map[string]string{"listing_id": id})
}

// BulkRequest is the body of POST /index/listings/bulk.
type BulkRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=1000,dive,required"`
}

// BulkIndex handles POST /index/listings/bulk.
func (h *Handler) BulkIndex(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c.Writer, err.Error())
		return
	}
	report, err := h.indexer.BulkIndexListings(c.Request.Context(), req.IDs)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "bulk index incomplete", "failed", report.Failed, "error", err)
		resp.Error(c.Writer, ecode.Unavailable("bulk index", err), report)
		return
	}
	resp.Success(c.Writer, report)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.Health(c.Request.Context()); err != nil {
		h.logger.Warn(c.Request.Context(), "health check failed", "error", err)
		resp.Error(c.Writer, ecode.Unavailable("health", err))
		return
	}
	resp.Success(c.Writer, map[string]string{"status": "healthy", "backend": h.svc.Backend()})
}

// Stats handles GET /stats.
func (h *Handler) Stats(c *gin.Context) {
	resp.Success(c.Writer, h.stats.GetStats())
}

func (h *Handler) requireToken(c *gin.Context) {
	if h.token != "" && c.GetHeader(InternalTokenHeader) != h.token {
		resp.Fail(c.Writer, &resp.Exception{Status: http.StatusUnauthorized, Message: "invalid internal token"})
		c.Abort()
		return
	}
	c.Next()
}

// limitParam reads ?limit=, writing a failure response when it is not an
// integer. Zero means the operation default.
func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		resp.BadRequest(c.Writer, ecode.FieldIsInvalid("limit"))
		return 0, false
	}
	return n, true
}

// splitList accepts both repeated and comma separated values.
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
