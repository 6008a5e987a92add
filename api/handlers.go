package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	internalErrors "github.com/ViaSema/luwak/internal/errors"
	"github.com/ViaSema/luwak/internal/highlight"
	"github.com/ViaSema/luwak/model"
	"github.com/ViaSema/luwak/services"
	"github.com/ViaSema/luwak/store"
)

// API holds dependencies for API handlers, primarily the monitor.
type API struct {
	monitor services.MonitorAccessor
}

// NewAPI creates a new API handler structure.
func NewAPI(monitor services.MonitorAccessor) *API {
	return &API{monitor: monitor}
}

// SetupRoutes defines all the API routes for the percolation monitor.
func SetupRoutes(router *gin.Engine, monitor services.MonitorAccessor, gatherer prometheus.Gatherer) {
	apiHandler := NewAPI(monitor)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Stored query management routes
	queryRoutes := router.Group("/queries")
	{
		queryRoutes.POST("", apiHandler.RegisterQueryHandler)           // Register (or replace) a stored query
		queryRoutes.GET("", apiHandler.ListQueriesHandler)              // List stored query ids
		queryRoutes.GET("/:queryId", apiHandler.GetQueryHandler)        // Get a stored query
		queryRoutes.DELETE("/:queryId", apiHandler.DeleteQueryHandler)  // Delete a stored query
	}

	// Percolation route: match a batch of documents against every stored query
	router.POST("/match", apiHandler.MatchHandler)
}

// HealthCheckHandler reports service liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// registerQueryRequest is the request body for registering a stored query.
type registerQueryRequest struct {
	ID       string            `json:"id"`
	Query    queryNode         `json:"query"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RegisterQueryHandler handles the request to register a stored query.
// Registration is an upsert: an existing id is replaced.
func (api *API) RegisterQueryHandler(c *gin.Context) {
	var req registerQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateQueryID(req.ID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	q, err := decodeQuery(req.Query)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery,
			"Invalid query definition: "+err.Error())
		return
	}

	if err := api.monitor.Register(store.StoredQuery{ID: req.ID, Query: q, Metadata: req.Metadata}); err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
			return
		}
		SendInternalError(c, "query registration", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Stored query registered successfully",
		"query_id": req.ID,
	})
}

// ListQueriesHandler returns the ids of all stored queries.
func (api *API) ListQueriesHandler(c *gin.Context) {
	ids := api.monitor.ListQueryIDs()
	c.JSON(http.StatusOK, gin.H{
		"query_ids": ids,
		"total":     len(ids),
	})
}

// GetQueryHandler returns one stored query.
func (api *API) GetQueryHandler(c *gin.Context) {
	queryID := c.Param("queryId")
	sq, err := api.monitor.GetQuery(queryID)
	if err != nil {
		SendQueryNotFoundError(c, queryID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       sq.ID,
		"query":    sq.Query.String(),
		"metadata": sq.Metadata,
	})
}

// DeleteQueryHandler removes a stored query.
func (api *API) DeleteQueryHandler(c *gin.Context) {
	queryID := c.Param("queryId")
	if err := api.monitor.DeleteQuery(queryID); err != nil {
		if errors.Is(err, internalErrors.ErrQueryNotFound) {
			SendQueryNotFoundError(c, queryID)
			return
		}
		SendInternalError(c, "query deletion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Stored query deleted successfully",
		"query_id": queryID,
	})
}

// matchRequest is the request body for percolating a document batch.
type matchRequest struct {
	Documents []model.Document `json:"documents"`
}

// matchRecord is the JSON shape of one (query, document) match.
type matchRecord struct {
	QueryID string          `json:"query_id"`
	DocID   string          `json:"doc_id"`
	Hits    []highlight.Hit `json:"hits"`
	Error   string          `json:"error,omitempty"`
}

// MatchHandler percolates a batch of documents against every stored query
// and returns the matches with their hit positions.
func (api *API) MatchHandler(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(req.Documents); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	results, err := api.monitor.Match(req.Documents)
	if err != nil {
		SendMatchError(c, err)
		return
	}

	records := make([]matchRecord, len(results.Matches))
	for i, m := range results.Matches {
		records[i] = matchRecord{
			QueryID: m.QueryID,
			DocID:   m.DocID,
			Hits:    m.Hits,
		}
		if m.Err != nil {
			records[i].Error = m.Err.Error()
		}
	}

	queryErrors := make(map[string]string, len(results.Errors))
	for id, qerr := range results.Errors {
		queryErrors[id] = qerr.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":         results.RunID,
		"document_count": results.DocumentCount,
		"queries_run":    results.QueriesRun,
		"matches":        records,
		"query_errors":   queryErrors,
		"took":           results.Took,
	})
}
