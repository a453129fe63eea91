package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
	"careloop-backend-go/internal/models"
)

// SearchHandler exposes the resource-library search index.
type SearchHandler struct {
	search *core.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(search *core.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/v1/search. Query params: q, types, categories
// (comma-separated), from, to (RFC 3339 dates bounding lastUpdated).
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	filters, err := parseSearchFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid search filters", Details: err.Error()})
		return
	}

	results := h.search.Search(query, filters)
	h.search.TrackSearch(query, len(results))

	c.JSON(http.StatusOK, SearchResponse{Results: results, Count: len(results)})
}

// Suggestions handles GET /api/v1/search/suggestions.
func (h *SearchHandler) Suggestions(c *gin.Context) {
	titles := h.search.Suggestions(c.Query("q"))
	if titles == nil {
		titles = []string{}
	}
	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: titles})
}

func parseSearchFilters(c *gin.Context) (*models.SearchFilters, error) {
	filters := &models.SearchFilters{}

	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filters.Types = append(filters.Types, models.DocumentKind(strings.TrimSpace(t)))
		}
	}
	if raw := c.Query("categories"); raw != "" {
		for _, cat := range strings.Split(raw, ",") {
			filters.Categories = append(filters.Categories, strings.TrimSpace(cat))
		}
	}

	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw != "" || toRaw != "" {
		dr := &models.DateRange{From: time.Time{}, To: time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)}
		if fromRaw != "" {
			from, err := time.Parse(time.RFC3339, fromRaw)
			if err != nil {
				return nil, err
			}
			dr.From = from
		}
		if toRaw != "" {
			to, err := time.Parse(time.RFC3339, toRaw)
			if err != nil {
				return nil, err
			}
			dr.To = to
		}
		filters.DateRange = dr
	}
	return filters, nil
}
