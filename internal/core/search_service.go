package core

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"careloop-backend-go/internal/models"
)

// SearchService is the in-memory index over the resource library (guides,
// articles, templates, stories). Documents are seeded exactly once; the index
// is immutable afterwards.
type SearchService struct {
	once sync.Once
	docs []models.SearchDocument

	sink   AnalyticsSink
	logger *zap.Logger
}

// NewSearchService creates an unpopulated SearchService. Call Initialize
// before serving queries.
func NewSearchService(sink AnalyticsSink, logger *zap.Logger) *SearchService {
	return &SearchService{sink: sink, logger: logger}
}

// Initialize populates the index from the seed set. It is idempotent and safe
// to call concurrently: only the first call populates.
func (s *SearchService) Initialize() {
	s.once.Do(func() {
		s.docs = seedDocuments()
	})
}

// Search filters and ranks the index.
//
// With neither query nor filters, every document is returned in index order.
// A non-empty query keeps documents whose title+description+category contains
// it case-insensitively; facet filters then constrain kind, category, and
// LastUpdated (documents without LastUpdated are never excluded by the date
// range). Ranking with a query: exact title match, then title substring
// match, then LastUpdated descending (missing dates sort oldest). With an
// empty query the order is LastUpdated descending only. Ties keep index
// insertion order.
func (s *SearchService) Search(query string, filters *models.SearchFilters) []models.SearchDocument {
	q := strings.ToLower(strings.TrimSpace(query))
	noFilters := filtersEmpty(filters)

	if q == "" && noFilters {
		return append([]models.SearchDocument(nil), s.docs...)
	}

	results := make([]models.SearchDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		if q != "" {
			haystack := strings.ToLower(doc.Title + " " + doc.Description + " " + doc.Category)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		if !noFilters && !matchesFilters(doc, filters) {
			continue
		}
		results = append(results, doc)
	}

	if q != "" {
		sort.SliceStable(results, func(i, j int) bool {
			ri, rj := queryRank(results[i], q), queryRank(results[j], q)
			if ri != rj {
				return ri < rj
			}
			return lastUpdatedOrEpoch(results[i]).After(lastUpdatedOrEpoch(results[j]))
		})
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			return lastUpdatedOrEpoch(results[i]).After(lastUpdatedOrEpoch(results[j]))
		})
	}
	return results
}

// Suggestions returns up to five titles whose title or category contains the
// partial query, in index order. Empty input yields no suggestions.
func (s *SearchService) Suggestions(partialQuery string) []string {
	q := strings.ToLower(strings.TrimSpace(partialQuery))
	if q == "" {
		return nil
	}
	const limit = 5
	var titles []string
	for _, doc := range s.docs {
		if strings.Contains(strings.ToLower(doc.Title+" "+doc.Category), q) {
			titles = append(titles, doc.Title)
			if len(titles) == limit {
				break
			}
		}
	}
	return titles
}

// TrackSearch records a search for analytics. It is fire-and-forget: a sink
// failure is logged and never reaches the search path.
func (s *SearchService) TrackSearch(query string, resultCount int) {
	if s.sink == nil {
		return
	}
	event := SearchEvent{Query: query, ResultCount: resultCount, At: time.Now().UTC()}
	if err := s.sink.Record(event); err != nil && s.logger != nil {
		s.logger.Warn("Failed to record search analytics event", zap.Error(err))
	}
}

func filtersEmpty(f *models.SearchFilters) bool {
	return f == nil || (len(f.Types) == 0 && len(f.Categories) == 0 && f.DateRange == nil)
}

func matchesFilters(doc models.SearchDocument, filters *models.SearchFilters) bool {
	if len(filters.Types) > 0 && !containsKind(filters.Types, doc.Kind) {
		return false
	}
	if len(filters.Categories) > 0 && !containsString(filters.Categories, doc.Category) {
		return false
	}
	if filters.DateRange != nil && doc.LastUpdated != nil {
		if doc.LastUpdated.Before(filters.DateRange.From) || doc.LastUpdated.After(filters.DateRange.To) {
			return false
		}
	}
	return true
}

// queryRank orders matches: exact title (0), title substring (1), other (2).
func queryRank(doc models.SearchDocument, q string) int {
	title := strings.ToLower(doc.Title)
	switch {
	case title == q:
		return 0
	case strings.Contains(title, q):
		return 1
	default:
		return 2
	}
}

func lastUpdatedOrEpoch(doc models.SearchDocument) time.Time {
	if doc.LastUpdated == nil {
		return time.Time{}
	}
	return *doc.LastUpdated
}

func containsKind(kinds []models.DocumentKind, k models.DocumentKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
