package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"careloop-backend-go/internal/models"
)

type recordingSink struct {
	events []SearchEvent
	err    error
}

func (s *recordingSink) Record(event SearchEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestSearchService(t *testing.T) (*SearchService, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s := NewSearchService(sink, zap.NewNop())
	s.Initialize()
	return s, sink
}

func TestSearchEmptyQueryNoFiltersReturnsAllByRecency(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("", nil)
	require.Len(t, results, len(seedDocuments()))

	// Index order and recency order agree: LastUpdated descending, undated last.
	for i := 1; i < len(results); i++ {
		prev, cur := lastUpdatedOrEpoch(results[i-1]), lastUpdatedOrEpoch(results[i])
		assert.False(t, prev.Before(cur), "results[%d] is newer than results[%d]", i, i-1)
	}
	assert.Nil(t, results[len(results)-1].LastUpdated, "undated document sorts last")
}

func TestSearchTitleMatchOutranksCategoryMatch(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("evv", nil)
	require.Len(t, results, 2)

	assert.Equal(t, "EVV Requirements by State", results[0].Title, "title substring match ranks first")
	assert.Equal(t, "Surviving Your First Payer Audit", results[1].Title, "category-only match ranks after")
}

func TestSearchExactTitleMatchRanksFirst(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("Shift Handoff Checklist", nil)
	require.NotEmpty(t, results)
	assert.Equal(t, "template-shift-handoff", results[0].ID)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s, _ := newTestSearchService(t)

	lower := s.Search("medication", nil)
	upper := s.Search("MEDICATION", nil)
	assert.Equal(t, lower, upper)
	require.NotEmpty(t, lower)
}

func TestSearchNoMatches(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("quantum chromodynamics", nil)
	assert.Empty(t, results)
}

func TestSearchTypeFilter(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("", &models.SearchFilters{Types: []models.DocumentKind{models.KindGuide}})
	require.NotEmpty(t, results)
	for _, doc := range results {
		assert.Equal(t, models.KindGuide, doc.Kind)
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("", &models.SearchFilters{Categories: []string{"Care Planning"}})
	require.Len(t, results, 2)
	for _, doc := range results {
		assert.Equal(t, "Care Planning", doc.Category)
	}
}

func TestSearchDateRangeKeepsUndatedDocuments(t *testing.T) {
	s, _ := newTestSearchService(t)

	// A window matching nothing dated still keeps the undated document.
	results := s.Search("", &models.SearchFilters{
		DateRange: &models.DateRange{
			From: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	})
	require.Len(t, results, 1)
	assert.Equal(t, "template-emergency-contacts", results[0].ID)
}

func TestSearchDateRangeFiltersDatedDocuments(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("", &models.SearchFilters{
		DateRange: &models.DateRange{
			From: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	})

	var ids []string
	for _, doc := range results {
		ids = append(ids, doc.ID)
	}
	assert.Contains(t, ids, "guide-care-plan-basics")
	assert.Contains(t, ids, "article-evv-requirements")
	assert.Contains(t, ids, "template-emergency-contacts")
	assert.NotContains(t, ids, "template-shift-handoff")
}

func TestSearchQueryAndFiltersCombine(t *testing.T) {
	s, _ := newTestSearchService(t)

	results := s.Search("care", &models.SearchFilters{Types: []models.DocumentKind{models.KindStory}})
	require.NotEmpty(t, results)
	for _, doc := range results {
		assert.Equal(t, models.KindStory, doc.Kind)
	}
}

func TestSuggestionsCapAtFive(t *testing.T) {
	s, _ := newTestSearchService(t)

	titles := s.Suggestions("care")
	require.Len(t, titles, 5)

	// Suggestions come back in index order.
	assert.Equal(t, "Building a Care Plan That Sticks", titles[0])
}

func TestSuggestionsEmptyInput(t *testing.T) {
	s, _ := newTestSearchService(t)

	assert.Empty(t, s.Suggestions(""))
	assert.Empty(t, s.Suggestions("   "))
}

func TestSuggestionsMatchCategoryToo(t *testing.T) {
	s, _ := newTestSearchService(t)

	titles := s.Suggestions("family stories")
	require.Len(t, titles, 1)
	assert.Equal(t, "Coordinating Care From Two Time Zones", titles[0])
}

func TestInitializeIsIdempotent(t *testing.T) {
	s, _ := newTestSearchService(t)
	s.Initialize()
	s.Initialize()

	assert.Len(t, s.Search("", nil), len(seedDocuments()))
}

func TestTrackSearchRecordsEvent(t *testing.T) {
	s, sink := newTestSearchService(t)

	s.TrackSearch("medication", 2)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "medication", sink.events[0].Query)
	assert.Equal(t, 2, sink.events[0].ResultCount)
	assert.False(t, sink.events[0].At.IsZero())
}

func TestTrackSearchSinkFailureDoesNotPropagate(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	s := NewSearchService(sink, zap.NewNop())
	s.Initialize()

	assert.NotPanics(t, func() {
		s.TrackSearch("medication", 2)
	})
	// The search path itself is unaffected.
	assert.NotEmpty(t, s.Search("medication", nil))
}

func TestSearchOnUninitializedIndexIsEmpty(t *testing.T) {
	s := NewSearchService(NewNoopAnalyticsSink(), zap.NewNop())

	assert.Empty(t, s.Search("care", nil))
	assert.Empty(t, s.Suggestions("care"))
}
