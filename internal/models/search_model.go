package models

import "time"

// DocumentKind classifies a searchable resource.
type DocumentKind string

const (
	KindGuide    DocumentKind = "guide"
	KindArticle  DocumentKind = "article"
	KindTemplate DocumentKind = "template"
	KindStory    DocumentKind = "story"
)

// SearchDocument is one entry in the resource index. Documents are seeded
// once at index initialization and are immutable afterwards.
type SearchDocument struct {
	ID          string            `json:"id"`
	Kind        DocumentKind      `json:"kind"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	URL         string            `json:"url"`
	LastUpdated *time.Time        `json:"lastUpdated,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DateRange is an inclusive [From, To] window on LastUpdated.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SearchFilters narrows a search by facet. A nil/empty field means "no
// constraint" for that facet. A document without LastUpdated is never
// excluded by DateRange.
type SearchFilters struct {
	Types      []DocumentKind `json:"types,omitempty"`
	Categories []string       `json:"categories,omitempty"`
	DateRange  *DateRange     `json:"dateRange,omitempty"`
}
