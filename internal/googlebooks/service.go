package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/webdevtodayjason/bookpeek/internal/fetch"
)

const (
	defaultBaseURL    = "https://www.googleapis.com/books/v1"
	defaultMaxResults = 10
	maxResultsLimit   = 40

	// OrderByRelevance and OrderByNewest are the only sort orders the
	// upstream accepts.
	OrderByRelevance = "relevance"
	OrderByNewest    = "newest"
)

// Service searches the Google Books volumes API and normalizes the
// results. Construct it explicitly and inject it where needed; there
// is no package-level instance.
type Service struct {
	apiKey  string
	baseURL string
	client  *fetch.Client
}

// NewService creates a search service. The API key may be empty; the
// upstream accepts unauthenticated queries at a lower quota.
func NewService(apiKey string, opts ...Option) *Service {
	service := &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  fetch.NewClient(),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithBaseURL sets a custom base URL for the upstream API.
func WithBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithClient sets a custom fetch client.
func WithClient(client *fetch.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// Close releases network resources held by the underlying client.
func (s *Service) Close() {
	s.client.Close()
}

// Client returns the fetch client owned by this service.
func (s *Service) Client() *fetch.Client {
	return s.client
}

// SearchOptions carries the optional knobs of a volume search.
type SearchOptions struct {
	MaxResults   int
	StartIndex   int
	OrderBy      string
	LangRestrict string
}

// SearchResult is the uniform outcome of a search operation. Failures
// are reported in-band; nothing panics past this boundary.
type SearchResult struct {
	Success    bool            `json:"success"`
	TotalItems int             `json:"total_items"`
	Books      []BookRecord    `json:"books"`
	Query      string          `json:"query,omitempty"`
	StartIndex int             `json:"start_index"`
	MaxResults int             `json:"max_results"`
	Error      string          `json:"error,omitempty"`
	Kind       fetch.ErrorKind `json:"-"`
}

func searchFailure(kind fetch.ErrorKind, msg string) SearchResult {
	return SearchResult{
		Success: false,
		Error:   msg,
		Books:   []BookRecord{},
		Kind:    kind,
	}
}

// SearchBooks performs a free-text volume search. Upstream items that
// fail to parse are dropped; the rest of the batch is returned.
func (s *Service) SearchBooks(ctx context.Context, query string, opts SearchOptions) SearchResult {
	if strings.TrimSpace(query) == "" {
		return searchFailure(fetch.KindUnexpected, "Search query cannot be empty")
	}

	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}
	maxResults = min(max(1, maxResults), maxResultsLimit)

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = OrderByRelevance
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(opts.StartIndex))
	params.Set("orderBy", orderBy)
	if s.apiKey != "" {
		params.Set("key", s.apiKey)
	}
	if opts.LangRestrict != "" {
		params.Set("langRestrict", opts.LangRestrict)
	}

	result := s.client.Get(ctx, s.baseURL+"/volumes", params, nil, true)
	if !result.Success {
		slog.Error("Volume search failed", "query", query, "kind", result.Kind.String(), "error", result.Err)
		return searchFailure(result.Kind, upstreamErrorMessage(result))
	}

	var response volumesResponse
	if err := json.Unmarshal(result.Data, &response); err != nil {
		return searchFailure(fetch.KindUnexpected, fmt.Sprintf("Unexpected error: %v", err))
	}

	books := make([]BookRecord, 0, len(response.Items))
	for _, item := range response.Items {
		if record, ok := normalizeItem(item); ok {
			books = append(books, *record)
		}
	}

	return SearchResult{
		Success:    true,
		TotalItems: response.TotalItems,
		Books:      books,
		Query:      query,
		StartIndex: opts.StartIndex,
		MaxResults: maxResults,
	}
}

// upstreamErrorMessage maps a failed fetch to the message reported to
// callers. Rate limiting and network failures get friendlier wording.
func upstreamErrorMessage(result fetch.Result) string {
	switch result.Kind {
	case fetch.KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case fetch.KindNetwork:
		return "Network error occurred"
	default:
		return result.Err
	}
}

// SearchByISBN looks up a single book by ISBN-10 or ISBN-13. The
// second return value is false when no match exists; upstream
// failures also report not-found rather than faulting.
func (s *Service) SearchByISBN(ctx context.Context, isbn string) (*BookRecord, bool) {
	cleaned := CleanISBN(isbn)

	result := s.SearchBooks(ctx, "isbn:"+cleaned, SearchOptions{MaxResults: 1})
	if !result.Success || len(result.Books) == 0 {
		return nil, false
	}
	return &result.Books[0], true
}

// SearchByAuthor searches volumes scoped to an author name.
func (s *Service) SearchByAuthor(ctx context.Context, author string, opts SearchOptions) SearchResult {
	return s.SearchBooks(ctx, fieldClause("inauthor", author), opts)
}

// SearchByTitle searches volumes scoped to a title.
func (s *Service) SearchByTitle(ctx context.Context, title string, opts SearchOptions) SearchResult {
	return s.SearchBooks(ctx, fieldClause("intitle", title), opts)
}

// SearchByPublisher searches volumes scoped to a publisher.
func (s *Service) SearchByPublisher(ctx context.Context, publisher string, opts SearchOptions) SearchResult {
	return s.SearchBooks(ctx, fieldClause("inpublisher", publisher), opts)
}

// SearchByCategory searches volumes scoped to a subject category.
func (s *Service) SearchByCategory(ctx context.Context, category string, opts SearchOptions) SearchResult {
	return s.SearchBooks(ctx, fieldClause("subject", category), opts)
}

// AdvancedQuery holds the structured fields of an advanced search.
type AdvancedQuery struct {
	Title     string
	Author    string
	Publisher string
	Category  string
	ISBN      string
}

func (q AdvancedQuery) empty() bool {
	return q.Title == "" && q.Author == "" && q.Publisher == "" && q.Category == "" && q.ISBN == ""
}

// AdvancedSearch combines the supplied field clauses with AND
// semantics. With no fields set it fails fast without an upstream call.
func (s *Service) AdvancedSearch(ctx context.Context, query AdvancedQuery, opts SearchOptions) SearchResult {
	if query.empty() {
		return searchFailure(fetch.KindUnexpected, "At least one search field is required")
	}

	var clauses []string
	if query.Title != "" {
		clauses = append(clauses, fieldClause("intitle", query.Title))
	}
	if query.Author != "" {
		clauses = append(clauses, fieldClause("inauthor", query.Author))
	}
	if query.Publisher != "" {
		clauses = append(clauses, fieldClause("inpublisher", query.Publisher))
	}
	if query.Category != "" {
		clauses = append(clauses, fieldClause("subject", query.Category))
	}
	if query.ISBN != "" {
		clauses = append(clauses, "isbn:"+CleanISBN(query.ISBN))
	}

	return s.SearchBooks(ctx, strings.Join(clauses, " "), opts)
}

// GetBookByID fetches one volume by its upstream identifier. The
// second return value is false when the volume does not exist.
func (s *Service) GetBookByID(ctx context.Context, volumeID string) (*BookRecord, bool) {
	params := url.Values{}
	if s.apiKey != "" {
		params.Set("key", s.apiKey)
	}

	endpoint := s.baseURL + "/volumes/" + url.PathEscape(volumeID)
	result := s.client.Get(ctx, endpoint, params, nil, true)
	if !result.Success {
		if result.Kind != fetch.KindNotFound {
			slog.Error("Volume fetch failed", "volume_id", volumeID, "kind", result.Kind.String(), "error", result.Err)
		}
		return nil, false
	}

	record, ok := normalizeItem(result.Data)
	if !ok {
		return nil, false
	}
	return record, true
}

// fieldClause builds a field-scoped query clause like inauthor:"name".
func fieldClause(field, value string) string {
	return fmt.Sprintf("%s:%q", field, value)
}
