package server

import (
	"net/http"
	"strconv"

	"github.com/webdevtodayjason/bookpeek/internal/googlebooks"
)

type bookResponse struct {
	Success bool                    `json:"success"`
	Book    *googlebooks.BookRecord `json:"book"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "BookPeek API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"search":          "/api/search/books",
			"advanced_search": "/api/search/books/advanced",
			"author_search":   "/api/search/books/author/{author}",
			"isbn_search":     "/api/search/books/isbn/{isbn}",
			"book_details":    "/api/search/books/{volume_id}",
			"cache_stats":     "/api/search/cache/stats",
			"health":          "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "bookpeek-api",
	})
}

// handleSearchBooks serves free-text search. Validation failures map
// to 400; upstream failures come back as 200 with success=false and an
// empty book list.
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if !googlebooks.ValidateQuery(query) {
		writeError(w, http.StatusBadRequest, "Invalid search query")
		return
	}

	opts, ok := searchOptionsFromRequest(w, r)
	if !ok {
		return
	}

	result := s.service.SearchBooks(r.Context(), query, opts)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := googlebooks.AdvancedQuery{
		Title:     params.Get("title"),
		Author:    params.Get("author"),
		Publisher: params.Get("publisher"),
		Category:  params.Get("category"),
		ISBN:      params.Get("isbn"),
	}

	if query == (googlebooks.AdvancedQuery{}) {
		writeError(w, http.StatusBadRequest, "At least one search field is required")
		return
	}

	opts, ok := searchOptionsFromRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, s.service.AdvancedSearch(r.Context(), query, opts))
}

func (s *Server) handleAuthorSearch(w http.ResponseWriter, r *http.Request) {
	author := r.PathValue("author")
	if !googlebooks.ValidateQuery(author) {
		writeError(w, http.StatusBadRequest, "Invalid author name")
		return
	}

	opts, ok := searchOptionsFromRequest(w, r)
	if !ok {
		return
	}

	result := s.service.SearchByAuthor(r.Context(), author, opts)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleISBNSearch(w http.ResponseWriter, r *http.Request) {
	isbn := googlebooks.CleanISBN(r.PathValue("isbn"))
	if !googlebooks.ValidISBNLength(isbn) {
		writeError(w, http.StatusBadRequest, "Invalid ISBN format. Must be ISBN-10 or ISBN-13")
		return
	}

	book, found := s.service.SearchByISBN(r.Context(), isbn)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found with given ISBN")
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Success: true, Book: book})
}

func (s *Server) handleBookDetails(w http.ResponseWriter, r *http.Request) {
	volumeID := r.PathValue("volume_id")

	book, found := s.service.GetBookByID(r.Context(), volumeID)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found with given ID")
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Success: true, Book: book})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Client().Cache().Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.service.Client().Cache().Clear()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cache cleared",
	})
}

// searchOptionsFromRequest parses the shared pagination/sort query
// parameters. On invalid input it writes a 400 and returns ok=false.
func searchOptionsFromRequest(w http.ResponseWriter, r *http.Request) (googlebooks.SearchOptions, bool) {
	params := r.URL.Query()
	opts := googlebooks.SearchOptions{
		OrderBy:      googlebooks.OrderByRelevance,
		LangRestrict: params.Get("lang"),
	}

	if raw := params.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_results must be an integer")
			return opts, false
		}
		opts.MaxResults = n
	}

	if raw := params.Get("start_index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "start_index must be a non-negative integer")
			return opts, false
		}
		opts.StartIndex = n
	}

	if raw := params.Get("order_by"); raw != "" {
		if raw != googlebooks.OrderByRelevance && raw != googlebooks.OrderByNewest {
			writeError(w, http.StatusBadRequest, "order_by must be 'relevance' or 'newest'")
			return opts, false
		}
		opts.OrderBy = raw
	}

	return opts, true
}
