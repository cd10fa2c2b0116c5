// Package googlebooks provides the search service that proxies the
// Google Books volumes API and normalizes its records.
package googlebooks

import "encoding/json"

// volumesResponse matches the /volumes search response. Items are kept
// raw so one malformed item cannot fail the whole batch.
type volumesResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

// Volume is one upstream catalog record.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the nested book metadata of a Volume.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          ImageLinks           `json:"imageLinks"`
	PublishedDate       string               `json:"publishedDate"`
	Publisher           string               `json:"publisher"`
	PageCount           *int                 `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       *float64             `json:"averageRating"`
	RatingsCount        *int                 `json:"ratingsCount"`
	Language            string               `json:"language"`
	PreviewLink         string               `json:"previewLink"`
	InfoLink            string               `json:"infoLink"`
}

// IndustryIdentifier is a typed external identifier (ISBN_10, ISBN_13, ...).
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks holds the cover image URLs in the upstream's sizes.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

// BookRecord is the stable internal shape returned to callers.
// Every field except ID and Title is optional.
type BookRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	ISBN13        string   `json:"isbn13,omitempty"`
	CoverImage    string   `json:"cover_image,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Categories    []string `json:"categories"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingsCount  *int     `json:"ratings_count,omitempty"`
	Language      string   `json:"language,omitempty"`
	PreviewLink   string   `json:"preview_link,omitempty"`
	InfoLink      string   `json:"info_link,omitempty"`
}
