package googlebooks

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// defaultTitle is used when the upstream record has no title.
const defaultTitle = "Unknown Title"

// normalizeItem decodes one raw catalog item and normalizes it.
// A malformed item yields (nil, false) so batch processing can skip
// it and continue; parsing never aborts the whole response.
func normalizeItem(raw json.RawMessage) (*BookRecord, bool) {
	var volume Volume
	if err := json.Unmarshal(raw, &volume); err != nil {
		slog.Warn("Dropping malformed catalog item", "error", err)
		return nil, false
	}
	return NormalizeVolume(volume), true
}

// NormalizeVolume converts one upstream record into a BookRecord.
// Absent fields stay empty; the title is defaulted. The conversion is
// pure and idempotent.
func NormalizeVolume(volume Volume) *BookRecord {
	info := volume.VolumeInfo

	record := &BookRecord{
		ID:            volume.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		Publisher:     info.Publisher,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		Language:      info.Language,
		PreviewLink:   info.PreviewLink,
		InfoLink:      info.InfoLink,
	}

	if record.Title == "" {
		record.Title = defaultTitle
	}
	if record.Authors == nil {
		record.Authors = []string{}
	}
	if record.Categories == nil {
		record.Categories = []string{}
	}

	// First identifier of each type wins; later duplicates are ignored.
	for _, identifier := range info.IndustryIdentifiers {
		switch identifier.Type {
		case "ISBN_10":
			if record.ISBN == "" {
				record.ISBN = identifier.Identifier
			}
		case "ISBN_13":
			if record.ISBN13 == "" {
				record.ISBN13 = identifier.Identifier
			}
		}
	}

	record.CoverImage = secureURL(firstNonEmpty(info.ImageLinks.Large, info.ImageLinks.Medium, info.ImageLinks.Small))
	record.Thumbnail = secureURL(firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail))

	return record
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// secureURL rewrites an insecure scheme prefix to https.
func secureURL(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}
