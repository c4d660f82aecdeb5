// Package feeds provides the HTTP handlers for the subscription-list
// editing API: import/export, feed queries and mutations, undo history,
// and liveness validation.
package feeds

import (
	"time"

	"opml-gardener/internal/domain/entity"
)

// FeedDTO is the JSON representation of one feed in API responses.
type FeedDTO struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	FeedURL       string   `json:"feedUrl"`
	SiteURL       string   `json:"siteUrl,omitempty"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags,omitempty"`
	Validity      string   `json:"validity"`
	LastCheckedAt *string  `json:"lastCheckedAt,omitempty"`
	LastUpdatedAt *string  `json:"lastUpdatedAt,omitempty"`
	IsSelected    bool     `json:"isSelected"`
}

func toDTO(f *entity.Feed) FeedDTO {
	return FeedDTO{
		ID:            f.ID,
		Title:         f.Title,
		FeedURL:       f.FeedURL,
		SiteURL:       f.SiteURL,
		Category:      f.Category,
		Tags:          f.Tags,
		Validity:      string(f.Validity),
		LastCheckedAt: formatTime(f.LastCheckedAt),
		LastUpdatedAt: formatTime(f.LastUpdatedAt),
		IsSelected:    f.Selected,
	}
}

func toDTOs(feeds []*entity.Feed) []FeedDTO {
	out := make([]FeedDTO, len(feeds))
	for i, f := range feeds {
		out[i] = toDTO(f)
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

// historyStateDTO reports the undo/redo availability after an operation.
type historyStateDTO struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}
