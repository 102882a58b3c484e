package catalog

import (
	"time"
)

// Video is the lightweight card shape used by the feed, search results
// and the watch history.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	ChannelID    string    `json:"channel_id"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PublishedAt  time.Time `json:"published_at"`
}

// Detail is the full watch-page record for a single video.
type Detail struct {
	Video
	Description string    `json:"description"`
	ViewCount   uint64    `json:"view_count"`
	LikeCount   uint64    `json:"like_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// SearchRequest describes one page of a catalog search. An empty
// PageToken requests the first page.
type SearchRequest struct {
	Term      string
	PageSize  int
	PageToken string
}

// SearchPage is one page of results. An empty NextPageToken means the
// catalog has no further pages for this term.
type SearchPage struct {
	Items         []Video
	NextPageToken string
}
