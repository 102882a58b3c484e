package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client talks to the remote video catalog. The wire format follows the
// YouTube Data API v3 search/videos endpoints; responses are mapped into
// the flat types in types.go before anything else sees them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	clientID   string
}

type ClientOptions struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	// ClientID is sent as X-Client-Id on every request so the catalog can
	// correlate calls from one installation. Optional.
	ClientID string
	Timeout  time.Duration
}

func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		clientID:   opts.ClientID,
	}
}

// Search fetches one page of results for req.Term. The returned page's
// NextPageToken is empty when the catalog has nothing further.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	const op = "catalog search"

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", req.Term)
	q.Set("maxResults", strconv.Itoa(req.PageSize))
	if req.PageToken != "" {
		q.Set("pageToken", req.PageToken)
	}

	var body searchResponse
	if err := c.get(ctx, op, "/search", q, &body); err != nil {
		return nil, err
	}

	page := &SearchPage{NextPageToken: body.NextPageToken}
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		page.Items = append(page.Items, item.Snippet.toVideo(item.ID.VideoID))
	}
	return page, nil
}

// Video fetches the full detail record for a single video.
func (c *Client) Video(ctx context.Context, id string) (*Detail, error) {
	const op = "catalog video"

	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", id)

	var body videosResponse
	if err := c.get(ctx, op, "/videos", q, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("video %q not found", id)}
	}

	item := body.Items[0]
	detail := &Detail{
		Video:       item.Snippet.toVideo(item.ID),
		Description: item.Snippet.Description,
		FetchedAt:   time.Now(),
	}
	detail.ViewCount, _ = strconv.ParseUint(item.Statistics.ViewCount, 10, 64)
	detail.LikeCount, _ = strconv.ParseUint(item.Statistics.LikeCount, 10, 64)
	return detail, nil
}

// Related returns up to limit videos to show next to a watch page. The
// catalog has no dedicated endpoint for this, so it is a search seeded
// with the video's channel title, with the video itself filtered out.
func (c *Client) Related(ctx context.Context, video Video, limit int) ([]Video, error) {
	term := video.ChannelTitle
	if term == "" {
		term = video.Title
	}

	page, err := c.Search(ctx, SearchRequest{Term: term, PageSize: limit + 1})
	if err != nil {
		return nil, err
	}

	related := make([]Video, 0, limit)
	for _, v := range page.Items {
		if v.ID == video.ID {
			continue
		}
		related = append(related, v)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// Wire shapes, kept private to the package.

type snippetJSON struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channelTitle"`
	ChannelID    string    `json:"channelId"`
	PublishedAt  time.Time `json:"publishedAt"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

func (s snippetJSON) toVideo(id string) Video {
	thumb := s.Thumbnails.Medium.URL
	if thumb == "" {
		thumb = s.Thumbnails.Default.URL
	}
	return Video{
		ID:           id,
		Title:        s.Title,
		ChannelTitle: s.ChannelTitle,
		ChannelID:    s.ChannelID,
		ThumbnailURL: thumb,
		PublishedAt:  s.PublishedAt,
	}
}

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippetJSON `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID         string      `json:"id"`
		Snippet    snippetJSON `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}
