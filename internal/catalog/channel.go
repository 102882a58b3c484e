package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ChannelFeed reads a channel's uploads through its public Atom feed,
// which needs no API key. Entries carry the video id in the yt extension
// namespace; the watch link is the fallback.
type ChannelFeed struct {
	parser *gofeed.Parser
}

func NewChannelFeed(userAgent string, timeout time.Duration) *ChannelFeed {
	p := gofeed.NewParser()
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	if timeout > 0 {
		p.Client = &http.Client{Timeout: timeout}
	}
	return &ChannelFeed{parser: p}
}

// Fetch downloads and parses the uploads feed at feedURL.
func (cf *ChannelFeed) Fetch(ctx context.Context, feedURL string) (string, []Video, error) {
	feed, err := cf.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return "", nil, fmt.Errorf("fetching channel feed: %w", err)
	}

	videos := make([]Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		v := Video{
			Title:        item.Title,
			ChannelTitle: feed.Title,
		}
		if item.Author != nil && item.Author.Name != "" {
			v.ChannelTitle = item.Author.Name
		}
		if item.PublishedParsed != nil {
			v.PublishedAt = *item.PublishedParsed
		}
		v.ID = videoIDFromEntry(item)
		if v.ID == "" {
			continue
		}
		if media, ok := item.Extensions["media"]; ok {
			if groups, ok := media["group"]; ok && len(groups) > 0 {
				if thumbs, ok := groups[0].Children["thumbnail"]; ok && len(thumbs) > 0 {
					v.ThumbnailURL = thumbs[0].Attrs["url"]
				}
			}
		}
		videos = append(videos, v)
	}

	return feed.Title, videos, nil
}

func videoIDFromEntry(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if ids, ok := yt["videoId"]; ok && len(ids) > 0 && ids[0].Value != "" {
			return ids[0].Value
		}
	}
	// Fallback: ?v= parameter of the watch link.
	if item.Link != "" {
		if u, err := url.Parse(item.Link); err == nil {
			if v := u.Query().Get("v"); v != "" {
				return v
			}
		}
	}
	// Last resort: Atom entry ids look like "yt:video:<id>".
	if idx := strings.LastIndex(item.GUID, ":"); idx != -1 && idx < len(item.GUID)-1 {
		return item.GUID[idx+1:]
	}
	return ""
}

// UploadsFeedURL builds the uploads feed URL for a raw channel id.
func UploadsFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID)
}

// WatchURL returns the public watch page for a video, suitable for
// handing to an external player.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
