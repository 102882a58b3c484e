package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/plugins"
)

// YouTubePlugin resolves raw channel ids and channel-page URLs into the
// public uploads feed. Handles (@name) cannot be mapped to a feed
// without the Data API, so this plugin does not claim them.
type YouTubePlugin struct{}

func NewYouTubePlugin() *YouTubePlugin {
	return &YouTubePlugin{}
}

func (p *YouTubePlugin) Name() string {
	return "youtube"
}

func (p *YouTubePlugin) CanHandle(input string) bool {
	input = strings.TrimSpace(input)
	if isChannelID(input) {
		return true
	}
	return strings.Contains(input, "youtube.com/channel/")
}

func (p *YouTubePlugin) Priority() int {
	return 50
}

func (p *YouTubePlugin) Resolve(_ context.Context, input string, _ *http.Client) (*plugins.ChannelInfo, error) {
	input = strings.TrimSpace(input)

	channelID := input
	if idx := strings.Index(input, "youtube.com/channel/"); idx != -1 {
		channelID = input[idx+len("youtube.com/channel/"):]
		if cut := strings.IndexAny(channelID, "/?#"); cut != -1 {
			channelID = channelID[:cut]
		}
	}

	return &plugins.ChannelInfo{
		Input:   input,
		FeedURL: catalog.UploadsFeedURL(channelID),
		Metadata: map[string]string{
			"plugin":     "youtube",
			"channel_id": channelID,
		},
	}, nil
}

// isChannelID matches the catalog's raw channel id shape: "UC" followed
// by 22 id characters.
func isChannelID(s string) bool {
	if len(s) != 24 || !strings.HasPrefix(s, "UC") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
