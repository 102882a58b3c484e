package plugins

import (
	"context"
	"net/http"
	"time"
)

// ChannelInfo is what a plugin resolves a user-entered channel reference
// into: the uploads feed to poll plus whatever display metadata the
// plugin could derive without fetching the feed itself.
type ChannelInfo struct {
	// Input as the user typed it
	Input string
	// FeedURL is the uploads feed to fetch
	FeedURL string
	// Title is a display name, when derivable from the input alone
	Title string
	// Metadata carries plugin-specific extras
	Metadata map[string]string
}

// Plugin resolves one family of channel references (a host's URL shapes,
// raw ids, handles).
type Plugin interface {
	// Name identifies the plugin
	Name() string

	// CanHandle reports whether this plugin understands the input
	CanHandle(input string) bool

	// Resolve turns the input into ChannelInfo. May issue HTTP requests
	// through the supplied client to follow redirects or read metadata.
	Resolve(ctx context.Context, input string, client *http.Client) (*ChannelInfo, error)

	// Priority breaks ties when several plugins can handle the input
	// (higher wins)
	Priority() int
}

// Registry manages all registered plugins.
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		plugins: make([]Plugin, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the highest-priority plugin that can handle input,
// or nil when none can.
func (r *Registry) FindPlugin(input string) Plugin {
	var best Plugin
	highest := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(input) && plugin.Priority() > highest {
			best = plugin
			highest = plugin.Priority()
		}
	}

	return best
}

// ResolveChannel resolves input through the best matching plugin. With
// no matching plugin the input is assumed to already be a feed URL.
func (r *Registry) ResolveChannel(ctx context.Context, input string) (*ChannelInfo, error) {
	plugin := r.FindPlugin(input)
	if plugin == nil {
		return &ChannelInfo{
			Input:    input,
			FeedURL:  input,
			Metadata: make(map[string]string),
		}, nil
	}

	return plugin.Resolve(ctx, input, r.client)
}

// ListPlugins returns all registered plugins.
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}
