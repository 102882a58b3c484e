package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/debuglog"
	"github.com/streamix/streamix/internal/feed"
)

// startFeed kicks off the first-page fetch for the active category.
func (a *App) startFeed() tea.Cmd {
	category := feed.Categories[a.category]
	return func() tea.Msg {
		a.controller.SetQuery(feed.Query{Category: category})
		return nil
	}
}

// waitForFeed blocks on the controller's update channel and converts the
// signal into a message. The command re-arms itself from Update.
func (a *App) waitForFeed() tea.Cmd {
	return func() tea.Msg {
		<-a.controller.Updates()
		return feedUpdatedMsg{}
	}
}

// loadDetail fetches the watch page for a video, records it in the
// watch history and keeps the local search index current.
func (a *App) loadDetail(video catalog.Video) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		detail, err := a.client.Video(ctx, video.ID)
		if err != nil {
			// A cached copy still lets the user read the watch page offline.
			if cached, cacheErr := a.store.GetDetail(video.ID); cacheErr == nil {
				debuglog.Infof("serving cached detail for %s", video.ID)
				detail = cached
			} else {
				return detailLoadedMsg{err: wrapErr("loading video", err)}
			}
		} else if saveErr := a.store.SaveDetail(detail); saveErr != nil {
			debuglog.Warnf("caching detail for %s: %v", video.ID, saveErr)
		}

		if _, histErr := a.watchHistory.Insert(video.ID, video); histErr != nil {
			debuglog.Warnf("recording watch history: %v", histErr)
		}
		if idxErr := a.index.Add(video); idxErr != nil {
			debuglog.Warnf("indexing %s: %v", video.ID, idxErr)
		}

		related, err := a.client.Related(ctx, video, a.config.API.RelatedLimit)
		if err != nil {
			debuglog.Warnf("loading related videos: %v", err)
			related = nil
		}

		return detailLoadedMsg{detail: detail, related: related}
	}
}

// renderDetail turns a watch-page record into styled markdown.
func (a *App) renderDetail(detail *catalog.Detail) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", detail.Title))
		content.WriteString(fmt.Sprintf("*%s*", detail.ChannelTitle))
		if !detail.PublishedAt.IsZero() {
			content.WriteString(fmt.Sprintf(" • *%s*", relTime(detail.PublishedAt)))
		}
		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("**%s views • %s likes**\n\n",
			groupDigits(detail.ViewCount), groupDigits(detail.LikeCount)))
		content.WriteString(fmt.Sprintf("[Watch](%s)\n\n", catalog.WatchURL(detail.ID)))
		content.WriteString("---\n\n")

		if detail.Description != "" {
			content.WriteString(detail.Description)
		} else {
			content.WriteString("*No description.*")
		}

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render video page: %s\n\nPress Escape to go back.", err.Error())}
		}

		return detailRenderedMsg{content: rendered}
	}
}

// performSearch runs a one-shot catalog search and records the term.
func (a *App) performSearch(term string) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.searchHistory.Insert(term, term); err != nil {
			debuglog.Warnf("recording search history: %v", err)
		}

		page, err := a.client.Search(context.Background(), catalog.SearchRequest{
			Term:     term,
			PageSize: a.config.API.SearchPageSize,
		})
		if err != nil {
			return searchResultsMsg{term: term, err: wrapErr("searching", err)}
		}

		return searchResultsMsg{term: term, videos: page.Items}
	}
}

func (a *App) loadSearchHistory() tea.Cmd {
	return func() tea.Msg {
		return searchHistoryMsg{entries: a.searchHistory.Load()}
	}
}

func (a *App) removeSearchEntry(term string) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.searchHistory.Remove(term)
		if err != nil {
			return errorMsg{err: wrapErr("removing search entry", err)}
		}
		return searchHistoryMsg{entries: entries}
	}
}

func (a *App) loadWatchHistory() tea.Cmd {
	return func() tea.Msg {
		return watchHistoryMsg{entries: a.watchHistory.Load()}
	}
}

func (a *App) removeWatchEntry(id string) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.watchHistory.Remove(id)
		if err != nil {
			return errorMsg{err: wrapErr("removing history entry", err)}
		}
		if idxErr := a.index.Remove(id); idxErr != nil {
			debuglog.Warnf("deindexing %s: %v", id, idxErr)
		}
		return watchHistoryMsg{entries: entries, note: MsgEntryRemoved}
	}
}

func (a *App) clearWatchHistory() tea.Cmd {
	return func() tea.Msg {
		if err := a.watchHistory.Clear(); err != nil {
			return errorMsg{err: wrapErr("clearing history", err)}
		}
		if err := a.index.Rebuild(nil); err != nil {
			debuglog.Warnf("resetting index: %v", err)
		}
		return watchHistoryMsg{entries: nil, note: MsgHistoryCleared}
	}
}

// loadChannel resolves the input to an uploads feed and fetches it.
func (a *App) loadChannel(input string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		info, err := a.registry.ResolveChannel(ctx, input)
		if err != nil {
			return channelLoadedMsg{err: wrapErr("resolving channel", err)}
		}

		title, videos, err := a.channelFeed.Fetch(ctx, info.FeedURL)
		if err != nil {
			return channelLoadedMsg{err: wrapErr("loading channel", err)}
		}
		if title == "" {
			title = info.Title
		}

		return channelLoadedMsg{title: title, videos: videos}
	}
}

// openVideo hands the watch URL to the external player.
func (a *App) openVideo(video catalog.Video) tea.Cmd {
	return func() tea.Msg {
		url := catalog.WatchURL(video.ID)
		if err := a.launcher.Open(url); err != nil {
			return videoOpenedMsg{err: wrapErr("opening "+url, err)}
		}
		return videoOpenedMsg{player: a.launcher.Player()}
	}
}

// groupDigits formats n with thousands separators for the watch page.
func groupDigits(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
