package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgLoadingFeed    = "Loading feed…"
	MsgLoadingMore    = "Loading more…"
	MsgLoadingVideo   = "Loading video…"
	MsgSearching      = "Searching…"
	MsgLoadingChannel = "Loading channel…"
	MsgNoResults      = "No results"
	MsgHistoryCleared = "Watch history cleared"
	MsgEntryRemoved   = "Removed from history"
)

func MsgOpenedIn(player string) string {
	return fmt.Sprintf("Opened in %s", player)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgChannelLoaded(title string, count int) string {
	return fmt.Sprintf("%s • %d uploads", title, count)
}
