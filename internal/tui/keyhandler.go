package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/config"
	"github.com/streamix/streamix/internal/feed"
	"github.com/streamix/streamix/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	validator   *validation.FeedURLValidator
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		config:      cfg,
		modifierKey: cfg.Keys.Modifier + "+",
		validator:   validation.NewFeedURLValidator(),
	}
}

func (kh *KeyHandler) bind(key string) string {
	return kh.modifierKey + key
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewAddChannel:
		return kh.app.channelInput.Focused()
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "up":
		if kh.dropdownActive() {
			if kh.app.historyCursor > 0 {
				kh.app.historyCursor--
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	case "down":
		if kh.dropdownActive() {
			if kh.app.historyCursor < len(kh.app.historyEntries)-1 {
				kh.app.historyCursor++
			}
			return kh.app, nil
		}
		if kh.app.view == ViewSearch && len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	case "tab":
		if kh.app.view == ViewSearch && len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	case kh.bind(kh.config.Keys.Bindings.RemoveEntry):
		if kh.dropdownActive() {
			term := kh.app.historyEntries[kh.app.historyCursor].Key
			return kh.app, kh.app.removeSearchEntry(term)
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

// dropdownActive reports whether the search-history dropdown is showing
// and should capture navigation keys.
func (kh *KeyHandler) dropdownActive() bool {
	return kh.app.dropdownVisible()
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		if kh.dropdownActive() {
			term := kh.app.historyEntries[kh.app.historyCursor].Key
			kh.app.searchInput.SetValue(term)
			kh.app.searchInput.Blur()
			kh.app.setStatus(MsgSearching)
			return kh.app, kh.app.performSearch(term)
		}

		term := kh.sanitizeSearchInput(kh.app.searchInput.Value())
		if term == "" {
			return kh.app, nil
		}
		kh.app.searchInput.Blur()
		kh.app.setStatus(MsgSearching)
		return kh.app, tea.Batch(kh.app.performSearch(term), kh.app.loadSearchHistory())

	case ViewAddChannel:
		input := strings.TrimSpace(kh.app.channelInput.Value())
		if input == "" {
			return kh.app, nil
		}
		if kh.app.registry.FindPlugin(input) == nil {
			// Not a recognized channel reference, so it must be a feed URL.
			normalized, err := kh.validator.ValidateAndNormalize(input)
			if err != nil {
				return kh.app, func() tea.Msg { return errorMsg{err: err} }
			}
			input = normalized
		}
		kh.app.setStatus(MsgLoadingChannel)
		return kh.app, kh.app.loadChannel(input)

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		newSearchInput, cmd := kh.app.searchInput.Update(msg)
		kh.app.searchInput = newSearchInput
		kh.app.historyCursor = 0
		return kh.app, cmd

	case ViewAddChannel:
		newTextInput, cmd := kh.app.channelInput.Update(msg)
		kh.app.channelInput = newTextInput
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	// Global custom keys
	switch key {
	case "ctrl+c", b.Quit:
		return kh.app, tea.Quit, true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.bind(b.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.bind(b.History):
		model, cmd := kh.enterWatchHistory()
		return model, cmd, true
	case kh.bind(b.Channel):
		model, cmd := kh.enterAddChannel()
		return model, cmd, true
	}

	// View-specific custom keys
	switch kh.app.view {
	case ViewFeed:
		return kh.handleFeedCustomKeys(key)
	case ViewWatch:
		return kh.handleWatchCustomKeys(key)
	case ViewSearch:
		return kh.handleSearchCustomKeys(key)
	case ViewWatchHistory:
		return kh.handleHistoryCustomKeys(key)
	case ViewChannel:
		return kh.handleChannelCustomKeys(key)
	case ViewClearConfirm:
		return kh.handleClearConfirmKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleFeedCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	switch key {
	case "tab":
		kh.app.category = (kh.app.category + 1) % len(feed.Categories)
		return kh.app, kh.app.startFeed(), true
	case "shift+tab":
		kh.app.category = (kh.app.category + len(feed.Categories) - 1) % len(feed.Categories)
		return kh.app, kh.app.startFeed(), true
	case kh.bind(b.Refresh):
		if kh.app.controller.Phase() == feed.PhaseError {
			return kh.app, func() tea.Msg { kh.app.controller.Retry(); return nil }, true
		}
		kh.app.setStatus(MsgLoadingFeed)
		return kh.app, kh.app.startFeed(), true
	case kh.bind(b.OpenVideo):
		if i, ok := kh.app.feedList.SelectedItem().(videoItem); ok {
			return kh.app, kh.app.openVideo(i.video), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleWatchCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	switch key {
	case kh.bind(b.OpenVideo):
		if kh.app.currentVideo != nil {
			return kh.app, kh.app.openVideo(*kh.app.currentVideo), true
		}
		return kh.app, nil, true
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		kh.app.relatedList, cmd = kh.app.relatedList.Update(keyMsgFor(key))
		return kh.app, cmd, true
	case "enter":
		if i, ok := kh.app.relatedList.SelectedItem().(videoItem); ok {
			model, cmd := kh.watchVideo(i.video)
			return model, cmd, true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleSearchCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	if key == kh.bind(b.OpenVideo) {
		if i, ok := kh.app.searchList.SelectedItem().(videoItem); ok {
			return kh.app, kh.app.openVideo(i.video), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleHistoryCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	switch key {
	case kh.bind(b.RemoveEntry):
		if i, ok := kh.app.historyList.SelectedItem().(videoItem); ok {
			return kh.app, kh.app.removeWatchEntry(i.video.ID), true
		}
		return kh.app, nil, true
	case kh.bind(b.ClearHistory):
		if len(kh.app.historyList.Items()) > 0 {
			kh.app.view = ViewClearConfirm
		}
		return kh.app, nil, true
	case kh.bind(b.OpenVideo):
		if i, ok := kh.app.historyList.SelectedItem().(videoItem); ok {
			return kh.app, kh.app.openVideo(i.video), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleChannelCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings

	if key == kh.bind(b.OpenVideo) {
		if i, ok := kh.app.channelList.SelectedItem().(videoItem); ok {
			return kh.app, kh.app.openVideo(i.video), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleClearConfirmKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == "enter" {
		kh.app.view = ViewWatchHistory
		return kh.app, kh.app.clearWatchHistory(), true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewFeed:
		kh.app.feedList, cmd = kh.app.feedList.Update(msg)
		kh.app.observeScroll()
		if msg.String() == "enter" {
			if i, ok := kh.app.feedList.SelectedItem().(videoItem); ok {
				return kh.watchVideo(i.video)
			}
		}
		return kh.app, cmd

	case ViewSearch:
		if !kh.app.searchInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab":
				kh.app.searchInput.Focus()
				return kh.app, kh.app.loadSearchHistory()
			case "up":
				if len(kh.app.searchList.Items()) > 0 && kh.app.searchList.Index() == 0 {
					kh.app.searchInput.Focus()
					return kh.app, kh.app.loadSearchHistory()
				}
			case "/", "i":
				kh.app.searchInput.Focus()
				return kh.app, kh.app.loadSearchHistory()
			}
		}

		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
		if msg.String() == "enter" && !kh.app.searchInput.Focused() {
			if i, ok := kh.app.searchList.SelectedItem().(videoItem); ok {
				kh.app.cameFromSearch = true
				return kh.watchVideo(i.video)
			}
		}
		return kh.app, cmd

	case ViewWatch:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	case ViewWatchHistory:
		kh.app.historyList, cmd = kh.app.historyList.Update(msg)
		if msg.String() == "enter" && kh.app.historyList.FilterState() != list.Filtering {
			if i, ok := kh.app.historyList.SelectedItem().(videoItem); ok {
				return kh.watchVideo(i.video)
			}
		}
		return kh.app, cmd

	case ViewChannel:
		kh.app.channelList, cmd = kh.app.channelList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := kh.app.channelList.SelectedItem().(videoItem); ok {
				return kh.watchVideo(i.video)
			}
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// watchVideo transitions to the watch view and starts loading.
func (kh *KeyHandler) watchVideo(video catalog.Video) (tea.Model, tea.Cmd) {
	v := video
	kh.app.currentVideo = &v
	kh.app.currentDetail = nil
	kh.app.loadingVideo = true
	kh.app.watchedIDs[v.ID] = true
	if kh.app.view != ViewWatch {
		kh.app.previousView = kh.app.view
	}
	kh.app.view = ViewWatch
	kh.app.setStatus(MsgLoadingVideo)
	return kh.app, kh.app.loadDetail(v)
}

// navigateBack implements view-aware back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddChannel:
		kh.app.view = kh.app.previousView
		kh.app.channelInput.Reset()
		return kh.app, nil

	case ViewClearConfirm:
		kh.app.view = ViewWatchHistory
		return kh.app, nil

	case ViewSearch:
		kh.app.view = kh.app.previousView
		kh.app.searchInput.Reset()
		kh.app.searchResults = nil
		kh.app.searchList.SetItems(nil)
		kh.app.historyCursor = 0
		return kh.app, nil

	case ViewWatch:
		if kh.app.cameFromSearch {
			kh.app.view = ViewSearch
			kh.app.cameFromSearch = false
			kh.app.searchInput.Blur()
			return kh.app, nil
		}
		if kh.app.previousView == ViewWatch {
			kh.app.previousView = ViewFeed
		}
		kh.app.view = kh.app.previousView
		return kh.app, nil

	case ViewWatchHistory, ViewChannel:
		kh.app.view = ViewFeed
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// enterSearchMode transitions to search view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()
	kh.app.searchResults = nil
	kh.app.searchList.SetItems(nil)
	kh.app.historyCursor = 0
	return kh.app, kh.app.loadSearchHistory()
}

func (kh *KeyHandler) enterWatchHistory() (tea.Model, tea.Cmd) {
	kh.app.view = ViewWatchHistory
	return kh.app, kh.app.loadWatchHistory()
}

func (kh *KeyHandler) enterAddChannel() (tea.Model, tea.Cmd) {
	// From the watch view, jump straight to the current video's channel.
	if kh.app.view == ViewWatch && kh.app.currentVideo != nil && kh.app.currentVideo.ChannelID != "" {
		kh.app.previousView = ViewFeed
		kh.app.setStatus(MsgLoadingChannel)
		return kh.app, kh.app.loadChannel(kh.app.currentVideo.ChannelID)
	}

	kh.app.previousView = kh.app.view
	kh.app.view = ViewAddChannel
	kh.app.channelInput.Reset()
	kh.app.channelInput.Focus()
	return kh.app, nil
}

// sanitizeSearchInput sanitizes and limits search input length
func (kh *KeyHandler) sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)

	if len(input) > 256 {
		input = input[:256]
	}

	input = strings.ReplaceAll(input, "\n", " ")
	input = strings.ReplaceAll(input, "\r", " ")
	input = strings.ReplaceAll(input, "\t", " ")

	for strings.Contains(input, "  ") {
		input = strings.ReplaceAll(input, "  ", " ")
	}

	return strings.TrimSpace(input)
}

func (kh *KeyHandler) retryHint() string {
	return kh.bind(kh.config.Keys.Bindings.Refresh) + ": retry"
}

// keyMsgFor builds a KeyMsg for re-dispatching navigation keys.
func keyMsgFor(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.config.Keys.Bindings

	switch kh.app.view {
	case ViewFeed:
		return []string{
			"tab: category",
			kh.bind(b.Search) + ": search",
			kh.bind(b.History) + ": history",
			kh.bind(b.Channel) + ": channel",
			kh.bind(b.Refresh) + ": refresh",
		}

	case ViewWatch:
		return []string{
			kh.bind(b.OpenVideo) + ": play",
			"↑↓: up next",
			"enter: watch",
			kh.bind(b.Channel) + ": channel",
		}

	case ViewSearch:
		return []string{kh.bind(b.OpenVideo) + ": play", kh.bind(b.Search) + ": search"}

	case ViewWatchHistory:
		return []string{
			kh.bind(b.OpenVideo) + ": play",
			kh.bind(b.RemoveEntry) + ": remove",
			kh.bind(b.ClearHistory) + ": clear",
		}

	case ViewChannel:
		return []string{kh.bind(b.OpenVideo) + ": play", "enter: watch", "esc: back"}

	case ViewAddChannel:
		return []string{"enter: open", "esc: cancel"}

	case ViewClearConfirm:
		return []string{"enter: confirm", "esc: cancel"}

	default:
		return []string{}
	}
}
