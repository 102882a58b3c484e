package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/config"
	"github.com/streamix/streamix/internal/feed"
	"github.com/streamix/streamix/internal/history"
	"github.com/streamix/streamix/internal/media"
	"github.com/streamix/streamix/internal/plugins"
	"github.com/streamix/streamix/internal/plugins/user"
	"github.com/streamix/streamix/internal/search"
	"github.com/streamix/streamix/internal/storage"
)

// loadMoreThreshold is how many rows from the bottom of the feed the
// cursor may be before the next page is requested.
const loadMoreThreshold = 6

type App struct {
	config        *config.Config
	store         *storage.Store
	client        *catalog.Client
	controller    *feed.Controller
	trigger       *feed.Trigger
	channelFeed   *catalog.ChannelFeed
	registry      *plugins.Registry
	launcher      *media.Launcher
	index         *search.Index
	searchHistory *history.Store[string]
	watchHistory  *history.Store[catalog.Video]
	keyHandler    *KeyHandler

	feedList     list.Model
	searchList   list.Model
	relatedList  list.Model
	historyList  list.Model
	channelList  list.Model
	searchInput  textinput.Model
	channelInput textinput.Model
	viewport     viewport.Model
	help         help.Model

	view           View
	previousView   View
	cameFromSearch bool
	category       int
	currentVideo   *catalog.Video
	currentDetail  *catalog.Detail
	searchResults  []catalog.Video
	channelTitle   string

	// search-history dropdown state
	historyEntries []history.Entry[string]
	historyCursor  int

	watchedIDs map[string]bool

	width        int
	height       int
	status       string
	err          error
	loadingVideo bool

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(store *storage.Store, index *search.Index, cfg *config.Config) *App {
	clientID := ""
	if store != nil {
		if id, err := store.ClientID(); err == nil {
			clientID = id
		}
	}

	client := catalog.NewClient(catalog.ClientOptions{
		BaseURL:   cfg.API.BaseURL,
		APIKey:    cfg.API.Key,
		UserAgent: cfg.API.UserAgent,
		ClientID:  clientID,
		Timeout:   cfg.API.HTTPTimeout,
	})

	controller := feed.NewController(client, feed.Options{
		PageSize:    cfg.API.FeedPageSize,
		DefaultTerm: cfg.API.DefaultTerm,
	})

	registry := plugins.NewRegistry(cfg.API.HTTPTimeout)
	registry.Register(user.NewYouTubePlugin())

	feedList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	feedList.Title = "› feed"
	feedList.SetShowStatusBar(false)
	feedList.SetFilteringEnabled(false)
	feedList.SetShowHelp(true)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	relatedList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	relatedList.Title = "› up next"
	relatedList.SetShowStatusBar(false)
	relatedList.SetShowHelp(false)
	relatedList.SetFilteringEnabled(false)

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "› watch history"
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(true)
	historyList.SetShowHelp(true)

	channelList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	channelList.Title = "› channel"
	channelList.SetShowStatusBar(false)
	channelList.SetFilteringEnabled(false)
	channelList.SetShowHelp(true)

	vp := viewport.New(0, 0)

	si := textinput.New()
	si.Placeholder = "Search videos..."

	ci := textinput.New()
	ci.Placeholder = "Channel ID or URL..."

	app := &App{
		config:        cfg,
		store:         store,
		client:        client,
		controller:    controller,
		channelFeed:   catalog.NewChannelFeed(cfg.API.UserAgent, cfg.API.HTTPTimeout),
		registry:      registry,
		launcher:      media.NewLauncher(cfg),
		index:         index,
		searchHistory: history.NewStore[string](store, history.SearchHistoryKey, cfg.History.SearchCapacity),
		watchHistory:  history.NewStore[catalog.Video](store, history.WatchHistoryKey, cfg.History.WatchCapacity),
		feedList:      feedList,
		searchList:    searchList,
		relatedList:   relatedList,
		historyList:   historyList,
		channelList:   channelList,
		searchInput:   si,
		channelInput:  ci,
		viewport:      vp,
		help:          help.New(),
		view:          ViewFeed,
		previousView:  ViewFeed,
		watchedIDs:    map[string]bool{},
	}

	app.trigger = feed.NewTrigger(controller.LoadMore)
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.startFeed(),
		a.waitForFeed(),
		a.loadWatchHistory(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.feedList.SetSize(msg.Width, msg.Height-5)
		a.historyList.SetSize(msg.Width, msg.Height-3)
		a.channelList.SetSize(msg.Width, msg.Height-4)
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)

		relatedHeight := (msg.Height - 3) * 2 / 5
		if relatedHeight < 5 {
			relatedHeight = 5
		}
		a.relatedList.SetSize(msg.Width, relatedHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3 - relatedHeight

		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth
		a.channelInput.Width = inputWidth

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case feedUpdatedMsg:
		a.syncFeed()
		cmds = append(cmds, a.waitForFeed())

	case detailLoadedMsg:
		if msg.err != nil {
			a.loadingVideo = false
			a.err = msg.err
			break
		}
		if a.view == ViewWatch {
			a.currentDetail = msg.detail
			items := make([]list.Item, len(msg.related))
			for i, v := range msg.related {
				items[i] = videoItem{video: v, watched: a.watchedIDs[v.ID]}
			}
			a.relatedList.SetItems(items)
			a.relatedList.Select(0)
			cmds = append(cmds, a.renderDetail(msg.detail), a.loadWatchHistory())
		}

	case detailRenderedMsg:
		if a.view == ViewWatch {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingVideo = false
		}

	case searchResultsMsg:
		if msg.err != nil {
			a.err = msg.err
			break
		}
		if a.view == ViewSearch {
			a.searchResults = msg.videos
			items := make([]list.Item, len(msg.videos))
			for i, v := range msg.videos {
				items[i] = videoItem{video: v, watched: a.watchedIDs[v.ID]}
			}
			a.searchList.SetItems(items)
			a.status = MsgResultsCount(len(msg.videos))
		}

	case searchHistoryMsg:
		a.historyEntries = msg.entries
		if a.historyCursor >= len(msg.entries) {
			a.historyCursor = 0
		}

	case watchHistoryMsg:
		a.watchedIDs = make(map[string]bool, len(msg.entries))
		for _, e := range msg.entries {
			a.watchedIDs[e.Key] = true
		}
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = videoItem{video: e.Value, watched: true}
		}
		a.historyList.SetItems(items)
		if msg.note != "" {
			a.status = msg.note
		}

	case channelLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			a.view = a.previousView
			break
		}
		a.channelTitle = msg.title
		a.channelList.Title = "› " + msg.title
		items := make([]list.Item, len(msg.videos))
		for i, v := range msg.videos {
			items[i] = videoItem{video: v, watched: a.watchedIDs[v.ID]}
		}
		a.channelList.SetItems(items)
		a.channelList.Select(0)
		a.view = ViewChannel
		a.status = MsgChannelLoaded(msg.title, len(msg.videos))

	case videoOpenedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.status = MsgOpenedIn(msg.player)
		}

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewFeed:
		newListModel, cmd := a.feedList.Update(msg)
		a.feedList = newListModel
		cmds = append(cmds, cmd)
		a.observeScroll()
	case ViewWatch:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		newSearchList, listCmd := a.searchList.Update(msg)
		a.searchList = newSearchList
		cmds = append(cmds, listCmd)
	case ViewWatchHistory:
		newListModel, cmd := a.historyList.Update(msg)
		a.historyList = newListModel
		cmds = append(cmds, cmd)
	case ViewChannel:
		newListModel, cmd := a.channelList.Update(msg)
		a.channelList = newListModel
		cmds = append(cmds, cmd)
	case ViewAddChannel:
		newTextInput, cmd := a.channelInput.Update(msg)
		a.channelInput = newTextInput
		cmds = append(cmds, cmd)
	case ViewClearConfirm:
	}

	return a, tea.Batch(cmds...)
}

// syncFeed mirrors the controller's snapshot into the feed list.
func (a *App) syncFeed() {
	videos := a.controller.Items()
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v, watched: a.watchedIDs[v.ID]}
	}
	selected := a.feedList.Index()
	a.feedList.SetItems(items)
	if selected < len(items) {
		a.feedList.Select(selected)
	}

	if err := a.controller.Err(); err != nil {
		a.err = err
	} else {
		a.err = nil
	}
}

// observeScroll reports cursor proximity to the bottom of the feed, the
// edge transition requests the next page.
func (a *App) observeScroll() {
	if a.trigger == nil {
		return
	}
	total := len(a.feedList.Items())
	if total == 0 {
		a.trigger.Observe(false)
		return
	}
	a.trigger.Observe(total-a.feedList.Index() <= loadMoreThreshold)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewFeed:
		strip := renderCategoryStrip(feed.Categories, a.category, a.width)
		var body string
		if len(a.feedList.Items()) == 0 {
			message := MsgLoadingFeed
			if a.controller.Phase() == feed.PhaseError {
				message = "Feed unavailable • " + a.keyHandler.retryHint()
			}
			body = renderCentered(a.width, a.height-5, GetCompactBanner(message))
		} else {
			body = a.feedList.View()
		}
		content = lipgloss.JoinVertical(lipgloss.Top, strip, "", body)

	case ViewWatch:
		if a.loadingVideo {
			content = renderCentered(a.width, a.height-3,
				renderMuted(MsgLoadingVideo))
		} else {
			content = lipgloss.JoinVertical(
				lipgloss.Top,
				a.viewport.View(),
				a.relatedList.View(),
			)
		}

	case ViewSearch:
		content = a.renderSearchView()

	case ViewWatchHistory:
		if len(a.historyList.Items()) == 0 {
			content = renderCentered(a.width, a.height-3,
				renderMuted("Nothing watched yet"))
		} else {
			content = a.historyList.View()
		}

	case ViewChannel:
		header := renderHeader("› "+a.channelTitle, "", a.width)
		content = lipgloss.JoinVertical(lipgloss.Top, header, a.channelList.View())

	case ViewAddChannel:
		content = renderCentered(a.width, a.height-3,
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render("› open channel"),
				"",
				renderInputFrame(a.channelInput.View(), a.channelInput.Focused(), a.channelInput.Width),
				"",
				renderHelp("Press Enter to open, Esc to cancel"),
			),
		)

	case ViewClearConfirm:
		content = a.renderClearConfirm()
	}

	statusBar := a.getStatusBar()
	if statusBar != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
	}

	return content
}

// dropdownVisible reports whether the search-history dropdown is shown:
// the input is focused with nothing typed and there are saved terms.
func (a *App) dropdownVisible() bool {
	return a.view == ViewSearch &&
		a.searchInput.Focused() &&
		strings.TrimSpace(a.searchInput.Value()) == "" &&
		len(a.historyEntries) > 0
}

func (a *App) renderSearchView() string {
	inputFrame := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	rows := []string{
		HeaderStyle.Render("› search"),
		"",
		inputFrame,
	}

	if a.dropdownVisible() {
		var lines []string
		for i, e := range a.historyEntries {
			line := truncateEnd(e.Key, a.width-6)
			if i == a.historyCursor {
				lines = append(lines, ModalHighlightStyle.Render("› "+line))
			} else {
				lines = append(lines, renderMuted("  "+line))
			}
		}
		dropdown := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1).
			Render(lipgloss.JoinVertical(lipgloss.Top, lines...))
		rows = append(rows, dropdown,
			renderHelp("↑↓: pick • Enter: search • ctrl+x: forget • Esc: close"))
	} else {
		helpText := ""
		switch {
		case a.searchInput.Focused():
			helpText = "Type and press Enter • ↓: results • Esc: back"
		case len(a.searchList.Items()) > 0:
			helpText = "↑↓: navigate • Enter: watch • Tab: search box • Esc: back"
		default:
			helpText = MsgNoResults + " • Tab: search box • Esc: back"
		}
		rows = append(rows, renderHelp(helpText), "", a.searchList.View())
	}

	searchContent := lipgloss.JoinVertical(lipgloss.Top, rows...)
	return ContentWrapper(a.width, a.height-3).Render(searchContent)
}

func (a *App) renderClearConfirm() string {
	modalWidth := (a.width * 4) / 5
	if modalWidth < 20 {
		modalWidth = a.width
	}

	return renderCentered(a.width, a.height-3,
		lipgloss.JoinVertical(
			lipgloss.Center,
			ErrorMessageStyle.Render("⚠ Clear Watch History"),
			"",
			ModalTextStyle.
				Width(modalWidth).
				Align(lipgloss.Center).
				Render("Forget everything you have watched?"),
			"",
			renderMuted("This cannot be undone."),
			"",
			"",
			renderHelp("Enter: confirm • Esc: cancel"),
		),
	)
}

func (a *App) getStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if a.err != nil {
		errText := ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err))
		return StatusBarStyle.Width(a.width).Render(errText)
	}

	phase := a.controller.Phase()
	if a.view == ViewFeed && phase == feed.PhaseLoadingMore {
		commands = append([]string{MsgLoadingMore}, commands...)
	}

	if a.status != "" {
		commands = append([]string{a.status}, commands...)
	}

	if len(commands) == 0 {
		return ""
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(commands, " • "))
}

func (a *App) setStatus(s string) {
	a.status = s
	a.err = nil
}

type videoItem struct {
	video   catalog.Video
	watched bool
}

func (i videoItem) Title() string {
	if i.watched {
		return WatchedItemStyle.Render(i.video.Title)
	}
	if time.Since(i.video.PublishedAt) < 48*time.Hour && !i.video.PublishedAt.IsZero() {
		return FreshItemStyle.Render("● " + i.video.Title)
	}
	return i.video.Title
}

func (i videoItem) Description() string {
	desc := ChannelStyle.Render(i.video.ChannelTitle)
	if !i.video.PublishedAt.IsZero() {
		desc += TimeStyle.Render(" • " + relTime(i.video.PublishedAt))
	}
	return desc
}

func (i videoItem) FilterValue() string {
	return i.video.Title + " " + i.video.ChannelTitle
}

// relTime renders a compact relative timestamp for list rows.
func relTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

type feedUpdatedMsg struct{}

type detailLoadedMsg struct {
	detail  *catalog.Detail
	related []catalog.Video
	err     error
}

type detailRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	term   string
	videos []catalog.Video
	err    error
}

type searchHistoryMsg struct {
	entries []history.Entry[string]
}

type watchHistoryMsg struct {
	entries []history.Entry[catalog.Video]
	note    string
}

type channelLoadedMsg struct {
	title  string
	videos []catalog.Video
	err    error
}

type videoOpenedMsg struct {
	player string
	err    error
}

type errorMsg struct {
	err error
}
