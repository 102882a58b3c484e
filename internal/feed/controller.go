package feed

import (
	"context"
	"sync"

	"github.com/streamix/streamix/internal/catalog"
	"github.com/streamix/streamix/internal/debuglog"
)

// Phase is the controller's fetch state. At most one fetch is in flight,
// so LoadingInitial and LoadingMore are mutually exclusive.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingInitial
	PhaseLoadingMore
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingInitial:
		return "loading"
	case PhaseLoadingMore:
		return "loading more"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Categories shown in the feed's filter strip. "All" maps to the
// configured default search term when the catalog call is issued.
var Categories = []string{"All", "Music", "Gaming", "News", "Live", "Sports", "Learning"}

// Query identifies what the feed is showing.
type Query struct {
	Category string
}

// Searcher is the catalog capability the controller needs.
type Searcher interface {
	Search(ctx context.Context, req catalog.SearchRequest) (*catalog.SearchPage, error)
}

// Controller drives paged retrieval for the active query. Items only
// grow within a query's lifetime; switching queries discards everything.
// A generation counter increments on every SetQuery, and a fetch whose
// generation no longer matches when it completes is dropped, so a slow
// response for the previous category can never leak into the new one.
type Controller struct {
	client      Searcher
	pageSize    int
	defaultTerm string

	mu      sync.Mutex
	gen     uint64
	query   Query
	items   []catalog.Video
	cursor  string
	hasMore bool
	phase   Phase
	err     error

	updates chan struct{}
}

type Options struct {
	PageSize    int
	DefaultTerm string
}

func NewController(client Searcher, opts Options) *Controller {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 24
	}
	defaultTerm := opts.DefaultTerm
	if defaultTerm == "" {
		defaultTerm = "trending"
	}
	return &Controller{
		client:      client,
		pageSize:    pageSize,
		defaultTerm: defaultTerm,
		hasMore:     true,
		updates:     make(chan struct{}, 1),
	}
}

// SetQuery replaces the active query, discards the current state and
// issues the first-page fetch.
func (c *Controller) SetQuery(query Query) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.query = query
	c.items = nil
	c.cursor = ""
	c.hasMore = true
	c.err = nil
	c.phase = PhaseLoadingInitial
	term := c.resolveTermLocked()
	c.mu.Unlock()

	c.notify()
	go c.fetch(gen, term, "")
}

// LoadMore issues the next-page fetch. It is a no-op unless the
// controller is idle with more results available, so redundant triggers
// from the viewport are harmless.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	if c.phase != PhaseIdle || !c.hasMore {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseLoadingMore
	gen := c.gen
	term := c.resolveTermLocked()
	cursor := c.cursor
	c.mu.Unlock()

	c.notify()
	go c.fetch(gen, term, cursor)
}

// Retry re-issues the fetch that failed: the initial page when nothing
// was loaded, the next page otherwise. No-op unless in the error phase.
func (c *Controller) Retry() {
	c.mu.Lock()
	if c.phase != PhaseError {
		c.mu.Unlock()
		return
	}
	if len(c.items) == 0 {
		c.phase = PhaseLoadingInitial
	} else {
		c.phase = PhaseLoadingMore
	}
	c.err = nil
	gen := c.gen
	term := c.resolveTermLocked()
	cursor := c.cursor
	c.mu.Unlock()

	c.notify()
	go c.fetch(gen, term, cursor)
}

func (c *Controller) fetch(gen uint64, term, cursor string) {
	page, err := c.client.Search(context.Background(), catalog.SearchRequest{
		Term:      term,
		PageSize:  c.pageSize,
		PageToken: cursor,
	})

	c.mu.Lock()
	if gen != c.gen {
		// The query changed while this fetch was in flight.
		c.mu.Unlock()
		debuglog.Debugf("feed: dropping stale response for %q", term)
		return
	}

	if err != nil {
		c.phase = PhaseError
		c.err = err
		c.mu.Unlock()
		c.notify()
		return
	}

	c.items = append(c.items, page.Items...)
	c.cursor = page.NextPageToken
	// Token absence is the sole termination signal; an empty page with a
	// token still means more may exist.
	c.hasMore = page.NextPageToken != ""
	c.phase = PhaseIdle
	c.err = nil
	c.mu.Unlock()
	c.notify()
}

// Items returns a snapshot of the accumulated results in arrival order.
func (c *Controller) Items() []catalog.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Video(nil), c.items...)
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Updates yields a coalesced signal after every state change so a
// rendering layer can block on it instead of polling.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Controller) resolveTermLocked() string {
	if c.query.Category == "" || c.query.Category == "All" {
		return c.defaultTerm
	}
	return c.query.Category
}
