package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamix/streamix/internal/catalog"
)

type fetchReply struct {
	page *catalog.SearchPage
	err  error
}

type fetchCall struct {
	req   catalog.SearchRequest
	reply chan fetchReply
}

// stubCatalog hands each Search call to the test so it can resolve them
// in any order it wants.
type stubCatalog struct {
	calls chan fetchCall
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{calls: make(chan fetchCall, 8)}
}

func (s *stubCatalog) Search(_ context.Context, req catalog.SearchRequest) (*catalog.SearchPage, error) {
	call := fetchCall{req: req, reply: make(chan fetchReply)}
	s.calls <- call
	r := <-call.reply
	return r.page, r.err
}

func (s *stubCatalog) nextCall(t *testing.T) fetchCall {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a catalog call")
		return fetchCall{}
	}
}

func (s *stubCatalog) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case call := <-s.calls:
		t.Fatalf("unexpected catalog call for term %q", call.req.Term)
	case <-time.After(100 * time.Millisecond):
	}
}

func makePage(prefix string, n int, token string) *catalog.SearchPage {
	page := &catalog.SearchPage{NextPageToken: token}
	for i := 0; i < n; i++ {
		page.Items = append(page.Items, catalog.Video{
			ID:    fmt.Sprintf("%s-%d", prefix, i),
			Title: fmt.Sprintf("%s video %d", prefix, i),
		})
	}
	return page
}

func waitForPhase(t *testing.T, c *Controller, want Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Phase() == want
	}, 2*time.Second, 5*time.Millisecond, "never reached phase %v", want)
}

func TestController_InitialLoad(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "All"})
	assert.Equal(t, PhaseLoadingInitial, c.Phase())

	call := stub.nextCall(t)
	assert.Equal(t, "trending", call.req.Term)
	assert.Equal(t, 24, call.req.PageSize)
	assert.Empty(t, call.req.PageToken)

	call.reply <- fetchReply{page: makePage("all", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)

	assert.Len(t, c.Items(), 24)
	assert.True(t, c.HasMore())
}

func TestController_CategoryUsedVerbatim(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})

	call := stub.nextCall(t)
	assert.Equal(t, "Music", call.req.Term)
	call.reply <- fetchReply{page: makePage("music", 1, "")}
	waitForPhase(t, c, PhaseIdle)
}

func TestController_LoadMore_AppendsAndTerminates(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)

	c.LoadMore()
	call := stub.nextCall(t)
	assert.Equal(t, "T1", call.req.PageToken)
	call.reply <- fetchReply{page: makePage("p2", 24, "")}
	waitForPhase(t, c, PhaseIdle)

	items := c.Items()
	assert.Len(t, items, 48)
	assert.Equal(t, "p1-0", items[0].ID)
	assert.Equal(t, "p2-23", items[47].ID)
	assert.False(t, c.HasMore())

	// exhausted feeds issue no further network calls
	c.LoadMore()
	stub.expectNoCall(t)
}

func TestController_StalenessGuard(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	slowCall := stub.nextCall(t)

	c.SetQuery(Query{Category: "Gaming"})
	gamingCall := stub.nextCall(t)
	gamingCall.reply <- fetchReply{page: makePage("gaming", 24, "G1")}
	waitForPhase(t, c, PhaseIdle)

	// The slow Music response lands after the switch and must be dropped.
	slowCall.reply <- fetchReply{page: makePage("music", 24, "M1")}
	time.Sleep(50 * time.Millisecond)

	items := c.Items()
	require.Len(t, items, 24)
	for _, v := range items {
		assert.Contains(t, v.ID, "gaming")
	}
	assert.Equal(t, Query{Category: "Gaming"}, c.Query())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestController_StaleErrorDropped(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	slowCall := stub.nextCall(t)

	c.SetQuery(Query{Category: "News"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("news", 5, "")}
	waitForPhase(t, c, PhaseIdle)

	// Even a failure from the dead query must not disturb the new one.
	slowCall.reply <- fetchReply{err: errors.New("boom")}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, PhaseIdle, c.Phase())
	assert.NoError(t, c.Err())
	assert.Len(t, c.Items(), 5)
}

func TestController_IdleGuard(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)

	c.LoadMore()
	c.LoadMore()
	c.LoadMore()

	call := stub.nextCall(t)
	stub.expectNoCall(t)
	call.reply <- fetchReply{page: makePage("p2", 24, "")}
	waitForPhase(t, c, PhaseIdle)
	assert.Len(t, c.Items(), 48)
}

func TestController_LoadMoreDuringInitialIsNoop(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	call := stub.nextCall(t)

	c.LoadMore()
	stub.expectNoCall(t)

	call.reply <- fetchReply{page: makePage("p1", 24, "")}
	waitForPhase(t, c, PhaseIdle)
}

func TestController_EmptyPageWithTokenKeepsGoing(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 0, "T1")}
	waitForPhase(t, c, PhaseIdle)

	assert.Empty(t, c.Items())
	assert.True(t, c.HasMore(), "a token means more may exist even when the page was empty")

	c.LoadMore()
	call := stub.nextCall(t)
	assert.Equal(t, "T1", call.req.PageToken)
	call.reply <- fetchReply{page: makePage("p2", 3, "")}
	waitForPhase(t, c, PhaseIdle)
	assert.Len(t, c.Items(), 3)
}

func TestController_ErrorPreservesItems(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)

	c.LoadMore()
	stub.nextCall(t).reply <- fetchReply{err: errors.New("network down")}
	waitForPhase(t, c, PhaseError)

	assert.Len(t, c.Items(), 24)
	assert.True(t, c.HasMore())
	assert.Error(t, c.Err())

	// no automatic retry
	stub.expectNoCall(t)
}

func TestController_Retry_NextPage(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)

	c.LoadMore()
	stub.nextCall(t).reply <- fetchReply{err: errors.New("network down")}
	waitForPhase(t, c, PhaseError)

	c.Retry()
	call := stub.nextCall(t)
	assert.Equal(t, "T1", call.req.PageToken, "retry must re-issue the same logical fetch")
	call.reply <- fetchReply{page: makePage("p2", 24, "")}
	waitForPhase(t, c, PhaseIdle)

	assert.Len(t, c.Items(), 48)
	assert.NoError(t, c.Err())
}

func TestController_Retry_InitialPage(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{err: errors.New("network down")}
	waitForPhase(t, c, PhaseError)
	assert.Empty(t, c.Items())

	c.Retry()
	assert.Equal(t, PhaseLoadingInitial, c.Phase())
	call := stub.nextCall(t)
	assert.Empty(t, call.req.PageToken)
	call.reply <- fetchReply{page: makePage("p1", 24, "")}
	waitForPhase(t, c, PhaseIdle)
	assert.Len(t, c.Items(), 24)
}

func TestController_RetryOutsideErrorIsNoop(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "")}
	waitForPhase(t, c, PhaseIdle)

	c.Retry()
	stub.expectNoCall(t)
}

func TestController_SetQueryDiscardsPriorState(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("music", 24, "T1")}
	waitForPhase(t, c, PhaseIdle)
	require.Len(t, c.Items(), 24)

	c.SetQuery(Query{Category: "News"})
	assert.Empty(t, c.Items(), "no carry-over of items across queries")
	assert.True(t, c.HasMore())

	call := stub.nextCall(t)
	assert.Empty(t, call.req.PageToken, "no carry-over of cursor across queries")
	call.reply <- fetchReply{page: makePage("news", 10, "")}
	waitForPhase(t, c, PhaseIdle)
	assert.Len(t, c.Items(), 10)
}

func TestController_UpdatesSignal(t *testing.T) {
	stub := newStubCatalog()
	c := NewController(stub, Options{PageSize: 24, DefaultTerm: "trending"})

	c.SetQuery(Query{Category: "Music"})
	stub.nextCall(t).reply <- fetchReply{page: makePage("p1", 24, "")}

	select {
	case <-c.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("no update signal received")
	}
}
