package flows

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems_PaginationBounds(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 12)
	h.loginWithPassword(t, "a@x.com")
	ctx := context.Background()

	h.view.Fetch(ctx, 1)
	snap := h.view.Snapshot()
	require.Equal(t, 1, snap.Page)
	require.Equal(t, 3, snap.TotalPages)
	require.Equal(t, 12, snap.TotalItems)
	require.Len(t, snap.Items, PageSize)

	h.gw.ClearRequests()
	h.view.PrevPage(ctx)
	assert.Empty(t, h.gw.Requests(), "prev on first page is a no-op")

	h.view.NextPage(ctx)
	h.view.NextPage(ctx)
	assert.Equal(t, 3, h.view.Snapshot().Page)
	assert.Len(t, h.view.Snapshot().Items, 2)

	h.gw.ClearRequests()
	h.view.NextPage(ctx)
	assert.Empty(t, h.gw.Requests(), "next on last page is a no-op")
	assert.Equal(t, 3, h.view.Snapshot().Page)

	assert.Equal(t, MsgNoSuchPage, h.view.GoTo(ctx, 4).Status)
	assert.Equal(t, MsgNoSuchPage, h.view.GoTo(ctx, 0).Status)
	assert.Empty(t, h.gw.Requests())

	h.view.GoTo(ctx, 2)
	assert.Equal(t, 2, h.view.Snapshot().Page)
	h.view.PrevPage(ctx)
	assert.Equal(t, 1, h.view.Snapshot().Page)
}

func TestItems_EmptyList(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.loginWithPassword(t, "a@x.com")
	ctx := context.Background()

	h.view.Fetch(ctx, 1)
	snap := h.view.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Zero(t, snap.TotalPages)
	assert.Empty(t, snap.Items)

	h.gw.ClearRequests()
	h.view.NextPage(ctx)
	assert.Empty(t, h.gw.Requests())
	assert.Equal(t, 1, h.view.Snapshot().Page)
}

func TestItems_FetchFailureKeepsItems(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 7)
	h.loginWithPassword(t, "a@x.com")
	ctx := context.Background()

	h.view.Fetch(ctx, 1)
	h.gw.Fail(http.MethodGet, "/items", http.StatusInternalServerError, "")

	r := h.view.NextPage(ctx)

	assert.Equal(t, MsgLoadFailed, r.Status)
	snap := h.view.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Items, PageSize)
	assert.Equal(t, MsgLoadFailed, snap.Status)

	h.gw.ClearFailures()
	r = h.view.Fetch(ctx, 1)
	assert.Empty(t, r.Status, "user fetch clears the status")
}

func TestItems_PageVanishedAfterDelete(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 6)
	require.NoError(t, h.store.Replace(models.Session{
		Token: h.gw.IssueToken("a@x.com", true), Email: "a@x.com", IsMfaRegistered: true, MfaVerified: true,
	}))
	ctx := context.Background()

	h.view.Fetch(ctx, 2)
	require.Len(t, h.view.Snapshot().Items, 1)

	r := h.view.remove(ctx, "item-6")

	assert.Equal(t, MsgItemDeleted, r.Status)
	snap := h.view.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Len(t, snap.Items, PageSize)
}

func TestItems_Edit(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 2)
	h.loginWithPassword(t, "a@x.com")
	ctx := context.Background()

	assert.Equal(t, MsgNotEditing, h.view.SaveEdit(ctx, models.ItemInput{Title: "x"}).Status)

	h.view.Fetch(ctx, 1)
	assert.Equal(t, MsgItemNotOnPage, h.view.StartEdit("item-9").Status)
	require.Empty(t, h.view.StartEdit("item-1").Status)
	require.NotNil(t, h.view.Snapshot().Editing)

	h.gw.ClearRequests()
	assert.Equal(t, MsgTitleRequired, h.view.SaveEdit(ctx, models.ItemInput{Title: " "}).Status)
	assert.Empty(t, h.gw.Requests())
	assert.NotNil(t, h.view.Snapshot().Editing)

	h.gw.Fail(http.MethodPut, "/items/item-1", http.StatusInternalServerError, "")
	assert.Equal(t, MsgUpdateFailed, h.view.SaveEdit(ctx, models.ItemInput{Title: "Renamed"}).Status)
	assert.NotNil(t, h.view.Snapshot().Editing, "failed save keeps edit state")
	h.gw.ClearFailures()

	r := h.view.SaveEdit(ctx, models.ItemInput{Title: "Renamed", Description: "d"})

	assert.Equal(t, MsgItemUpdated, r.Status)
	snap := h.view.Snapshot()
	assert.Nil(t, snap.Editing)
	assert.Equal(t, "Renamed", snap.Items[0].Title)
	assert.Equal(t, "d", snap.Items[0].Description)
	assert.Equal(t, MsgItemUpdated, snap.Status)

	h.view.StartEdit("item-2")
	h.view.CancelEdit()
	assert.Nil(t, h.view.Snapshot().Editing)
}

func TestItems_EditClearedByActionRefresh(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 7)
	h.loginWithPassword(t, "a@x.com")
	ctx := context.Background()

	h.view.Fetch(ctx, 1)
	h.view.StartEdit("item-1")
	h.view.NextPage(ctx)
	assert.NotNil(t, h.view.Snapshot().Editing, "navigation keeps edit state")

	h.view.SetDraft(models.ItemInput{Title: "Task"})
	h.gate.RequestCreate(ctx)
	require.Equal(t, MsgItemCreated, h.gate.Confirm(ctx, "123456").Status)
	assert.Nil(t, h.view.Snapshot().Editing)
}

func TestItems_Reset(t *testing.T) {
	h := newHarness(t)
	h.gw.AddAccount("a@x.com", "secret1", true)
	h.gw.SeedItems("a@x.com", 7)
	h.loginWithPassword(t, "a@x.com")

	h.view.Fetch(context.Background(), 2)
	h.view.SetDraft(models.ItemInput{Title: "x"})
	h.view.Reset()

	snap := h.view.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalPages)
	assert.Equal(t, models.ItemInput{}, snap.Draft)
}

// gatedItems blocks List for pages that have a gate channel.
type gatedItems struct {
	services.ItemService
	mu      sync.Mutex
	gates   map[int]chan struct{}
	entered chan int
}

func (g *gatedItems) List(ctx context.Context, page, limit int) (models.ItemsPage, error) {
	g.mu.Lock()
	gate := g.gates[page]
	g.mu.Unlock()

	g.entered <- page
	if gate != nil {
		<-gate
	}
	items := []models.Item{{ID: "p", Title: "page"}}
	return models.ItemsPage{Items: items, Page: page, Limit: limit, TotalPages: 5, TotalItems: 25}, nil
}

func TestItems_StaleResponseDiscarded(t *testing.T) {
	svc := &gatedItems{gates: map[int]chan struct{}{2: make(chan struct{})}, entered: make(chan int, 4)}
	view := NewItemsView(svc, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		view.Fetch(ctx, 2)
	}()
	require.Equal(t, 2, <-svc.entered)
	assert.True(t, view.Snapshot().Loading)

	view.Fetch(ctx, 3)
	<-svc.entered
	assert.Equal(t, 3, view.Snapshot().Page)
	assert.False(t, view.Snapshot().Loading)

	close(svc.gates[2])
	wg.Wait()

	snap := view.Snapshot()
	assert.Equal(t, 3, snap.Page, "slow page 2 must not overwrite page 3")
	assert.False(t, snap.Loading)
}

type failingItems struct {
	services.ItemService
}

func (failingItems) List(ctx context.Context, page, limit int) (models.ItemsPage, error) {
	return models.ItemsPage{}, errors.New("boom")
}

func TestItems_FetchFailureFallback(t *testing.T) {
	view := NewItemsView(failingItems{}, nil)

	r := view.Fetch(context.Background(), 1)

	assert.Equal(t, MsgLoadFailed, r.Status)
	assert.False(t, view.Snapshot().Loading)
}

func TestFormatTime(t *testing.T) {
	assert.Empty(t, FormatTime(time.Time{}))

	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	assert.Equal(t, ts.Local().Format("2006-01-02 15:04"), FormatTime(ts))
}
