package flows

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/client/services"
	"github.com/dmitrijs2005/itemgate/internal/logging"
)

// PageSize is the number of items requested per page.
const PageSize = 5

const (
	MsgLoadFailed    = "Failed to load items."
	MsgTitleRequired = "Title is required."
	MsgItemCreated   = "Item created."
	MsgItemDeleted   = "Item deleted."
	MsgItemUpdated   = "Item updated."
	MsgCreateFailed  = "Failed to create item."
	MsgDeleteFailed  = "Failed to delete item."
	MsgUpdateFailed  = "Failed to update item."
	MsgNoSuchPage    = "No such page."
	MsgItemNotOnPage = "Item not found on this page."
	MsgNotEditing    = "No item is being edited."
)

const timeLayout = "2006-01-02 15:04"

// ItemsSnapshot is a consistent copy of the view state.
type ItemsSnapshot struct {
	Items      []models.Item
	Page       int
	TotalPages int
	TotalItems int
	Loading    bool
	Status     string
	Draft      models.ItemInput
	// Editing is the item under edit, or nil.
	Editing *models.Item
}

// ItemsView is the paginated list of the user's items plus the create
// draft and the edit state. It is safe for concurrent use; fetches run
// unlocked and a response is applied only if no newer fetch started.
type ItemsView struct {
	mu  sync.Mutex
	svc services.ItemService
	log logging.Logger

	items      []models.Item
	page       int
	totalPages int
	totalItems int
	loading    bool
	seq        uint64
	status     string

	draft   models.ItemInput
	editing *models.Item
}

func NewItemsView(svc services.ItemService, log logging.Logger) *ItemsView {
	return &ItemsView{svc: svc, log: orNop(log), page: 1, items: []models.Item{}}
}

func (v *ItemsView) Snapshot() ItemsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := ItemsSnapshot{
		Items:      append([]models.Item(nil), v.items...),
		Page:       v.page,
		TotalPages: v.totalPages,
		TotalItems: v.totalItems,
		Loading:    v.loading,
		Status:     v.status,
		Draft:      v.draft,
	}
	if v.editing != nil {
		e := *v.editing
		s.Editing = &e
	}
	return s
}

// Reset forgets everything, e.g. on logout.
func (v *ItemsView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.items = []models.Item{}
	v.page, v.totalPages, v.totalItems = 1, 0, 0
	v.loading = false
	v.status = ""
	v.draft = models.ItemInput{}
	v.editing = nil
}

// Fetch loads page. A user-triggered fetch clears the status line.
func (v *ItemsView) Fetch(ctx context.Context, page int) Result {
	return v.fetch(ctx, page, "", false)
}

// NextPage is a no-op on the last page.
func (v *ItemsView) NextPage(ctx context.Context) Result {
	v.mu.Lock()
	page, total := v.page, v.totalPages
	v.mu.Unlock()

	if page >= total {
		return Result{}
	}
	return v.Fetch(ctx, page+1)
}

// PrevPage is a no-op on the first page.
func (v *ItemsView) PrevPage(ctx context.Context) Result {
	v.mu.Lock()
	page := v.page
	v.mu.Unlock()

	if page <= 1 {
		return Result{}
	}
	return v.Fetch(ctx, page-1)
}

// GoTo fetches page n if it is within [1, max(1, TotalPages)].
func (v *ItemsView) GoTo(ctx context.Context, n int) Result {
	v.mu.Lock()
	last := max(1, v.totalPages)
	v.mu.Unlock()

	if n < 1 || n > last {
		return status(MsgNoSuchPage)
	}
	return v.Fetch(ctx, n)
}

// fetch keeps keepStatus as the status line when set, so an action's own
// message survives the refresh that follows it. clearEdit drops the edit
// state once the refresh has landed.
func (v *ItemsView) fetch(ctx context.Context, page int, keepStatus string, clearEdit bool) Result {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.loading = true
	v.mu.Unlock()

	p, err := v.svc.List(ctx, page, PageSize)
	if err == nil && p.TotalPages > 0 && p.Page > p.TotalPages {
		// The page vanished underneath us, e.g. its last item was deleted.
		p, err = v.svc.List(ctx, p.TotalPages, PageSize)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		v.log.Debug(ctx, "stale items response discarded", "page", page)
		return Result{Status: v.status}
	}
	v.loading = false

	if err != nil {
		v.log.Error(ctx, "items fetch failed", "page", page, "error", err)
		v.status = client.MessageOr(err, MsgLoadFailed)
		return status(v.status)
	}

	v.items = p.Items
	v.totalPages = p.TotalPages
	v.totalItems = p.TotalItems
	v.page = min(max(1, p.Page), max(1, p.TotalPages))
	v.status = keepStatus
	if clearEdit {
		v.editing = nil
	}
	return status(v.status)
}

func (v *ItemsView) SetDraft(in models.ItemInput) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = in
}

func (v *ItemsView) Draft() models.ItemInput {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// setStatus records an action message without fetching.
func (v *ItemsView) setStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = msg
}

// create sends the current draft. On success the draft is cleared and the
// first page is reloaded.
func (v *ItemsView) create(ctx context.Context) Result {
	in := v.Draft()

	it, err := v.svc.Create(ctx, in)
	if err != nil {
		v.log.Error(ctx, "item create failed", "error", err)
		msg := client.MessageOr(err, MsgCreateFailed)
		v.setStatus(msg)
		return status(msg)
	}
	v.log.Info(ctx, "item created", "id", it.ID)

	v.SetDraft(models.ItemInput{})
	return v.fetch(ctx, 1, MsgItemCreated, true)
}

// remove deletes id and reloads the current page.
func (v *ItemsView) remove(ctx context.Context, id string) Result {
	if err := v.svc.Delete(ctx, id); err != nil {
		v.log.Error(ctx, "item delete failed", "id", id, "error", err)
		msg := client.MessageOr(err, MsgDeleteFailed)
		v.setStatus(msg)
		return status(msg)
	}
	v.log.Info(ctx, "item deleted", "id", id)

	v.mu.Lock()
	page := v.page
	v.mu.Unlock()
	return v.fetch(ctx, page, MsgItemDeleted, true)
}

// StartEdit begins editing an item of the current page.
func (v *ItemsView) StartEdit(id string) Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, it := range v.items {
		if it.ID == id {
			e := it
			v.editing = &e
			return Result{}
		}
	}
	return status(MsgItemNotOnPage)
}

func (v *ItemsView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing = nil
}

// SaveEdit updates the item under edit and reloads the current page. Edit
// state is kept when the update fails.
func (v *ItemsView) SaveEdit(ctx context.Context, in models.ItemInput) Result {
	v.mu.Lock()
	editing := v.editing
	page := v.page
	v.mu.Unlock()

	if editing == nil {
		return status(MsgNotEditing)
	}
	if strings.TrimSpace(in.Title) == "" {
		return status(MsgTitleRequired)
	}

	if _, err := v.svc.Update(ctx, editing.ID, in); err != nil {
		v.log.Error(ctx, "item update failed", "id", editing.ID, "error", err)
		msg := client.MessageOr(err, MsgUpdateFailed)
		v.setStatus(msg)
		return status(msg)
	}

	v.CancelEdit()
	return v.fetch(ctx, page, MsgItemUpdated, false)
}

// FormatTime renders t in local time, or "" for the zero value.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
