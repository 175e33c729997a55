package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/itemgate/internal/client/flows"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
)

// List reloads the current page.
func (a *App) List(ctx context.Context) error {
	a.render(a.items.Fetch(ctx, a.items.Snapshot().Page))
	a.printItems()
	return nil
}

func (a *App) Next(ctx context.Context) error {
	a.render(a.items.NextPage(ctx))
	a.printItems()
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	a.render(a.items.PrevPage(ctx))
	a.printItems()
	return nil
}

func (a *App) Page(ctx context.Context, n string) error {
	page, err := strconv.Atoi(n)
	if err != nil {
		a.say("Page must be a number.")
		return nil
	}
	r := a.items.GoTo(ctx, page)
	a.render(r)
	if r.Status != flows.MsgNoSuchPage {
		a.printItems()
	}
	return nil
}

// Create collects a draft and sends it through the OTP gate.
func (a *App) Create(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	a.items.SetDraft(models.ItemInput{Title: title, Description: desc})

	a.render(a.gate.RequestCreate(ctx))
	return a.collectOTP(ctx)
}

// Delete confirms and sends the deletion of id through the OTP gate.
func (a *App) Delete(ctx context.Context, id string) error {
	confirm := func(q string) bool { return getYesNo(a.reader, q, a.out) }
	a.render(a.gate.RequestDelete(ctx, id, confirm))
	return a.collectOTP(ctx)
}

// collectOTP prompts while the gate waits for a code. An empty answer
// cancels the pending action.
func (a *App) collectOTP(ctx context.Context) error {
	for a.gate.State() == flows.GateOtpPrompt {
		otp, err := getSimpleText(a.reader, "Enter the 6-digit OTP from the Auth App (empty to cancel)", a.out)
		if err != nil {
			a.gate.Cancel()
			return err
		}
		if otp == "" {
			a.gate.Cancel()
			a.say("Cancelled.")
			return nil
		}

		a.say(flows.MsgVerifyingOTP)
		r := a.gate.Confirm(ctx, otp)
		a.render(r)
		if a.gate.State() == flows.GateIdle {
			a.printItems()
		}
	}
	return nil
}

// Edit updates an item of the current page. Empty answers keep the
// current values.
func (a *App) Edit(ctx context.Context, id string) error {
	r := a.items.StartEdit(id)
	if r.Status != "" {
		a.render(r)
		return nil
	}
	cur := a.items.Snapshot().Editing

	title, err := GetTextWithDefault(a.reader, "Title", cur.Title, a.out)
	if err != nil {
		a.items.CancelEdit()
		return err
	}
	desc, err := GetTextWithDefault(a.reader, "Description", cur.Description, a.out)
	if err != nil {
		a.items.CancelEdit()
		return err
	}

	r = a.items.SaveEdit(ctx, models.ItemInput{Title: title, Description: desc})
	a.render(r)
	if r.Status == flows.MsgItemUpdated {
		a.printItems()
	} else {
		a.items.CancelEdit()
	}
	return nil
}

func (a *App) printItems() {
	s := a.items.Snapshot()
	if len(s.Items) == 0 {
		a.say("No items yet.")
		return
	}

	a.say(fmt.Sprintf("Page %d of %d (%d items)", s.Page, max(1, s.TotalPages), s.TotalItems))
	for _, it := range s.Items {
		a.say(" ", it.String())
		if created := flows.FormatTime(it.CreatedAt); created != "" {
			a.say(fmt.Sprintf("    created %s, updated %s", created, flows.FormatTime(it.UpdatedAt)))
		}
	}
}
