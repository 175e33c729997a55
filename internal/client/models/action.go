package models

import "fmt"

// PendingAction is the protected operation waiting for an MFA-verified token.
// The set of implementations is closed: CreateAction and DeleteAction.
// A nil PendingAction means "none".
type PendingAction interface {
	fmt.Stringer
	pendingAction()
}

// CreateAction replays "create item" with the draft held at replay time.
type CreateAction struct{}

// DeleteAction replays "delete item" for the captured id.
type DeleteAction struct {
	ItemID string
}

func (CreateAction) pendingAction() {}
func (DeleteAction) pendingAction() {}

func (CreateAction) String() string   { return "create" }
func (a DeleteAction) String() string { return "delete " + a.ItemID }
