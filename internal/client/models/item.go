package models

import (
	"fmt"
	"time"
)

// Item is owned by the server; the client only ever edits Title and
// Description.
type Item struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (i Item) String() string {
	if i.Description == "" {
		return fmt.Sprintf("%s  %s", i.ID, i.Title)
	}
	return fmt.Sprintf("%s  %s: %s", i.ID, i.Title, i.Description)
}

// ItemInput is the body of create and update requests.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ItemsPage is one page of the item listing.
type ItemsPage struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
	TotalItems int    `json:"totalItems"`
}
