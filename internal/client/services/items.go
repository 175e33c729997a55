package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/itemgate/internal/client/client"
	"github.com/dmitrijs2005/itemgate/internal/client/models"
)

// ItemService is the item CRUD surface used by the items view and the gate.
type ItemService interface {
	List(ctx context.Context, page, limit int) (models.ItemsPage, error)
	Create(ctx context.Context, in models.ItemInput) (models.Item, error)
	Update(ctx context.Context, id string, in models.ItemInput) (models.Item, error)
	Delete(ctx context.Context, id string) error
}

type itemService struct {
	client client.Client
}

func NewItemService(c client.Client) ItemService {
	return &itemService{client: c}
}

func (s *itemService) List(ctx context.Context, page, limit int) (models.ItemsPage, error) {
	p, err := s.client.ListItems(ctx, page, limit)
	if err != nil {
		return models.ItemsPage{}, fmt.Errorf("list items (page %d): %w", page, err)
	}
	if p.Items == nil {
		p.Items = []models.Item{}
	}
	return *p, nil
}

func (s *itemService) Create(ctx context.Context, in models.ItemInput) (models.Item, error) {
	it, err := s.client.CreateItem(ctx, in)
	if err != nil {
		return models.Item{}, fmt.Errorf("create item: %w", err)
	}
	return *it, nil
}

func (s *itemService) Update(ctx context.Context, id string, in models.ItemInput) (models.Item, error) {
	it, err := s.client.UpdateItem(ctx, id, in)
	if err != nil {
		return models.Item{}, fmt.Errorf("update item %s: %w", id, err)
	}
	return *it, nil
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}
