package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type MenuService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	// Index is optional. Without it search runs against the database.
	Index MenuIndexer
}

func (s *MenuService) Get(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgMenuItemNotFound)
	}
	return item, nil
}

func (s *MenuService) List(ctx context.Context, f repo.MenuFilter, p repo.Page) (int64, []models.MenuItem, error) {
	return s.Repo.ListMenuItems(ctx, f, p)
}

func validateMenuItem(name string, price models.Money, stock int) error {
	if strings.TrimSpace(name) == "" {
		return newErr(ErrValidation, "name is required")
	}
	if price < 0 {
		return newErr(ErrValidation, "price cannot be negative")
	}
	if stock < 0 {
		return newErr(ErrValidation, "Stock cannot be negative.")
	}
	return nil
}

func (s *MenuService) Create(ctx context.Context, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price == nil {
		return nil, newErr(ErrValidation, "price is required")
	}
	item := models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Category:    strings.TrimSpace(req.Category),
		IsAvailable: true,
	}
	if item.Category == "" {
		item.Category = models.DefaultCategory
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := validateMenuItem(item.Name, item.Price, item.Stock); err != nil {
		return nil, err
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		taken, err := tx.MenuItemNameTaken(ctx, item.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return newErr(ErrConflict, "Menu item with name %q already exists.", item.Name)
		}
		return tx.CreateMenuItem(ctx, &item)
	})
	if err != nil {
		return nil, txErr(err)
	}

	s.reindex(ctx, item)
	return &item, nil
}

func (s *MenuService) Update(ctx context.Context, id uint, req transport.PatchMenuItemRequest) (*models.MenuItem, error) {
	var updated *models.MenuItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cur, err := tx.LockMenuItem(ctx, id)
		if err != nil {
			return notFoundOr(err, msgMenuItemNotFound)
		}

		next := *cur
		fields := map[string]any{}
		if req.Name != nil {
			next.Name = strings.TrimSpace(*req.Name)
			fields["name"] = next.Name
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}
		if req.Price != nil {
			next.Price = *req.Price
			fields["price"] = next.Price
		}
		if req.Category != nil {
			category := strings.TrimSpace(*req.Category)
			if category == "" {
				category = models.DefaultCategory
			}
			fields["category"] = category
		}
		if req.Stock != nil {
			next.Stock = *req.Stock
			fields["stock"] = next.Stock
		}
		if req.IsAvailable != nil {
			fields["is_available"] = *req.IsAvailable
		}
		if err := validateMenuItem(next.Name, next.Price, next.Stock); err != nil {
			return err
		}

		if next.Name != cur.Name {
			taken, err := tx.MenuItemNameTaken(ctx, next.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return newErr(ErrConflict, "Menu item with name %q already exists.", next.Name)
			}
		}

		updated, err = tx.UpdateMenuItem(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}

	s.reindex(ctx, *updated)
	return updated, nil
}

// Delete refuses to remove an item that any order line still points at.
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockMenuItem(ctx, id); err != nil {
			return notFoundOr(err, msgMenuItemNotFound)
		}
		n, err := tx.CountOrderItemsForMenuItem(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return newErr(ErrConflict, "Cannot delete menu item referenced by existing orders.")
		}
		return notFoundOr(tx.DeleteMenuItem(ctx, id), msgMenuItemNotFound)
	})
	if err != nil {
		return txErr(err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteMenuItem(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_index_delete_failed", "menu_item_id", id, "error", err)
		}
	}
	return nil
}

// SetStock overwrites the stock level with the given absolute value.
func (s *MenuService) SetStock(ctx context.Context, id uint, raw json.RawMessage) (*models.MenuItem, error) {
	if _, err := s.Repo.GetMenuItem(ctx, id); err != nil {
		return nil, notFoundOr(err, msgMenuItemNotFound)
	}
	stock, err := parseStock(raw)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetStock(ctx, id, stock); err != nil {
		return nil, txErr(notFoundOr(err, msgMenuItemNotFound))
	}
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgMenuItemNotFound)
	}

	logging.FromContext(ctx).Info("stock_updated", "menu_item_id", id, "stock", stock)
	publish(ctx, s.Events, events.New(events.StockUpdated, "menu_item", id, map[string]any{
		"stock": stock,
	}))
	s.reindex(ctx, *item)
	return item, nil
}

// Search matches name and description. The search index is used when
// configured, and the database is the fallback when it is missing or fails.
func (s *MenuService) Search(ctx context.Context, query string, p repo.Page) (int64, []models.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, newErr(ErrValidation, "search query is required")
	}

	if s.Index != nil {
		total, ids, err := s.Index.SearchMenuItems(ctx, query, p.Offset, p.Limit)
		if err == nil {
			items, err := s.Repo.GetMenuItemsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, orderByIDs(items, ids), nil
		}
		logging.FromContext(ctx).Warn("menu_search_index_failed", "query", query, "error", err)
	}

	return s.Repo.ListMenuItems(ctx, repo.MenuFilter{Search: query}, p)
}

func orderByIDs(items []models.MenuItem, ids []uint) []models.MenuItem {
	byID := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (s *MenuService) reindex(ctx context.Context, item models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexMenuItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_failed", "menu_item_id", item.ID, "error", err)
	}
}

// ReindexAll pushes every menu item into the search index.
func (s *MenuService) ReindexAll(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	const batch = 100
	for offset := 0; ; offset += batch {
		_, items, err := s.Repo.ListMenuItems(ctx, repo.MenuFilter{}, repo.Page{Offset: offset, Limit: batch})
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := s.Index.IndexMenuItem(ctx, it); err != nil {
				return err
			}
		}
		if len(items) < batch {
			return nil
		}
	}
}
