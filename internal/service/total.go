package service

import (
	"context"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
)

// OrderTotal sums quantity times the captured price over all lines.
func OrderTotal(items []models.OrderItem) models.Money {
	var total models.Money
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// recalculateTotal must run inside the transaction that changed the lines.
func recalculateTotal(ctx context.Context, tx *repo.GormRepo, orderID uint) (models.Money, error) {
	items, err := tx.ListOrderItems(ctx, orderID)
	if err != nil {
		return 0, err
	}
	total := OrderTotal(items)
	if err := tx.SetOrderTotal(ctx, orderID, total); err != nil {
		return 0, err
	}
	return total, nil
}
