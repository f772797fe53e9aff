package service

import (
	"context"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

// EventPublisher receives domain events after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// MenuIndexer mirrors menu items into a search index.
type MenuIndexer interface {
	IndexMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error
	SearchMenuItems(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

func publish(ctx context.Context, p EventPublisher, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", ev.Type, "error", err)
	}
}
