package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	pkgdb "github.com/Skotchmaster/restaurant/pkg/db"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := repo.New(db)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func seedMenuItem(t *testing.T, r *repo.GormRepo, name string, price models.Money, stock int) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:        name,
		Price:       price,
		Category:    models.DefaultCategory,
		Stock:       stock,
		IsAvailable: true,
	}
	require.NoError(t, r.CreateMenuItem(context.Background(), item))
	return item
}

func seedTable(t *testing.T, r *repo.GormRepo, number, capacity int) *models.Table {
	t.Helper()
	table := &models.Table{TableNumber: number, Capacity: capacity, IsAvailable: true}
	require.NoError(t, r.CreateTable(context.Background(), table))
	return table
}

func seedOrder(t *testing.T, r *repo.GormRepo) *models.Order {
	t.Helper()
	o := &models.Order{OrderTime: time.Now().UTC(), Status: models.StatusPending}
	require.NoError(t, r.CreateOrder(context.Background(), o))
	return o
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func uintPtr(v uint) *uint { return &v }

func rawID(v uint) json.RawMessage { return json.RawMessage(strconv.FormatUint(uint64(v), 10)) }

func requireKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	if msg != "" {
		require.EqualError(t, err, msg)
	}
}

func repoPage() repo.Page { return repo.Page{Offset: 0, Limit: 50} }

func repoOrderFilter(status string) repo.OrderFilter { return repo.OrderFilter{Status: status} }

func reservationFilter() repo.ReservationFilter { return repo.ReservationFilter{} }
