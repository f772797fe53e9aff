package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

func TestTableService_CreateAndUpdate(t *testing.T) {
	r := newTestRepo(t)
	svc := &TableService{Repo: r}
	ctx := context.Background()

	t1, err := svc.Create(ctx, transport.CreateTableRequest{TableNumber: 1, Capacity: 4})
	require.NoError(t, err)
	assert.True(t, t1.IsAvailable)

	_, err = svc.Create(ctx, transport.CreateTableRequest{TableNumber: 1, Capacity: 2})
	requireKind(t, err, ErrConflict, "Table with number 1 already exists.")

	_, err = svc.Create(ctx, transport.CreateTableRequest{TableNumber: 0, Capacity: 2})
	requireKind(t, err, ErrValidation, "")

	_, err = svc.Create(ctx, transport.CreateTableRequest{TableNumber: 3, Capacity: 0})
	requireKind(t, err, ErrValidation, "")

	t2, err := svc.Create(ctx, transport.CreateTableRequest{TableNumber: 2, Capacity: 2})
	require.NoError(t, err)

	one := 1
	_, err = svc.Update(ctx, t2.ID, transport.PatchTableRequest{TableNumber: &one})
	requireKind(t, err, ErrConflict, "")

	six := 6
	got, err := svc.Update(ctx, t2.ID, transport.PatchTableRequest{Capacity: &six})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Capacity)
	assert.Equal(t, 2, got.TableNumber)

	_, err = svc.Update(ctx, 999, transport.PatchTableRequest{Capacity: &six})
	requireKind(t, err, ErrNotFound, "Table not found.")

	total, tables, err := svc.List(ctx, repo.TableFilter{Capacity: &six}, repoPage())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, t2.ID, tables[0].ID)
}

func TestTableService_SetAvailability(t *testing.T) {
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	svc := &TableService{Repo: r, Events: pub}
	ctx := context.Background()

	table := seedTable(t, r, 5, 2)

	_, err := svc.SetAvailability(ctx, table.ID, raw(``))
	requireKind(t, err, ErrValidation, "Availability status not provided.")

	_, err = svc.SetAvailability(ctx, table.ID, raw(`null`))
	requireKind(t, err, ErrValidation, "Availability status not provided.")

	_, err = svc.SetAvailability(ctx, table.ID, raw(`"maybe"`))
	requireKind(t, err, ErrValidation, "")

	got, err := svc.SetAvailability(ctx, table.ID, raw(`false`))
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	got, err = svc.SetAvailability(ctx, table.ID, raw(`"true"`))
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)

	got, err = svc.SetAvailability(ctx, table.ID, raw(`true`))
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)

	_, err = svc.SetAvailability(ctx, 999, raw(`true`))
	requireKind(t, err, ErrNotFound, "Table not found.")

	assert.Len(t, pub.types(), 3)
	assert.Equal(t, events.TableAvailabilitySet, pub.types()[0])
}

func TestTableService_DeleteDetachesOrders(t *testing.T) {
	r := newTestRepo(t)
	svc := &TableService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	table := seedTable(t, r, 8, 2)
	o, err := orders.Create(ctx, transport.CreateOrderRequest{Table: &table.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, table.ID))

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TableID)
	assert.Nil(t, got.Table)

	requireKind(t, svc.Delete(ctx, table.ID), ErrNotFound, "Table not found.")
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	r := newTestRepo(t)
	pub := &recordingPublisher{err: assert.AnError}
	svc := &TableService{Repo: r, Events: pub}

	table := seedTable(t, r, 5, 2)
	got, err := svc.SetAvailability(context.Background(), table.ID, raw(`false`))
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	assert.Len(t, pub.types(), 1)
}
