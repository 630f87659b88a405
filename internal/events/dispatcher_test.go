package events

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rakaputra/warungpos-backend/pkg/logger"
)

type recordingOrderObserver struct {
	created  []uuid.UUID
	updated  []uuid.UUID
	deleted  []uuid.UUID
	restored []uuid.UUID
	purged   []uuid.UUID
	dirty    DirtyFields
}

func (r *recordingOrderObserver) OrderCreated(_ context.Context, id uuid.UUID) {
	r.created = append(r.created, id)
}

func (r *recordingOrderObserver) OrderUpdated(_ context.Context, id uuid.UUID, dirty DirtyFields) {
	r.updated = append(r.updated, id)
	r.dirty = dirty
}

func (r *recordingOrderObserver) OrderDeleted(_ context.Context, id uuid.UUID) {
	r.deleted = append(r.deleted, id)
}

func (r *recordingOrderObserver) OrderRestored(_ context.Context, id uuid.UUID) {
	r.restored = append(r.restored, id)
}

func (r *recordingOrderObserver) OrderPurged(_ context.Context, id uuid.UUID) {
	r.purged = append(r.purged, id)
}

type panickingOrderObserver struct{}

func (panickingOrderObserver) OrderCreated(context.Context, uuid.UUID) { panic("boom") }
func (panickingOrderObserver) OrderUpdated(context.Context, uuid.UUID, DirtyFields) {
	panic("boom")
}
func (panickingOrderObserver) OrderDeleted(context.Context, uuid.UUID)  { panic("boom") }
func (panickingOrderObserver) OrderRestored(context.Context, uuid.UUID) { panic("boom") }
func (panickingOrderObserver) OrderPurged(context.Context, uuid.UUID)   { panic("boom") }

type recordingLineObserver struct {
	created []uuid.UUID
	updated []uuid.UUID
	deleted []uuid.UUID
	dirty   DirtyFields
}

func (r *recordingLineObserver) PurchaseLineCreated(_ context.Context, id uuid.UUID) {
	r.created = append(r.created, id)
}

func (r *recordingLineObserver) PurchaseLineUpdated(_ context.Context, id uuid.UUID, dirty DirtyFields) {
	r.updated = append(r.updated, id)
	r.dirty = dirty
}

func (r *recordingLineObserver) PurchaseLineDeleted(_ context.Context, id uuid.UUID) {
	r.deleted = append(r.deleted, id)
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard}))
	require.NoError(t, err)
	return d
}

func TestDispatcherFansOutOrderEvents(t *testing.T) {
	d := newTestDispatcher(t)
	first := &recordingOrderObserver{}
	second := &recordingOrderObserver{}
	d.RegisterOrderObserver(first)
	d.RegisterOrderObserver(second)

	ctx := context.Background()
	orderID := uuid.New()

	d.OrderCreated(ctx, orderID)
	d.OrderUpdated(ctx, orderID, NewDirtyFields("status", "total_cents"))
	d.OrderDeleted(ctx, orderID)
	d.OrderRestored(ctx, orderID)
	d.OrderPurged(ctx, orderID)

	for _, obs := range []*recordingOrderObserver{first, second} {
		require.Equal(t, []uuid.UUID{orderID}, obs.created)
		require.Equal(t, []uuid.UUID{orderID}, obs.updated)
		require.Equal(t, []uuid.UUID{orderID}, obs.deleted)
		require.Equal(t, []uuid.UUID{orderID}, obs.restored)
		require.Equal(t, []uuid.UUID{orderID}, obs.purged)
		require.True(t, obs.dirty.Has("status"))
	}
}

func TestDispatcherSurvivesPanickingObserver(t *testing.T) {
	d := newTestDispatcher(t)
	healthy := &recordingOrderObserver{}
	d.RegisterOrderObserver(panickingOrderObserver{})
	d.RegisterOrderObserver(healthy)

	orderID := uuid.New()
	require.NotPanics(t, func() {
		d.OrderCreated(context.Background(), orderID)
	})
	require.Equal(t, []uuid.UUID{orderID}, healthy.created)
}

func TestDispatcherPurchaseLineEvents(t *testing.T) {
	d := newTestDispatcher(t)
	obs := &recordingLineObserver{}
	d.RegisterPurchaseLineObserver(obs)

	ctx := context.Background()
	itemID := uuid.New()

	d.PurchaseLineCreated(ctx, itemID)
	d.PurchaseLineUpdated(ctx, itemID, NewDirtyFields("unit_cost"))
	d.PurchaseLineDeleted(ctx, itemID)

	require.Equal(t, []uuid.UUID{itemID}, obs.created)
	require.Equal(t, []uuid.UUID{itemID}, obs.updated)
	require.Equal(t, []uuid.UUID{itemID}, obs.deleted)
	require.True(t, obs.dirty.Has("unit_cost"))
}

func TestDirtyFields(t *testing.T) {
	dirty := NewDirtyFields("status", "total_cents", "")
	require.True(t, dirty.Has("status"))
	require.False(t, dirty.Has("notes"))
	require.True(t, dirty.Any("notes", "total_cents"))
	require.False(t, dirty.Any("notes", "guest_name"))
	require.False(t, dirty.Empty())
	require.Len(t, dirty.Fields(), 2)
	require.True(t, NewDirtyFields().Empty())
}
