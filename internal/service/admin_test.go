package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/events"
)

var root = models.Principal{Kind: models.PrincipalAdmin, ID: 1, Name: "root"}

func (e *env) placeOrder(t *testing.T, in PlaceOrderInput) *models.Order {
	t.Helper()
	ctx := context.Background()
	var p models.Product
	if err := e.db.First(&p).Error; err != nil {
		p = e.product42(t)
	}
	require.NoError(t, e.carts.Set(ctx, "sid", p.ID, 1))
	res, err := e.orders.PlaceOrder(ctx, "sid", nil, in)
	require.NoError(t, err)
	return res.Order
}

func TestSetOrderStatus_AnyKnownToAnyKnown(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	o := e.placeOrder(t, takeout())

	_, change, err := e.admin.SetOrderStatus(ctx, root, o.ID, "preparing")
	require.NoError(t, err)
	assert.False(t, change.Override)

	// skipping ahead and going backwards are both allowed, as overrides
	_, change, err = e.admin.SetOrderStatus(ctx, root, o.ID, "completed")
	require.NoError(t, err)
	assert.True(t, change.Override)

	got, change, err := e.admin.SetOrderStatus(ctx, root, o.ID, "pending")
	require.NoError(t, err)
	assert.True(t, change.Override)
	assert.Equal(t, models.OrderStatusCompleted, change.From)
	assert.Equal(t, models.OrderStatusPending, got.Status)

	stored, err := e.orders.Track(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	last := e.events.Events[len(e.events.Events)-1]
	ev, ok := last.Event.(events.OrderEvent)
	require.True(t, ok)
	assert.Equal(t, events.OrderStatusChanged, ev.Type)
	assert.True(t, ev.Override)
}

func TestSetOrderStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	o := e.placeOrder(t, takeout())

	_, _, err := e.admin.SetOrderStatus(ctx, root, o.ID, "lost in the mail")
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = e.admin.SetOrderStatus(ctx, root, o.ID, "")
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = e.admin.SetOrderStatus(ctx, root, 9999, "ready")
	require.ErrorIs(t, err, ErrNotFound)

	stored, err := e.orders.Track(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestSetOrderStatus_LegacyFreeTextCanBeCorrected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	o := e.placeOrder(t, takeout())
	require.NoError(t, e.db.Model(&models.Order{}).Where("id = ?", o.ID).Update("status", "cooking").Error)

	_, change, err := e.admin.SetOrderStatus(ctx, root, o.ID, "ready")
	require.NoError(t, err)
	assert.True(t, change.Override)
	assert.Equal(t, models.OrderStatus("cooking"), change.From)
}

func TestAdvanceOrder_WalksTheFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	o := e.placeOrder(t, takeout())

	var seen []models.OrderStatus
	for i := 0; i < 4; i++ {
		got, change, err := e.admin.AdvanceOrder(ctx, root, o.ID)
		require.NoError(t, err)
		assert.False(t, change.Override)
		seen = append(seen, got.Status)
	}
	assert.Equal(t, []models.OrderStatus{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusOutForDelivery,
		models.OrderStatusCompleted,
	}, seen)

	_, _, err := e.admin.AdvanceOrder(ctx, root, o.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestSetReservationStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	res, err := e.bookings.Book(ctx, booking("2025-06-03", "18:00", 4))
	require.NoError(t, err)

	notes := "window table"
	got, change, err := e.admin.SetReservationStatus(ctx, root, res.ID, "approved", &notes)
	require.NoError(t, err)
	assert.False(t, change.Override)
	assert.Equal(t, models.ReservationStatusApproved, got.Status)
	assert.Equal(t, "window table", got.AdminNotes)

	_, change, err = e.admin.SetReservationStatus(ctx, root, res.ID, "rejected", nil)
	require.NoError(t, err)
	assert.True(t, change.Override)

	stored, err := e.repo.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusRejected, stored.Status)
	assert.Equal(t, "window table", stored.AdminNotes, "notes kept when not resubmitted")

	_, _, err = e.admin.SetReservationStatus(ctx, root, res.ID, "maybe", nil)
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = e.admin.SetReservationStatus(ctx, root, 777, "approved", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_FilterAndSearch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)

	a := e.placeOrder(t, takeout())
	in := takeout()
	in.CustomerName = "Dario Santos"
	in.CustomerPhone = "555-7777"
	in.OrderType = "delivery"
	in.Address = "1 Main"
	b := e.placeOrder(t, in)
	_, _, err := e.admin.SetOrderStatus(ctx, root, a.ID, "ready")
	require.NoError(t, err)

	page, err := e.admin.ListOrders(ctx, "", "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = e.admin.ListOrders(ctx, "ready", "", 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, a.ID, page.Orders[0].ID)

	for _, q := range []string{"dario", "7777", "DELIV"} {
		page, err = e.admin.ListOrders(ctx, "all", q, 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Orders, 1, q)
		assert.Equal(t, b.ID, page.Orders[0].ID)
	}

	_, err = e.admin.ListOrders(ctx, "bogus", "", 0, 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDashboardAndPolling(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	register(t, e, "c1@example.com")

	e.placeOrder(t, takeout())
	old := &models.Order{
		CustomerName:  "Old",
		CustomerPhone: "1",
		OrderType:     models.OrderTypeTakeout,
		PaymentMethod: "cash",
		CreatedAt:     tuesday2pm.Add(-3 * time.Hour),
		TotalAmount:   decimal.RequireFromString("1.00"),
		Status:        models.OrderStatusCompleted,
	}
	_, err := e.repo.CreateOrder(ctx, old, nil)
	require.NoError(t, err)

	_, err = e.bookings.Book(ctx, booking("2025-06-05", "19:00", 2))
	require.NoError(t, err)
	_, err = e.bookings.Book(ctx, booking("2025-06-04", "12:00", 2))
	require.NoError(t, err)

	d, err := e.admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalOrders)
	assert.EqualValues(t, 1, d.PendingOrders)
	assert.EqualValues(t, 1, d.TotalCustomers)
	assert.EqualValues(t, 2, d.PendingReservations)
	require.Len(t, d.UpcomingBookings, 2)
	assert.Equal(t, "12:00", d.UpcomingBookings[0].ReservationTime, "earliest first")
	require.Len(t, d.RecentOrders, 2)
	assert.Equal(t, "Ana Cruz", d.RecentOrders[0].CustomerName, "newest first")

	counts, err := e.admin.NewOrdersCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, OrderCounts{PendingOrders: 1, NewOrders: 1, TotalPending: 1}, *counts)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	o := e.placeOrder(t, takeout())

	notes, err := e.admin.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, o.ID, notes[0].OrderID)
	assert.Contains(t, notes[0].Message, "Ana Cruz")

	require.NoError(t, e.admin.MarkNotificationRead(ctx, notes[0].ID))
	notes, err = e.admin.Notifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.ErrorIs(t, e.admin.MarkNotificationRead(ctx, 999), ErrNotFound)
}
