package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_NextFollowsFlow(t *testing.T) {
	st := OrderStatusPending
	var seen []OrderStatus
	for {
		seen = append(seen, st)
		next, ok := st.Next()
		if !ok {
			break
		}
		st = next
	}
	assert.Equal(t, OrderStatuses(), seen)
}

func TestOrderTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		override bool
	}{
		{OrderStatusPending, OrderStatusPreparing, false},
		{OrderStatusReady, OrderStatusOutForDelivery, false},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusCompleted, OrderStatusPending, true},
		{OrderStatusReady, OrderStatusReady, true},
	}
	for _, tc := range cases {
		tr, err := OrderTransition(tc.from, tc.to)
		require.NoError(t, err)
		assert.Equal(t, tc.override, tr.Override, "%s -> %s", tc.from, tc.to)
	}

	_, err := OrderTransition(OrderStatusPending, OrderStatus("lost"))
	require.Error(t, err)
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus(" Out-For-Delivery ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOutForDelivery, st)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
}

func TestReservationTransition(t *testing.T) {
	tr, err := ReservationTransition(ReservationStatusPending, ReservationStatusApproved)
	require.NoError(t, err)
	assert.False(t, tr.Override)

	tr, err = ReservationTransition(ReservationStatusRejected, ReservationStatusApproved)
	require.NoError(t, err)
	assert.True(t, tr.Override)

	_, err = ReservationTransition(ReservationStatusPending, "cancelled")
	require.Error(t, err)
}

func TestParseOrderType(t *testing.T) {
	ot, err := ParseOrderType("Dine-In")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeDineIn, ot)

	_, err = ParseOrderType("drone")
	require.Error(t, err)
}
