package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/events"
)

func booking(date, at string, party int) BookingInput {
	return BookingInput{
		GuestName:  "Ben Reyes",
		GuestEmail: "ben@example.com",
		GuestPhone: "555-0199",
		Date:       date,
		Time:       at,
		PartySize:  party,
	}
}

func TestBook_PartyOfThirteenIsRejected(t *testing.T) {
	e := newEnv(t, tuesday2pm)

	_, err := e.bookings.Book(context.Background(), booking("2025-06-03", "18:00", 13))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "For parties of 13+ people, please call us directly at +1 (555) 123-4567", Message(err))
	assert.Zero(t, countRows(t, e.db, &models.Reservation{}))
	assert.Empty(t, e.events.Events)
}

func TestBook_PartyOfTwelveInHoursIsPending(t *testing.T) {
	e := newEnv(t, tuesday2pm)

	res, err := e.bookings.Book(context.Background(), booking("2025-06-03", "18:00", 12))
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusPending, res.Status)
	assert.Equal(t, "18:00", res.ReservationTime)
	assert.EqualValues(t, 1, countRows(t, e.db, &models.Reservation{}))

	require.Len(t, e.events.Events, 1)
	ev, ok := e.events.Events[0].Event.(events.ReservationEvent)
	require.True(t, ok)
	assert.Equal(t, events.ReservationRequested, ev.Type)
	assert.Equal(t, "2025-06-03", ev.Date)
}

func TestBook_SaturdayBeforeOpeningIsRejected(t *testing.T) {
	e := newEnv(t, tuesday2pm)

	_, err := e.bookings.Book(context.Background(), booking("2025-06-07", "09:30", 4))
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, Message(err), "weekend")
	assert.Contains(t, Message(err), "10:00–21:00")
	assert.Zero(t, countRows(t, e.db, &models.Reservation{}))
}

func TestBook_OutsideHoursBoundaries(t *testing.T) {
	cases := []struct {
		date, at string
		ok       bool
	}{
		{"2025-06-03", "10:59", false}, // Tuesday, opens 11
		{"2025-06-03", "11:00", true},
		{"2025-06-03", "20:59", true},
		{"2025-06-03", "21:00", false},
		{"2025-06-08", "10:00", true}, // Sunday
		{"2025-06-08", "09:59", false},
	}
	for _, tc := range cases {
		t.Run(tc.date+" "+tc.at, func(t *testing.T) {
			e := newEnv(t, tuesday2pm)
			_, err := e.bookings.Book(context.Background(), booking(tc.date, tc.at, 2))
			if tc.ok {
				require.NoError(t, err)
				assert.EqualValues(t, 1, countRows(t, e.db, &models.Reservation{}))
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, countRows(t, e.db, &models.Reservation{}))
		})
	}
}

func TestBook_WeekdayMessageNamesWeekdayHours(t *testing.T) {
	e := newEnv(t, tuesday2pm)
	_, err := e.bookings.Book(context.Background(), booking("2025-06-04", "22:15", 2))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Our weekday hours are 11:00 AM to 9:00 PM (11:00–21:00). Please select a time within these hours.", Message(err))
}

func TestBook_Validation(t *testing.T) {
	cases := map[string]BookingInput{
		"zero party":   booking("2025-06-03", "18:00", 0),
		"bad date":     booking("06/03/2025", "18:00", 2),
		"bad time":     booking("2025-06-03", "6pm", 2),
		"missing name": func() BookingInput { b := booking("2025-06-03", "18:00", 2); b.GuestName = ""; return b }(),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, tuesday2pm)
			_, err := e.bookings.Book(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, countRows(t, e.db, &models.Reservation{}))
		})
	}
}

func TestHoursFor(t *testing.T) {
	info := HoursFor(saturday9am)
	assert.Equal(t, "weekend", string(info.DayKind))
	assert.Equal(t, 10, info.Opening)
	assert.Equal(t, 21, info.Closing)
	assert.Equal(t, "2025-06-07", info.Date)
}
