package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/restaurant/internal/hours"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const (
	MaxPartySize = 12

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type BookingInput struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Date            string
	Time            string
	PartySize       int
	SpecialRequests string
}

type ReservationService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
	// Phone is the number large parties are asked to call.
	Phone string
}

func (s *ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// HoursInfo describes the opening window for date.
type HoursInfo struct {
	Date    string        `json:"date"`
	DayKind hours.DayKind `json:"day_kind"`
	Opening int           `json:"opening"`
	Closing int           `json:"closing"`
	Text    string        `json:"text"`
}

func HoursFor(date time.Time) HoursInfo {
	opening, closing := hours.Hours(date)
	return HoursInfo{
		Date:    date.Format(DateLayout),
		DayKind: hours.KindOf(date),
		Opening: opening,
		Closing: closing,
		Text:    hours.Describe(date),
	}
}

func (s *ReservationService) Today() HoursInfo {
	return HoursFor(s.now())
}

// Book records a reservation request. Parties above MaxPartySize and times
// outside the opening window for that date are refused without storing
// anything.
func (s *ReservationService) Book(ctx context.Context, in BookingInput) (*models.Reservation, error) {
	l := logging.FromContext(ctx).With("svc", "reservation.book")

	if in.PartySize > MaxPartySize {
		l.Info("book_rejected", "reason", "large party", "party_size", in.PartySize)
		return nil, validationf("For parties of %d+ people, please call us directly at %s", MaxPartySize+1, s.Phone)
	}

	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	in.GuestPhone = strings.TrimSpace(in.GuestPhone)
	if in.GuestName == "" || in.GuestEmail == "" || in.GuestPhone == "" {
		return nil, validationf("Please fill in all required fields")
	}
	if in.PartySize < 1 {
		return nil, validationf("Party size must be at least 1")
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, validationf("Invalid reservation date, expected YYYY-MM-DD")
	}
	clock, err := time.Parse(TimeLayout, strings.TrimSpace(in.Time))
	if err != nil {
		return nil, validationf("Invalid reservation time, expected HH:MM")
	}

	at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	if !hours.IsWithin(at) {
		l.Info("book_rejected", "reason", "outside hours", "at", at.Format(DateLayout+" "+TimeLayout))
		return nil, validationf("Our %s hours are %s. Please select a time within these hours.",
			hours.KindOf(at), hours.Describe(at))
	}

	res := &models.Reservation{
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		ReservationDate: date,
		ReservationTime: at.Format(TimeLayout),
		PartySize:       in.PartySize,
		Status:          models.ReservationStatusPending,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		CreatedAt:       s.now().UTC(),
	}
	if _, err := s.Repo.CreateReservation(ctx, res); err != nil {
		l.Error("book_error", "status", 500, "error", err)
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	publishReservation(ctx, s.Events, events.ReservationEvent{
		Type:          events.ReservationRequested,
		ReservationID: res.ID,
		Date:          res.ReservationDate.Format(DateLayout),
		Time:          res.ReservationTime,
		PartySize:     res.PartySize,
		Status:        string(res.Status),
		At:            res.CreatedAt,
	})
	l.Info("book_success", "reservation_id", res.ID)
	return res, nil
}

const BookingConfirmation = "Reservation confirmed! We will contact you soon to confirm."

func publishReservation(ctx context.Context, p events.Publisher, ev events.ReservationEvent) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, events.TopicReservations, fmt.Sprint(ev.ReservationID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicReservations, "error", err)
	}
}
