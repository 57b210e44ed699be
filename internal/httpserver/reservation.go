package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type ReservationHTTP struct {
	Svc *service.ReservationService
}

// Hours reports today's opening window and the booking limits.
func (h *ReservationHTTP) Hours(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"today":          h.Svc.Today(),
		"max_party_size": service.MaxPartySize,
		"phone":          h.Svc.Phone,
	})
}

func (h *ReservationHTTP) Book(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.book")

	var req transport.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "book_reservation", "invalid body", err)
	}

	res, err := h.Svc.Book(ctx, service.BookingInput{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		Date:            req.Date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return fail(l, "book_reservation", err, "Error making reservation. Please try again.")
	}

	l.Info("book_reservation_success", "reservation_id", res.ID)
	return c.JSON(http.StatusCreated, transport.ReservationResponse{
		Response:    transport.Success(service.BookingConfirmation),
		Reservation: res,
	})
}
