package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const (
	dashboardRecentOrders     = 10
	dashboardUpcomingBookings = 5
	notificationsPageSize     = 50
	newOrdersWindow           = time.Hour
)

type AdminService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type Dashboard struct {
	TotalOrders         int64                `json:"total_orders"`
	PendingOrders       int64                `json:"pending_orders"`
	TotalCustomers      int64                `json:"total_customers"`
	PendingReservations int64                `json:"pending_reservations"`
	RecentOrders        []models.Order       `json:"recent_orders"`
	UpcomingBookings    []models.Reservation `json:"pending_reservation_list"`
	Today               HoursInfo            `json:"today"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.TotalOrders, err = s.Repo.CountOrders(ctx, ""); err != nil {
		return nil, err
	}
	if d.PendingOrders, err = s.Repo.CountOrders(ctx, models.OrderStatusPending); err != nil {
		return nil, err
	}
	if d.TotalCustomers, err = s.Repo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if d.PendingReservations, err = s.Repo.CountReservations(ctx, models.ReservationStatusPending); err != nil {
		return nil, err
	}
	if d.RecentOrders, err = s.Repo.RecentOrders(ctx, dashboardRecentOrders); err != nil {
		return nil, err
	}
	if d.UpcomingBookings, err = s.Repo.UpcomingPending(ctx, dashboardUpcomingBookings); err != nil {
		return nil, err
	}
	d.Today = HoursFor(s.now())
	return &d, nil
}

type OrderCounts struct {
	PendingOrders int64 `json:"pending_orders"`
	NewOrders     int64 `json:"new_orders"`
	TotalPending  int64 `json:"total_pending"`
}

// NewOrdersCount feeds the dashboard poller: pending orders and orders
// placed within the last hour.
func (s *AdminService) NewOrdersCount(ctx context.Context) (*OrderCounts, error) {
	pending, err := s.Repo.CountOrders(ctx, models.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.CountOrdersSince(ctx, s.now().Add(-newOrdersWindow))
	if err != nil {
		return nil, err
	}
	return &OrderCounts{PendingOrders: pending, NewOrders: recent, TotalPending: pending}, nil
}

type OrderPage struct {
	Total  int64          `json:"total"`
	Orders []models.Order `json:"orders"`
}

func (s *AdminService) ListOrders(ctx context.Context, status, q string, offset, limit int) (*OrderPage, error) {
	f := repo.OrderFilter{Search: q}
	if status != "" && status != "all" {
		st, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, validationf("Unknown order status %q", status)
		}
		f.Status = st
	}
	total, orders, err := s.Repo.ListOrders(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Total: total, Orders: orders}, nil
}

type StatusChange[S ~string] struct {
	From     S    `json:"from"`
	To       S    `json:"to"`
	Override bool `json:"override"`
}

// SetOrderStatus moves an order to any known status. Anything other than the
// single forward step is recorded as an administrative override.
func (s *AdminService) SetOrderStatus(ctx context.Context, admin models.Principal, orderID uint, status string) (*models.Order, *StatusChange[models.OrderStatus], error) {
	if orderID == 0 {
		return nil, nil, validationf("Invalid order ID.")
	}
	if status == "" {
		return nil, nil, validationf("Status is required.")
	}
	to, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, nil, validationf("Unknown order status %q", status)
	}
	return s.changeOrder(ctx, admin, orderID, func(models.OrderStatus) (models.OrderStatus, error) {
		return to, nil
	})
}

var errNoNextStatus = errors.New("order already completed")

// AdvanceOrder moves an order one step along the normal flow.
func (s *AdminService) AdvanceOrder(ctx context.Context, admin models.Principal, orderID uint) (*models.Order, *StatusChange[models.OrderStatus], error) {
	if orderID == 0 {
		return nil, nil, validationf("Invalid order ID.")
	}
	order, change, err := s.changeOrder(ctx, admin, orderID, func(from models.OrderStatus) (models.OrderStatus, error) {
		next, ok := from.Next()
		if !ok {
			return "", errNoNextStatus
		}
		return next, nil
	})
	if errors.Is(err, errNoNextStatus) {
		return nil, nil, newError(ErrConflict, "Order #%d is already %s", orderID, models.OrderStatusCompleted)
	}
	return order, change, err
}

func (s *AdminService) changeOrder(ctx context.Context, admin models.Principal, orderID uint, pick func(models.OrderStatus) (models.OrderStatus, error)) (*models.Order, *StatusChange[models.OrderStatus], error) {
	l := logging.FromContext(ctx).With("svc", "admin.order_status", "order_id", orderID, "admin", admin.Name)

	var tr models.Transition[models.OrderStatus]
	order, _, err := s.Repo.UpdateOrderStatus(ctx, orderID, func(from models.OrderStatus) (models.OrderStatus, error) {
		to, err := pick(from)
		if err != nil {
			return "", err
		}
		// rows written before the enum existed may hold free text; they can
		// still be moved onto a known status
		if _, perr := models.ParseOrderStatus(string(from)); perr != nil {
			tr = models.Transition[models.OrderStatus]{From: from, To: to, Override: true}
			return to, nil
		}
		if tr, err = models.OrderTransition(from, to); err != nil {
			return "", err
		}
		return to, nil
	})
	if err != nil {
		return nil, nil, notFound(err, "Order not found")
	}

	if tr.Override {
		l.Warn("order_status_override", "from", tr.From, "to", tr.To)
	} else {
		l.Info("order_status_changed", "from", tr.From, "to", tr.To)
	}
	if s.Events != nil {
		ev := events.OrderEvent{
			Type:       events.OrderStatusChanged,
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Status:     string(tr.To),
			FromStatus: string(tr.From),
			Override:   tr.Override,
			At:         s.now(),
		}
		if err := s.Events.PublishEvent(ctx, events.TopicOrders, order.IDString(), ev); err != nil {
			l.Warn("publish_error", "topic", events.TopicOrders, "error", err)
		}
	}
	return order, &StatusChange[models.OrderStatus]{From: tr.From, To: tr.To, Override: tr.Override}, nil
}

type ReservationPage struct {
	Total        int64                `json:"total"`
	Reservations []models.Reservation `json:"reservations"`
}

func (s *AdminService) ListReservations(ctx context.Context, status string, offset, limit int) (*ReservationPage, error) {
	var st models.ReservationStatus
	if status != "" && status != "all" {
		var err error
		if st, err = models.ParseReservationStatus(status); err != nil {
			return nil, validationf("Unknown reservation status %q", status)
		}
	}
	total, items, err := s.Repo.ListReservations(ctx, st, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ReservationPage{Total: total, Reservations: items}, nil
}

// SetReservationStatus records the admin's decision. Approving or rejecting a
// pending booking is the regular path; any other change is an override.
func (s *AdminService) SetReservationStatus(ctx context.Context, admin models.Principal, id uint, status string, notes *string) (*models.Reservation, *StatusChange[models.ReservationStatus], error) {
	l := logging.FromContext(ctx).With("svc", "admin.reservation_status", "reservation_id", id, "admin", admin.Name)

	if id == 0 {
		return nil, nil, validationf("Invalid reservation ID.")
	}
	to, err := models.ParseReservationStatus(status)
	if err != nil {
		return nil, nil, validationf("Unknown reservation status %q", status)
	}

	var tr models.Transition[models.ReservationStatus]
	res, _, err := s.Repo.UpdateReservationStatus(ctx, id, notes, func(from models.ReservationStatus) (models.ReservationStatus, error) {
		if _, perr := models.ParseReservationStatus(string(from)); perr != nil {
			tr = models.Transition[models.ReservationStatus]{From: from, To: to, Override: true}
			return to, nil
		}
		var terr error
		tr, terr = models.ReservationTransition(from, to)
		return to, terr
	})
	if err != nil {
		return nil, nil, notFound(err, "Reservation not found")
	}

	if tr.Override {
		l.Warn("reservation_status_override", "from", tr.From, "to", tr.To)
	} else {
		l.Info("reservation_status_changed", "from", tr.From, "to", tr.To)
	}
	publishReservation(ctx, s.Events, events.ReservationEvent{
		Type:          events.ReservationDecided,
		ReservationID: res.ID,
		Date:          res.ReservationDate.Format(DateLayout),
		Time:          res.ReservationTime,
		PartySize:     res.PartySize,
		Status:        string(tr.To),
		FromStatus:    string(tr.From),
		Override:      tr.Override,
		At:            s.now(),
	})
	return res, &StatusChange[models.ReservationStatus]{From: tr.From, To: tr.To, Override: tr.Override}, nil
}

func (s *AdminService) Notifications(ctx context.Context) ([]models.Notification, error) {
	return s.Repo.UnreadNotifications(ctx, notificationsPageSize)
}

func (s *AdminService) MarkNotificationRead(ctx context.Context, id uint) error {
	if err := s.Repo.MarkNotificationRead(ctx, id); err != nil {
		return notFound(err, "Notification not found")
	}
	return nil
}
