package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant/internal/cart"
	"github.com/Skotchmaster/restaurant/internal/hours"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

var DeliveryFee = decimal.RequireFromString("3.99")

const NewOrderNotification = "new_order"

type PlaceOrderInput struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	Address             string
	OrderType           string
	PaymentMethod       string
	SpecialInstructions string
}

type PlaceOrderResult struct {
	Order        *models.Order
	OutsideHours bool
	Message      string
}

type OrderService struct {
	Repo   *repo.GormRepo
	Cart   cart.Store
	Events events.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (in *PlaceOrderInput) trim() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.Address = strings.TrimSpace(in.Address)
	in.OrderType = strings.TrimSpace(in.OrderType)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.SpecialInstructions = strings.TrimSpace(in.SpecialInstructions)
}

// PlaceOrder turns the session cart into an order. The order, its items and
// the staff notification are committed together; the cart is cleared only
// once that commit succeeded. Orders outside business hours are accepted
// and flagged.
func (s *OrderService) PlaceOrder(ctx context.Context, sid string, who *models.Principal, in PlaceOrderInput) (*PlaceOrderResult, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	var items map[uint]int
	if sid != "" {
		var err error
		if items, err = s.Cart.Get(ctx, sid); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, validationf("Your cart is empty")
	}

	in.trim()
	if in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "" ||
		in.OrderType == "" || in.PaymentMethod == "" {
		return nil, validationf("Please fill in all required fields")
	}
	orderType, err := models.ParseOrderType(in.OrderType)
	if err != nil {
		return nil, validationf("Unknown order type %q", in.OrderType)
	}
	if orderType == models.OrderTypeDelivery && in.Address == "" {
		return nil, validationf("Delivery address is required for delivery orders")
	}

	view, err := resolveCart(ctx, s.Repo, items)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, validationf("Your cart is empty")
	}

	now := s.now()
	outside := !hours.IsWithin(now)

	total := view.Total
	if orderType == models.OrderTypeDelivery {
		total = total.Add(DeliveryFee)
	}

	order := &models.Order{
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		OrderType:           orderType,
		PaymentMethod:       in.PaymentMethod,
		CreatedAt:           now.UTC(),
		TotalAmount:         total,
		Status:              models.OrderStatusPending,
		SpecialInstructions: in.SpecialInstructions,
		PlacedOutsideHours:  outside,
		Items:               make([]models.OrderItem, 0, len(view.Items)),
	}
	if orderType == models.OrderTypeDelivery {
		order.Address = in.Address
	}
	if who != nil && who.IsCustomer() {
		id := who.ID
		order.CustomerID = &id
	}
	for _, line := range view.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Subtotal:    line.Subtotal,
		})
	}

	note := &models.Notification{
		Kind:      NewOrderNotification,
		Message:   fmt.Sprintf("New %s order from %s: $%s", orderType, order.CustomerName, total.StringFixed(2)),
		CreatedAt: now.UTC(),
	}
	if _, err := s.Repo.CreateOrder(ctx, order, note); err != nil {
		l.Error("place_order_error", "status", 500, "reason", "transaction failed", "error", err)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.Cart.Clear(ctx, sid); err != nil {
		l.Warn("cart_clear_error", "order_id", order.ID, "error", err)
	}

	s.publish(ctx, events.OrderEvent{
		Type:         events.OrderPlaced,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		OrderType:    string(order.OrderType),
		Total:        total.StringFixed(2),
		Status:       string(order.Status),
		OutsideHours: outside,
		At:           now,
	})

	return &PlaceOrderResult{
		Order:        order,
		OutsideHours: outside,
		Message:      ConfirmationMessage(order.ID, now, outside),
	}, nil
}

func ConfirmationMessage(orderID uint, at time.Time, outside bool) string {
	msg := fmt.Sprintf("Order #%d placed successfully!", orderID)
	if outside {
		msg += fmt.Sprintf(" Note: The restaurant is currently closed. Our %s hours are %s. Your order will be processed when we open.",
			hours.KindOf(at), hours.Describe(at))
	}
	return msg
}

// Track looks an order up by id for the public tracking page.
func (s *OrderService) Track(ctx context.Context, id uint) (*models.Order, error) {
	if id == 0 {
		return nil, validationf("Invalid order ID")
	}
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return order, nil
}

func (s *OrderService) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.Repo.ListCustomerOrders(ctx, customerID)
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicOrders, fmt.Sprint(ev.OrderID), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicOrders, "error", err)
	}
}
