package transport

import (
	"encoding/json"

	"github.com/Skotchmaster/restaurant/internal/models"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Success(msg string) Response { return Response{Status: "success", Message: msg} }

func Failure(msg string) Response { return Response{Status: "error", Message: msg} }

type CartItemRequest struct {
	ProductID uint `json:"product_id" form:"product_id"`
	Quantity  int  `json:"quantity" form:"quantity"`
}

type CartAddResponse struct {
	Response
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerName        string `json:"customer_name" form:"customer_name"`
	CustomerEmail       string `json:"customer_email" form:"customer_email"`
	CustomerPhone       string `json:"customer_phone" form:"customer_phone"`
	Address             string `json:"address" form:"address"`
	OrderType           string `json:"order_type" form:"order_type"`
	PaymentMethod       string `json:"payment_method" form:"payment_method"`
	SpecialInstructions string `json:"special_instructions" form:"special_instructions"`
}

type PlaceOrderResponse struct {
	Response
	Order        *models.Order `json:"order"`
	OutsideHours bool          `json:"outside_hours"`
}

type TrackOrderRequest struct {
	OrderID OrderRef `json:"order_id" form:"order_id" query:"order_id"`
}

// OrderRef is an order id as typed by a person or sent by a client: a JSON
// number or a string. Parsing is left to the handler.
type OrderRef string

func (r *OrderRef) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*r = OrderRef(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = OrderRef(s)
	return nil
}

type ReservationRequest struct {
	GuestName       string `json:"guest_name" form:"guest_name"`
	GuestEmail      string `json:"guest_email" form:"guest_email"`
	GuestPhone      string `json:"guest_phone" form:"guest_phone"`
	Date            string `json:"reservation_date" form:"reservation_date"`
	Time            string `json:"reservation_time" form:"reservation_time"`
	PartySize       int    `json:"party_size" form:"party_size"`
	SpecialRequests string `json:"special_requests" form:"special_requests"`
}

type ReservationResponse struct {
	Response
	Reservation *models.Reservation `json:"reservation"`
}

type RegisterRequest struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	FullName   string `json:"full_name" form:"full_name"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	PostalCode string `json:"postal_code" form:"postal_code"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type SessionResponse struct {
	Response
	Principal models.Principal `json:"principal"`
}

type OrderStatusRequest struct {
	OrderID uint   `json:"order_id" form:"order_id"`
	Status  string `json:"status" form:"status"`
}

type ReservationStatusRequest struct {
	ReservationID uint   `json:"reservation_id" form:"reservation_id"`
	Status        string `json:"status" form:"status"`
}

type StatusChangeResponse struct {
	Response
	From     string `json:"from"`
	To       string `json:"to"`
	Override bool   `json:"override"`
}

type ProductIDRequest struct {
	ProductID uint `json:"product_id" form:"product_id"`
}

type ToggleResponse struct {
	Success   bool `json:"success"`
	Available bool `json:"available"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func NewMeta(page, offset, limit int, total int64) Meta {
	return Meta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}
