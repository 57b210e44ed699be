package events

import "time"

const (
	OrderPlaced          = "order_placed"
	OrderStatusChanged   = "order_status_changed"
	OrderPendingTooLong  = "order_pending_reminder"
	ReservationRequested = "reservation_requested"
	ReservationDecided   = "reservation_status_changed"
	ProductCreated       = "product_created"
	ProductUpdated       = "product_updated"
	ProductDeleted       = "product_deleted"
)

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      uint      `json:"order_id"`
	CustomerID   *uint     `json:"customer_id,omitempty"`
	OrderType    string    `json:"order_type,omitempty"`
	Total        string    `json:"total,omitempty"`
	Status       string    `json:"status"`
	FromStatus   string    `json:"from_status,omitempty"`
	Override     bool      `json:"override,omitempty"`
	OutsideHours bool      `json:"outside_hours,omitempty"`
	At           time.Time `json:"at"`
}

type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID uint      `json:"reservation_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	PartySize     int       `json:"party_size"`
	Status        string    `json:"status"`
	FromStatus    string    `json:"from_status,omitempty"`
	Override      bool      `json:"override,omitempty"`
	At            time.Time `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Price     string    `json:"price,omitempty"`
	Available bool      `json:"available"`
	At        time.Time `json:"at"`
}
