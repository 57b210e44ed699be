package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Admin struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:80;unique;not null"  json:"username"`
	PasswordHash string `gorm:"size:256;not null"        json:"-"`
}

type Customer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:120;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:256;not null"        json:"-"`
	FullName     string    `gorm:"size:100;not null"        json:"full_name"`
	Phone        string    `gorm:"size:20"                  json:"phone"`
	Address      string    `json:"address"`
	City         string    `gorm:"size:50"                  json:"city"`
	PostalCode   string    `gorm:"size:10"                  json:"postal_code"`
	CreatedAt    time.Time `json:"created_at"`
	Orders       []Order   `gorm:"foreignKey:CustomerID"    json:"-"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string          `gorm:"size:100;not null"          json:"name"`
	Description string          `gorm:"not null"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Category    string          `gorm:"size:50;not null;index"     json:"category"`
	Subcategory string          `gorm:"size:50"                    json:"subcategory,omitempty"`
	ImageURL    string          `gorm:"size:200"                   json:"image_url,omitempty"`
	Available   bool            `gorm:"not null;default:true"      json:"available"`
	Variant     string          `gorm:"size:50"                    json:"variant,omitempty"`
}

type Order struct {
	ID                  uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	CustomerID          *uint           `gorm:"index"                       json:"customer_id,omitempty"`
	CustomerName        string          `gorm:"size:100;not null"           json:"customer_name"`
	CustomerEmail       string          `gorm:"size:120"                    json:"customer_email"`
	CustomerPhone       string          `gorm:"size:20"                     json:"customer_phone"`
	Address             string          `json:"address,omitempty"`
	OrderType           OrderType       `gorm:"size:50;not null"            json:"order_type"`
	PaymentMethod       string          `gorm:"size:50;not null"            json:"payment_method"`
	CreatedAt           time.Time       `gorm:"index"                       json:"order_date"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status              OrderStatus     `gorm:"size:50;not null;default:pending;index" json:"status"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	PlacedOutsideHours  bool            `gorm:"not null;default:false"      json:"placed_outside_hours"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID"          json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem deliberately has no association to Product: the name and price
// are a snapshot, so deleting a product leaves order history intact.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID     uint            `gorm:"index;not null"              json:"order_id"`
	ProductID   uint            `gorm:"not null"                    json:"product_id"`
	ProductName string          `gorm:"size:100;not null"           json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type Reservation struct {
	ID              uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	GuestName       string            `gorm:"size:100;not null"        json:"guest_name"`
	GuestEmail      string            `gorm:"size:120;index"           json:"guest_email"`
	GuestPhone      string            `gorm:"size:20"                  json:"guest_phone"`
	ReservationDate time.Time         `gorm:"type:date;not null"       json:"reservation_date"`
	ReservationTime string            `gorm:"size:5;not null"          json:"reservation_time"`
	PartySize       int               `gorm:"not null"                 json:"party_size"`
	Status          ReservationStatus `gorm:"size:50;not null;default:pending;index" json:"status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	AdminNotes      string            `json:"admin_notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"index;not null"           json:"order_id"`
	Order     *Order    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Kind      string    `gorm:"size:30;not null;default:new_order" json:"kind"`
	Message   string    `gorm:"size:255;not null"        json:"message"`
	IsRead    bool      `gorm:"not null;default:false"   json:"is_read"`
	CreatedAt time.Time `gorm:"not null"                 json:"created_at"`
}

type RefreshToken struct {
	ID            uint   `gorm:"primaryKey"          json:"id"`
	PrincipalKind string `gorm:"size:20;not null"    json:"principal_kind"`
	PrincipalID   uint   `gorm:"index;not null"      json:"principal_id"`
	Token         string `gorm:"unique;not null"     json:"-"`
	JTI           string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt     int64  `gorm:"not null"            json:"expires_at"`
	Revoked       bool   `gorm:"default:false"       json:"revoked"`
}

// All lists every table, in migration order.
func All() []any {
	return []any{
		&Admin{},
		&Customer{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Reservation{},
		&Notification{},
		&RefreshToken{},
	}
}

func (o Order) IDString() string {
	return strconv.FormatUint(uint64(o.ID), 10)
}
