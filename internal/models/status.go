package models

import (
	"fmt"
	"strings"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDineIn   OrderType = "dine-in"
)

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToLower(strings.TrimSpace(s))); t {
	case OrderTypeDelivery, OrderTypeTakeout, OrderTypeDineIn:
		return t, nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusCompleted      OrderStatus = "completed"
)

// orderFlow is the forward path an order normally takes.
var orderFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderFlow))
	copy(out, orderFlow)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range orderFlow {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) index() int {
	for i, known := range orderFlow {
		if s == known {
			return i
		}
	}
	return -1
}

// Next returns the following step in the normal flow. Completed has no next step.
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.index()
	if i < 0 || i == len(orderFlow)-1 {
		return "", false
	}
	return orderFlow[i+1], true
}

// Transition describes a status change. Override is set when the change is
// not the single forward step, e.g. moving backwards or skipping ahead.
type Transition[S ~string] struct {
	From     S
	To       S
	Override bool
}

// OrderTransition classifies from→to. Both values must be known statuses;
// any known status may be set from any other.
func OrderTransition(from, to OrderStatus) (Transition[OrderStatus], error) {
	if from.index() < 0 {
		return Transition[OrderStatus]{}, fmt.Errorf("unknown order status %q", from)
	}
	if to.index() < 0 {
		return Transition[OrderStatus]{}, fmt.Errorf("unknown order status %q", to)
	}
	next, ok := from.Next()
	return Transition[OrderStatus]{
		From:     from,
		To:       to,
		Override: !(ok && next == to),
	}, nil
}

type ReservationStatus string

const (
	ReservationStatusPending  ReservationStatus = "pending"
	ReservationStatusApproved ReservationStatus = "approved"
	ReservationStatusRejected ReservationStatus = "rejected"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ReservationStatusPending, ReservationStatusApproved, ReservationStatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
}

// ReservationTransition allows any known→known change; only a decision on a
// pending reservation counts as a regular transition.
func ReservationTransition(from, to ReservationStatus) (Transition[ReservationStatus], error) {
	if _, err := ParseReservationStatus(string(from)); err != nil {
		return Transition[ReservationStatus]{}, err
	}
	if _, err := ParseReservationStatus(string(to)); err != nil {
		return Transition[ReservationStatus]{}, err
	}
	regular := from == ReservationStatusPending &&
		(to == ReservationStatusApproved || to == ReservationStatusRejected)
	return Transition[ReservationStatus]{From: from, To: to, Override: !regular}, nil
}

type PrincipalKind string

const (
	PrincipalAdmin    PrincipalKind = "admin"
	PrincipalCustomer PrincipalKind = "customer"
)

func (k PrincipalKind) Valid() bool {
	return k == PrincipalAdmin || k == PrincipalCustomer
}

// Principal is an authenticated identity. Admin and customer ids come from
// separate tables and are only comparable together with Kind.
type Principal struct {
	Kind PrincipalKind `json:"kind"`
	ID   uint          `json:"id"`
	Name string        `json:"name"`
}

func (p Principal) IsAdmin() bool    { return p.Kind == PrincipalAdmin }
func (p Principal) IsCustomer() bool { return p.Kind == PrincipalCustomer }
