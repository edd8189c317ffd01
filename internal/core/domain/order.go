package domain

import (
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses. There is no
// transition graph: any known status may follow any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the record of a completed checkout. Only Status changes after creation.
type Order struct {
	ID         string      `json:"id" bson:"_id"`
	IdentityID string      `json:"user_id" bson:"user_id"`
	Items      []CartLine  `json:"items" bson:"items"`
	TotalCost  int64       `json:"total_cost" bson:"total_cost"`
	Status     OrderStatus `json:"status" bson:"status"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
}

// Validate checks the order before it is written or after it is decoded.
func (o *Order) Validate() error {
	if o.ID == "" || o.IdentityID == "" {
		return fmt.Errorf("%w: order is missing its id or owner", ErrInvalidRecord)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: order %s has status %q", ErrInvalidRecord, o.ID, o.Status)
	}
	if o.TotalCost < 0 {
		return fmt.Errorf("%w: order %s has negative total", ErrInvalidRecord, o.ID)
	}
	return nil
}

// OrderView is an order joined with its owner's profile, as shown to admins.
type OrderView struct {
	Order
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// OrderStats aggregates the admin order console counters.
type OrderStats struct {
	Total     int   `json:"total"`
	Pending   int   `json:"pending"`
	Confirmed int   `json:"confirmed"`
	Completed int   `json:"completed"`
	Revenue   int64 `json:"revenue"`
}

// ComputeOrderStats counts orders by status. Revenue excludes cancelled orders.
func ComputeOrderStats(orders []Order) OrderStats {
	st := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			st.Pending++
		case StatusConfirmed:
			st.Confirmed++
		case StatusCompleted:
			st.Completed++
		}
		if o.Status != StatusCancelled {
			st.Revenue += o.TotalCost
		}
	}
	return st
}
