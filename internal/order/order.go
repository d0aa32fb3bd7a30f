// Package order defines the value types for in-progress and completed
// orders, their deep-copy semantics, the lifecycle state machine, and the
// codec between the app's nested representation and the backend's flat
// comma-joined one.
package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/platanadas/pos-client/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by lifecycle transitions.
var (
	ErrTerminalState     = errors.New("order is in a terminal state")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

// LineItem ("platanada") is one dish within an order. LocalID is a
// session-scoped identity, never a server one. Ingredients maps ingredient
// id to a positive quantity: absent key means zero, explicit zeroes are
// never stored. Price is the cached output of the pricing engine and is
// recomputed after every mutation.
type LineItem struct {
	LocalID     string          `json:"uuid"`
	Ingredients map[string]int  `json:"ingredientes"`
	Price       decimal.Decimal `json:"precio_calculado"`
}

// NewLocalID returns a fresh session-scoped id. UUIDs stay unique under
// rapid successive calls within the same clock tick, which a millisecond
// timestamp alone would not.
func NewLocalID() string {
	return uuid.NewString()
}

// NewLineItem returns an empty line item with a fresh local id.
func NewLineItem() LineItem {
	return LineItem{
		LocalID:     NewLocalID(),
		Ingredients: map[string]int{},
		Price:       decimal.Zero,
	}
}

// Clone returns a deep copy of the line item. The ingredient mapping is an
// independent container: mutating the copy never touches the original. This
// is the invariant behind duplicate-line-item; a shared map here would let
// quantity edits on one dish silently corrupt another.
func (li LineItem) Clone() LineItem {
	ings := make(map[string]int, len(li.Ingredients))
	for id, qty := range li.Ingredients {
		ings[id] = qty
	}
	return LineItem{
		LocalID:     li.LocalID,
		Ingredients: ings,
		Price:       li.Price,
	}
}

// Order ("pedido") is a customer's full order. LocalID is assigned once at
// creation and is the sole correlation key for attaching a remote id after
// an offline-created order reaches the backend. RemoteID is present iff the
// backend acknowledged creation. CreatedAt is immutable and doubles as the
// dedup key during sync reconciliation.
type Order struct {
	LocalID     string          `json:"local_id"`
	RemoteID    string          `json:"id,omitempty"`
	BranchID    string          `json:"sucursal_id"`
	Alias       string          `json:"comensal"`
	Items       []LineItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"estado"`
	PaymentMode string          `json:"modo_pago"`
	CreatedAt   time.Time       `json:"t_creacion"`
	ModifiedAt  *time.Time      `json:"t_modificacion,omitempty"`
	DeliveredAt *time.Time      `json:"t_entrega,omitempty"`
}

// New returns a fresh in-progress order for the given customer alias and
// branch, containing one empty line item.
func New(alias, branchID string) Order {
	return Order{
		LocalID:     NewLocalID(),
		BranchID:    branchID,
		Alias:       alias,
		Items:       []LineItem{NewLineItem()},
		Total:       decimal.Zero,
		Status:      enum.OrderStatusCreated,
		PaymentMode: enum.PaymentModePending,
		CreatedAt:   time.Now().UTC(),
	}
}

// Clone returns a deep copy of the order, including every line item's
// ingredient mapping.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]LineItem, len(o.Items))
	for i, li := range o.Items {
		c.Items[i] = li.Clone()
	}
	if o.ModifiedAt != nil {
		t := *o.ModifiedAt
		c.ModifiedAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		c.DeliveredAt = &t
	}
	return c
}

// CloneAll deep-copies a slice of orders.
func CloneAll(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

// Synced reports whether the backend has acknowledged this order.
func (o Order) Synced() bool {
	return o.RemoteID != ""
}

// Transition moves the order to the given lifecycle status. Terminal states
// (finalized, cancelled) accept no further transitions, and an order can
// only move forward: created -> in_preparation -> finalized | cancelled.
func (o *Order) Transition(status string) error {
	if enum.IsTerminalStatus(o.Status) {
		return ErrTerminalState
	}
	switch status {
	case enum.OrderStatusInPreparation:
		if o.Status != enum.OrderStatusCreated {
			return ErrInvalidTransition
		}
	case enum.OrderStatusFinalized, enum.OrderStatusCancelled:
		// reachable from created and in_preparation
	default:
		return ErrInvalidTransition
	}
	o.Status = status
	return nil
}
