// Package service implements the register flows on top of the state store
// and the remote gateway: login, checkout, finalize, cancel, and the
// history reconciliation. Remote failures are never fatal: every flow
// degrades to an optimistic local commit that the next manual sync repairs.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/platanadas/pos-client/internal/catalog"
	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/gateway"
	"github.com/platanadas/pos-client/internal/order"
	"github.com/platanadas/pos-client/internal/session"
	"github.com/platanadas/pos-client/internal/state"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Errors rejected locally, before any network call.
var (
	ErrEmptyCredentials   = errors.New("branch id and password are required")
	ErrEmptyAlias         = errors.New("customer alias is required")
	ErrEmptyReason        = errors.New("cancellation reason is required")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrNoCurrentOrder     = errors.New("no order in progress")
	ErrNotAuthenticated   = errors.New("not logged in")
)

// Gateway is the slice of the backend client the flows need. Satisfied by
// *gateway.Client; narrow interface for testability.
type Gateway interface {
	Login(ctx context.Context, branchID, password string) (string, error)
	DayDataWithToken(ctx context.Context, token string) (gateway.DayData, error)
	CreateOrder(ctx context.Context, rec gateway.OrderRecord) (string, error)
	UpdateOrder(ctx context.Context, remoteID, status, paymentStatus string) error
	CancelOrder(ctx context.Context, remoteID, reason string) error
	SyncOrders(ctx context.Context, records []gateway.OrderRecord) ([]gateway.SyncResult, error)
}

// Service wires the store, session, and gateway together.
type Service struct {
	store   *state.Store
	session *session.Session
	gw      Gateway
	log     *zap.Logger
}

// New creates a Service. logger may be nil.
func New(store *state.Store, sess *session.Session, gw Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, session: sess, gw: gw, log: logger}
}

// --- Conversions between local orders and the backend's flat records ---

// paymentStatusFor derives the payment state sent to the backend: cash is
// collected on delivery, everything else is paid at checkout.
func paymentStatusFor(mode string) string {
	if mode == enum.PaymentModeCash {
		return enum.PaymentStatusPending
	}
	return enum.PaymentStatusPaid
}

// toRecord flattens a local order for the wire. status overrides the
// order's own lifecycle state when the backend should see a different one
// (finalize-before-create); pass "" to keep it.
func toRecord(o order.Order, status string) gateway.OrderRecord {
	if status == "" {
		status = o.Status
	}
	rec := gateway.OrderRecord{
		ID:            o.RemoteID,
		BranchID:      o.BranchID,
		Alias:         o.Alias,
		Items:         order.EncodeItems(o.Items),
		Total:         o.Total.String(),
		Discount:      "0",
		Status:        status,
		PaymentStatus: paymentStatusFor(o.PaymentMode),
		PaymentMode:   o.PaymentMode,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339Nano),
	}
	if o.ModifiedAt != nil {
		rec.ModifiedAt = o.ModifiedAt.Format(time.RFC3339Nano)
	}
	if o.DeliveredAt != nil {
		rec.DeliveredAt = o.DeliveredAt.Format(time.RFC3339Nano)
	}
	return rec
}

// fromRecord rebuilds a local order from the backend's canonical rendering,
// re-deriving line items and prices against the current catalog. A fresh
// local id is assigned; the remote id is the identity that matters now.
func fromRecord(rec gateway.OrderRecord, cat *catalog.Catalog) order.Order {
	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		total = decimal.Zero
	}
	alias := rec.Alias
	if alias == "" {
		alias = "Sin Nombre"
	}
	o := order.Order{
		LocalID:     order.NewLocalID(),
		RemoteID:    rec.ID,
		BranchID:    rec.BranchID,
		Alias:       alias,
		Items:       order.DecodeItems(rec.Items, cat),
		Total:       total,
		Status:      rec.Status,
		PaymentMode: rec.PaymentMode,
		CreatedAt:   parseTime(rec.CreatedAt),
	}
	if t := rec.ModifiedAt; t != "" {
		tt := parseTime(t)
		o.ModifiedAt = &tt
	}
	if t := rec.DeliveredAt; t != "" {
		tt := parseTime(t)
		o.DeliveredAt = &tt
	}
	return o
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
