package service

import (
	"context"
	"fmt"

	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/order"
	"go.uber.org/zap"
)

// Login authenticates the branch against the backend, stores the session,
// and loads the day's catalog and order history into the state store.
func (s *Service) Login(ctx context.Context, branchID, password string) error {
	if branchID == "" || password == "" {
		return ErrEmptyCredentials
	}
	token, err := s.gw.Login(ctx, branchID, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	// Fetch day data with the fresh token before committing the session,
	// so a half-working backend does not leave us logged in with no catalog.
	day, err := s.gw.DayDataWithToken(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch day data: %w", err)
	}
	s.session.Login(token, branchID)
	s.store.SetDayData(day.Ingredients, day.Presets)

	cat := s.store.Catalog()
	history := make([]order.Order, 0, len(day.History))
	for _, rec := range day.History {
		history = append(history, fromRecord(rec, cat))
	}
	s.store.ReplaceHistory(history)
	s.log.Info("logged in", zap.String("branch", branchID), zap.Int("history", len(history)))
	return nil
}

// Logout drops the session and wipes all local state, persisted snapshots
// included.
func (s *Service) Logout() {
	s.session.Logout()
	s.store.FullReset()
	s.log.Info("logged out")
}

// RefreshDayData re-fetches the catalog and history with the current
// session. Used on app resume.
func (s *Service) RefreshDayData(ctx context.Context) error {
	if !s.session.Authenticated() {
		return ErrNotAuthenticated
	}
	day, err := s.gw.DayDataWithToken(ctx, s.session.Token())
	if err != nil {
		return fmt.Errorf("fetch day data: %w", err)
	}
	s.store.SetDayData(day.Ingredients, day.Presets)
	cat := s.store.Catalog()
	history := make([]order.Order, 0, len(day.History))
	for _, rec := range day.History {
		history = append(history, fromRecord(rec, cat))
	}
	s.store.ReplaceHistory(history)
	return nil
}

// StartOrder begins a new in-progress order for the named customer.
func (s *Service) StartOrder(alias string) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	s.store.InitOrder(alias, s.session.BranchID())
	return nil
}

// CheckoutResult reports how a checkout landed.
type CheckoutResult struct {
	Order  order.Order
	Synced bool
}

// Checkout commits the in-progress order to the history ledger with the
// chosen payment mode and tries to push it to the backend. The local commit
// always happens first; a failed push leaves the order queued for the next
// history sync.
func (s *Service) Checkout(ctx context.Context, paymentMode string) (CheckoutResult, error) {
	if !enum.IsValidPaymentMode(paymentMode) || paymentMode == enum.PaymentModePending {
		return CheckoutResult{}, ErrInvalidPaymentMode
	}
	cur, ok := s.store.CurrentOrder()
	if !ok {
		return CheckoutResult{}, ErrNoCurrentOrder
	}
	cur.PaymentMode = paymentMode
	cur.Total = s.store.OrderTotal()

	s.store.AppendHistory(cur)
	s.store.ClearCurrentOrder()

	res := CheckoutResult{Order: cur}
	remoteID, err := s.gw.CreateOrder(ctx, toRecord(cur, ""))
	if err != nil {
		s.log.Warn("order queued offline", zap.String("local_id", cur.LocalID), zap.Error(err))
		return res, nil
	}
	if s.store.AttachRemoteID(cur.LocalID, remoteID) {
		res.Order.RemoteID = remoteID
		res.Synced = true
	}
	return res, nil
}

// Finalize marks the history entry at index as delivered, pushing the
// transition to the backend. An order the backend has never seen is created
// directly in its final state. The local transition is applied regardless
// of the network outcome.
func (s *Service) Finalize(ctx context.Context, index int) error {
	entry, err := s.store.HistoryAt(index)
	if err != nil {
		return err
	}
	if enum.IsTerminalStatus(entry.Status) {
		return order.ErrTerminalState
	}
	if err := s.store.SetOrderStatus(index, enum.OrderStatusFinalized); err != nil {
		return err
	}
	if entry.Synced() {
		if err := s.gw.UpdateOrder(ctx, entry.RemoteID, enum.OrderStatusFinalized, enum.PaymentStatusPaid); err != nil {
			s.log.Warn("finalize not pushed", zap.String("remote_id", entry.RemoteID), zap.Error(err))
		}
		return nil
	}
	remoteID, err := s.gw.CreateOrder(ctx, toRecord(entry, enum.OrderStatusFinalized))
	if err != nil {
		s.log.Warn("finalize queued offline", zap.String("local_id", entry.LocalID), zap.Error(err))
		return nil
	}
	s.store.AttachRemoteID(entry.LocalID, remoteID)
	return nil
}

// Cancel voids the history entry at index with a mandatory reason. Like
// Finalize, the backend push is best effort and the local transition wins.
func (s *Service) Cancel(ctx context.Context, index int, reason string) error {
	if reason == "" {
		return ErrEmptyReason
	}
	entry, err := s.store.HistoryAt(index)
	if err != nil {
		return err
	}
	if enum.IsTerminalStatus(entry.Status) {
		return order.ErrTerminalState
	}
	if err := s.store.SetOrderStatus(index, enum.OrderStatusCancelled); err != nil {
		return err
	}
	if !entry.Synced() {
		remoteID, err := s.gw.CreateOrder(ctx, toRecord(entry, ""))
		if err != nil {
			s.log.Warn("cancel queued offline", zap.String("local_id", entry.LocalID), zap.Error(err))
			return nil
		}
		s.store.AttachRemoteID(entry.LocalID, remoteID)
		entry.RemoteID = remoteID
	}
	if err := s.gw.CancelOrder(ctx, entry.RemoteID, reason); err != nil {
		s.log.Warn("cancel not pushed", zap.String("remote_id", entry.RemoteID), zap.Error(err))
	}
	return nil
}

// MarkInPreparation advances a created order to the kitchen.
func (s *Service) MarkInPreparation(ctx context.Context, index int) error {
	entry, err := s.store.HistoryAt(index)
	if err != nil {
		return err
	}
	if err := s.store.SetOrderStatus(index, enum.OrderStatusInPreparation); err != nil {
		return err
	}
	if entry.Synced() {
		if err := s.gw.UpdateOrder(ctx, entry.RemoteID, enum.OrderStatusInPreparation, paymentStatusFor(entry.PaymentMode)); err != nil {
			s.log.Warn("status not pushed", zap.String("remote_id", entry.RemoteID), zap.Error(err))
		}
	}
	return nil
}
