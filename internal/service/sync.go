package service

import (
	"context"
	"fmt"

	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/gateway"
	"github.com/platanadas/pos-client/internal/order"
	"go.uber.org/zap"
)

// SyncHistory reconciles the local ledger with the backend in one bulk
// round trip. The ledger is snapshotted before the request; orders created
// while the request is in flight survive the merge, and a failed request
// leaves the ledger exactly as it was. Re-entrant calls while a sync is in
// flight are dropped.
func (s *Service) SyncHistory(ctx context.Context) error {
	if !s.session.Authenticated() {
		return ErrNotAuthenticated
	}
	if s.store.Syncing() {
		s.log.Debug("sync already in flight, skipping")
		return nil
	}
	s.store.SetSyncing(true)
	defer s.store.SetSyncing(false)

	snapshot := s.store.History()
	sentCreatedAt := make(map[int64]bool, len(snapshot))
	records := make([]gateway.OrderRecord, 0, len(snapshot))
	for _, o := range snapshot {
		sentCreatedAt[o.CreatedAt.UnixNano()] = true
		records = append(records, toRecord(o, ""))
	}

	results, err := s.gw.SyncOrders(ctx, records)
	if err != nil {
		return fmt.Errorf("sync history: %w", err)
	}

	// An ok result names an order the server already knew; it resolves
	// against the sent snapshot by remote id, never by position, since the
	// backend does not guarantee echo order. Results for newly created
	// entries come back one per sent order, in order.
	sentByRemote := make(map[string]order.Order, len(snapshot))
	for _, o := range snapshot {
		if o.Synced() {
			sentByRemote[o.RemoteID] = o
		}
	}

	cat := s.store.Catalog()
	processed := make([]order.Order, 0, len(results))
	for i, res := range results {
		switch res.Status {
		case enum.SyncOutcomeOK:
			// The locally-sent version wins for ok, even when the server
			// attaches its own rendering.
			o, known := sentByRemote[res.ID]
			if !known {
				s.log.Warn("ok result for a remote id that was not sent", zap.String("remote_id", res.ID))
				continue
			}
			processed = append(processed, o)
		case enum.SyncOutcomeCreated:
			// Prefer the server's canonical rendering when it sends one;
			// otherwise keep the sent version with the new remote id.
			if res.Data != nil {
				processed = append(processed, fromRecord(*res.Data, cat))
				continue
			}
			if i >= len(snapshot) {
				s.log.Warn("created result without matching sent order", zap.Int("index", i))
				continue
			}
			o := snapshot[i]
			if res.ID != "" {
				o.RemoteID = res.ID
			}
			processed = append(processed, o)
		case enum.SyncOutcomeUpdated, enum.SyncOutcomeNoLocal:
			if res.Data == nil {
				s.log.Warn("sync result missing order data", zap.String("status", res.Status))
				continue
			}
			processed = append(processed, fromRecord(*res.Data, cat))
		default:
			s.log.Warn("unknown sync outcome", zap.String("status", res.Status))
		}
	}

	s.store.CompleteSync(processed, sentCreatedAt)
	s.log.Info("history synced", zap.Int("sent", len(records)), zap.Int("received", len(results)))
	return nil
}
