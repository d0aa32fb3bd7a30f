package state

import (
	"sort"
	"time"

	"github.com/platanadas/pos-client/internal/catalog"
	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/order"
	"go.uber.org/zap"
)

// The history ledger is the locally persisted list of submitted, finalized,
// and cancelled orders, newest first. Entries without a remote id are
// unsynced: created offline and waiting for the next reconciliation. Every
// entry handed out is a value snapshot; mutating it does nothing unless done
// through a ledger method.

// AppendHistory prepends a snapshot of the order to the ledger.
func (s *Store) AppendHistory(o order.Order) {
	s.mu.Lock()
	s.history = append([]order.Order{o.Clone()}, s.history...)
	s.save()
	s.mu.Unlock()
	s.notify("history")
}

// History returns a deep copy of the ledger, newest first.
func (s *Store) History() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return order.CloneAll(s.history)
}

// ReplaceHistory swaps in a server-provided ledger wholesale, as happens
// on login when the day's history is fetched fresh.
func (s *Store) ReplaceHistory(entries []order.Order) {
	s.mu.Lock()
	s.history = order.CloneAll(entries)
	s.save()
	s.mu.Unlock()
	s.notify("history")
}

// HistoryAt returns a snapshot of the entry at index.
func (s *Store) HistoryAt(index int) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.history) {
		return order.Order{}, ErrIndexOutOfRange
	}
	return s.history[index].Clone(), nil
}

// AttachRemoteID records the backend-assigned id on the entry with the
// given order-level local id. The local id is immutable from creation, so
// the match cannot rot the way a first-line-item key would. Returns false
// when no entry matches (already replaced by a sync, or reset).
func (s *Store) AttachRemoteID(localID, remoteID string) bool {
	s.mu.Lock()
	for i := range s.history {
		if s.history[i].LocalID == localID {
			s.history[i].RemoteID = remoteID
			s.save()
			s.mu.Unlock()
			s.notify("history")
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// SetOrderStatus applies a lifecycle transition to the entry at index.
// Transitions out of a terminal state are rejected, not overwritten.
func (s *Store) SetOrderStatus(index int, status string) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.history) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	if err := s.history[index].Transition(status); err != nil {
		s.mu.Unlock()
		return err
	}
	now := time.Now().UTC()
	s.history[index].ModifiedAt = &now
	s.save()
	s.mu.Unlock()
	s.notify("history")
	return nil
}

// --- Sync support ---

// SetSyncing flips the advisory busy flag shown by the UI. It is not a
// lock: builder and ledger mutations are never blocked by an in-flight sync.
func (s *Store) SetSyncing(v bool) {
	s.mu.Lock()
	s.syncing = v
	s.mu.Unlock()
	s.notify("history")
}

// Syncing reports whether a reconciliation round trip is in flight.
func (s *Store) Syncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncing
}

// CompleteSync installs the reconciled ledger. processed is what the server
// round trip produced; sentCreatedAt is the set of creation timestamps
// (UnixNano) that were in the snapshot the request was built from. Orders
// present in the live ledger whose creation timestamp is not in that set
// and which still have no remote id were created while the request was in
// flight; they survive the merge untouched. The final ledger is sorted by
// creation time descending. Runs atomically so a cashier action cannot
// interleave between the live re-read and the install.
func (s *Store) CompleteSync(processed []order.Order, sentCreatedAt map[int64]bool) {
	s.mu.Lock()
	var newSinceSnapshot []order.Order
	for _, o := range s.history {
		if !sentCreatedAt[o.CreatedAt.UnixNano()] && !o.Synced() {
			newSinceSnapshot = append(newSinceSnapshot, o.Clone())
		}
	}
	merged := append(order.CloneAll(processed), newSinceSnapshot...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	s.history = merged
	s.save()
	s.mu.Unlock()
	s.notify("history")
}

// --- Full reset ---

// FullReset clears the ledger, the in-progress order, and the cached
// catalog in one action, and removes the persisted snapshot.
func (s *Store) FullReset() {
	s.mu.Lock()
	s.current = nil
	s.activeIndex = 0
	s.activeCategory = enum.DefaultCategory
	s.history = nil
	s.catalog = catalog.Empty()
	if s.persist != nil {
		if err := s.persist.Delete(SnapshotName); err != nil {
			s.log.Warn("delete state snapshot", zap.Error(err))
		}
	}
	s.mu.Unlock()
	s.notify("history")
	s.notify("order")
	s.notify("catalog")
}
