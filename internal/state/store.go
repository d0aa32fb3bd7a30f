// Package state owns all mutable order state of the register: the ingredient
// catalog cache, the in-progress order with its active line-item pointer and
// category filter, the history ledger, and the advisory syncing flag.
//
// The Store is the single shared mutable resource of the app. Every mutation
// goes through a Store method and runs atomically under one mutex; callers
// never receive live references, every accessor deep-copies. Network
// operations run outside the lock and work on snapshots, so a slow round
// trip never blocks the cashier.
package state

import (
	"errors"
	"sync"

	"github.com/platanadas/pos-client/internal/catalog"
	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/order"
	"github.com/platanadas/pos-client/internal/pricing"
	"github.com/platanadas/pos-client/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SnapshotName is the storage key for the persisted order state, separate
// from the auth snapshot.
const SnapshotName = "platanadas-pos-v1"

var (
	ErrNoCurrentOrder  = errors.New("no order in progress")
	ErrPresetNotFound  = errors.New("seasonal preset not found")
	ErrIndexOutOfRange = errors.New("history index out of range")
)

// ChangeListener is notified after every committed mutation, with the kind
// of state that changed ("order", "history", "catalog"). Used to push
// refreshes to the UI; must not call back into the Store synchronously.
type ChangeListener func(kind string)

// Store holds the register's state. Zero value is not usable; use New.
type Store struct {
	mu sync.RWMutex

	catalog *catalog.Catalog

	current        *order.Order
	activeIndex    int
	activeCategory string

	history []order.Order
	syncing bool

	persist  storage.Store
	log      *zap.Logger
	onChange ChangeListener
}

// persisted is the on-disk snapshot layout. The syncing flag and the
// builder pointers are session-local and deliberately not persisted.
type persisted struct {
	Ingredients []catalog.Ingredient     `json:"ingredientes"`
	Presets     []catalog.SeasonalPreset `json:"platanadas_temporadas"`
	Current     *order.Order             `json:"current_order"`
	History     []order.Order            `json:"historial"`
}

// New creates a Store persisting to persist. Both persist and logger may be
// nil (tests).
func New(persist storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		catalog:        catalog.Empty(),
		activeCategory: enum.DefaultCategory,
		persist:        persist,
		log:            logger,
	}
}

// SetOnChange registers the change listener. Call before concurrent use.
func (s *Store) SetOnChange(fn ChangeListener) {
	s.onChange = fn
}

// Restore loads the persisted snapshot, if any.
func (s *Store) Restore() error {
	if s.persist == nil {
		return nil
	}
	var snap persisted
	if err := s.persist.Load(SnapshotName, &snap); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.catalog = catalog.New(snap.Ingredients, snap.Presets)
	s.current = snap.Current
	s.history = snap.History
	s.activeIndex = 0
	s.activeCategory = enum.DefaultCategory
	s.mu.Unlock()
	return nil
}

// save writes the snapshot. Callers hold the write lock. Persistence is
// best effort: a full disk must not take the register down.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	snap := persisted{
		Ingredients: s.catalog.Ingredients(""),
		Presets:     s.catalog.Presets(),
		History:     order.CloneAll(s.history),
	}
	if s.current != nil {
		c := s.current.Clone()
		snap.Current = &c
	}
	if err := s.persist.Save(SnapshotName, snap); err != nil {
		s.log.Warn("persist state snapshot", zap.Error(err))
	}
}

func (s *Store) notify(kind string) {
	if s.onChange != nil {
		s.onChange(kind)
	}
}

// --- Catalog ---

// SetDayData installs the catalog and presets fetched from the backend.
func (s *Store) SetDayData(ingredients []catalog.Ingredient, presets []catalog.SeasonalPreset) {
	s.mu.Lock()
	s.catalog = catalog.New(ingredients, presets)
	s.save()
	s.mu.Unlock()
	s.notify("catalog")
}

// Catalog returns the current catalog. The catalog itself is immutable.
func (s *Store) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// --- Order builder ---

// InitOrder replaces any in-progress order with a fresh one for the given
// customer alias, containing one empty line item, and resets the active
// pointer and category filter.
func (s *Store) InitOrder(alias, branchID string) {
	s.mu.Lock()
	o := order.New(alias, branchID)
	s.current = &o
	s.activeIndex = 0
	s.activeCategory = enum.DefaultCategory
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// ClearCurrentOrder drops the in-progress order. History is untouched.
func (s *Store) ClearCurrentOrder() {
	s.mu.Lock()
	s.current = nil
	s.activeIndex = 0
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// CurrentOrder returns a deep copy of the in-progress order.
func (s *Store) CurrentOrder() (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return order.Order{}, false
	}
	return s.current.Clone(), true
}

// SelectLineItem moves the active pointer. Bounds are the caller's
// responsibility (the UI derives them from its list length); mutations on an
// out-of-range pointer are no-ops.
func (s *Store) SelectLineItem(index int) {
	s.mu.Lock()
	s.activeIndex = index
	s.mu.Unlock()
	s.notify("order")
}

// ActiveIndex returns the active line-item pointer.
func (s *Store) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIndex
}

// SetCategory sets the ingredient-browsing filter. Pricing is unaffected.
func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	s.activeCategory = category
	s.mu.Unlock()
	s.notify("order")
}

// ActiveCategory returns the ingredient-browsing filter.
func (s *Store) ActiveCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCategory
}

// AddLineItem appends an empty line item and activates it. The category
// filter resets so the cashier starts the new dish from the bases.
func (s *Store) AddLineItem() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current.Items = append(s.current.Items, order.NewLineItem())
	s.activeIndex = len(s.current.Items) - 1
	s.activeCategory = enum.DefaultCategory
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// DuplicateLineItem deep-copies the active line item under a new local id,
// appends it, and activates it. The copy's ingredient mapping is an
// independent container; quantity edits on the copy never touch the source.
func (s *Store) DuplicateLineItem() {
	s.mu.Lock()
	item, ok := s.activeItem()
	if !ok {
		s.mu.Unlock()
		return
	}
	dup := item.Clone()
	dup.LocalID = order.NewLocalID()
	s.current.Items = append(s.current.Items, dup)
	s.activeIndex = len(s.current.Items) - 1
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// RemoveLineItem removes the active line item. An order never holds zero
// items: removing the last one replaces it with a fresh empty item instead.
func (s *Store) RemoveLineItem() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	items := s.current.Items
	if len(items) <= 1 {
		s.current.Items = []order.LineItem{order.NewLineItem()}
		s.activeIndex = 0
		s.save()
		s.mu.Unlock()
		s.notify("order")
		return
	}
	if s.activeIndex < 0 || s.activeIndex >= len(items) {
		s.mu.Unlock()
		return
	}
	s.current.Items = append(items[:s.activeIndex], items[s.activeIndex+1:]...)
	if s.activeIndex > 0 {
		s.activeIndex--
	}
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// UpdateIngredientQuantity applies delta to the active line item's quantity
// for the given ingredient, clamping at zero and dropping zero entries, then
// recomputes the cached price.
func (s *Store) UpdateIngredientQuantity(ingredientID string, delta int) {
	s.mu.Lock()
	item, ok := s.activeItem()
	if !ok {
		s.mu.Unlock()
		return
	}
	qty := item.Ingredients[ingredientID] + delta
	if qty <= 0 {
		delete(item.Ingredients, ingredientID)
	} else {
		item.Ingredients[ingredientID] = qty
	}
	item.Price = pricing.LinePrice(item.Ingredients, s.catalog)
	s.save()
	s.mu.Unlock()
	s.notify("order")
}

// ApplySeasonalPreset replaces the active line item with the preset's
// ingredient counts (repetition in the preset list encodes quantity), under
// a new local id, and prices it.
func (s *Store) ApplySeasonalPreset(presetID string) error {
	s.mu.Lock()
	preset, ok := s.catalog.Preset(presetID)
	if !ok {
		s.mu.Unlock()
		return ErrPresetNotFound
	}
	item, have := s.activeItem()
	if !have {
		s.mu.Unlock()
		return ErrNoCurrentOrder
	}
	ings := map[string]int{}
	for _, id := range preset.Ingredients {
		ings[id]++
	}
	item.LocalID = order.NewLocalID()
	item.Ingredients = ings
	item.Price = pricing.LinePrice(ings, s.catalog)
	s.save()
	s.mu.Unlock()
	s.notify("order")
	return nil
}

// OrderTotal returns the sum of the line items' cached prices, zero when no
// order is in progress. Always derived, never an independent counter.
func (s *Store) OrderTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return decimal.Zero
	}
	return order.SumItems(s.current.Items)
}

// activeItem returns the line item under the active pointer. Callers hold
// the lock.
func (s *Store) activeItem() (*order.LineItem, bool) {
	if s.current == nil {
		return nil, false
	}
	if s.activeIndex < 0 || s.activeIndex >= len(s.current.Items) {
		return nil, false
	}
	return &s.current.Items[s.activeIndex], true
}
