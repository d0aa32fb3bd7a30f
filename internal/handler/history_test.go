package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/order"
	"github.com/platanadas/pos-client/internal/service"
	"github.com/platanadas/pos-client/internal/state"
)

type fakeHistoryFlows struct {
	finalizeFn func(ctx context.Context, index int) error
	cancelFn   func(ctx context.Context, index int, reason string) error
	prepareFn  func(ctx context.Context, index int) error
	syncFn     func(ctx context.Context) error
}

func (f *fakeHistoryFlows) Finalize(ctx context.Context, index int) error {
	if f.finalizeFn == nil {
		return nil
	}
	return f.finalizeFn(ctx, index)
}

func (f *fakeHistoryFlows) Cancel(ctx context.Context, index int, reason string) error {
	if f.cancelFn == nil {
		return nil
	}
	return f.cancelFn(ctx, index, reason)
}

func (f *fakeHistoryFlows) MarkInPreparation(ctx context.Context, index int) error {
	if f.prepareFn == nil {
		return nil
	}
	return f.prepareFn(ctx, index)
}

func (f *fakeHistoryFlows) SyncHistory(ctx context.Context) error {
	if f.syncFn == nil {
		return nil
	}
	return f.syncFn(ctx)
}

func newHistoryRig(t *testing.T, flows *fakeHistoryFlows) (*state.Store, chi.Router) {
	t.Helper()
	store := state.New(nil, nil)
	r := chi.NewRouter()
	h := NewHistoryHandler(store, flows, nil)
	r.Route("/history", h.RegisterRoutes)
	return store, r
}

func TestListHistory(t *testing.T) {
	store, r := newHistoryRig(t, &fakeHistoryFlows{})
	o := order.New("Ana", "suc-1")
	o.CreatedAt = time.Now()
	store.AppendHistory(o)

	req := httptest.NewRequest(http.MethodGet, "/history/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Orders  []order.Order `json:"pedidos"`
		Syncing bool          `json:"syncing"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].Alias != "Ana" {
		t.Fatalf("orders = %+v", resp.Orders)
	}
}

func TestFinalizeTerminalConflict(t *testing.T) {
	_, r := newHistoryRig(t, &fakeHistoryFlows{
		finalizeFn: func(_ context.Context, _ int) error {
			return order.ErrTerminalState
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/history/0/finalize", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestFinalizeUnknownIndex(t *testing.T) {
	_, r := newHistoryRig(t, &fakeHistoryFlows{
		finalizeFn: func(_ context.Context, _ int) error {
			return state.ErrIndexOutOfRange
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/history/9/finalize", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	_, r := newHistoryRig(t, &fakeHistoryFlows{
		cancelFn: func(_ context.Context, _ int, reason string) error {
			if reason == "" {
				return service.ErrEmptyReason
			}
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/history/0/cancel", strings.NewReader(`{"razon":""}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSyncFailureIsBadGateway(t *testing.T) {
	_, r := newHistoryRig(t, &fakeHistoryFlows{
		syncFn: func(_ context.Context) error {
			return context.DeadlineExceeded
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/history/sync", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInvalidIndexParam(t *testing.T) {
	_, r := newHistoryRig(t, &fakeHistoryFlows{})

	req := httptest.NewRequest(http.MethodPost, "/history/abc/finalize", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
