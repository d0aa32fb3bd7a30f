package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/platanadas/pos-client/internal/enum"
	"github.com/platanadas/pos-client/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(nil)
	return New(srv.URL, 0, sess, nil), sess
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/login-sucursal", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ID   string `json:"id"`
			Pass string `json:"pass"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "suc-1", body.ID)
		assert.Equal(t, "secret", body.Pass)
		assert.Empty(t, req.Header.Get("Authorization"), "login must be anonymous")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	c, _ := newTestClient(t, r)

	token, err := c.Login(context.Background(), "suc-1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthenticatedCallsCarryBearerToken(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/sucursal/datos-dia", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(DayData{})
	})
	c, sess := newTestClient(t, r)
	sess.Login("tok-123", "suc-1")

	_, err := c.DayData(context.Background())
	require.NoError(t, err)
}

func TestUnauthorizedLogsOut(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/pedidos/nuevo", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, sess := newTestClient(t, r)
	sess.Login("stale-token", "suc-1")

	_, err := c.CreateOrder(context.Background(), OrderRecord{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, sess.Authenticated(), "session must be cleared on 401")
}

func TestServerErrorCarriesStatusAndBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/pedidos/actualizar", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "pedido no encontrado", http.StatusNotFound)
	})
	c, sess := newTestClient(t, r)
	sess.Login("tok-123", "suc-1")

	err := c.UpdateOrder(context.Background(), "nope", enum.OrderStatusFinalized, enum.PaymentStatusPaid)
	var srvErr *ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, http.StatusNotFound, srvErr.Status)
	assert.Equal(t, "pedido no encontrado", srvErr.Body)
	assert.True(t, sess.Authenticated(), "non-401 errors must not log out")
}

func TestCreateOrderReturnsRemoteID(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/pedidos/nuevo", func(w http.ResponseWriter, req *http.Request) {
		var rec OrderRecord
		require.NoError(t, json.NewDecoder(req.Body).Decode(&rec))
		assert.Equal(t, "Luis", rec.Alias)
		assert.Equal(t, []string{"p_pollo,p_pollo,s_bbq"}, rec.Items)
		json.NewEncoder(w).Encode(map[string]string{"id": "remote-1"})
	})
	c, sess := newTestClient(t, r)
	sess.Login("tok-123", "suc-1")

	id, err := c.CreateOrder(context.Background(), OrderRecord{
		Alias: "Luis",
		Items: []string{"p_pollo,p_pollo,s_bbq"},
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-1", id)
}

func TestSyncOrdersParsesAtomically(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/pedidos/sync-historial", func(w http.ResponseWriter, req *http.Request) {
		var body syncRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Len(t, body.Orders, 1)
		json.NewEncoder(w).Encode(syncResponse{Orders: []SyncResult{
			{Status: enum.SyncOutcomeOK, ID: "remote-1"},
			{Status: enum.SyncOutcomeNoLocal, Data: &OrderRecord{ID: "remote-9"}},
		}})
	})
	c, sess := newTestClient(t, r)
	sess.Login("tok-123", "suc-1")

	results, err := c.SyncOrders(context.Background(), []OrderRecord{{Alias: "Ana"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, enum.SyncOutcomeOK, results[0].Status)
	require.NotNil(t, results[1].Data)
	assert.Equal(t, "remote-9", results[1].Data.ID)
}

func TestSyncOrdersMalformedBodyFailsWhole(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/pedidos/sync-historial", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"pedidos": [{"status": "ok"`)) // truncated
	})
	c, sess := newTestClient(t, r)
	sess.Login("tok-123", "suc-1")

	results, err := c.SyncOrders(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, results)
}
