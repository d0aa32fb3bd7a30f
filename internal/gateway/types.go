package gateway

import "github.com/platanadas/pos-client/internal/catalog"

// Wire types for the Platanadas backend. Field names follow the backend's
// JSON contract; money travels as decimal strings, timestamps as RFC3339.

type loginRequest struct {
	ID   string `json:"id"`
	Pass string `json:"pass"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// DayData is the per-session reference payload: the sellable ingredients,
// the seasonal presets, and the branch's order history already known to the
// backend.
type DayData struct {
	Ingredients []catalog.Ingredient     `json:"ingredientes"`
	Presets     []catalog.SeasonalPreset `json:"platanadas_temporadas"`
	History     []OrderRecord            `json:"historial_pedidos"`
}

// OrderRecord is the backend's flat rendering of an order. Items travel as
// comma-joined ingredient-id strings, one per line item.
type OrderRecord struct {
	ID            string   `json:"id,omitempty"`
	BranchID      string   `json:"sucursal_id"`
	Alias         string   `json:"comensal"`
	Items         []string `json:"productos_json"`
	Total         string   `json:"total"`
	Discount      string   `json:"descuento,omitempty"`
	Status        string   `json:"estado"`
	PaymentStatus string   `json:"estado_pago,omitempty"`
	PaymentMode   string   `json:"modo_pago"`
	CreatedAt     string   `json:"t_creacion"`
	ModifiedAt    string   `json:"t_modificacion,omitempty"`
	DeliveredAt   string   `json:"t_entrega,omitempty"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type updateOrderRequest struct {
	ID            string `json:"id"`
	Status        string `json:"estado"`
	PaymentStatus string `json:"estado_pago,omitempty"`
}

type cancelOrderRequest struct {
	ID     string `json:"id"`
	Reason string `json:"razon"`
}

type syncRequest struct {
	Orders []OrderRecord `json:"pedidos"`
}

// SyncResult is one per-entry outcome of the bulk sync. For "ok" only the
// remote id comes back; for "created", "updated" and "no-local" Data carries
// the server's canonical rendering.
type SyncResult struct {
	Status string       `json:"status"`
	ID     string       `json:"id,omitempty"`
	Data   *OrderRecord `json:"data,omitempty"`
}

type syncResponse struct {
	Orders []SyncResult `json:"pedidos"`
}
