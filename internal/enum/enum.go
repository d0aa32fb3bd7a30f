package enum

// Wire values are the Spanish strings the backend stores and returns.
// Constant names are English; never compare against raw literals elsewhere.

// --- Order lifecycle (created -> in_preparation -> finalized | cancelled) ---

const (
	OrderStatusCreated       = "creado"
	OrderStatusInPreparation = "en_preparacion"
	OrderStatusFinalized     = "finalizado"
	OrderStatusCancelled     = "cancelado"
)

const (
	PaymentStatusPending = "pendiente"
	PaymentStatusPaid    = "pagado"
)

const (
	PaymentModeCash    = "efectivo"
	PaymentModeCard    = "tarjeta"
	PaymentModeWallet  = "billeteras"
	PaymentModePending = "pendiente"
)

// --- Ingredient categories ---

const (
	CategoryBase     = "base"
	CategoryProtein  = "proteina"
	CategorySauce    = "salsa"
	CategoryTopping  = "topping"
	CategoryBeverage = "bebida"
)

// DefaultCategory is the browsing filter a fresh line item starts on.
const DefaultCategory = CategoryBase

// --- Bulk-sync per-entry outcomes ---

const (
	SyncOutcomeOK      = "ok"
	SyncOutcomeCreated = "created"
	SyncOutcomeUpdated = "updated"
	SyncOutcomeNoLocal = "no-local"
)

// IsValidPaymentMode reports whether s is a payment mode the backend accepts.
func IsValidPaymentMode(s string) bool {
	switch s {
	case PaymentModeCash, PaymentModeCard, PaymentModeWallet, PaymentModePending:
		return true
	}
	return false
}

// IsTerminalStatus reports whether an order in status s accepts no further
// lifecycle transitions.
func IsTerminalStatus(s string) bool {
	return s == OrderStatusFinalized || s == OrderStatusCancelled
}
