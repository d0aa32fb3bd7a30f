package order

import (
	"errors"
	"testing"

	"github.com/platanadas/pos-client/internal/enum"
)

func TestClone_IngredientMappingIsIndependent(t *testing.T) {
	orig := NewLineItem()
	orig.Ingredients["p_pollo"] = 2

	copy := orig.Clone()
	copy.Ingredients["p_pollo"] = 99
	copy.Ingredients["s_bbq"] = 1

	if orig.Ingredients["p_pollo"] != 2 {
		t.Fatalf("mutating the clone changed the original: %v", orig.Ingredients)
	}
	if _, ok := orig.Ingredients["s_bbq"]; ok {
		t.Fatal("new key on the clone leaked into the original")
	}
}

func TestOrderClone_DeepCopiesItems(t *testing.T) {
	o := New("Mesa 4", "bosque_popular")
	o.Items[0].Ingredients["p_pollo"] = 1

	c := o.Clone()
	c.Items[0].Ingredients["p_pollo"] = 50

	if o.Items[0].Ingredients["p_pollo"] != 1 {
		t.Fatal("order clone shares line item storage with the original")
	}
}

func TestNew_StartsWithOneEmptyItem(t *testing.T) {
	o := New("Mesa 4", "bosque_popular")

	if len(o.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(o.Items))
	}
	if len(o.Items[0].Ingredients) != 0 {
		t.Fatal("initial item should have no ingredients")
	}
	if o.Status != enum.OrderStatusCreated {
		t.Fatalf("status: got %q, want %q", o.Status, enum.OrderStatusCreated)
	}
	if o.PaymentMode != enum.PaymentModePending {
		t.Fatalf("payment mode: got %q, want %q", o.PaymentMode, enum.PaymentModePending)
	}
	if o.LocalID == "" {
		t.Fatal("order must carry a local id from creation")
	}
}

func TestNew_LocalIDsUniqueUnderRapidCalls(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		o := New("a", "b")
		if seen[o.LocalID] {
			t.Fatalf("duplicate local id after %d orders", i)
		}
		seen[o.LocalID] = true
	}
}

func TestTransition_ForwardPath(t *testing.T) {
	o := New("Mesa 4", "b1")

	if err := o.Transition(enum.OrderStatusInPreparation); err != nil {
		t.Fatalf("created -> in_preparation: %v", err)
	}
	if err := o.Transition(enum.OrderStatusFinalized); err != nil {
		t.Fatalf("in_preparation -> finalized: %v", err)
	}
}

func TestTransition_TerminalStatesReject(t *testing.T) {
	o := New("Mesa 4", "b1")
	if err := o.Transition(enum.OrderStatusCancelled); err != nil {
		t.Fatalf("created -> cancelled: %v", err)
	}

	err := o.Transition(enum.OrderStatusFinalized)
	if !errors.Is(err, ErrTerminalState) {
		t.Fatalf("expected ErrTerminalState, got: %v", err)
	}
	if o.Status != enum.OrderStatusCancelled {
		t.Fatalf("status changed despite terminal state: %q", o.Status)
	}
}

func TestTransition_NoBackwardMove(t *testing.T) {
	o := New("Mesa 4", "b1")
	if err := o.Transition(enum.OrderStatusInPreparation); err != nil {
		t.Fatal(err)
	}

	err := o.Transition(enum.OrderStatusInPreparation)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got: %v", err)
	}
}
