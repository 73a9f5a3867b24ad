package fsm

import (
	"testing"
)

func TestManagerGetNoFlow(t *testing.T) {
	m := NewManager()
	if m.Get(1) != nil {
		t.Error("Expected no active flow for a fresh user")
	}
}

func TestManagerSetAndGet(t *testing.T) {
	m := NewManager()
	m.Set(1, &AddListing{Step: StepTitle})

	flow := m.Get(1)
	draft, ok := flow.(*AddListing)
	if !ok {
		t.Fatalf("Expected *AddListing, got %T", flow)
	}
	if draft.Step != StepTitle {
		t.Errorf("Expected StepTitle, got %v", draft.Step)
	}

	// Other users are unaffected
	if m.Get(2) != nil {
		t.Error("Expected no flow for another user")
	}
}

func TestManagerSetReplacesActiveFlow(t *testing.T) {
	m := NewManager()
	m.Set(1, &AddListing{Step: StepPrice})
	m.Set(1, &Withdraw{})

	if _, ok := m.Get(1).(*Withdraw); !ok {
		t.Errorf("Expected *Withdraw after replacement, got %T", m.Get(1))
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	m.Set(1, &EditListing{Step: StepChooseField, ProductID: 7})
	m.Clear(1)

	if m.Get(1) != nil {
		t.Error("Expected no flow after Clear")
	}
}

func TestManagerMutateInPlace(t *testing.T) {
	m := NewManager()
	m.Set(1, &AddListing{Step: StepTitle})

	draft := m.Get(1).(*AddListing)
	draft.Title = "Mug"
	draft.Step = StepDescription

	again := m.Get(1).(*AddListing)
	if again.Title != "Mug" || again.Step != StepDescription {
		t.Error("Expected draft mutations to be visible on next Get")
	}
}
