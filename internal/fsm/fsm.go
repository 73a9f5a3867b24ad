// Package fsm tracks per-user conversational flow state. Each user has at
// most one active flow; the flow value is a tagged union carrying the data
// accumulated so far. State lives in process memory, like the gateway-side
// FSM it replaces: the Telegram gateway serializes updates per chat, so a
// user's flow is only ever touched by one in-flight handler.
package fsm

import (
	"sync"
)

// Flow is the union of all multi-turn input flows
type Flow interface {
	flow()
}

// AddStep is the position inside the add-listing flow
type AddStep int

const (
	StepTitle AddStep = iota
	StepDescription
	StepPrice
	StepPhoto
)

// AddListing collects a new listing field by field
type AddListing struct {
	Step        AddStep
	Title       string
	Description string
	Price       int64 // in minor units
	PhotoFileID string
}

func (*AddListing) flow() {}

// EditStep is the position inside the edit-listing flow
type EditStep int

const (
	StepChooseField EditStep = iota
	StepNewValue
)

// EditField names the product field being edited
type EditField string

const (
	FieldTitle       EditField = "title"
	FieldDescription EditField = "description"
	FieldPrice       EditField = "price"
	FieldPhoto       EditField = "photo"
)

// EditListing edits a single field of an existing product (admin only)
type EditListing struct {
	Step      EditStep
	ProductID int64
	Field     EditField
}

func (*EditListing) flow() {}

// Withdraw waits for the user's payout details
type Withdraw struct{}

func (*Withdraw) flow() {}

// Manager owns the user id -> active flow map
type Manager struct {
	mu     sync.Mutex
	active map[int64]Flow
}

// NewManager creates an empty flow manager
func NewManager() *Manager {
	return &Manager{active: make(map[int64]Flow)}
}

// Get returns the user's active flow, or nil
func (m *Manager) Get(userID int64) Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[userID]
}

// Set makes f the user's active flow, replacing any previous one
func (m *Manager) Set(userID int64, f Flow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[userID] = f
}

// Clear ends the user's active flow
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, userID)
}
