package generator

import (
	"sync/atomic"

	"backgen/pkg/models"
)

// State is the single-writer cell holding the current backend model.
// Readers always see either the prior or the new model, never a partially
// constructed one, because replacement is a single reference swap.
type State struct {
	current atomic.Pointer[models.BackendModel]
}

// NewState creates an empty State.
func NewState() *State {
	return &State{}
}

// Current returns a snapshot of the current model, or nil when no
// generation has succeeded yet.
func (s *State) Current() *models.BackendModel {
	return s.current.Load()
}

// Install replaces the current model wholesale. Last writer wins; there is
// no compare-and-swap and no merge.
func (s *State) Install(m *models.BackendModel) {
	s.current.Store(m)
}
