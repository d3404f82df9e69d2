// Package guard holds the terminal's operator identity. The profile is an
// explicit value initialized once from configuration and updated through a
// setter; workflow calls receive it as an argument rather than reading
// process-wide state.
package guard

import (
	"sync"

	"github.com/oakline/gatehouse/internal/domain/signin"
)

// Profile is the operator identity and preferences for one terminal.
type Profile struct {
	Name        string `json:"name"`
	AutoApprove bool   `json:"auto_approve"`
}

// Holder is a concurrency-safe container for the current profile.
type Holder struct {
	mu      sync.RWMutex
	profile Profile
}

// NewHolder seeds the holder with the persisted configuration's profile.
func NewHolder(initial Profile) *Holder {
	return &Holder{profile: initial}
}

// Current returns the active profile.
func (h *Holder) Current() Profile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.profile
}

// Set replaces the active profile.
func (h *Holder) Set(p Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.profile = p
}

// Actor converts the active profile into the identity value threaded into
// workflow calls.
func (h *Holder) Actor() signin.Actor {
	p := h.Current()
	return signin.Actor{Name: p.Name, AutoApprove: p.AutoApprove}
}
