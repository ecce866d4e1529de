// Package frame holds the bookkeeping that only lives for one frame.
//
// Everything in State is wiped by Begin. Nothing in it is persisted.
package frame

import (
	"fmt"

	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/typemap"
	"github.com/krisalay/ui-memory/types"
)

// clashTolerance is how far one rect may stick out of the other before a reused id counts as a clash.
const clashTolerance = 0.1

// Clash describes two widgets that claimed the same id in one frame.
type Clash struct {
	ID       id.ID
	What     string
	Previous types.Rect
	Current  types.Rect
}

func (c *Clash) Error() string {
	msg := fmt.Sprintf("%s uses id %s which was already used this frame at %s (now at %s)",
		c.What, c.ID.Short(), c.Previous, c.Current)
	if p := c.ID.Provenance(); p != "" {
		msg += ", id derived from " + p
	}
	return msg
}

// State is the per-frame scratch space of a memory.
type State struct {
	used    id.Map[types.Rect]
	clashes []*Clash
	scratch *typemap.TypeMap

	// Screen is the area given to Begin.
	Screen types.Rect

	// AvailableRect is what is left for the central area once panels are placed.
	AvailableRect types.Rect

	// UnusedRect is the part of the screen no panel has taken yet. The host shrinks it.
	UnusedRect types.Rect

	// UsedByPanels is the union of everything panels covered.
	UsedByPanels types.Rect
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		used:    make(id.Map[types.Rect]),
		scratch: typemap.New(),
	}
}

// Begin starts a new frame on screen, discarding everything from the previous one.
func (s *State) Begin(screen types.Rect) {
	clear(s.used)
	s.clashes = nil
	s.scratch.ResetAll()

	s.Screen = screen
	s.AvailableRect = screen
	s.UnusedRect = screen
	s.UsedByPanels = types.Rect{}
}

/*
Claim records that a widget described by what uses i at r this frame.

BEHAVIOR:
---------
  - first claim of i this frame          -> recorded, returns nil
  - same id again, one rect inside the
    other (within 0.1)                   -> allowed, returns nil
    (a frame drawn around its own widget, or a widget checked twice)
  - same id again anywhere else          -> returns a Clash, which is also kept for Clashes

The latest rect always replaces the previous one.
*/
func (s *State) Claim(i id.ID, r types.Rect, what string) *Clash {
	prev, seen := s.used[i]
	s.used[i] = r
	if !seen {
		return nil
	}
	if prev.Expand(clashTolerance).ContainsRect(r) || r.Expand(clashTolerance).ContainsRect(prev) {
		return nil
	}
	c := &Clash{ID: i, What: what, Previous: prev, Current: r}
	s.clashes = append(s.clashes, c)
	return c
}

// Used returns the rect i was last claimed at this frame.
func (s *State) Used(i id.ID) (types.Rect, bool) {
	r, ok := s.used[i]
	return r, ok
}

// UsedCount returns the number of distinct ids claimed this frame.
func (s *State) UsedCount() int {
	return len(s.used)
}

// Clashes returns the clashes found this frame, oldest first.
func (s *State) Clashes() []*Clash {
	return s.clashes
}

// Scratch returns a type map that is emptied at the start of every frame.
func (s *State) Scratch() *typemap.TypeMap {
	return s.scratch
}

// AllocatePanel marks r as covered by a panel.
func (s *State) AllocatePanel(r types.Rect) {
	if s.UsedByPanels == (types.Rect{}) {
		s.UsedByPanels = r
	} else {
		s.UsedByPanels = s.UsedByPanels.Union(r)
	}
}
