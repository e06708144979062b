package collab

import (
	"github.com/entidraw/entidraw/pkg/document"
)

// Cursor is a pointer position in canvas coordinates.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Presence is one user's ephemeral editing state: their current selection,
// their cursor when it is over the canvas, and the accent color other
// clients render them with. None of it is part of the persisted document.
type Presence struct {
	UserID    string         `json:"userId"`
	Name      string         `json:"name"`
	Color     document.Color `json:"color"`
	Selection []string       `json:"selection"`
	Cursor    *Cursor        `json:"cursor,omitempty"`
}

func (p Presence) clone() Presence {
	out := p
	out.Selection = append([]string{}, p.Selection...)
	if p.Cursor != nil {
		c := *p.Cursor
		out.Cursor = &c
	}
	return out
}

// SetSelection replaces the user's selection set.
func (s *Session) SetSelection(ids []string) {
	s.room.mu.Lock()
	s.presence.Selection = append([]string{}, ids...)
	s.room.mu.Unlock()
	s.room.notify()
}

// Selection returns the user's current selection.
func (s *Session) Selection() []string {
	s.room.mu.RLock()
	defer s.room.mu.RUnlock()
	return append([]string{}, s.presence.Selection...)
}

// SetCursor publishes the user's cursor position.
func (s *Session) SetCursor(x, y float64) {
	s.room.mu.Lock()
	s.presence.Cursor = &Cursor{X: x, Y: y}
	s.room.mu.Unlock()
	s.room.notify()
}

// ClearCursor removes the user's cursor (pointer left the canvas).
func (s *Session) ClearCursor() {
	s.room.mu.Lock()
	s.presence.Cursor = nil
	s.room.mu.Unlock()
	s.room.notify()
}

// Presence returns a copy of the user's own presence.
func (s *Session) Presence() Presence {
	s.room.mu.RLock()
	defer s.room.mu.RUnlock()
	return s.presence.clone()
}

// Others returns presences of every other user in the room.
func (s *Session) Others() []Presence {
	s.room.mu.RLock()
	defer s.room.mu.RUnlock()
	out := make([]Presence, 0, len(s.room.sessions))
	for id, other := range s.room.sessions {
		if id == s.userID {
			continue
		}
		out = append(out, other.presence.clone())
	}
	return out
}
