// Package collab provides the in-memory shared-storage substrate: a Room
// holds the layer tree every collaborating session mutates, and each
// Session carries its own local history stack and presence fields. Any
// convergent shared-state backend can replace it; the rest of the module
// only depends on the document.Store contract.
package collab

import (
	"sync"

	"go.uber.org/zap"

	"github.com/entidraw/entidraw/pkg/document"
)

// presencePalette is the cursor/selection accent colors handed to users in
// connection order.
var presencePalette = []document.Color{
	{R: 124, G: 58, B: 237},
	{R: 236, G: 72, B: 153},
	{R: 16, G: 185, B: 129},
	{R: 245, G: 158, B: 11},
	{R: 59, G: 130, B: 246},
	{R: 239, G: 68, B: 68},
}

// Room is the shared mutable tree: a map from layer ID to layer plus the
// ordered ID list. All sessions of a room see the same tree; history is
// per session.
type Room struct {
	mu        sync.RWMutex
	layers    map[string]document.Layer
	order     []string
	sessions  map[string]*Session
	observers []document.Observer
	joined    int
	logger    *zap.SugaredLogger
}

// NewRoom creates an empty room. A nil logger is replaced with a no-op.
func NewRoom(logger *zap.SugaredLogger) *Room {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Room{
		layers:   make(map[string]document.Layer),
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Join registers a user and returns their session. The session implements
// document.Store; its history and presence are local to the user.
func (r *Room) Join(userID, name string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := &Session{
		room:   r,
		userID: userID,
		presence: Presence{
			UserID: userID,
			Name:   name,
			Color:  presencePalette[r.joined%len(presencePalette)],
		},
	}
	r.joined++
	r.sessions[userID] = s
	r.logger.Infow("user joined room", "user", userID)
	return s
}

// Leave drops a session and its presence.
func (r *Room) Leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	r.logger.Infow("user left room", "user", userID)
}

// Subscribe registers an observer notified after every committed mutation,
// undo and redo. Render layers use this to re-render.
func (r *Room) Subscribe(obs document.Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs)
}

// Presences returns a snapshot of every joined user's presence.
func (r *Room) Presences() []Presence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Presence, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.presence.clone())
	}
	return out
}

func (r *Room) notify() {
	r.mu.RLock()
	observers := append([]document.Observer{}, r.observers...)
	r.mu.RUnlock()
	for _, obs := range observers {
		obs.DocumentChanged()
	}
}
