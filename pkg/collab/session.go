package collab

import (
	"github.com/entidraw/entidraw/pkg/document"
)

type opKind int

const (
	opSet opKind = iota
	opDelete
	opPush
	opRemove
)

// op is one independently-applicable store operation with enough context
// to run in both directions. A history entry is a batch of ops; undo
// applies the batch backward, redo forward. Concurrent edits between
// recording and replay resolve last-writer-wins.
type op struct {
	kind      opKind
	id        string
	index     int
	before    document.Layer
	hadBefore bool
	after     document.Layer
}

// Session is one user's handle on a room. It satisfies document.Store:
// reads and writes hit the shared tree, while the history stack and the
// presence fields belong to this user alone.
type Session struct {
	room     *Room
	userID   string
	presence Presence

	undoStack [][]op
	redoStack [][]op
	pending   []op
	depth     int
	paused    bool
	dirty     bool
}

// UserID returns the joining user's ID.
func (s *Session) UserID() string { return s.userID }

// Layer implements document.Store.
func (s *Session) Layer(id string) (document.Layer, bool) {
	s.room.mu.RLock()
	defer s.room.mu.RUnlock()
	l, ok := s.room.layers[id]
	return l, ok
}

// LayerIDs implements document.Store.
func (s *Session) LayerIDs() []string {
	s.room.mu.RLock()
	defer s.room.mu.RUnlock()
	return append([]string{}, s.room.order...)
}

// SetLayer implements document.Store.
func (s *Session) SetLayer(id string, l document.Layer) {
	s.room.mu.Lock()
	before, hadBefore := s.room.layers[id]
	s.room.layers[id] = l
	s.room.mu.Unlock()
	s.record(op{kind: opSet, id: id, before: before, hadBefore: hadBefore, after: l})
}

// DeleteLayer implements document.Store.
func (s *Session) DeleteLayer(id string) {
	s.room.mu.Lock()
	before, hadBefore := s.room.layers[id]
	delete(s.room.layers, id)
	s.room.mu.Unlock()
	if !hadBefore {
		return
	}
	s.record(op{kind: opDelete, id: id, before: before, hadBefore: true})
}

// PushLayerID implements document.Store.
func (s *Session) PushLayerID(id string) {
	s.room.mu.Lock()
	s.room.order = append(s.room.order, id)
	s.room.mu.Unlock()
	s.record(op{kind: opPush, id: id})
}

// RemoveLayerID implements document.Store.
func (s *Session) RemoveLayerID(id string) {
	s.room.mu.Lock()
	index := -1
	for i, v := range s.room.order {
		if v == id {
			index = i
			break
		}
	}
	if index >= 0 {
		s.room.order = append(s.room.order[:index], s.room.order[index+1:]...)
	}
	s.room.mu.Unlock()
	if index < 0 {
		return
	}
	s.record(op{kind: opRemove, id: id, index: index})
}

// Mutate implements document.Store: every store operation performed inside
// fn collapses into a single history entry. Nested calls join the
// outermost batch.
func (s *Session) Mutate(fn func()) {
	s.depth++
	fn()
	s.depth--
	if s.depth == 0 {
		s.commit()
	}
}

// PauseHistory implements document.Store. While paused, committed batches
// keep accumulating into one pending entry; ResumeHistory seals it. Drag
// and resize gestures rely on this so that a burst of intermediate moves
// is one undo step.
func (s *Session) PauseHistory() { s.paused = true }

// ResumeHistory implements document.Store.
func (s *Session) ResumeHistory() {
	s.paused = false
	s.commit()
}

// Undo implements document.Store.
func (s *Session) Undo() bool {
	if len(s.undoStack) == 0 {
		return false
	}
	entry := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.room.mu.Lock()
	for i := len(entry) - 1; i >= 0; i-- {
		s.applyBackward(entry[i])
	}
	s.room.mu.Unlock()
	s.redoStack = append(s.redoStack, entry)
	s.room.notify()
	return true
}

// Redo implements document.Store.
func (s *Session) Redo() bool {
	if len(s.redoStack) == 0 {
		return false
	}
	entry := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.room.mu.Lock()
	for _, o := range entry {
		s.applyForward(o)
	}
	s.room.mu.Unlock()
	s.undoStack = append(s.undoStack, entry)
	s.room.notify()
	return true
}

// UndoDepth returns the number of undoable entries. Used by tests and the
// toolbar's enabled/disabled state.
func (s *Session) UndoDepth() int { return len(s.undoStack) }

// RedoDepth returns the number of redoable entries.
func (s *Session) RedoDepth() int { return len(s.redoStack) }

func (s *Session) record(o op) {
	s.pending = append(s.pending, o)
	s.dirty = true
	if s.depth == 0 {
		s.commit()
	}
}

func (s *Session) commit() {
	if s.paused || !s.dirty {
		return
	}
	if len(s.pending) > 0 {
		s.undoStack = append(s.undoStack, s.pending)
		s.redoStack = nil
		s.pending = nil
	}
	s.dirty = false
	s.room.notify()
}

func (s *Session) applyForward(o op) {
	switch o.kind {
	case opSet:
		s.room.layers[o.id] = o.after
	case opDelete:
		delete(s.room.layers, o.id)
	case opPush:
		s.room.order = append(s.room.order, o.id)
	case opRemove:
		for i, v := range s.room.order {
			if v == o.id {
				s.room.order = append(s.room.order[:i], s.room.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Session) applyBackward(o op) {
	switch o.kind {
	case opSet:
		if o.hadBefore {
			s.room.layers[o.id] = o.before
		} else {
			delete(s.room.layers, o.id)
		}
	case opDelete:
		s.room.layers[o.id] = o.before
	case opPush:
		for i := len(s.room.order) - 1; i >= 0; i-- {
			if s.room.order[i] == o.id {
				s.room.order = append(s.room.order[:i], s.room.order[i+1:]...)
				break
			}
		}
	case opRemove:
		if o.index >= len(s.room.order) {
			s.room.order = append(s.room.order, o.id)
		} else {
			s.room.order = append(s.room.order[:o.index], append([]string{o.id}, s.room.order[o.index:]...)...)
		}
	}
}
