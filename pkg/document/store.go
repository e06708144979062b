package document

// Store is the shared storage substrate the document mutates through. The
// in-memory implementation lives in pkg/collab; a networked CRDT/OT room
// satisfies the same contract. The document never assumes exclusive access
// to the whole tree — every mutation is a small, independently-applicable
// operation so concurrent edits from different users converge.
type Store interface {
	// Layer returns the layer stored under id.
	Layer(id string) (Layer, bool)
	// SetLayer stores l under id, overwriting any previous value.
	SetLayer(id string, l Layer)
	// DeleteLayer removes the layer stored under id. Unknown IDs are a no-op.
	DeleteLayer(id string)

	// LayerIDs returns the ordered ID list (render stacking order).
	LayerIDs() []string
	// PushLayerID appends id to the ordered list.
	PushLayerID(id string)
	// RemoveLayerID removes id from the ordered list. Unknown IDs are a no-op.
	RemoveLayerID(id string)

	// Mutate runs fn as one transactional batch: all store operations
	// performed inside fn collapse into a single history entry.
	Mutate(fn func())

	// PauseHistory suspends history recording boundaries so that a gesture
	// spanning many mutations coalesces into one undo step on ResumeHistory.
	PauseHistory()
	ResumeHistory()

	// Undo and Redo move along the local user's history stack. They report
	// whether an entry was applied.
	Undo() bool
	Redo() bool
}

// Observer receives change notifications from a Store implementation that
// supports subscriptions. Render layers use it; the core never requires it.
type Observer interface {
	DocumentChanged()
}
