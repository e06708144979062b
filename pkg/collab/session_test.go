package collab

import (
	"testing"

	"github.com/entidraw/entidraw/pkg/document"
)

func newTestSession(t *testing.T) (*Session, *document.Document) {
	t.Helper()
	room := NewRoom(nil)
	session := room.Join("u1", "Alice")
	n := 0
	doc := document.New(session, document.WithIDGenerator(func() string {
		n++
		return string(rune('a' + n - 1))
	}))
	return session, doc
}

func TestUndoRedo_InsertEntity(t *testing.T) {
	session, doc := newTestSession(t)
	id := doc.InsertEntity(10, 20)

	if session.UndoDepth() != 1 {
		t.Fatalf("undo depth = %d, want 1", session.UndoDepth())
	}
	if !session.Undo() {
		t.Fatal("Undo returned false")
	}
	if _, ok := doc.Entity(id); ok {
		t.Error("entity still present after undo")
	}
	if got := len(doc.LayerIDs()); got != 0 {
		t.Errorf("order length after undo = %d", got)
	}
	if !session.Redo() {
		t.Fatal("Redo returned false")
	}
	entity, ok := doc.Entity(id)
	if !ok {
		t.Fatal("entity missing after redo")
	}
	if entity.X != 10 || entity.Y != 20 {
		t.Errorf("redone entity = %+v", entity)
	}
	if got := doc.LayerIDs(); len(got) != 1 || got[0] != id {
		t.Errorf("order after redo = %v", got)
	}
}

func TestUndo_EmptyStack(t *testing.T) {
	session, _ := newTestSession(t)
	if session.Undo() {
		t.Error("Undo on empty stack returned true")
	}
	if session.Redo() {
		t.Error("Redo on empty stack returned true")
	}
}

func TestMutate_BatchesIntoOneEntry(t *testing.T) {
	session, doc := newTestSession(t)
	a := doc.InsertEntity(0, 0)
	b := doc.InsertEntity(300, 0)
	doc.InsertRelation(a, b, document.Association, document.One, document.Many, document.TargetSide)

	depthBefore := session.UndoDepth()
	// Cascade delete: removes the entity and the relation in one entry.
	doc.DeleteEntity(a)
	if session.UndoDepth() != depthBefore+1 {
		t.Fatalf("cascade delete produced %d entries, want 1", session.UndoDepth()-depthBefore)
	}

	session.Undo()
	if _, ok := doc.Entity(a); !ok {
		t.Error("entity not restored")
	}
	if got := len(doc.Relations()); got != 1 {
		t.Errorf("relation count after undo = %d, want 1", got)
	}
}

func TestPauseResume_CollapsesGesture(t *testing.T) {
	session, doc := newTestSession(t)
	id := doc.InsertEntity(0, 0)
	depthBefore := session.UndoDepth()

	// A drag gesture: many intermediate positions, one history entry.
	session.PauseHistory()
	for i := 1; i <= 25; i++ {
		x := float64(i * 4)
		doc.UpdateEntity(id, document.EntityPatch{X: &x})
	}
	session.ResumeHistory()

	if session.UndoDepth() != depthBefore+1 {
		t.Fatalf("gesture produced %d entries, want 1", session.UndoDepth()-depthBefore)
	}
	entity, _ := doc.Entity(id)
	if entity.X != 100 {
		t.Errorf("final X = %v, want 100", entity.X)
	}

	session.Undo()
	entity, _ = doc.Entity(id)
	if entity.X != 0 {
		t.Errorf("X after undo = %v, want 0", entity.X)
	}

	session.Redo()
	entity, _ = doc.Entity(id)
	if entity.X != 100 {
		t.Errorf("X after redo = %v, want 100", entity.X)
	}
}

func TestResume_WithoutChangesAddsNoEntry(t *testing.T) {
	session, doc := newTestSession(t)
	doc.InsertEntity(0, 0)
	depth := session.UndoDepth()

	session.PauseHistory()
	session.ResumeHistory()

	if session.UndoDepth() != depth {
		t.Errorf("empty gesture changed undo depth: %d -> %d", depth, session.UndoDepth())
	}
}

func TestNewMutation_ClearsRedoStack(t *testing.T) {
	session, doc := newTestSession(t)
	doc.InsertEntity(0, 0)
	session.Undo()
	if session.RedoDepth() != 1 {
		t.Fatalf("redo depth = %d, want 1", session.RedoDepth())
	}

	doc.InsertEntity(300, 0)
	if session.RedoDepth() != 0 {
		t.Errorf("redo depth after new mutation = %d, want 0", session.RedoDepth())
	}
}

func TestHistory_IsPerUser(t *testing.T) {
	room := NewRoom(nil)
	alice := room.Join("u1", "Alice")
	bob := room.Join("u2", "Bob")
	aliceDoc := document.New(alice)
	bobDoc := document.New(bob)

	aliceID := aliceDoc.InsertEntity(0, 0)
	bobID := bobDoc.InsertEntity(300, 0)

	// Both sessions see the shared tree.
	if _, ok := aliceDoc.Entity(bobID); !ok {
		t.Fatal("alice cannot see bob's entity")
	}

	// Bob's undo removes only bob's change.
	if !bob.Undo() {
		t.Fatal("bob Undo failed")
	}
	if _, ok := aliceDoc.Entity(bobID); ok {
		t.Error("bob's entity survived bob's undo")
	}
	if _, ok := aliceDoc.Entity(aliceID); !ok {
		t.Error("alice's entity removed by bob's undo")
	}
	if alice.UndoDepth() != 1 {
		t.Errorf("alice undo depth = %d, want 1", alice.UndoDepth())
	}
}

func TestUndo_LastWriterWins(t *testing.T) {
	room := NewRoom(nil)
	alice := room.Join("u1", "Alice")
	bob := room.Join("u2", "Bob")
	aliceDoc := document.New(alice)
	bobDoc := document.New(bob)

	id := aliceDoc.InsertEntity(0, 0)

	// Bob moves the entity after alice created it; alice's undo then
	// removes the layer entirely, bob's undo restores his before-image.
	x := 50.0
	bobDoc.UpdateEntity(id, document.EntityPatch{X: &x})

	alice.Undo()
	if _, ok := bobDoc.Entity(id); ok {
		t.Fatal("layer should be gone after creator's undo")
	}

	bob.Undo()
	entity, ok := bobDoc.Entity(id)
	if !ok {
		t.Fatal("bob's undo should restore his before-image")
	}
	if entity.X != 0 {
		t.Errorf("X = %v, want 0", entity.X)
	}
}

type countingObserver struct {
	calls int
}

func (o *countingObserver) DocumentChanged() { o.calls++ }

func TestSubscribe_NotifiesOnCommitUndoRedo(t *testing.T) {
	room := NewRoom(nil)
	session := room.Join("u1", "Alice")
	doc := document.New(session)

	obs := &countingObserver{}
	room.Subscribe(obs)

	doc.InsertEntity(0, 0)
	if obs.calls != 1 {
		t.Fatalf("calls after insert = %d, want 1", obs.calls)
	}
	session.Undo()
	if obs.calls != 2 {
		t.Errorf("calls after undo = %d, want 2", obs.calls)
	}
	session.Redo()
	if obs.calls != 3 {
		t.Errorf("calls after redo = %d, want 3", obs.calls)
	}
}
