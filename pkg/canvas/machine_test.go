package canvas

import (
	"testing"

	"github.com/entidraw/entidraw/pkg/collab"
	"github.com/entidraw/entidraw/pkg/document"
)

func newTestMachine(t *testing.T) (*Machine, *document.Document, *collab.Session) {
	t.Helper()
	room := collab.NewRoom(nil)
	session := room.Join("u1", "Alice")
	doc := document.New(session)
	return NewMachine(doc, session), doc, session
}

func press(m *Machine, x, y float64) {
	m.PointerDown(PointerEvent{Point: Point{X: x, Y: y}, Button: ButtonLeft})
}

func release(m *Machine, x, y float64) {
	m.PointerUp(Point{X: x, Y: y})
}

func TestInsertGesture(t *testing.T) {
	m, doc, session := newTestMachine(t)

	m.StartInserting()
	if m.Mode() != ModeInserting {
		t.Fatalf("mode = %s", m.Mode())
	}
	press(m, 50, 60)
	release(m, 50, 60)

	entities := doc.Entities()
	if len(entities) != 1 {
		t.Fatalf("entity count = %d, want 1", len(entities))
	}
	if entities[0].X != 50 || entities[0].Y != 60 {
		t.Errorf("entity position = (%v, %v)", entities[0].X, entities[0].Y)
	}
	sel := session.Selection()
	if len(sel) != 1 || sel[0] != entities[0].ID {
		t.Errorf("selection = %v, want the new entity", sel)
	}
	if m.Mode() != ModeNone {
		t.Errorf("mode after insert = %s", m.Mode())
	}
}

func TestInsertGesture_IgnoredOverEntity(t *testing.T) {
	m, doc, _ := newTestMachine(t)
	doc.InsertEntity(0, 0)

	m.StartInserting()
	// Press and release over the existing entity: the whole click is
	// swallowed, the tool stays armed.
	press(m, 10, 10)
	release(m, 10, 10)

	if got := len(doc.Entities()); got != 1 {
		t.Fatalf("entity count = %d, want 1", got)
	}
	if m.Mode() != ModeInserting {
		t.Fatalf("tool should stay armed, mode = %s", m.Mode())
	}

	// The next background click still inserts.
	press(m, 500, 500)
	release(m, 500, 500)
	if got := len(doc.Entities()); got != 2 {
		t.Errorf("entity count after background click = %d, want 2", got)
	}
}

func TestBackgroundClick_ClearsSelection(t *testing.T) {
	m, doc, session := newTestMachine(t)
	id := doc.InsertEntity(0, 0)
	session.SetSelection([]string{id})

	press(m, 1000, 1000)
	if m.Mode() != ModePressing {
		t.Fatalf("mode = %s, want pressing", m.Mode())
	}
	release(m, 1000, 1000)

	if got := session.Selection(); len(got) != 0 {
		t.Errorf("selection = %v, want empty", got)
	}
	if m.Mode() != ModeNone {
		t.Errorf("mode = %s", m.Mode())
	}
}

func TestSelectionNet(t *testing.T) {
	m, doc, session := newTestMachine(t)
	a := doc.InsertEntity(100, 100)
	b := doc.InsertEntity(600, 100)
	far := doc.InsertEntity(5000, 5000)
	doc.InsertRelation(a, b, document.Association, document.One, document.One, document.TargetSide)
	session.SetSelection([]string{far})

	press(m, 0, 0)

	// Below the displacement threshold the press stays a click.
	m.PointerMove(Point{X: 2, Y: 2})
	if m.Mode() != ModePressing {
		t.Fatalf("mode after small move = %s", m.Mode())
	}

	m.PointerMove(Point{X: 400, Y: 300})
	if m.Mode() != ModeSelectionNet {
		t.Fatalf("mode after large move = %s", m.Mode())
	}
	sel := session.Selection()
	if len(sel) != 1 || sel[0] != a {
		t.Errorf("selection = %v, want [%s]", sel, a)
	}

	// Growing the net takes in the second entity; the relation never joins.
	m.PointerMove(Point{X: 900, Y: 300})
	sel = session.Selection()
	if len(sel) != 2 {
		t.Fatalf("selection = %v, want two entities", sel)
	}
	for _, id := range sel {
		if id != a && id != b {
			t.Errorf("unexpected selection member %s", id)
		}
	}

	release(m, 900, 300)
	if m.Mode() != ModeNone {
		t.Errorf("mode after release = %s", m.Mode())
	}
	if got := len(session.Selection()); got != 2 {
		t.Errorf("selection lost on release: %v", session.Selection())
	}
}

func TestTranslate_MovesSelectionAsOneUndoStep(t *testing.T) {
	m, doc, session := newTestMachine(t)
	a := doc.InsertEntity(100, 100)
	b := doc.InsertEntity(600, 100)
	session.SetSelection([]string{a, b})
	depth := session.UndoDepth()

	press(m, 150, 150) // inside entity a
	if m.Mode() != ModeTranslating {
		t.Fatalf("mode = %s", m.Mode())
	}
	m.PointerMove(Point{X: 160, Y: 170})
	m.PointerMove(Point{X: 180, Y: 200})
	release(m, 180, 200)

	ea, _ := doc.Entity(a)
	eb, _ := doc.Entity(b)
	if ea.X != 130 || ea.Y != 150 {
		t.Errorf("entity a at (%v, %v), want (130, 150)", ea.X, ea.Y)
	}
	if eb.X != 630 || eb.Y != 150 {
		t.Errorf("entity b at (%v, %v), want (630, 150)", eb.X, eb.Y)
	}
	if session.UndoDepth() != depth+1 {
		t.Errorf("drag produced %d history entries, want 1", session.UndoDepth()-depth)
	}

	session.Undo()
	ea, _ = doc.Entity(a)
	if ea.X != 100 || ea.Y != 100 {
		t.Errorf("entity a after undo at (%v, %v), want (100, 100)", ea.X, ea.Y)
	}
}

func TestClickUnselectedEntity_ReplacesSelection(t *testing.T) {
	m, doc, session := newTestMachine(t)
	a := doc.InsertEntity(100, 100)
	b := doc.InsertEntity(600, 100)
	session.SetSelection([]string{a})

	press(m, 650, 150) // inside entity b
	sel := session.Selection()
	if len(sel) != 1 || sel[0] != b {
		t.Errorf("selection = %v, want [%s]", sel, b)
	}
	release(m, 650, 150)
}

func TestResize_AnchorsOppositeCorner(t *testing.T) {
	m, doc, session := newTestMachine(t)
	id := doc.InsertEntity(100, 100) // bounds (100,100) 230x140
	session.SetSelection([]string{id})
	depth := session.UndoDepth()

	press(m, 330, 240) // bottom-right corner handle
	if m.Mode() != ModeResizing {
		t.Fatalf("mode = %s", m.Mode())
	}
	m.PointerMove(Point{X: 400, Y: 300})
	release(m, 400, 300)

	entity, _ := doc.Entity(id)
	if entity.X != 100 || entity.Y != 100 {
		t.Errorf("anchored corner moved: (%v, %v)", entity.X, entity.Y)
	}
	if entity.Width != 300 || entity.Height != 200 {
		t.Errorf("size = (%v, %v), want (300, 200)", entity.Width, entity.Height)
	}
	if session.UndoDepth() != depth+1 {
		t.Errorf("resize produced %d history entries, want 1", session.UndoDepth()-depth)
	}
}

func TestResize_PastAnchorClampsToZero(t *testing.T) {
	m, doc, session := newTestMachine(t)
	id := doc.InsertEntity(100, 100)
	session.SetSelection([]string{id})

	press(m, 330, 240) // bottom-right handle, anchor at (100,100)
	m.PointerMove(Point{X: 40, Y: 60})
	release(m, 40, 60)

	entity, _ := doc.Entity(id)
	if entity.Width < 0 || entity.Height < 0 {
		t.Fatalf("negative dimensions: (%v, %v)", entity.Width, entity.Height)
	}
	if entity.X != 40 || entity.Y != 60 {
		t.Errorf("bounds origin = (%v, %v), want (40, 60)", entity.X, entity.Y)
	}
	if entity.Width != 60 || entity.Height != 40 {
		t.Errorf("size = (%v, %v), want (60, 40)", entity.Width, entity.Height)
	}
}

func TestLinking(t *testing.T) {
	m, doc, _ := newTestMachine(t)
	a := doc.InsertEntity(100, 100)
	b := doc.InsertEntity(600, 100)
	m.SetRelationTool(document.Composition)

	press(m, 215, 100) // top anchor of entity a
	if m.Mode() != ModeLinking {
		t.Fatalf("mode = %s, want linking", m.Mode())
	}
	if m.State().LinkSourceID != a {
		t.Errorf("link source = %s, want %s", m.State().LinkSourceID, a)
	}

	// Release does not end linking.
	release(m, 215, 80)
	if m.Mode() != ModeLinking {
		t.Fatalf("mode after release = %s", m.Mode())
	}

	// A click on empty canvas does not cancel it either.
	press(m, 2000, 2000)
	release(m, 2000, 2000)
	if m.Mode() != ModeLinking {
		t.Fatalf("mode after empty click = %s", m.Mode())
	}

	// Clicking the source entity itself is ignored.
	press(m, 150, 150)
	if m.Mode() != ModeLinking {
		t.Fatalf("mode after source click = %s", m.Mode())
	}

	// The second entity completes the relation.
	press(m, 650, 150)
	if m.Mode() != ModeNone {
		t.Fatalf("mode after completing = %s", m.Mode())
	}
	rels := doc.LiveRelations()
	if len(rels) != 1 {
		t.Fatalf("relation count = %d, want 1", len(rels))
	}
	rel := rels[0]
	if rel.SourceID != a || rel.TargetID != b {
		t.Errorf("relation endpoints = %s -> %s", rel.SourceID, rel.TargetID)
	}
	if rel.Type != document.Composition {
		t.Errorf("relation type = %s, want composition", rel.Type)
	}
	if rel.SourceCard != document.One || rel.TargetCard != document.One {
		t.Errorf("default cardinalities = %s/%s, want ONE/ONE", rel.SourceCard, rel.TargetCard)
	}
	if rel.OwningSide != document.TargetSide {
		t.Errorf("default owning side = %s, want target", rel.OwningSide)
	}
}

func TestLinking_EscapeCancels(t *testing.T) {
	m, doc, _ := newTestMachine(t)
	doc.InsertEntity(100, 100)

	press(m, 215, 100)
	if m.Mode() != ModeLinking {
		t.Fatalf("mode = %s", m.Mode())
	}
	m.KeyDown(KeyEvent{Key: KeyEscape})
	if m.Mode() != ModeNone {
		t.Errorf("mode after escape = %s", m.Mode())
	}
	if got := len(doc.Relations()); got != 0 {
		t.Errorf("cancelled link created %d relations", got)
	}
}

func TestRightClick_SetsContextTarget(t *testing.T) {
	m, doc, _ := newTestMachine(t)
	id := doc.InsertEntity(100, 100)

	m.PointerDown(PointerEvent{Point: Point{X: 150, Y: 150}, Button: ButtonRight})
	if m.Mode() != ModeRightClick {
		t.Fatalf("mode = %s", m.Mode())
	}
	if m.State().ContextLayerID != id {
		t.Errorf("context layer = %q, want %s", m.State().ContextLayerID, id)
	}

	m.PointerDown(PointerEvent{Point: Point{X: 2000, Y: 2000}, Button: ButtonRight})
	if m.State().ContextLayerID != "" {
		t.Errorf("background context layer = %q, want empty", m.State().ContextLayerID)
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	m, doc, session := newTestMachine(t)
	a := doc.InsertEntity(100, 100)
	b := doc.InsertEntity(600, 100)
	relID, _ := doc.InsertRelation(a, b, document.Association, document.One, document.One, document.TargetSide)

	// Select all includes relations.
	m.KeyDown(KeyEvent{Key: KeyA, Ctrl: true})
	if got := len(session.Selection()); got != 3 {
		t.Fatalf("select-all selection = %d layers, want 3", got)
	}

	// Without the modifier nothing happens.
	session.SetSelection(nil)
	m.KeyDown(KeyEvent{Key: KeyA})
	if got := len(session.Selection()); got != 0 {
		t.Errorf("bare 'a' changed the selection: %d", got)
	}

	// Backspace deletes the selection, but not while editing text.
	session.SetSelection([]string{relID})
	m.KeyDown(KeyEvent{Key: KeyBackspace, EditingText: true})
	if _, ok := doc.Relation(relID); !ok {
		t.Fatal("backspace in a text field deleted layers")
	}
	m.KeyDown(KeyEvent{Key: KeyBackspace})
	if _, ok := doc.Relation(relID); ok {
		t.Fatal("relation survived backspace")
	}

	// Undo/redo chords round-trip the delete.
	m.KeyDown(KeyEvent{Key: KeyZ, Meta: true})
	if _, ok := doc.Relation(relID); !ok {
		t.Error("undo chord did not restore the relation")
	}
	m.KeyDown(KeyEvent{Key: KeyZ, Ctrl: true, Shift: true})
	if _, ok := doc.Relation(relID); ok {
		t.Error("redo chord did not re-delete the relation")
	}
}

func TestWheelAndZoom(t *testing.T) {
	m, _, _ := newTestMachine(t)

	m.Wheel(30, 40)
	cam := m.Camera()
	if cam.X != -30 || cam.Y != -40 {
		t.Errorf("camera offset = (%v, %v)", cam.X, cam.Y)
	}
	if cam.Zoom != 1 {
		t.Errorf("wheel changed zoom: %v", cam.Zoom)
	}

	for i := 0; i < 10; i++ {
		m.ZoomIn()
	}
	if got := m.Camera().Zoom; got != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", got, MaxZoom)
	}
	for i := 0; i < 10; i++ {
		m.ZoomOut()
	}
	if got := m.Camera().Zoom; got != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", got, MinZoom)
	}
}

func TestPanTool(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.StartPanning()

	press(m, 100, 100)
	m.PointerMove(Point{X: 130, Y: 90})
	release(m, 130, 90)

	cam := m.Camera()
	if cam.X != 30 || cam.Y != -10 {
		t.Errorf("camera offset = (%v, %v), want (30, -10)", cam.X, cam.Y)
	}
	// The tool stays armed for the next drag.
	if m.Mode() != ModeDragging {
		t.Errorf("mode after pan = %s", m.Mode())
	}
}
