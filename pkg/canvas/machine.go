package canvas

import (
	"github.com/entidraw/entidraw/pkg/document"
)

// Mode is the mutually exclusive interaction state of the canvas.
type Mode int

const (
	ModeNone Mode = iota
	ModePressing
	ModeTranslating
	ModeResizing
	ModeDragging
	ModeSelectionNet
	ModeInserting
	ModeRightClick
	ModeLinking
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModePressing:
		return "pressing"
	case ModeTranslating:
		return "translating"
	case ModeResizing:
		return "resizing"
	case ModeDragging:
		return "dragging"
	case ModeSelectionNet:
		return "selection-net"
	case ModeInserting:
		return "inserting"
	case ModeRightClick:
		return "right-click"
	case ModeLinking:
		return "linking"
	}
	return "unknown"
}

// Displacement in canvas units a pressed pointer must travel before a
// selection net forms.
const netThreshold = 5

// Pixel tolerance around resize and anchor handles.
const handleTolerance = 8

// State carries the mode tag and the per-mode payload fields. Only the
// fields belonging to the current mode are meaningful.
type State struct {
	Mode Mode

	// Origin is the press point (Pressing, SelectionNet) or the pan grip
	// point (Dragging; nil while the pan tool is idle).
	Origin *Point
	// Current is the latest pointer position (Translating, SelectionNet,
	// Linking preview).
	Current *Point

	// Resizing payload.
	InitialBounds  Rect
	Corner         Corner
	ResizeEntityID string

	// Linking payload.
	LinkSourceID string
	LinkAnchor   Anchor
	LinkType     document.RelationType

	// RightClick payload: the layer under the context click, if any.
	ContextLayerID string
}

// SelectionStore is the per-user selection the machine reads and writes.
// collab.Session satisfies it.
type SelectionStore interface {
	Selection() []string
	SetSelection(ids []string)
}

// Machine is the canvas interaction state machine. All methods are meant
// to be called from a single UI event loop; the machine itself holds no
// locks and no shared state beyond the document and selection handles it
// was given.
type Machine struct {
	doc     *document.Document
	sel     SelectionStore
	camera  Camera
	state   State
	relTool document.RelationType

	// suppressInsert swallows the release that pairs with a press on an
	// entity while the insertion tool is armed.
	suppressInsert bool
}

// NewMachine creates a machine over a document and a selection store.
func NewMachine(doc *document.Document, sel SelectionStore) *Machine {
	return &Machine{
		doc:     doc,
		sel:     sel,
		camera:  NewCamera(),
		relTool: document.Association,
	}
}

// State returns a copy of the current interaction state.
func (m *Machine) State() State { return m.state }

// Mode returns the current mode tag.
func (m *Machine) Mode() Mode { return m.state.Mode }

// Camera returns the current viewport.
func (m *Machine) Camera() Camera { return m.camera }

// ZoomIn steps the camera zoom up (toolbar button).
func (m *Machine) ZoomIn() { m.camera.ZoomIn() }

// ZoomOut steps the camera zoom down (toolbar button).
func (m *Machine) ZoomOut() { m.camera.ZoomOut() }

// SetRelationTool selects the relation type a new link gesture creates.
func (m *Machine) SetRelationTool(t document.RelationType) { m.relTool = t }

// StartInserting arms the entity-insertion tool: the next background
// release commits a new entity.
func (m *Machine) StartInserting() {
	m.state = State{Mode: ModeInserting}
}

// StartPanning arms the pan tool.
func (m *Machine) StartPanning() {
	m.state = State{Mode: ModeDragging}
}

// Reset returns the machine to the idle mode without touching the
// document. Imports and other externally applied patches may land at any
// time relative to local edits; they never reach into this state.
func (m *Machine) Reset() {
	m.resumeIfPaused()
	m.state = State{Mode: ModeNone}
}

// PointerDown feeds a pointer-press event through the transition table.
func (m *Machine) PointerDown(e PointerEvent) {
	p := e.Point

	if e.Button == ButtonRight {
		// Context click: surface a context action without starting the
		// translate a plain press would.
		var contextID string
		if entity, ok := m.hitEntity(p); ok {
			contextID = entity.ID
		}
		m.state = State{Mode: ModeRightClick, ContextLayerID: contextID}
		return
	}

	switch m.state.Mode {
	case ModeLinking:
		entity, ok := m.hitEntity(p)
		if !ok {
			// Empty canvas does not cancel linking; only a valid second
			// entity or an explicit cancel input ends it.
			return
		}
		if entity.ID == m.state.LinkSourceID {
			return
		}
		if _, created := m.doc.InsertRelation(
			m.state.LinkSourceID, entity.ID, m.state.LinkType,
			document.One, document.One, document.TargetSide,
		); created {
			m.state = State{Mode: ModeNone}
		}
		return

	case ModeInserting:
		// Insertion is bound to a background click, not an entity click.
		_, overEntity := m.hitEntity(p)
		m.suppressInsert = overEntity
		return

	case ModeDragging:
		origin := p
		m.state = State{Mode: ModeDragging, Origin: &origin}
		return
	}

	if id, corner, ok := m.hitResizeHandle(p); ok {
		entity, found := m.doc.Entity(id)
		if found {
			m.doc.Store().PauseHistory()
			m.state = State{
				Mode:           ModeResizing,
				InitialBounds:  EntityBounds(entity),
				Corner:         corner,
				ResizeEntityID: id,
			}
			return
		}
	}

	if id, anchor, ok := m.hitAnchor(p); ok {
		current := p
		m.state = State{
			Mode:         ModeLinking,
			LinkSourceID: id,
			LinkAnchor:   anchor,
			LinkType:     m.relTool,
			Current:      &current,
		}
		return
	}

	if entity, ok := m.hitEntity(p); ok {
		if !containsID(m.sel.Selection(), entity.ID) {
			m.sel.SetSelection([]string{entity.ID})
		}
		current := p
		m.doc.Store().PauseHistory()
		m.state = State{Mode: ModeTranslating, Current: &current}
		return
	}

	origin := p
	m.state = State{Mode: ModePressing, Origin: &origin}
}

// PointerMove feeds a pointer-move event through the transition table.
func (m *Machine) PointerMove(p Point) {
	switch m.state.Mode {
	case ModePressing:
		if m.state.Origin != nil && m.state.Origin.Manhattan(p) > netThreshold {
			current := p
			m.state = State{Mode: ModeSelectionNet, Origin: m.state.Origin, Current: &current}
			m.updateNetSelection()
		}

	case ModeSelectionNet:
		current := p
		m.state.Current = &current
		m.updateNetSelection()

	case ModeTranslating:
		if m.state.Current == nil {
			return
		}
		dx := p.X - m.state.Current.X
		dy := p.Y - m.state.Current.Y
		for _, id := range m.sel.Selection() {
			entity, ok := m.doc.Entity(id)
			if !ok {
				continue
			}
			x := entity.X + dx
			y := entity.Y + dy
			m.doc.UpdateEntity(id, document.EntityPatch{X: &x, Y: &y})
		}
		current := p
		m.state.Current = &current

	case ModeResizing:
		bounds := Resize(m.state.InitialBounds, m.state.Corner, p)
		m.doc.UpdateEntity(m.state.ResizeEntityID, document.EntityPatch{
			X:      &bounds.X,
			Y:      &bounds.Y,
			Width:  &bounds.Width,
			Height: &bounds.Height,
		})

	case ModeDragging:
		if m.state.Origin == nil {
			return
		}
		m.camera.PanBy(p.X-m.state.Origin.X, p.Y-m.state.Origin.Y)
		origin := p
		m.state.Origin = &origin

	case ModeLinking:
		// Rubber-band preview only; no document mutation.
		current := p
		m.state.Current = &current
	}
}

// PointerUp feeds a pointer-release event through the transition table.
func (m *Machine) PointerUp(p Point) {
	switch m.state.Mode {
	case ModeInserting:
		if m.suppressInsert {
			m.suppressInsert = false
			return
		}
		id := m.doc.InsertEntity(p.X, p.Y)
		m.sel.SetSelection([]string{id})
		m.state = State{Mode: ModeNone}

	case ModePressing:
		// No net formed: plain background click clears the selection.
		m.sel.SetSelection(nil)
		m.state = State{Mode: ModeNone}

	case ModeDragging:
		// Pan ends but the pan tool stays armed.
		m.state = State{Mode: ModeDragging}

	case ModeLinking:
		// Linking survives pointer-up; it ends on a valid second entity
		// or an explicit cancel.

	default:
		m.resumeIfPaused()
		m.state = State{Mode: ModeNone}
	}
}

// KeyDown feeds a keyboard event through the transition table.
func (m *Machine) KeyDown(e KeyEvent) {
	switch e.Key {
	case KeyBackspace:
		if e.EditingText {
			return
		}
		ids := m.sel.Selection()
		if len(ids) == 0 {
			return
		}
		m.doc.DeleteLayers(ids)
		m.sel.SetSelection(nil)

	case KeyZ:
		if !e.chord() {
			return
		}
		if e.Shift {
			m.doc.Store().Redo()
		} else {
			m.doc.Store().Undo()
		}

	case KeyA:
		if !e.chord() {
			return
		}
		m.sel.SetSelection(m.doc.LayerIDs())

	case KeyEscape:
		if m.state.Mode == ModeLinking {
			m.state = State{Mode: ModeNone}
		}
	}
}

// Wheel pans the camera. It works in every mode and never mutates the
// document.
func (m *Machine) Wheel(dx, dy float64) {
	m.camera.PanBy(-dx, -dy)
}

func (m *Machine) resumeIfPaused() {
	if m.state.Mode == ModeTranslating || m.state.Mode == ModeResizing {
		m.doc.Store().ResumeHistory()
	}
}

// hitEntity returns the topmost entity whose bounding box contains p.
func (m *Machine) hitEntity(p Point) (document.Entity, bool) {
	ids := m.doc.LayerIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		entity, ok := m.doc.Entity(ids[i])
		if !ok {
			continue
		}
		if EntityBounds(entity).Contains(p) {
			return entity, true
		}
	}
	return document.Entity{}, false
}

// hitResizeHandle checks the corner handles of the selected entities.
func (m *Machine) hitResizeHandle(p Point) (string, Corner, bool) {
	for _, id := range m.sel.Selection() {
		entity, ok := m.doc.Entity(id)
		if !ok {
			continue
		}
		bounds := EntityBounds(entity)
		for _, corner := range []Corner{TopLeft, TopRight, BottomLeft, BottomRight} {
			if withinTolerance(bounds.CornerPoint(corner), p) {
				return id, corner, true
			}
		}
	}
	return "", TopLeft, false
}

// hitAnchor checks the edge-midpoint link anchors of every entity,
// topmost first.
func (m *Machine) hitAnchor(p Point) (string, Anchor, bool) {
	ids := m.doc.LayerIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		entity, ok := m.doc.Entity(ids[i])
		if !ok {
			continue
		}
		bounds := EntityBounds(entity)
		for _, anchor := range []Anchor{AnchorTop, AnchorRight, AnchorBottom, AnchorLeft} {
			if withinTolerance(bounds.AnchorPoint(anchor), p) {
				return entity.ID, anchor, true
			}
		}
	}
	return "", AnchorTop, false
}

// updateNetSelection recomputes the selection from scratch: entities whose
// bounding box intersects the net rectangle. Relations are never included,
// and the previous selection is replaced rather than extended.
func (m *Machine) updateNetSelection() {
	if m.state.Origin == nil || m.state.Current == nil {
		return
	}
	net := RectFromPoints(*m.state.Origin, *m.state.Current)
	var ids []string
	for _, entity := range m.doc.Entities() {
		if net.Intersects(EntityBounds(entity)) {
			ids = append(ids, entity.ID)
		}
	}
	m.sel.SetSelection(ids)
}

func withinTolerance(handle, p Point) bool {
	return p.Manhattan(handle) <= handleTolerance
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
