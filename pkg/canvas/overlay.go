package canvas

import (
	"github.com/entidraw/entidraw/pkg/collab"
	"github.com/entidraw/entidraw/pkg/document"
)

// Highlight is one selected entity's render box with the owning user's
// accent color.
type Highlight struct {
	LayerID string
	Bounds  Rect
	Color   document.Color
}

// RemoteCursor is another user's pointer position.
type RemoteCursor struct {
	UserID string
	Name   string
	Color  document.Color
	Point  Point
}

// Line is the rubber-band preview of an in-progress link gesture.
type Line struct {
	From Point
	To   Point
}

// Overlay is the derived, read-only render state layered over the
// document: local selection highlights, the selection net, remote
// highlights and cursors, and the link preview. Stale IDs — a layer
// deleted by another collaborator while still referenced by a selection —
// simply produce no highlight.
type Overlay struct {
	Selection       []Highlight
	Net             *Rect
	LinkPreview     *Line
	RemoteSelection []Highlight
	RemoteCursors   []RemoteCursor
}

// BuildOverlay derives the overlay for one frame from the document, the
// machine state and the room presences. It performs reads only.
func BuildOverlay(doc *document.Document, state State, self collab.Presence, others []collab.Presence) Overlay {
	var overlay Overlay

	overlay.Selection = highlights(doc, self.Selection, self.Color)

	if state.Mode == ModeSelectionNet && state.Origin != nil && state.Current != nil {
		net := RectFromPoints(*state.Origin, *state.Current)
		overlay.Net = &net
	}

	if state.Mode == ModeLinking && state.Current != nil {
		if entity, ok := doc.Entity(state.LinkSourceID); ok {
			overlay.LinkPreview = &Line{
				From: EntityBounds(entity).AnchorPoint(state.LinkAnchor),
				To:   *state.Current,
			}
		}
	}

	for _, other := range others {
		overlay.RemoteSelection = append(overlay.RemoteSelection, highlights(doc, other.Selection, other.Color)...)
		if other.Cursor != nil {
			overlay.RemoteCursors = append(overlay.RemoteCursors, RemoteCursor{
				UserID: other.UserID,
				Name:   other.Name,
				Color:  other.Color,
				Point:  Point{X: other.Cursor.X, Y: other.Cursor.Y},
			})
		}
	}
	return overlay
}

func highlights(doc *document.Document, ids []string, color document.Color) []Highlight {
	var out []Highlight
	for _, id := range ids {
		layer, ok := docLayer(doc, id)
		if !ok {
			continue
		}
		switch v := layer.(type) {
		case document.Entity:
			out = append(out, Highlight{LayerID: id, Bounds: EntityBounds(v), Color: color})
		case document.Relation:
			// Relations have no bounding box; a selected relation is
			// rendered by styling its edge, which the view derives from
			// the endpoints. Skip entries whose endpoints are gone.
		}
	}
	return out
}

func docLayer(doc *document.Document, id string) (document.Layer, bool) {
	if entity, ok := doc.Entity(id); ok {
		return entity, true
	}
	if rel, ok := doc.Relation(id); ok {
		return rel, true
	}
	return nil, false
}
