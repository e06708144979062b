package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Color is the room accent color carried in the export format.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Snapshot is the document wire format owned by the core:
// layers map + ordered ID list + room metadata. Importing a just-exported
// snapshot reproduces an identical document (same IDs, same field values,
// same ordering).
type Snapshot struct {
	Layers     map[string]LayerRecord `json:"layers"`
	LayerIDs   []string               `json:"layerIds"`
	RoomColor  Color                  `json:"roomColor"`
	ExportedAt string                 `json:"exportedAt"`
	Name       string                 `json:"name"`
}

// LayerRecord is the flattened JSON form of the Layer union, tagged by
// "kind".
type LayerRecord struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`

	// Entity fields.
	X          float64     `json:"x,omitempty"`
	Y          float64     `json:"y,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	Name       string      `json:"name,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`

	// Relation fields.
	SourceID   string       `json:"sourceId,omitempty"`
	TargetID   string       `json:"targetId,omitempty"`
	Type       RelationType `json:"relationType,omitempty"`
	SourceCard Cardinality  `json:"sourceCard,omitempty"`
	TargetCard Cardinality  `json:"targetCard,omitempty"`
	OwningSide Side         `json:"owningSide,omitempty"`
}

// EncodeLayer converts a Layer into its wire record.
func EncodeLayer(l Layer) LayerRecord {
	switch v := l.(type) {
	case Entity:
		return LayerRecord{
			Kind:       KindEntity,
			ID:         v.ID,
			X:          v.X,
			Y:          v.Y,
			Width:      v.Width,
			Height:     v.Height,
			Name:       v.Name,
			Attributes: v.Attributes,
		}
	case Relation:
		return LayerRecord{
			Kind:       KindRelation,
			ID:         v.ID,
			SourceID:   v.SourceID,
			TargetID:   v.TargetID,
			Type:       v.Type,
			SourceCard: v.SourceCard,
			TargetCard: v.TargetCard,
			OwningSide: v.OwningSide,
		}
	}
	// Unreachable while the union has two variants.
	return LayerRecord{}
}

// DecodeLayer converts a wire record back into a Layer.
func DecodeLayer(rec LayerRecord) (Layer, error) {
	switch rec.Kind {
	case KindEntity:
		return Entity{
			ID:         rec.ID,
			X:          rec.X,
			Y:          rec.Y,
			Width:      rec.Width,
			Height:     rec.Height,
			Name:       rec.Name,
			Attributes: rec.Attributes,
		}, nil
	case KindRelation:
		return Relation{
			ID:         rec.ID,
			SourceID:   rec.SourceID,
			TargetID:   rec.TargetID,
			Type:       rec.Type,
			SourceCard: rec.SourceCard,
			TargetCard: rec.TargetCard,
			OwningSide: rec.OwningSide,
		}, nil
	default:
		return nil, fmt.Errorf("unknown layer kind %q", rec.Kind)
	}
}

// Export serializes the document into the snapshot wire format.
func Export(d *Document, name string, roomColor Color) ([]byte, error) {
	snap := Snapshot{
		Layers:     make(map[string]LayerRecord),
		LayerIDs:   d.LayerIDs(),
		RoomColor:  roomColor,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Name:       name,
	}
	if snap.LayerIDs == nil {
		snap.LayerIDs = []string{}
	}
	for _, l := range d.Layers() {
		snap.Layers[l.LayerID()] = EncodeLayer(l)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// ParseSnapshot validates and decodes snapshot bytes without touching any
// document. Malformed input — bad JSON, missing layers/layerIds keys,
// unknown layer kinds, order/map mismatches — yields an error and no
// partial result.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}
	if _, ok := probe["layers"]; !ok {
		return nil, fmt.Errorf("invalid document JSON: missing \"layers\" key")
	}
	if _, ok := probe["layerIds"]; !ok {
		return nil, fmt.Errorf("invalid document JSON: missing \"layerIds\" key")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}

	// Referential completeness: every mapped ID appears in the order list
	// and vice versa.
	seen := make(map[string]bool, len(snap.LayerIDs))
	for _, id := range snap.LayerIDs {
		rec, ok := snap.Layers[id]
		if !ok {
			return nil, fmt.Errorf("invalid document JSON: layer ID %q has no layer record", id)
		}
		if _, err := DecodeLayer(rec); err != nil {
			return nil, fmt.Errorf("invalid document JSON: %w", err)
		}
		seen[id] = true
	}
	if len(seen) != len(snap.LayerIDs) {
		return nil, fmt.Errorf("invalid document JSON: duplicate layer IDs in order list")
	}
	if len(snap.Layers) != len(snap.LayerIDs) {
		missing := make([]string, 0)
		for id := range snap.Layers {
			if !seen[id] {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("invalid document JSON: layers absent from order list: %v", missing)
	}
	return &snap, nil
}

// Import parses snapshot bytes and replaces the document content with the
// snapshot's layers, preserving IDs and ordering. Validation happens
// before the first mutation, so malformed input leaves the document
// unmodified. The whole replacement is one history entry.
func Import(d *Document, data []byte) (*Snapshot, error) {
	snap, err := ParseSnapshot(data)
	if err != nil {
		return nil, err
	}
	d.store.Mutate(func() {
		for _, id := range d.store.LayerIDs() {
			d.store.DeleteLayer(id)
			d.store.RemoveLayerID(id)
		}
		for _, id := range snap.LayerIDs {
			layer, decodeErr := DecodeLayer(snap.Layers[id])
			if decodeErr != nil {
				// ParseSnapshot already verified every record decodes.
				continue
			}
			d.store.SetLayer(id, layer)
			d.store.PushLayerID(id)
		}
	})
	return snap, nil
}
