package document

import (
	"github.com/google/uuid"
)

// Default box size for a freshly inserted entity.
const (
	DefaultEntityWidth  = 230
	DefaultEntityHeight = 140
)

// Document is the typed CRUD facade over a shared layer store. All reads
// and mutations go through the Store so that collaborative backends can
// batch, replicate and undo them.
type Document struct {
	store Store
	newID func() string
}

// Option configures a Document.
type Option func(*Document)

// WithIDGenerator overrides the layer/attribute ID generator. Tests use it
// to get deterministic IDs.
func WithIDGenerator(fn func() string) Option {
	return func(d *Document) {
		d.newID = fn
	}
}

// New creates a Document backed by the given store.
func New(store Store, opts ...Option) *Document {
	d := &Document{
		store: store,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store exposes the underlying store for history control (undo/redo,
// gesture batching).
func (d *Document) Store() Store { return d.store }

// InsertEntity creates an entity at the given position with the default
// attribute set (a required long primary key "id" and a string "name"),
// appends it to the layer order and returns its ID. One history entry.
func (d *Document) InsertEntity(x, y float64) string {
	id := d.newID()
	entity := Entity{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  DefaultEntityWidth,
		Height: DefaultEntityHeight,
		Name:   "Entity",
		Attributes: []Attribute{
			{ID: d.newID(), Name: "id", Type: TypeLong, Required: true, PK: true},
			{ID: d.newID(), Name: "name", Type: TypeString},
		},
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, entity)
		d.store.PushLayerID(id)
	})
	return id
}

// InsertNamedEntity is InsertEntity with an explicit name and attribute
// list; importers use it. Attributes without IDs get fresh ones.
func (d *Document) InsertNamedEntity(x, y float64, name string, attrs []Attribute) string {
	id := d.newID()
	withIDs := make([]Attribute, len(attrs))
	for i, a := range attrs {
		if a.ID == "" {
			a.ID = d.newID()
		}
		withIDs[i] = a
	}
	entity := Entity{
		ID:         id,
		X:          x,
		Y:          y,
		Width:      DefaultEntityWidth,
		Height:     DefaultEntityHeight,
		Name:       name,
		Attributes: withIDs,
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, entity)
		d.store.PushLayerID(id)
	})
	return id
}

// DeleteEntity removes the entity and every relation that references it as
// source or target. The cascade is part of the model contract: after a
// user-initiated delete no relation may dangle. Unknown IDs are a no-op.
func (d *Document) DeleteEntity(id string) {
	layer, ok := d.store.Layer(id)
	if !ok {
		return
	}
	if _, ok := layer.(Entity); !ok {
		return
	}
	d.store.Mutate(func() {
		for _, lid := range d.store.LayerIDs() {
			l, ok := d.store.Layer(lid)
			if !ok {
				continue
			}
			if rel, ok := l.(Relation); ok && rel.Touches(id) {
				d.store.DeleteLayer(lid)
				d.store.RemoveLayerID(lid)
			}
		}
		d.store.DeleteLayer(id)
		d.store.RemoveLayerID(id)
	})
}

// DeleteRelation removes a relation layer. Unknown IDs are a no-op.
func (d *Document) DeleteRelation(id string) {
	layer, ok := d.store.Layer(id)
	if !ok {
		return
	}
	if _, ok := layer.(Relation); !ok {
		return
	}
	d.store.Mutate(func() {
		d.store.DeleteLayer(id)
		d.store.RemoveLayerID(id)
	})
}

// DeleteLayers removes a set of layers of either kind in one history
// entry, cascading entity deletes to their relations.
func (d *Document) DeleteLayers(ids []string) {
	d.store.Mutate(func() {
		for _, id := range ids {
			layer, ok := d.store.Layer(id)
			if !ok {
				continue
			}
			switch layer.(type) {
			case Entity:
				for _, lid := range d.store.LayerIDs() {
					l, ok := d.store.Layer(lid)
					if !ok {
						continue
					}
					if rel, ok := l.(Relation); ok && rel.Touches(id) {
						d.store.DeleteLayer(lid)
						d.store.RemoveLayerID(lid)
					}
				}
				d.store.DeleteLayer(id)
				d.store.RemoveLayerID(id)
			case Relation:
				d.store.DeleteLayer(id)
				d.store.RemoveLayerID(id)
			}
		}
	})
}

// InsertRelation creates a relation between two existing, distinct
// entities and returns its ID. It is a no-op returning ok=false when
// either endpoint is missing, when an endpoint is not an entity, or when
// sourceID == targetID (self-loops are unsupported by policy).
func (d *Document) InsertRelation(sourceID, targetID string, typ RelationType, sourceCard, targetCard Cardinality, owning Side) (string, bool) {
	if sourceID == targetID {
		return "", false
	}
	if !d.isEntity(sourceID) || !d.isEntity(targetID) {
		return "", false
	}
	id := d.newID()
	rel := Relation{
		ID:         id,
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       typ,
		SourceCard: sourceCard,
		TargetCard: targetCard,
		OwningSide: owning,
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, rel)
		d.store.PushLayerID(id)
	})
	return id, true
}

// UpdateEntity applies a partial-field merge to an entity. Fields not set
// in the patch keep their current value; the stored object is never
// replaced wholesale. Returns false for unknown or non-entity IDs.
func (d *Document) UpdateEntity(id string, patch EntityPatch) bool {
	layer, ok := d.store.Layer(id)
	if !ok {
		return false
	}
	entity, ok := layer.(Entity)
	if !ok {
		return false
	}
	if patch.Name != nil {
		entity.Name = *patch.Name
	}
	if patch.X != nil {
		entity.X = *patch.X
	}
	if patch.Y != nil {
		entity.Y = *patch.Y
	}
	if patch.Width != nil {
		entity.Width = *patch.Width
	}
	if patch.Height != nil {
		entity.Height = *patch.Height
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, entity)
	})
	return true
}

// UpdateRelation applies a partial-field merge to a relation.
func (d *Document) UpdateRelation(id string, patch RelationPatch) bool {
	layer, ok := d.store.Layer(id)
	if !ok {
		return false
	}
	rel, ok := layer.(Relation)
	if !ok {
		return false
	}
	if patch.Type != nil {
		rel.Type = *patch.Type
	}
	if patch.SourceCard != nil {
		rel.SourceCard = *patch.SourceCard
	}
	if patch.TargetCard != nil {
		rel.TargetCard = *patch.TargetCard
	}
	if patch.OwningSide != nil {
		rel.OwningSide = *patch.OwningSide
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, rel)
	})
	return true
}

// ToggleOwningSide flips the owning side of a relation. Context-menu
// action; returns false for unknown or non-relation IDs.
func (d *Document) ToggleOwningSide(id string) bool {
	layer, ok := d.store.Layer(id)
	if !ok {
		return false
	}
	rel, ok := layer.(Relation)
	if !ok {
		return false
	}
	if rel.OwningSide == SourceSide {
		rel.OwningSide = TargetSide
	} else {
		rel.OwningSide = SourceSide
	}
	d.store.Mutate(func() {
		d.store.SetLayer(id, rel)
	})
	return true
}

// AddAttribute appends an attribute to an entity and returns the new
// attribute ID. Name collisions with existing attributes are permitted at
// this layer.
func (d *Document) AddAttribute(entityID string, attr Attribute) (string, bool) {
	layer, ok := d.store.Layer(entityID)
	if !ok {
		return "", false
	}
	entity, ok := layer.(Entity)
	if !ok {
		return "", false
	}
	if attr.ID == "" {
		attr.ID = d.newID()
	}
	entity.Attributes = append(append([]Attribute{}, entity.Attributes...), attr)
	d.store.Mutate(func() {
		d.store.SetLayer(entityID, entity)
	})
	return attr.ID, true
}

// RemoveAttribute deletes an attribute by its ID.
func (d *Document) RemoveAttribute(entityID, attrID string) bool {
	layer, ok := d.store.Layer(entityID)
	if !ok {
		return false
	}
	entity, ok := layer.(Entity)
	if !ok {
		return false
	}
	kept := make([]Attribute, 0, len(entity.Attributes))
	found := false
	for _, a := range entity.Attributes {
		if a.ID == attrID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return false
	}
	entity.Attributes = kept
	d.store.Mutate(func() {
		d.store.SetLayer(entityID, entity)
	})
	return true
}

// ModifyAttribute applies a partial-field merge to an attribute,
// addressed by its ID rather than its name.
func (d *Document) ModifyAttribute(entityID, attrID string, patch AttributePatch) bool {
	layer, ok := d.store.Layer(entityID)
	if !ok {
		return false
	}
	entity, ok := layer.(Entity)
	if !ok {
		return false
	}
	attrs := append([]Attribute{}, entity.Attributes...)
	found := false
	for i, a := range attrs {
		if a.ID != attrID {
			continue
		}
		if patch.Name != nil {
			a.Name = *patch.Name
		}
		if patch.Type != nil {
			a.Type = *patch.Type
		}
		if patch.Required != nil {
			a.Required = *patch.Required
		}
		if patch.PK != nil {
			a.PK = *patch.PK
		}
		attrs[i] = a
		found = true
		break
	}
	if !found {
		return false
	}
	entity.Attributes = attrs
	d.store.Mutate(func() {
		d.store.SetLayer(entityID, entity)
	})
	return true
}

// Entity returns the entity stored under id.
func (d *Document) Entity(id string) (Entity, bool) {
	layer, ok := d.store.Layer(id)
	if !ok {
		return Entity{}, false
	}
	entity, ok := layer.(Entity)
	return entity, ok
}

// Relation returns the relation stored under id.
func (d *Document) Relation(id string) (Relation, bool) {
	layer, ok := d.store.Layer(id)
	if !ok {
		return Relation{}, false
	}
	rel, ok := layer.(Relation)
	return rel, ok
}

// LayerIDs returns the ordered layer ID list.
func (d *Document) LayerIDs() []string { return d.store.LayerIDs() }

// Layers returns all layers in stacking order. IDs present in the order
// list but missing from the map are skipped; transient states like that
// occur under concurrent edits.
func (d *Document) Layers() []Layer {
	ids := d.store.LayerIDs()
	layers := make([]Layer, 0, len(ids))
	for _, id := range ids {
		if l, ok := d.store.Layer(id); ok {
			layers = append(layers, l)
		}
	}
	return layers
}

// Entities returns all entity layers in stacking order.
func (d *Document) Entities() []Entity {
	var entities []Entity
	for _, l := range d.Layers() {
		if e, ok := l.(Entity); ok {
			entities = append(entities, e)
		}
	}
	return entities
}

// Relations returns all relation layers in stacking order, including inert
// ones with dangling endpoints; consumers skip those themselves.
func (d *Document) Relations() []Relation {
	var rels []Relation
	for _, l := range d.Layers() {
		if r, ok := l.(Relation); ok {
			rels = append(rels, r)
		}
	}
	return rels
}

// LiveRelations returns relations whose both endpoints resolve to entities.
func (d *Document) LiveRelations() []Relation {
	var rels []Relation
	for _, r := range d.Relations() {
		if d.isEntity(r.SourceID) && d.isEntity(r.TargetID) {
			rels = append(rels, r)
		}
	}
	return rels
}

// Clear removes every layer in one history entry.
func (d *Document) Clear() {
	d.store.Mutate(func() {
		for _, id := range d.store.LayerIDs() {
			d.store.DeleteLayer(id)
			d.store.RemoveLayerID(id)
		}
	})
}

func (d *Document) isEntity(id string) bool {
	layer, ok := d.store.Layer(id)
	if !ok {
		return false
	}
	_, ok = layer.(Entity)
	return ok
}
