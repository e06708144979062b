// Package document defines the shared diagram data model: a tagged union of
// Entity and Relation layers addressed by ID, plus the CRUD facade every
// other component mutates the diagram through.
package document

// Primitive is the attribute data type vocabulary shared by the editor and
// every generator target.
type Primitive string

const (
	TypeString   Primitive = "string"
	TypeInt      Primitive = "int"
	TypeLong     Primitive = "long"
	TypeFloat    Primitive = "float"
	TypeDouble   Primitive = "double"
	TypeBoolean  Primitive = "boolean"
	TypeDate     Primitive = "date"
	TypeDateTime Primitive = "datetime"
	TypeUUID     Primitive = "uuid"
	TypeEmail    Primitive = "email"
	TypePassword Primitive = "password"
)

// KnownPrimitive reports whether p is one of the supported attribute types.
func KnownPrimitive(p Primitive) bool {
	switch p {
	case TypeString, TypeInt, TypeLong, TypeFloat, TypeDouble, TypeBoolean,
		TypeDate, TypeDateTime, TypeUUID, TypeEmail, TypePassword:
		return true
	}
	return false
}

// Attribute is a single column/field of an Entity. Identity is the ID, not
// the name; duplicate names inside one entity are tolerated at this layer.
type Attribute struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     Primitive `json:"type"`
	Required bool      `json:"required"`
	PK       bool      `json:"pk"`
}

// RelationType enumerates the six supported UML relationship kinds.
type RelationType string

const (
	Association    RelationType = "association"
	Aggregation    RelationType = "aggregation"
	Composition    RelationType = "composition"
	Generalization RelationType = "generalization"
	Realization    RelationType = "realization"
	Dependency     RelationType = "dependency"
)

// KnownRelationType reports whether t is one of the six supported kinds.
func KnownRelationType(t RelationType) bool {
	switch t {
	case Association, Aggregation, Composition, Generalization, Realization, Dependency:
		return true
	}
	return false
}

// Cardinality describes how many instances of the opposite entity one side
// of a relation may reference.
type Cardinality string

const (
	One  Cardinality = "ONE"
	Many Cardinality = "MANY"
)

// Side names one endpoint of a relation.
type Side string

const (
	SourceSide Side = "source"
	TargetSide Side = "target"
)

// Kind tags the Layer union.
type Kind string

const (
	KindEntity   Kind = "entity"
	KindRelation Kind = "relation"
)

// Layer is a diagram element stored in the document's ordered collection.
// Exactly two implementations exist: Entity and Relation. Consumers switch
// on the concrete type so that adding a variant breaks every consumption
// site at compile time.
type Layer interface {
	Kind() Kind
	LayerID() string
}

// Entity is a class/table node with a position, a box size, a user-editable
// name and an ordered attribute list.
type Entity struct {
	ID         string      `json:"id"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

// Kind implements Layer.
func (Entity) Kind() Kind { return KindEntity }

// LayerID implements Layer.
func (e Entity) LayerID() string { return e.ID }

// PrimaryKey returns the first attribute marked pk, or false when none is.
// Callers are expected to keep at most one pk per entity; generators fall
// back to a synthesized id when the entity has none.
func (e Entity) PrimaryKey() (Attribute, bool) {
	for _, a := range e.Attributes {
		if a.PK {
			return a, true
		}
	}
	return Attribute{}, false
}

// Attribute returns the attribute with the given ID.
func (e Entity) Attribute(attrID string) (Attribute, bool) {
	for _, a := range e.Attributes {
		if a.ID == attrID {
			return a, true
		}
	}
	return Attribute{}, false
}

// Relation is a typed, directed edge between two entities. SourceID and
// TargetID reference entity layer IDs; a relation whose endpoint no longer
// exists is inert (skipped by rendering and generation), never an error.
type Relation struct {
	ID         string       `json:"id"`
	SourceID   string       `json:"sourceId"`
	TargetID   string       `json:"targetId"`
	Type       RelationType `json:"relationType"`
	SourceCard Cardinality  `json:"sourceCard"`
	TargetCard Cardinality  `json:"targetCard"`
	OwningSide Side         `json:"owningSide"`
}

// Kind implements Layer.
func (Relation) Kind() Kind { return KindRelation }

// LayerID implements Layer.
func (r Relation) LayerID() string { return r.ID }

// Touches reports whether the relation references the given entity ID on
// either endpoint.
func (r Relation) Touches(entityID string) bool {
	return r.SourceID == entityID || r.TargetID == entityID
}

// EntityPatch is a partial update for an Entity. Nil fields are left
// untouched by UpdateEntity.
type EntityPatch struct {
	Name   *string
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
}

// RelationPatch is a partial update for a Relation. Nil fields are left
// untouched by UpdateRelation.
type RelationPatch struct {
	Type       *RelationType
	SourceCard *Cardinality
	TargetCard *Cardinality
	OwningSide *Side
}

// AttributePatch is a partial update for an Attribute.
type AttributePatch struct {
	Name     *string
	Type     *Primitive
	Required *bool
	PK       *bool
}
