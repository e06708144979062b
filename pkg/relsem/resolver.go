package relsem

import (
	"github.com/entidraw/entidraw/pkg/document"
)

// Names are the navigable accessor names a relation contributes:
// FieldName lives on the source entity, InverseName on the target entity.
// Both are empty for relation types that express structure rather than
// data references.
type Names struct {
	FieldName   string
	InverseName string
}

// ResolveNames computes the accessor names for a relation. It is a pure
// function of the relation type, the entity names and the cardinalities —
// every generator target must call this and only this.
//
// Rules, in priority order:
//  1. generalization, realization and dependency produce no fields.
//  2. aggregation and composition treat the source as the conceptual
//     whole regardless of cardinality: the source gets a plural
//     collection of parts, the part gets a singular back-reference.
//  3. association derives plurality from the cardinalities.
func ResolveNames(relType document.RelationType, source, target document.Entity, sourceCard, targetCard document.Cardinality) Names {
	// Entity names are free-form display text; reduce them to identifiers
	// here so no consumer has to remember to.
	sourceName := Camel(Sanitize(source.Name))
	targetName := Camel(Sanitize(target.Name))

	switch relType {
	case document.Generalization, document.Realization, document.Dependency:
		return Names{}
	case document.Aggregation, document.Composition:
		return Names{
			FieldName:   Pluralize(targetName),
			InverseName: sourceName,
		}
	case document.Association:
		switch {
		case sourceCard == document.One && targetCard == document.Many:
			return Names{FieldName: Pluralize(targetName), InverseName: sourceName}
		case sourceCard == document.Many && targetCard == document.One:
			return Names{FieldName: targetName, InverseName: Pluralize(sourceName)}
		case sourceCard == document.Many && targetCard == document.Many:
			return Names{FieldName: Pluralize(targetName), InverseName: Pluralize(sourceName)}
		default:
			return Names{FieldName: targetName, InverseName: sourceName}
		}
	}
	// Unreached by the enumerated types.
	return Names{FieldName: targetName, InverseName: sourceName}
}

// ReferentialAction is the ON DELETE behavior of a generated foreign key.
type ReferentialAction string

const (
	ActionCascade ReferentialAction = "CASCADE"
	ActionSetNull ReferentialAction = "SET NULL"
	ActionNone    ReferentialAction = "NO ACTION"
)

// Policy is the cascade/foreign-key decision for one relation type, used
// identically by every backend and schema generator.
type Policy struct {
	// OnDelete is the referential action on the FK side.
	OnDelete ReferentialAction
	// OrphanRemoval marks the whole-side collection of a composition:
	// a part removed from the collection is deleted.
	OrphanRemoval bool
	// LimitedCascade restricts ORM cascading to persist/merge (aggregation:
	// the part may outlive the whole).
	LimitedCascade bool
	// SharedPrimaryKey marks joined-table inheritance: the child's primary
	// key is itself the foreign key to the parent row.
	SharedPrimaryKey bool
	// EmitsSchema is false for relation types with no schema artifact.
	EmitsSchema bool
}

// CascadePolicy returns the decision-table row for a relation type.
func CascadePolicy(relType document.RelationType) Policy {
	switch relType {
	case document.Composition:
		return Policy{OnDelete: ActionCascade, OrphanRemoval: true, EmitsSchema: true}
	case document.Aggregation:
		return Policy{OnDelete: ActionSetNull, LimitedCascade: true, EmitsSchema: true}
	case document.Association, document.Realization:
		// Realization normally produces no field per the naming rules; when
		// a target treats it as association-shaped metadata, the weak
		// reference semantics apply.
		return Policy{OnDelete: ActionSetNull, EmitsSchema: true}
	case document.Generalization:
		return Policy{OnDelete: ActionCascade, SharedPrimaryKey: true, EmitsSchema: true}
	case document.Dependency:
		return Policy{OnDelete: ActionNone}
	}
	return Policy{OnDelete: ActionSetNull, EmitsSchema: true}
}

// ForeignKeySide decides which entity's table carries the foreign key.
// junction is true for many-to-many associations, which materialize as a
// join table instead.
//
// The 1:1 owning side defaults to the target unless the relation
// explicitly says source; this is the single documented convention, no
// generator decides it independently.
func ForeignKeySide(rel document.Relation) (side document.Side, junction bool) {
	switch rel.Type {
	case document.Generalization:
		// Child row (source) shares its primary key with the parent.
		return document.SourceSide, false
	case document.Aggregation, document.Composition:
		// The part (target) references the whole.
		return document.TargetSide, false
	}
	switch {
	case rel.SourceCard == document.Many && rel.TargetCard == document.Many:
		return "", true
	case rel.SourceCard == document.One && rel.TargetCard == document.Many:
		// FK lives on the many side.
		return document.TargetSide, false
	case rel.SourceCard == document.Many && rel.TargetCard == document.One:
		return document.SourceSide, false
	default:
		if rel.OwningSide == document.SourceSide {
			return document.SourceSide, false
		}
		return document.TargetSide, false
	}
}
