// Package generator is the export pipeline: each target walks the same
// document through the same relationship-semantics resolver and renders a
// deterministic file bundle. Generation is a pure read of the document.
package generator

import (
	"errors"
	"fmt"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// Target names one generator output format.
type Target string

const (
	TargetSpring  Target = "spring"
	TargetFlutter Target = "flutter"
	TargetSQL     Target = "sql"
	TargetPostman Target = "postman"
)

// Targets returns every supported target in a stable order.
func Targets() []Target {
	return []Target{TargetSpring, TargetFlutter, TargetSQL, TargetPostman}
}

// ErrNoEntities reports the user-facing "nothing to export" condition: a
// document without entities produces no artifact.
var ErrNoEntities = errors.New("nothing to export: the diagram has no entities")

// Artifact is one generated file.
type Artifact struct {
	Path    string
	Content []byte
}

// Bundle is the deterministic output of one target for one document.
type Bundle struct {
	Target    Target
	Artifacts []Artifact
}

// Options configures generation across targets.
type Options struct {
	// BasePackage is the Java package of the spring target.
	BasePackage string
	// AppName names the generated application.
	AppName string
}

func (o Options) withDefaults() Options {
	if o.BasePackage == "" {
		o.BasePackage = "com.entidraw.app"
	}
	if o.AppName == "" {
		o.AppName = "entidraw"
	}
	return o
}

// Generate renders the bundle for one target. Relations with missing
// endpoints are skipped per relation; a document without entities yields
// ErrNoEntities and no artifact.
func Generate(target Target, doc *document.Document, opts Options) (*Bundle, error) {
	opts = opts.withDefaults()
	if len(doc.Entities()) == 0 {
		return nil, ErrNoEntities
	}
	switch target {
	case TargetSpring:
		return generateSpring(doc, opts)
	case TargetFlutter:
		return generateFlutter(doc, opts)
	case TargetSQL:
		return generateSQL(doc, opts)
	case TargetPostman:
		return generatePostman(doc, opts)
	default:
		return nil, fmt.Errorf("unknown generator target %q", target)
	}
}

// className derives the generated class name of an entity.
func className(e document.Entity) string {
	name := relsem.Sanitize(e.Name)
	if name == "" {
		name = "Entity"
	}
	return relsem.Pascal(name)
}

// reference is one navigable field a relation contributes to an entity,
// with everything a target needs to render it consistently.
type reference struct {
	// Relation is the contributing relation.
	Relation document.Relation
	// Self is the entity holding the field.
	Self document.Entity
	// Other is the entity on the opposite end.
	Other document.Entity
	// Name is the field name on this entity, from the resolver.
	Name string
	// InverseName is the field name on the opposite entity.
	InverseName string
	// OnSource is true when this entity is the relation's source.
	OnSource bool
	// Many is true when the field is a collection.
	Many bool
}

// referencesOf collects the navigable fields of an entity from every live
// relation. Field-less relation types (generalization, realization,
// dependency) contribute nothing here.
func referencesOf(doc *document.Document, e document.Entity) []reference {
	var refs []reference
	for _, rel := range doc.LiveRelations() {
		source, ok := doc.Entity(rel.SourceID)
		if !ok {
			continue
		}
		target, ok := doc.Entity(rel.TargetID)
		if !ok {
			continue
		}
		names := relsem.ResolveNames(rel.Type, source, target, rel.SourceCard, rel.TargetCard)
		if names.FieldName == "" {
			continue
		}
		switch e.ID {
		case rel.SourceID:
			refs = append(refs, reference{
				Relation:    rel,
				Self:        source,
				Other:       target,
				Name:        names.FieldName,
				InverseName: names.InverseName,
				OnSource:    true,
				Many:        sourceSideMany(rel),
			})
		case rel.TargetID:
			refs = append(refs, reference{
				Relation:    rel,
				Self:        target,
				Other:       source,
				Name:        names.InverseName,
				InverseName: names.FieldName,
				OnSource:    false,
				Many:        targetSideMany(rel),
			})
		}
	}
	return refs
}

// sourceSideMany reports whether the source-side field is a collection.
// Aggregation and composition always give the whole a collection of
// parts; association follows the target cardinality.
func sourceSideMany(rel document.Relation) bool {
	switch rel.Type {
	case document.Aggregation, document.Composition:
		return true
	}
	return rel.TargetCard == document.Many
}

// targetSideMany reports whether the target-side field is a collection.
func targetSideMany(rel document.Relation) bool {
	switch rel.Type {
	case document.Aggregation, document.Composition:
		return false
	}
	return rel.SourceCard == document.Many
}

// parentOf returns the generalization parent of an entity. By convention
// the relation source is the child.
func parentOf(doc *document.Document, entityID string) (document.Entity, bool) {
	for _, rel := range doc.LiveRelations() {
		if rel.Type != document.Generalization || rel.SourceID != entityID {
			continue
		}
		return doc.Entity(rel.TargetID)
	}
	return document.Entity{}, false
}

// inheritedAttributes returns the attributes an entity inherits from its
// generalization ancestors, root-first. A cycle in the parent chain stops
// the walk instead of looping.
func inheritedAttributes(doc *document.Document, e document.Entity) []document.Attribute {
	var chain []document.Entity
	visited := map[string]bool{e.ID: true}
	current := e
	for {
		parent, ok := parentOf(doc, current.ID)
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		chain = append([]document.Entity{parent}, chain...)
		current = parent
	}
	var attrs []document.Attribute
	for _, ancestor := range chain {
		attrs = append(attrs, ancestor.Attributes...)
	}
	return attrs
}

// primaryKey returns the entity's pk attribute, falling back to a
// synthesized id:long when the diagram has none or the pk lives on a
// generalization ancestor.
func primaryKey(doc *document.Document, e document.Entity) document.Attribute {
	if pk, ok := e.PrimaryKey(); ok {
		return pk
	}
	for _, a := range inheritedAttributes(doc, e) {
		if a.PK {
			return a
		}
	}
	return document.Attribute{Name: "id", Type: document.TypeLong, Required: true, PK: true}
}

// isGeneralizationParent reports whether any live generalization points at
// the entity as its parent.
func isGeneralizationParent(doc *document.Document, entityID string) bool {
	for _, rel := range doc.LiveRelations() {
		if rel.Type == document.Generalization && rel.TargetID == entityID {
			return true
		}
	}
	return false
}
