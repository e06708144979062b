// Package importer is the boundary to the generative diagram importers
// (natural language, image, audio). A backend turns opaque input into a
// fixed sketch JSON shape; this package validates the sketch, sanitizes
// its names, guarantees primary keys and merges it into the document.
// A failed or rejected import never modifies the document.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/entidraw/entidraw/pkg/document"
)

// Sketch is the fixed JSON shape every importer backend returns.
type Sketch struct {
	Entities  []SketchEntity   `json:"entities"`
	Relations []SketchRelation `json:"relations"`
}

// SketchEntity is a proposed entity.
type SketchEntity struct {
	Name       string            `json:"name"`
	Attributes []SketchAttribute `json:"attributes"`
}

// SketchAttribute is a proposed attribute. Unknown types degrade to
// string.
type SketchAttribute struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	PK       bool   `json:"pk,omitempty"`
}

// SketchRelation is a proposed relation. Endpoints are referenced by
// entity name; backends use either the *Name or the *Entity key.
type SketchRelation struct {
	SourceName   string `json:"sourceName,omitempty"`
	SourceEntity string `json:"sourceEntity,omitempty"`
	TargetName   string `json:"targetName,omitempty"`
	TargetEntity string `json:"targetEntity,omitempty"`
	RelationType string `json:"relationType,omitempty"`
	SourceCard   string `json:"sourceCard,omitempty"`
	TargetCard   string `json:"targetCard,omitempty"`
	OwningSide   string `json:"owningSide,omitempty"`
}

// Source returns the source entity name, whichever key carried it.
func (r SketchRelation) Source() string {
	if r.SourceName != "" {
		return r.SourceName
	}
	return r.SourceEntity
}

// Target returns the target entity name, whichever key carried it.
func (r SketchRelation) Target() string {
	if r.TargetName != "" {
		return r.TargetName
	}
	return r.TargetEntity
}

// ParseSketch decodes and validates sketch bytes. Malformed JSON or a
// missing entities key is a validation error; the caller surfaces the
// message and leaves the document untouched.
func ParseSketch(data []byte) (*Sketch, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid sketch JSON: %w", err)
	}
	if _, ok := probe["entities"]; !ok {
		return nil, fmt.Errorf("invalid sketch JSON: missing \"entities\" key")
	}
	var sketch Sketch
	if err := json.Unmarshal(data, &sketch); err != nil {
		return nil, fmt.Errorf("invalid sketch JSON: %w", err)
	}
	for i, e := range sketch.Entities {
		if SanitizeName(e.Name) == "" {
			return nil, fmt.Errorf("invalid sketch JSON: entity %d has no usable name", i)
		}
	}
	return &sketch, nil
}

// relationType maps a sketch relation type string onto the document enum,
// defaulting to association.
func relationType(s string) document.RelationType {
	t := document.RelationType(s)
	if document.KnownRelationType(t) {
		return t
	}
	return document.Association
}

// cardinality maps a sketch cardinality string, defaulting to ONE.
func cardinality(s string) document.Cardinality {
	if document.Cardinality(s) == document.Many {
		return document.Many
	}
	return document.One
}

// owningSide maps a sketch owning-side string, defaulting to target (the
// documented 1:1 convention).
func owningSide(s string) document.Side {
	if document.Side(s) == document.SourceSide {
		return document.SourceSide
	}
	return document.TargetSide
}

// attributeType maps a sketch attribute type string, defaulting to string.
func attributeType(s string) document.Primitive {
	p := document.Primitive(s)
	if document.KnownPrimitive(p) {
		return p
	}
	return document.TypeString
}
