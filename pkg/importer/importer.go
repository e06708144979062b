package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// Input is the opaque payload handed to a generative backend. Exactly one
// of the variants is typically set; backends may combine them.
type Input struct {
	Prompt    string
	ImageData []byte
	ImageMime string
	AudioData []byte
	AudioMime string
}

// Backend turns free-form input into a sketch. Implementations wrap an
// external generative model; failures and timeouts stay behind this
// boundary.
type Backend interface {
	GenerateSketch(ctx context.Context, in Input) (*Sketch, error)
}

// Report summarizes what a merge did.
type Report struct {
	EntitiesCreated  int
	EntitiesReused   int
	RelationsCreated int
	RelationsSkipped int
}

// Options controls a merge.
type Options struct {
	// Replace clears the document before inserting (destructive import);
	// otherwise entities are reused by sanitized name and only missing
	// ones are created.
	Replace bool
}

// Grid placement for imported entities.
const (
	gridOriginX  = 60
	gridOriginY  = 60
	gridSpacingX = 300
	gridSpacingY = 220
	gridColumns  = 4
)

// SanitizeName reduces a free-form name to a safe identifier. It is the
// shared resolver sanitizer; importers and generators must agree on it.
func SanitizeName(name string) string {
	return relsem.Sanitize(name)
}

// Run executes a backend and merges its sketch into the document. Backend
// failures come back as an error with the document intact.
func Run(ctx context.Context, backend Backend, in Input, doc *document.Document, opts Options, logger *zap.SugaredLogger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	sketch, err := backend.GenerateSketch(ctx, in)
	if err != nil {
		logger.Warnw("importer backend failed", "error", err)
		return Report{}, fmt.Errorf("diagram importer failed: %w", err)
	}
	return Merge(doc, sketch, opts, logger)
}

// Merge validates a sketch against the document and applies it as one
// history entry. Ambiguous name resolution aborts before the first
// mutation: when two existing entities share a sanitized name the sketch
// refers to, the import surfaces a validation error instead of guessing.
func Merge(doc *document.Document, sketch *Sketch, opts Options, logger *zap.SugaredLogger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if sketch == nil || len(sketch.Entities) == 0 {
		return Report{}, fmt.Errorf("sketch contains no entities")
	}

	index := make(map[string]string)
	if !opts.Replace {
		var err error
		index, err = nameIndex(doc, sketch)
		if err != nil {
			return Report{}, err
		}
	}

	var report Report
	doc.Store().Mutate(func() {
		if opts.Replace {
			doc.Clear()
		}

		placed := 0
		for _, se := range sketch.Entities {
			name := SanitizeName(se.Name)
			if _, exists := index[name]; exists {
				report.EntitiesReused++
				continue
			}
			x := float64(gridOriginX + (placed%gridColumns)*gridSpacingX)
			y := float64(gridOriginY + (placed/gridColumns)*gridSpacingY)
			placed++
			id := doc.InsertNamedEntity(x, y, name, sketchAttributes(se))
			index[name] = id
			report.EntitiesCreated++
		}

		for _, sr := range sketch.Relations {
			sourceID, okSource := index[SanitizeName(sr.Source())]
			targetID, okTarget := index[SanitizeName(sr.Target())]
			if !okSource || !okTarget {
				report.RelationsSkipped++
				logger.Debugw("skipping relation with unresolved endpoint",
					"source", sr.Source(), "target", sr.Target())
				continue
			}
			_, created := doc.InsertRelation(
				sourceID, targetID,
				relationType(sr.RelationType),
				cardinality(sr.SourceCard), cardinality(sr.TargetCard),
				owningSide(sr.OwningSide),
			)
			if created {
				report.RelationsCreated++
			} else {
				report.RelationsSkipped++
			}
		}
	})

	logger.Infow("sketch merged",
		"created", report.EntitiesCreated,
		"reused", report.EntitiesReused,
		"relations", report.RelationsCreated,
		"skipped", report.RelationsSkipped)
	return report, nil
}

// sketchAttributes converts sketch attributes and guarantees a primary
// key, synthesizing id:long when the sketch has none.
func sketchAttributes(se SketchEntity) []document.Attribute {
	attrs := make([]document.Attribute, 0, len(se.Attributes)+1)
	hasPK := false
	for _, sa := range se.Attributes {
		name := SanitizeName(sa.Name)
		if name == "" {
			continue
		}
		attrs = append(attrs, document.Attribute{
			Name:     name,
			Type:     attributeType(sa.Type),
			Required: sa.Required || sa.PK,
			PK:       sa.PK && !hasPK,
		})
		if sa.PK {
			hasPK = true
		}
	}
	if !hasPK {
		attrs = append([]document.Attribute{{
			Name: "id", Type: document.TypeLong, Required: true, PK: true,
		}}, attrs...)
	}
	return attrs
}

// nameIndex maps sanitized entity names to layer IDs for an additive
// merge. Names the sketch references that match more than one existing
// entity are a validation error.
func nameIndex(doc *document.Document, sketch *Sketch) (map[string]string, error) {
	counts := make(map[string]int)
	index := make(map[string]string)
	for _, entity := range doc.Entities() {
		name := SanitizeName(entity.Name)
		counts[name]++
		index[name] = entity.ID
	}

	referenced := make(map[string]bool)
	for _, se := range sketch.Entities {
		referenced[SanitizeName(se.Name)] = true
	}
	for _, sr := range sketch.Relations {
		referenced[SanitizeName(sr.Source())] = true
		referenced[SanitizeName(sr.Target())] = true
	}
	for name := range referenced {
		if counts[name] > 1 {
			return nil, fmt.Errorf("cannot merge: %d existing entities share the name %q; rename them first", counts[name], name)
		}
	}

	for name, n := range counts {
		if n != 1 {
			delete(index, name)
		}
	}
	return index, nil
}
