package generator

import (
	"fmt"
	"strings"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// sqlType maps an attribute primitive onto its PostgreSQL column type.
func sqlType(p document.Primitive) string {
	switch p {
	case document.TypeString, document.TypeEmail, document.TypePassword:
		return "varchar(255)"
	case document.TypeInt:
		return "integer"
	case document.TypeLong:
		return "bigint"
	case document.TypeFloat:
		return "real"
	case document.TypeDouble:
		return "double precision"
	case document.TypeBoolean:
		return "boolean"
	case document.TypeDate:
		return "date"
	case document.TypeDateTime:
		return "timestamp"
	case document.TypeUUID:
		return "uuid"
	}
	return "varchar(255)"
}

// generateSQL renders the relational schema script. Tables first, foreign
// keys as separate ALTER TABLE statements afterwards so that creation
// order never matters. Cascade behavior comes from the shared policy
// table: composition cascades, aggregation and association set null, a
// generalization child shares its primary key with the parent row and
// cascades, dependency produces no schema artifact.
func generateSQL(doc *document.Document, opts Options) (*Bundle, error) {
	var statements []string
	var constraints []string

	for _, entity := range doc.Entities() {
		statements = append(statements, createTable(doc, entity))
	}

	for _, rel := range doc.LiveRelations() {
		stmts := relationConstraints(doc, rel)
		constraints = append(constraints, stmts...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Schema generated for %s\n", opts.AppName)
	b.WriteString("-- Generated by entidraw; do not edit by hand.\n\n")
	b.WriteString(strings.Join(statements, "\n\n"))
	if len(constraints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(constraints, "\n\n"))
	}
	b.WriteString("\n")

	return &Bundle{
		Target: TargetSQL,
		Artifacts: []Artifact{
			{Path: "schema.sql", Content: []byte(b.String())},
		},
	}, nil
}

// createTable renders one CREATE TABLE statement with an inline primary
// key. A generalization child declares its own pk column; the shared-pk
// foreign key to the parent is added with the other constraints.
func createTable(doc *document.Document, entity document.Entity) string {
	table := relsem.TableName(entity.Name)
	pk := primaryKey(doc, entity)

	var parts []string
	parts = append(parts, fmt.Sprintf("    %s %s NOT NULL PRIMARY KEY", column(pk.Name), sqlType(pk.Type)))
	for _, attr := range entity.Attributes {
		if attr.PK {
			continue
		}
		def := fmt.Sprintf("    %s %s", column(attr.Name), sqlType(attr.Type))
		if attr.Required {
			def += " NOT NULL"
		}
		parts = append(parts, def)
	}

	// Foreign key columns this table owns.
	for _, ref := range referencesOf(doc, entity) {
		side, junction := relsem.ForeignKeySide(ref.Relation)
		if junction {
			continue
		}
		if !ownsSide(ref, side) {
			continue
		}
		otherPK := primaryKey(doc, ref.Other)
		parts = append(parts, fmt.Sprintf("    %s %s", fkColumn(ref.Name), sqlType(otherPK.Type)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", table, strings.Join(parts, ",\n"))
}

// relationConstraints renders the ALTER TABLE statements (and junction
// table, for many-to-many) of one relation.
func relationConstraints(doc *document.Document, rel document.Relation) []string {
	policy := relsem.CascadePolicy(rel.Type)
	if !policy.EmitsSchema {
		return nil
	}
	source, ok := doc.Entity(rel.SourceID)
	if !ok {
		return nil
	}
	target, ok := doc.Entity(rel.TargetID)
	if !ok {
		return nil
	}

	if rel.Type == document.Generalization {
		// Joined-table inheritance: the child's primary key is also the
		// foreign key to the parent's primary key.
		childTable := relsem.TableName(source.Name)
		parentTable := relsem.TableName(target.Name)
		childPK := column(primaryKey(doc, source).Name)
		parentPK := column(primaryKey(doc, target).Name)
		return []string{fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE;",
			childTable, childTable, parentTable, childPK, parentTable, parentPK,
		)}
	}

	names := relsem.ResolveNames(rel.Type, source, target, rel.SourceCard, rel.TargetCard)
	if names.FieldName == "" {
		return nil
	}

	side, junction := relsem.ForeignKeySide(rel)
	if junction {
		return []string{junctionTable(doc, source, target)}
	}

	holder, other := target, source
	fieldOnHolder := names.InverseName
	if side == document.SourceSide {
		holder, other = source, target
		fieldOnHolder = names.FieldName
	}
	holderTable := relsem.TableName(holder.Name)
	otherTable := relsem.TableName(other.Name)
	otherPK := column(primaryKey(doc, other).Name)

	clause := fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s)",
		holderTable, holderTable, fkColumn(fieldOnHolder), fkColumn(fieldOnHolder), otherTable, otherPK,
	)
	if policy.OnDelete != relsem.ActionNone {
		clause += " ON DELETE " + string(policy.OnDelete)
	}
	return []string{clause + ";"}
}

// junctionTable renders the join table of a many-to-many association.
// Junction rows die with either side.
func junctionTable(doc *document.Document, a, b document.Entity) string {
	tableA := relsem.TableName(a.Name)
	tableB := relsem.TableName(b.Name)
	// Sorted for a stable name regardless of relation direction.
	if tableA > tableB {
		tableA, tableB = tableB, tableA
		a, b = b, a
	}
	junction := tableA + "_" + tableB
	pkA := primaryKey(doc, a)
	pkB := primaryKey(doc, b)
	colA := relsem.Snake(relsem.Camel(relsem.Sanitize(a.Name))) + "_" + column(pkA.Name)
	colB := relsem.Snake(relsem.Camel(relsem.Sanitize(b.Name))) + "_" + column(pkB.Name)

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n"+
			"    %s %s NOT NULL REFERENCES %s (%s) ON DELETE CASCADE,\n"+
			"    %s %s NOT NULL REFERENCES %s (%s) ON DELETE CASCADE,\n"+
			"    PRIMARY KEY (%s, %s)\n"+
			");",
		junction,
		colA, sqlType(pkA.Type), tableA, column(pkA.Name),
		colB, sqlType(pkB.Type), tableB, column(pkB.Name),
		colA, colB,
	)
}

// ownsSide reports whether this reference's entity is the FK holder.
func ownsSide(ref reference, side document.Side) bool {
	if ref.OnSource {
		return side == document.SourceSide
	}
	return side == document.TargetSide
}

func column(name string) string {
	return relsem.Snake(relsem.Camel(relsem.Sanitize(name)))
}

func fkColumn(fieldName string) string {
	return relsem.Snake(fieldName) + "_id"
}
