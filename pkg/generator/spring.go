package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// javaType maps an attribute primitive onto its Java boxed type.
func javaType(p document.Primitive) string {
	switch p {
	case document.TypeString, document.TypeEmail, document.TypePassword:
		return "String"
	case document.TypeInt:
		return "Integer"
	case document.TypeLong:
		return "Long"
	case document.TypeFloat:
		return "Float"
	case document.TypeDouble:
		return "Double"
	case document.TypeBoolean:
		return "Boolean"
	case document.TypeDate:
		return "LocalDate"
	case document.TypeDateTime:
		return "LocalDateTime"
	case document.TypeUUID:
		return "UUID"
	}
	return "String"
}

// generateSpring renders the backend service bundle: a JPA entity, a
// repository and a REST controller per diagram entity. Relationship
// annotations (mappedBy, cascade, orphanRemoval, join columns) come from
// the shared resolver and policy table, so they always agree with the SQL
// and client outputs.
func generateSpring(doc *document.Document, opts Options) (*Bundle, error) {
	pkgPath := strings.ReplaceAll(opts.BasePackage, ".", "/")
	bundle := &Bundle{Target: TargetSpring}

	for _, entity := range doc.Entities() {
		class := className(entity)
		bundle.Artifacts = append(bundle.Artifacts,
			Artifact{
				Path:    fmt.Sprintf("src/main/java/%s/model/%s.java", pkgPath, class),
				Content: []byte(springModel(doc, entity, opts)),
			},
			Artifact{
				Path:    fmt.Sprintf("src/main/java/%s/repository/%sRepository.java", pkgPath, class),
				Content: []byte(springRepository(doc, entity, opts)),
			},
			Artifact{
				Path:    fmt.Sprintf("src/main/java/%s/controller/%sController.java", pkgPath, class),
				Content: []byte(springController(doc, entity, opts)),
			},
		)
	}
	bundle.Artifacts = append(bundle.Artifacts, Artifact{
		Path:    "pom.xml",
		Content: []byte(springPom(opts)),
	})
	return bundle, nil
}

// springPom renders a minimal build file so the generated sources compile
// against Spring Boot and the PostgreSQL driver out of the box.
func springPom(opts Options) string {
	groupID := opts.BasePackage
	if i := strings.LastIndex(groupID, "."); i > 0 {
		groupID = groupID[:i]
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
    <modelVersion>4.0.0</modelVersion>
    <parent>
        <groupId>org.springframework.boot</groupId>
        <artifactId>spring-boot-starter-parent</artifactId>
        <version>3.2.0</version>
    </parent>
`)
	fmt.Fprintf(&b, "    <groupId>%s</groupId>\n", groupID)
	fmt.Fprintf(&b, "    <artifactId>%s</artifactId>\n", opts.AppName)
	b.WriteString(`    <version>0.0.1-SNAPSHOT</version>
    <properties>
        <java.version>17</java.version>
    </properties>
    <dependencies>
        <dependency>
            <groupId>org.springframework.boot</groupId>
            <artifactId>spring-boot-starter-web</artifactId>
        </dependency>
        <dependency>
            <groupId>org.springframework.boot</groupId>
            <artifactId>spring-boot-starter-data-jpa</artifactId>
        </dependency>
        <dependency>
            <groupId>org.postgresql</groupId>
            <artifactId>postgresql</artifactId>
            <scope>runtime</scope>
        </dependency>
    </dependencies>
</project>
`)
	return b.String()
}

func springModel(doc *document.Document, entity document.Entity, opts Options) string {
	class := className(entity)
	parent, hasParent := parentOf(doc, entity.ID)
	refs := referencesOf(doc, entity)

	imports := map[string]bool{"jakarta.persistence.*": true}
	var b strings.Builder

	fmt.Fprintf(&b, "@Entity\n")
	fmt.Fprintf(&b, "@Table(name = \"%s\")\n", relsem.TableName(entity.Name))
	if isGeneralizationParent(doc, entity.ID) && !hasParent {
		b.WriteString("@Inheritance(strategy = InheritanceType.JOINED)\n")
	}
	if hasParent {
		b.WriteString("@PrimaryKeyJoinColumn\n")
		fmt.Fprintf(&b, "public class %s extends %s {\n", class, className(parent))
	} else {
		fmt.Fprintf(&b, "public class %s {\n", class)
	}

	for _, attr := range entity.Attributes {
		// A generalization child inherits its identity from the parent row.
		if attr.PK && hasParent {
			continue
		}
		fieldType := javaType(attr.Type)
		switch fieldType {
		case "LocalDate", "LocalDateTime":
			imports["java.time."+fieldType] = true
		case "UUID":
			imports["java.util.UUID"] = true
		}
		field := relsem.Camel(relsem.Sanitize(attr.Name))
		b.WriteString("\n")
		if attr.PK {
			b.WriteString("    @Id\n")
			b.WriteString("    @GeneratedValue(strategy = GenerationType.IDENTITY)\n")
		} else if attr.Required {
			b.WriteString("    @Column(nullable = false)\n")
		}
		fmt.Fprintf(&b, "    private %s %s;\n", fieldType, field)
		if attr.PK {
			// Identity accessors; the controller's update sets the id from
			// the path. A generalization child inherits them with the field.
			accessor := relsem.Pascal(field)
			fmt.Fprintf(&b, "\n    public %s get%s() {\n        return %s;\n    }\n", fieldType, accessor, field)
			fmt.Fprintf(&b, "\n    public void set%s(%s %s) {\n        this.%s = %s;\n    }\n", accessor, fieldType, field, field, field)
		}
	}

	for _, ref := range refs {
		if ref.Many {
			imports["java.util.List"] = true
		}
		b.WriteString("\n")
		b.WriteString(springRelationField(ref))
	}

	b.WriteString("}\n")

	var header strings.Builder
	fmt.Fprintf(&header, "package %s.model;\n\n", opts.BasePackage)
	for _, imp := range sortedKeys(imports) {
		fmt.Fprintf(&header, "import %s;\n", imp)
	}
	header.WriteString("\n")
	return header.String() + b.String()
}

// springRelationField renders one relationship field with the annotations
// the cascade policy dictates.
func springRelationField(ref reference) string {
	policy := relsem.CascadePolicy(ref.Relation.Type)
	side, junction := relsem.ForeignKeySide(ref.Relation)
	otherClass := className(ref.Other)
	field := ref.Name

	var b strings.Builder
	switch {
	case junction:
		if ref.OnSource {
			fmt.Fprintf(&b, "    @ManyToMany\n")
			fmt.Fprintf(&b, "    @JoinTable(name = \"%s\")\n", junctionName(ref))
		} else {
			fmt.Fprintf(&b, "    @ManyToMany(mappedBy = \"%s\")\n", ref.InverseName)
		}
		fmt.Fprintf(&b, "    private List<%s> %s;\n", otherClass, field)

	case ref.Many:
		cascade := ""
		if policy.OrphanRemoval {
			cascade = ", cascade = CascadeType.ALL, orphanRemoval = true"
		} else if policy.LimitedCascade {
			cascade = ", cascade = {CascadeType.PERSIST, CascadeType.MERGE}"
		}
		fmt.Fprintf(&b, "    @OneToMany(mappedBy = \"%s\"%s)\n", ref.InverseName, cascade)
		fmt.Fprintf(&b, "    private List<%s> %s;\n", otherClass, field)

	case oneToOne(ref.Relation):
		if ownsSide(ref, side) {
			fmt.Fprintf(&b, "    @OneToOne\n")
			fmt.Fprintf(&b, "    @JoinColumn(name = \"%s\")\n", fkColumn(field))
		} else {
			fmt.Fprintf(&b, "    @OneToOne(mappedBy = \"%s\")\n", ref.InverseName)
		}
		fmt.Fprintf(&b, "    private %s %s;\n", otherClass, field)

	default:
		fmt.Fprintf(&b, "    @ManyToOne\n")
		fmt.Fprintf(&b, "    @JoinColumn(name = \"%s\")\n", fkColumn(field))
		fmt.Fprintf(&b, "    private %s %s;\n", otherClass, field)
	}
	return b.String()
}

// oneToOne reports whether an association is single-valued on both ends.
func oneToOne(rel document.Relation) bool {
	return rel.Type == document.Association &&
		rel.SourceCard == document.One && rel.TargetCard == document.One
}

// junctionName rebuilds the sorted join-table name for a many-to-many
// reference, matching the SQL target.
func junctionName(ref reference) string {
	tableA := relsem.TableName(ref.Self.Name)
	tableB := relsem.TableName(ref.Other.Name)
	if tableA > tableB {
		tableA, tableB = tableB, tableA
	}
	return tableA + "_" + tableB
}

func springRepository(doc *document.Document, entity document.Entity, opts Options) string {
	class := className(entity)
	pk := primaryKey(doc, entity)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.repository;\n\n", opts.BasePackage)
	fmt.Fprintf(&b, "import %s.model.%s;\n", opts.BasePackage, class)
	b.WriteString("import org.springframework.data.jpa.repository.JpaRepository;\n")
	b.WriteString("import org.springframework.stereotype.Repository;\n")
	if javaType(pk.Type) == "UUID" {
		b.WriteString("import java.util.UUID;\n")
	}
	b.WriteString("\n@Repository\n")
	fmt.Fprintf(&b, "public interface %sRepository extends JpaRepository<%s, %s> {\n}\n",
		class, class, javaType(pk.Type))
	return b.String()
}

func springController(doc *document.Document, entity document.Entity, opts Options) string {
	class := className(entity)
	pk := primaryKey(doc, entity)
	pkType := javaType(pk.Type)
	varName := relsem.Camel(class)
	path := relsem.Pluralize(relsem.Camel(relsem.Sanitize(entity.Name)))

	var b strings.Builder
	fmt.Fprintf(&b, "package %s.controller;\n\n", opts.BasePackage)
	fmt.Fprintf(&b, "import %s.model.%s;\n", opts.BasePackage, class)
	fmt.Fprintf(&b, "import %s.repository.%sRepository;\n", opts.BasePackage, class)
	b.WriteString("import org.springframework.http.ResponseEntity;\n")
	b.WriteString("import org.springframework.web.bind.annotation.*;\n")
	b.WriteString("import java.util.List;\n")
	if pkType == "UUID" {
		b.WriteString("import java.util.UUID;\n")
	}
	b.WriteString("\n@RestController\n")
	fmt.Fprintf(&b, "@RequestMapping(\"/api/%s\")\n", path)
	fmt.Fprintf(&b, "public class %sController {\n\n", class)
	fmt.Fprintf(&b, "    private final %sRepository repository;\n\n", class)
	fmt.Fprintf(&b, "    public %sController(%sRepository repository) {\n", class, class)
	b.WriteString("        this.repository = repository;\n    }\n\n")
	fmt.Fprintf(&b, "    @GetMapping\n    public List<%s> findAll() {\n        return repository.findAll();\n    }\n\n", class)
	fmt.Fprintf(&b, "    @GetMapping(\"/{id}\")\n    public ResponseEntity<%s> findById(@PathVariable %s id) {\n", class, pkType)
	b.WriteString("        return repository.findById(id).map(ResponseEntity::ok).orElse(ResponseEntity.notFound().build());\n    }\n\n")
	fmt.Fprintf(&b, "    @PostMapping\n    public %s create(@RequestBody %s %s) {\n        return repository.save(%s);\n    }\n\n", class, class, varName, varName)
	fmt.Fprintf(&b, "    @PutMapping(\"/{id}\")\n    public ResponseEntity<%s> update(@PathVariable %s id, @RequestBody %s %s) {\n", class, pkType, class, varName)
	b.WriteString("        if (!repository.existsById(id)) {\n            return ResponseEntity.notFound().build();\n        }\n")
	fmt.Fprintf(&b, "        %s.set%s(id);\n", varName, relsem.Pascal(relsem.Camel(relsem.Sanitize(pk.Name))))
	fmt.Fprintf(&b, "        return ResponseEntity.ok(repository.save(%s));\n    }\n\n", varName)
	fmt.Fprintf(&b, "    @DeleteMapping(\"/{id}\")\n    public ResponseEntity<Void> delete(@PathVariable %s id) {\n", pkType)
	b.WriteString("        repository.deleteById(id);\n        return ResponseEntity.noContent().build();\n    }\n}\n")
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
