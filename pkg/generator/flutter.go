package generator

import (
	"fmt"
	"strings"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// dartType maps an attribute primitive onto its Dart type.
func dartType(p document.Primitive) string {
	switch p {
	case document.TypeInt, document.TypeLong:
		return "int"
	case document.TypeFloat, document.TypeDouble:
		return "double"
	case document.TypeBoolean:
		return "bool"
	case document.TypeDate, document.TypeDateTime:
		return "DateTime"
	}
	return "String"
}

// generateFlutter renders the mobile client bundle: one Dart model per
// entity with JSON codecs. Dart models have no joined-table inheritance,
// so generalization parents' attributes are flattened into each child.
func generateFlutter(doc *document.Document, opts Options) (*Bundle, error) {
	bundle := &Bundle{Target: TargetFlutter}
	for _, entity := range doc.Entities() {
		bundle.Artifacts = append(bundle.Artifacts, Artifact{
			Path:    fmt.Sprintf("lib/models/%s.dart", relsem.Snake(relsem.Camel(relsem.Sanitize(entity.Name)))),
			Content: []byte(dartModel(doc, entity)),
		})
	}
	return bundle, nil
}

// dartField is one rendered model field.
type dartField struct {
	Type     string
	Name     string
	JSONKey  string
	Nullable bool
	List     bool
	Model    bool // references another generated model
}

func dartModel(doc *document.Document, entity document.Entity) string {
	class := className(entity)

	var fields []dartField
	attrs := append(inheritedAttributes(doc, entity), entity.Attributes...)
	seen := make(map[string]bool)
	for _, attr := range attrs {
		name := relsem.Camel(relsem.Sanitize(attr.Name))
		if seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, dartField{
			Type:     dartType(attr.Type),
			Name:     name,
			JSONKey:  name,
			Nullable: !attr.Required && !attr.PK,
		})
	}
	var imports []string
	for _, ref := range referencesOf(doc, entity) {
		otherClass := className(ref.Other)
		otherFile := relsem.Snake(relsem.Camel(relsem.Sanitize(ref.Other.Name)))
		imports = append(imports, fmt.Sprintf("import '%s.dart';", otherFile))
		fields = append(fields, dartField{
			Type:     otherClass,
			Name:     ref.Name,
			JSONKey:  ref.Name,
			Nullable: !ref.Many,
			List:     ref.Many,
			Model:    true,
		})
	}

	var b strings.Builder
	for _, imp := range dedupe(imports) {
		b.WriteString(imp + "\n")
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "class %s {\n", class)
	for _, f := range fields {
		fmt.Fprintf(&b, "  final %s %s;\n", declType(f), f.Name)
	}

	// Constructor.
	fmt.Fprintf(&b, "\n  const %s({\n", class)
	for _, f := range fields {
		if f.Nullable || f.List {
			fmt.Fprintf(&b, "    this.%s,\n", f.Name)
		} else {
			fmt.Fprintf(&b, "    required this.%s,\n", f.Name)
		}
	}
	b.WriteString("  });\n")

	// fromJson.
	fmt.Fprintf(&b, "\n  factory %s.fromJson(Map<String, dynamic> json) {\n", class)
	fmt.Fprintf(&b, "    return %s(\n", class)
	for _, f := range fields {
		fmt.Fprintf(&b, "      %s: %s,\n", f.Name, fromJSONExpr(f))
	}
	b.WriteString("    );\n  }\n")

	// toJson.
	b.WriteString("\n  Map<String, dynamic> toJson() {\n    return {\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "      '%s': %s,\n", f.JSONKey, toJSONExpr(f))
	}
	b.WriteString("    };\n  }\n}\n")
	return b.String()
}

func declType(f dartField) string {
	if f.List {
		return fmt.Sprintf("List<%s>?", f.Type)
	}
	if f.Nullable {
		return f.Type + "?"
	}
	return f.Type
}

func fromJSONExpr(f dartField) string {
	key := fmt.Sprintf("json['%s']", f.JSONKey)
	switch {
	case f.List:
		return fmt.Sprintf("(%s as List<dynamic>?)?.map((e) => %s.fromJson(e as Map<String, dynamic>)).toList()", key, f.Type)
	case f.Model:
		return fmt.Sprintf("%s == null ? null : %s.fromJson(%s as Map<String, dynamic>)", key, f.Type, key)
	case f.Type == "DateTime":
		if f.Nullable {
			return fmt.Sprintf("%s == null ? null : DateTime.parse(%s as String)", key, key)
		}
		return fmt.Sprintf("DateTime.parse(%s as String)", key)
	default:
		if f.Nullable {
			return fmt.Sprintf("%s as %s?", key, f.Type)
		}
		return fmt.Sprintf("%s as %s", key, f.Type)
	}
}

func toJSONExpr(f dartField) string {
	switch {
	case f.List:
		return fmt.Sprintf("%s?.map((e) => e.toJson()).toList()", f.Name)
	case f.Model:
		return fmt.Sprintf("%s?.toJson()", f.Name)
	case f.Type == "DateTime":
		if f.Nullable {
			return fmt.Sprintf("%s?.toIso8601String()", f.Name)
		}
		return fmt.Sprintf("%s.toIso8601String()", f.Name)
	default:
		return f.Name
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
