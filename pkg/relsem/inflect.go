// Package relsem is the relationship-semantics resolver: the single
// source of truth for field naming, foreign-key placement and cascade
// policy that every generator target consumes. Each rule lives here
// exactly once so the backend, client, schema and API-collection outputs
// can never drift apart.
package relsem

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// rules is the pluralization ruleset. The irregular table covers the
// domain nouns diagrams actually contain (including the Spanish ones the
// importer produces); everything else falls through to the ruleset's
// append-s style suffix rules. The point is cross-target consistency, not
// linguistic completeness.
var rules = ruleset()

func ruleset() *inflect.Ruleset {
	r := inflect.NewDefaultRuleset()
	for s, p := range map[string]string{
		"persona":    "personas",
		"empleado":   "empleados",
		"casa":       "casas",
		"habitacion": "habitaciones",
		"direccion":  "direcciones",
		"usuario":    "usuarios",
		"categoria":  "categorias",
	} {
		r.AddIrregular(s, p)
	}
	return r
}

// Camel lowercases the first rune and leaves the remainder unchanged.
func Camel(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Pascal uppercases the first rune and leaves the remainder unchanged.
func Pascal(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Pluralize returns the plural form of a (camelCase) identifier.
func Pluralize(name string) string {
	if name == "" {
		return ""
	}
	return rules.Pluralize(name)
}

// Snake converts CamelCase or camelCase to snake_case. SQL identifiers
// use it.
func Snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TableName derives the SQL table name for an entity: snake_case plural
// of the sanitized display name.
func TableName(entityName string) string {
	return Snake(Pluralize(Camel(Sanitize(entityName))))
}

// Sanitize reduces a free-form name to a safe identifier: letters, digits
// and underscores, never starting with a digit. Document-wide uniqueness
// is not enforced here; consumers that need it check separately.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}
