package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the diagram document",
	Long: `Print a summary of the diagram document: its entities and attributes,
its relations with their resolved field names, and the referential
behavior each relation would get in the generated schema.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(documentFile)
	if err != nil {
		return err
	}
	doc := ws.Doc

	output.Section("Document")
	output.KeyValue("Name", "%s", ws.Name)
	output.KeyValue("File", "%s", documentFile)
	output.KeyValue("Entities", "%d", len(doc.Entities()))
	output.KeyValue("Relations", "%d", len(doc.LiveRelations()))

	entities := doc.Entities()
	if len(entities) > 0 {
		output.Section("Entities")
		for _, e := range entities {
			output.Primary("%s", e.Name)
			output.Muted("  table %s", relsem.TableName(e.Name))
			for _, attr := range e.Attributes {
				suffix := ""
				if attr.PK {
					suffix = " (primary key)"
				}
				output.Bullet("%s: %s%s", attr.Name, attr.Type, suffix)
			}
		}
	}

	relations := doc.LiveRelations()
	if len(relations) > 0 {
		output.Section("Relations")
		for _, rel := range relations {
			source, _ := doc.Entity(rel.SourceID)
			target, _ := doc.Entity(rel.TargetID)
			output.Primary("%s %s %s (%s)", source.Name, relationArrow(rel), target.Name, rel.Type)

			names := relsem.ResolveNames(rel.Type, source, target, rel.SourceCard, rel.TargetCard)
			if names.FieldName != "" {
				output.Bullet("%s.%s", source.Name, names.FieldName)
			}
			if names.InverseName != "" {
				output.Bullet("%s.%s", target.Name, names.InverseName)
			}

			policy := relsem.CascadePolicy(rel.Type)
			if policy.EmitsSchema {
				output.Muted("  on delete %s", policy.OnDelete)
			} else {
				output.Muted("  no schema impact")
			}
		}
	}
	return nil
}

func relationArrow(rel document.Relation) string {
	return fmt.Sprintf("%s→%s", cardSymbol(rel.SourceCard), cardSymbol(rel.TargetCard))
}

func cardSymbol(c document.Cardinality) string {
	if c == document.Many {
		return "N"
	}
	return "1"
}
