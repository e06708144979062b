package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/importer"
)

var (
	importSketch  string
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge an AI sketch into the diagram",
	Long: `Merge a sketch file into the diagram document.

A sketch is the JSON produced by an AI extraction backend: entities with
attributes plus relations referenced by entity name. Existing entities are
matched by sanitized name and reused; with --replace the document is
cleared first. The merge is atomic and lands as a single undo step.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importSketch, "sketch", "s", "", "Sketch JSON file to merge (required)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Clear the document before merging")
	importCmd.MarkFlagRequired("sketch")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(documentFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(importSketch)
	if err != nil {
		return fmt.Errorf("failed to read sketch %s: %w", importSketch, err)
	}
	sketch, err := importer.ParseSketch(data)
	if err != nil {
		return err
	}

	report, err := importer.Merge(ws.Doc, sketch, importer.Options{Replace: importReplace}, newLogger())
	if err != nil {
		return err
	}
	if err := ws.save(documentFile); err != nil {
		return err
	}

	output.Success("Merged %s into %s", importSketch, documentFile)
	output.Bullet("%d entit%s created, %d reused", report.EntitiesCreated, plural(report.EntitiesCreated, "y", "ies"), report.EntitiesReused)
	output.Bullet("%d relation(s) created", report.RelationsCreated)
	if report.RelationsSkipped > 0 {
		output.Warning("%d relation(s) skipped (unresolved endpoints)", report.RelationsSkipped)
	}
	return nil
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
