package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/collab"
	"github.com/entidraw/entidraw/pkg/document"
)

var newForce bool

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create an empty diagram document",
	Long:  `Create a new diagram document file. The document starts with no layers and is ready for editing or importing.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite an existing document file")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	name := "Untitled diagram"
	if len(args) == 1 {
		name = args[0]
	}

	if _, err := os.Stat(documentFile); err == nil && !newForce {
		return fmt.Errorf("document %s already exists (use --force to overwrite)", documentFile)
	}

	room := collab.NewRoom(newLogger())
	session := room.Join("local", "local")
	doc := document.New(session)

	data, err := document.Export(doc, name, session.Presence().Color)
	if err != nil {
		return err
	}
	if err := os.WriteFile(documentFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", documentFile, err)
	}

	output.Success("Created %s (%s)", documentFile, name)
	return nil
}
