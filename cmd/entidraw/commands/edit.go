package commands

import (
	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the diagram in the interactive editor",
	Long: `Open the diagram document in a terminal editor. Click to select,
drag to move, drag a corner to resize, drag an edge anchor to link two
entities. Press ctrl+s to save and q to quit.`,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(documentFile)
	if err != nil {
		return err
	}
	return tui.RunEditor(ws.Doc, ws.Session, documentFile, ws.Name, ws.Color)
}
