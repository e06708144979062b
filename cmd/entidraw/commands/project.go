package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/project"
)

var projectDBURL string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage saved projects in PostgreSQL",
	Long: `Save, load, list and delete diagram snapshots in a PostgreSQL
database. The database URL comes from --db or ENTIDRAW_DB_URL.`,
}

var projectSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current document under a project name",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectSave,
}

var projectLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Load a saved project into the document file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectLoad,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectCmd.PersistentFlags().StringVar(&projectDBURL, "db", "", "PostgreSQL connection URL")
	projectCmd.AddCommand(projectSaveCmd, projectLoadCmd, projectListCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func openProjectStore(ctx context.Context) (*project.Store, error) {
	dbURL := projectDBURL
	if dbURL == "" {
		dbURL = os.Getenv("ENTIDRAW_DB_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("no database configured: pass --db or set ENTIDRAW_DB_URL")
	}
	store, err := project.Connect(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func runProjectSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openProjectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := os.ReadFile(documentFile)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", documentFile, err)
	}
	// Validate before persisting so corrupt files never reach the store.
	if _, err := document.ParseSnapshot(data); err != nil {
		return err
	}
	if err := store.Save(ctx, args[0], data); err != nil {
		return err
	}
	output.Success("Saved %s as project %q", documentFile, args[0])
	return nil
}

func runProjectLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openProjectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Load(ctx, args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(documentFile, rec.Document, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", documentFile, err)
	}
	output.Success("Loaded project %q into %s", args[0], documentFile)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openProjectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		output.Muted("no saved projects")
		return nil
	}
	output.Section("Projects")
	for _, rec := range records {
		output.Bullet("%s (updated %s)", rec.Name, rec.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openProjectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, args[0]); err != nil {
		return err
	}
	output.Success("Deleted project %q", args[0])
	return nil
}
