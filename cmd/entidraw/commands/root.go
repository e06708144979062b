package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	documentFile string
	configFile   string
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "entidraw",
	Short: "entidraw - collaborative ER/UML diagram editor and code generator",
	Long: `entidraw edits entity-relationship diagrams and turns them into code.

A diagram is a JSON document of entities and typed UML relations
(association, aggregation, composition, generalization, realization,
dependency). The generate command renders the same diagram into a Spring
backend, Flutter client models, a PostgreSQL schema and a Postman
collection, with field names, foreign keys and cascade rules resolved
once and shared by every target.`,
	Version: "0.4.1",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&documentFile, "file", "f", "diagram.json", "Diagram document file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default .entidraw.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
