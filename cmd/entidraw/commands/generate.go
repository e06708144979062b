package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/generator"
)

var (
	generateTargets []string
	generateOutDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate code artifacts from the diagram",
	Long: `Generate source artifacts from the diagram document.

Supported targets:
  spring   Spring Boot entities, repositories and REST controllers
  flutter  Flutter/Dart model classes with JSON codecs
  sql      PostgreSQL schema (tables plus foreign key constraints)
  postman  Postman collection covering the generated REST API

Without --target all targets are generated.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVarP(&generateTargets, "target", "t", nil, "Targets to generate (spring, flutter, sql, postman)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "Output directory (default from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := loadWorkspace(documentFile)
	if err != nil {
		return err
	}

	outDir := generateOutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}

	targets, err := resolveTargets(generateTargets, cfg.Targets)
	if err != nil {
		return err
	}

	opts := generator.Options{
		BasePackage: cfg.BasePackage,
		AppName:     cfg.AppName,
	}

	total := 0
	for _, target := range targets {
		bundle, err := generator.Generate(target, ws.Doc, opts)
		if err != nil {
			if errors.Is(err, generator.ErrNoEntities) {
				output.Warning("%s", err)
				return nil
			}
			return fmt.Errorf("failed to generate %s: %w", target, err)
		}
		dir := filepath.Join(outDir, string(target))
		if err := writeBundle(dir, bundle); err != nil {
			return err
		}
		output.Success("%s: %d file(s) written to %s", target, len(bundle.Artifacts), dir)
		total += len(bundle.Artifacts)
	}
	output.Muted("%d file(s) total", total)
	return nil
}

func resolveTargets(requested, configured []string) ([]generator.Target, error) {
	names := requested
	if len(names) == 0 {
		names = configured
	}
	if len(names) == 0 {
		return generator.Targets(), nil
	}
	known := map[generator.Target]bool{}
	for _, t := range generator.Targets() {
		known[t] = true
	}
	out := make([]generator.Target, 0, len(names))
	for _, name := range names {
		t := generator.Target(name)
		if !known[t] {
			return nil, fmt.Errorf("unknown target %q (valid: spring, flutter, sql, postman)", name)
		}
		out = append(out, t)
	}
	return out, nil
}

func writeBundle(dir string, bundle *generator.Bundle) error {
	for _, art := range bundle.Artifacts {
		path := filepath.Join(dir, filepath.FromSlash(art.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, art.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
