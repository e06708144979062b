package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/entidraw/entidraw/cmd/entidraw/output"
	"github.com/entidraw/entidraw/pkg/generator"
)

const watchDebounce = 250 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate artifacts whenever the diagram changes",
	Long: `Watch the diagram document and rerun generation on every save.

Editor saves often arrive as bursts of filesystem events, so changes are
debounced before regenerating. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&generateTargets, "target", "t", nil, "Targets to generate (spring, flutter, sql, postman)")
	watchCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "Output directory (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a watch placed on the inode itself.
	dir := filepath.Dir(documentFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(documentFile)
	if err != nil {
		return err
	}

	output.Info("Watching %s", documentFile)
	regenerate()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			output.Muted("stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || path != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debugw("document changed", "event", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			regenerate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", "error", err)
		}
	}
}

func regenerate() {
	if err := generateOnce(); err != nil {
		output.Error("%s", err)
	}
}

func generateOnce() error {
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
	opts := generator.Options{BasePackage: cfg.BasePackage, AppName: cfg.AppName}
	for _, target := range targets {
		bundle, err := generator.Generate(target, ws.Doc, opts)
		if err != nil {
			if errors.Is(err, generator.ErrNoEntities) {
				output.Warning("%s", err)
				return nil
			}
			return fmt.Errorf("failed to generate %s: %w", target, err)
		}
		if err := writeBundle(filepath.Join(outDir, string(target)), bundle); err != nil {
			return err
		}
	}
	output.Success("Regenerated %d target(s) at %s", len(targets), time.Now().Format("15:04:05"))
	return nil
}
