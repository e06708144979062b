package commands

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/entidraw/entidraw/pkg/collab"
	"github.com/entidraw/entidraw/pkg/config"
	"github.com/entidraw/entidraw/pkg/document"
)

// workspace is a document loaded from disk together with the session it
// is edited through and the metadata its snapshot carried.
type workspace struct {
	Doc     *document.Document
	Session *collab.Session
	Name    string
	Color   document.Color
}

// newLogger builds the CLI logger: no-op unless --verbose.
func newLogger() *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// loadWorkspace reads the document file into a fresh single-user room.
func loadWorkspace(path string) (*workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	room := collab.NewRoom(newLogger())
	session := room.Join("local", "local")
	doc := document.New(session)
	snap, err := document.Import(doc, data)
	if err != nil {
		return nil, err
	}
	return &workspace{
		Doc:     doc,
		Session: session,
		Name:    snap.Name,
		Color:   snap.RoomColor,
	}, nil
}

// save writes the workspace's document back to path.
func (w *workspace) save(path string) error {
	data, err := document.Export(w.Doc, w.Name, w.Color)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the generator configuration for the current run.
func loadConfig() (config.Config, error) {
	path := configFile
	if path == "" {
		path = config.DefaultFile
	}
	return config.Load(path)
}
