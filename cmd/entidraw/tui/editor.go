package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entidraw/entidraw/pkg/canvas"
	"github.com/entidraw/entidraw/pkg/collab"
	"github.com/entidraw/entidraw/pkg/document"
)

// Canvas units per terminal cell. A default-sized entity spans roughly
// 19 columns by 6 rows at zoom 1.
const (
	cellWidth  = 12.0
	cellHeight = 24.0
)

// EditorModel is the Bubbletea model for the diagram editor.
type EditorModel struct {
	doc     *document.Document
	session *collab.Session
	machine *canvas.Machine

	path  string
	name  string
	color document.Color

	width  int
	height int

	renaming     bool
	renameTarget string
	renameInput  textinput.Model

	dirty  bool
	status string
	err    error
}

// NewEditorModel creates an editor over a loaded document.
func NewEditorModel(doc *document.Document, session *collab.Session, path, name string, color document.Color) EditorModel {
	ti := textinput.New()
	ti.Placeholder = "entity name"
	ti.CharLimit = 64
	ti.Width = 32

	return EditorModel{
		doc:         doc,
		session:     session,
		machine:     canvas.NewMachine(doc, session),
		path:        path,
		name:        name,
		color:       color,
		renameInput: ti,
	}
}

// Init initializes the model
func (m EditorModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// toCanvas converts a terminal cell position to canvas coordinates.
func (m EditorModel) toCanvas(x, y int) canvas.Point {
	cam := m.machine.Camera()
	return canvas.Point{
		X: float64(x)*cellWidth/cam.Zoom + cam.X,
		Y: float64(y-1)*cellHeight/cam.Zoom + cam.Y,
	}
}

// toCell converts canvas coordinates to a terminal cell position. The
// first row is the title bar.
func (m EditorModel) toCell(p canvas.Point) (int, int) {
	cam := m.machine.Camera()
	return int((p.X - cam.X) * cam.Zoom / cellWidth),
		int((p.Y-cam.Y)*cam.Zoom/cellHeight) + 1
}

// Update handles messages
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.renaming {
			return m, nil
		}
		p := m.toCanvas(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionPress:
			switch msg.Button {
			case tea.MouseButtonLeft:
				m.machine.PointerDown(canvas.PointerEvent{Point: p, Button: canvas.ButtonLeft})
				m.dirty = true
			case tea.MouseButtonRight:
				m.machine.PointerDown(canvas.PointerEvent{Point: p, Button: canvas.ButtonRight})
			case tea.MouseButtonWheelUp:
				m.machine.Wheel(0, -cellHeight)
			case tea.MouseButtonWheelDown:
				m.machine.Wheel(0, cellHeight)
			}
		case tea.MouseActionMotion:
			m.machine.PointerMove(p)
			m.session.SetCursor(p.X, p.Y)
		case tea.MouseActionRelease:
			m.machine.PointerUp(p)
		}
		return m, nil

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m EditorModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.renameInput.Value())
		if name != "" {
			m.doc.UpdateEntity(m.renameTarget, document.EntityPatch{Name: &name})
			m.dirty = true
		}
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	case "esc":
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m EditorModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "ctrl+s":
		if err := m.save(); err != nil {
			m.err = err
			m.status = ""
		} else {
			m.dirty = false
			m.err = nil
			m.status = "saved " + m.path
		}
		return m, nil

	case "e":
		m.machine.StartInserting()
		return m, nil

	case "h":
		m.machine.StartPanning()
		return m, nil

	case "1", "2", "3", "4", "5", "6":
		m.machine.SetRelationTool(relationTools[msg.String()])
		return m, nil

	case "r":
		sel := m.session.Selection()
		if len(sel) == 1 {
			if entity, ok := m.doc.Entity(sel[0]); ok {
				m.renaming = true
				m.renameTarget = entity.ID
				m.renameInput.SetValue(entity.Name)
				m.renameInput.Focus()
			}
		}
		return m, nil

	case "+", "=":
		m.machine.ZoomIn()
		return m, nil
	case "-":
		m.machine.ZoomOut()
		return m, nil

	case "backspace":
		m.machine.KeyDown(canvas.KeyEvent{Key: canvas.KeyBackspace})
		m.dirty = true
		return m, nil
	case "esc":
		m.machine.KeyDown(canvas.KeyEvent{Key: canvas.KeyEscape})
		return m, nil
	case "ctrl+z":
		m.machine.KeyDown(canvas.KeyEvent{Key: canvas.KeyZ, Ctrl: true})
		m.dirty = true
		return m, nil
	case "ctrl+y", "ctrl+shift+z":
		m.machine.KeyDown(canvas.KeyEvent{Key: canvas.KeyZ, Ctrl: true, Shift: true})
		m.dirty = true
		return m, nil
	case "ctrl+a":
		m.machine.KeyDown(canvas.KeyEvent{Key: canvas.KeyA, Ctrl: true})
		return m, nil
	}
	return m, nil
}

var relationTools = map[string]document.RelationType{
	"1": document.Association,
	"2": document.Aggregation,
	"3": document.Composition,
	"4": document.Generalization,
	"5": document.Realization,
	"6": document.Dependency,
}

func (m EditorModel) save() error {
	data, err := document.Export(m.doc, m.name, m.color)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", m.path, err)
	}
	return nil
}

// cell is one painted position of the canvas grid.
type cell struct {
	r      rune
	style  lipgloss.Style
	styled bool
}

// View renders the UI
func (m EditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	canvasHeight := m.height - 3
	if canvasHeight < 1 {
		canvasHeight = 1
	}
	grid := make([][]cell, canvasHeight)
	for i := range grid {
		grid[i] = make([]cell, m.width)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	m.paintEdges(grid)
	m.paintEntities(grid)
	m.paintOverlay(grid)

	var b strings.Builder
	b.WriteString(m.titleBar())
	b.WriteString("\n")
	for _, row := range grid[1:] {
		for _, c := range row {
			if c.styled {
				b.WriteString(c.style.Render(string(c.r)))
			} else {
				b.WriteRune(c.r)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.helpBar())

	if m.renaming {
		box := renameBoxStyle.Render("Rename: " + m.renameInput.View())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return b.String()
}

func (m EditorModel) titleBar() string {
	title := titleStyle.Render(m.name)
	marker := ""
	if m.dirty {
		marker = " " + dirtyStyle.Render("●")
	}
	return title + marker + "  " + mutedStyle.Render(m.path)
}

func (m EditorModel) statusBar() string {
	cam := m.machine.Camera()
	parts := []string{
		fmt.Sprintf("mode %s", m.machine.Mode()),
		fmt.Sprintf("zoom %.2g", cam.Zoom),
		fmt.Sprintf("%d entities", len(m.doc.Entities())),
		fmt.Sprintf("%d selected", len(m.session.Selection())),
	}
	line := statusStyle.Render(strings.Join(parts, " │ "))
	if m.err != nil {
		line += " " + dirtyStyle.Render(m.err.Error())
	} else if m.status != "" {
		line += " " + savedStyle.Render(m.status)
	}
	return line
}

func (m EditorModel) helpBar() string {
	return helpStyle.Render(
		FormatKey("e", "insert") + " • " +
			FormatKey("1-6", "relation tool") + " • " +
			FormatKey("r", "rename") + " • " +
			FormatKey("h", "pan") + " • " +
			FormatKey("+/-", "zoom") + " • " +
			FormatKey("ctrl+z", "undo") + " • " +
			FormatKey("ctrl+s", "save") + " • " +
			FormatKey("q", "quit"),
	)
}

// paintEntities draws each entity as a bordered box with its name.
func (m EditorModel) paintEntities(grid [][]cell) {
	for _, e := range m.doc.Entities() {
		bounds := canvas.EntityBounds(e)
		x0, y0 := m.toCell(canvas.Point{X: bounds.X, Y: bounds.Y})
		x1, y1 := m.toCell(canvas.Point{X: bounds.X + bounds.Width, Y: bounds.Y + bounds.Height})
		m.paintBox(grid, x0, y0, x1, y1, entityStyle)
		m.paintText(grid, x0+2, y0+1, x1-1, e.Name, entityStyle)
	}
}

// paintEdges draws each live relation as a line between entity centers.
func (m EditorModel) paintEdges(grid [][]cell) {
	for _, rel := range m.doc.LiveRelations() {
		source, ok := m.doc.Entity(rel.SourceID)
		if !ok {
			continue
		}
		target, ok := m.doc.Entity(rel.TargetID)
		if !ok {
			continue
		}
		from := canvas.EntityBounds(source).Center()
		to := canvas.EntityBounds(target).Center()
		m.paintLine(grid, from, to, '·', edgeStyle)
	}
}

// paintOverlay layers selection highlights, the selection net, the link
// preview and remote presence over the document render.
func (m EditorModel) paintOverlay(grid [][]cell) {
	overlay := canvas.BuildOverlay(m.doc, m.machine.State(), m.session.Presence(), m.session.Others())

	for _, h := range overlay.Selection {
		m.paintHighlight(grid, h)
	}
	for _, h := range overlay.RemoteSelection {
		m.paintHighlight(grid, h)
	}
	if overlay.Net != nil {
		x0, y0 := m.toCell(canvas.Point{X: overlay.Net.X, Y: overlay.Net.Y})
		x1, y1 := m.toCell(canvas.Point{X: overlay.Net.X + overlay.Net.Width, Y: overlay.Net.Y + overlay.Net.Height})
		m.paintBox(grid, x0, y0, x1, y1, netStyle)
	}
	if overlay.LinkPreview != nil {
		m.paintLine(grid, overlay.LinkPreview.From, overlay.LinkPreview.To, '*', linkStyle)
	}
	for _, cur := range overlay.RemoteCursors {
		x, y := m.toCell(cur.Point)
		m.paintCell(grid, x, y, '▲', accentStyle(cur.Color))
		m.paintText(grid, x+1, y, x+1+len(cur.Name), cur.Name, accentStyle(cur.Color))
	}
}

func (m EditorModel) paintHighlight(grid [][]cell, h canvas.Highlight) {
	x0, y0 := m.toCell(canvas.Point{X: h.Bounds.X, Y: h.Bounds.Y})
	x1, y1 := m.toCell(canvas.Point{X: h.Bounds.X + h.Bounds.Width, Y: h.Bounds.Y + h.Bounds.Height})
	m.paintBox(grid, x0, y0, x1, y1, accentStyle(h.Color))
}

func (m EditorModel) paintBox(grid [][]cell, x0, y0, x1, y1 int, style lipgloss.Style) {
	for x := x0; x <= x1; x++ {
		m.paintCell(grid, x, y0, '─', style)
		m.paintCell(grid, x, y1, '─', style)
	}
	for y := y0; y <= y1; y++ {
		m.paintCell(grid, x0, y, '│', style)
		m.paintCell(grid, x1, y, '│', style)
	}
	m.paintCell(grid, x0, y0, '┌', style)
	m.paintCell(grid, x1, y0, '┐', style)
	m.paintCell(grid, x0, y1, '└', style)
	m.paintCell(grid, x1, y1, '┘', style)
}

func (m EditorModel) paintText(grid [][]cell, x0, y, x1 int, text string, style lipgloss.Style) {
	x := x0
	for _, r := range text {
		if x >= x1 {
			break
		}
		m.paintCell(grid, x, y, r, style)
		x++
	}
}

// paintLine walks the segment between two canvas points cell by cell.
func (m EditorModel) paintLine(grid [][]cell, from, to canvas.Point, r rune, style lipgloss.Style) {
	x0, y0 := m.toCell(from)
	x1, y1 := m.toCell(to)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		m.paintCell(grid, x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (m EditorModel) paintCell(grid [][]cell, x, y int, r rune, style lipgloss.Style) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = cell{r: r, style: style, styled: true}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RunEditor starts the interactive diagram editor.
func RunEditor(doc *document.Document, session *collab.Session, path, name string, color document.Color) error {
	p := tea.NewProgram(
		NewEditorModel(doc, session, path, name, color),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
