package canvas

// PointerButton distinguishes the primary button from the context-menu
// button.
type PointerButton int

const (
	ButtonLeft PointerButton = iota
	ButtonRight
)

// PointerEvent is a raw pointer-down event in canvas coordinates.
type PointerEvent struct {
	Point  Point
	Button PointerButton
}

// Key names the keyboard inputs the machine reacts to.
type Key string

const (
	KeyBackspace Key = "Backspace"
	KeyEscape    Key = "Escape"
	KeyZ         Key = "z"
	KeyA         Key = "a"
)

// KeyEvent is a raw keyboard event. EditingText is true while focus sits
// in a text input, which suppresses canvas shortcuts like Backspace.
type KeyEvent struct {
	Key         Key
	Ctrl        bool
	Meta        bool
	Shift       bool
	EditingText bool
}

// chord reports whether the platform shortcut modifier is held.
func (e KeyEvent) chord() bool {
	return e.Ctrl || e.Meta
}
