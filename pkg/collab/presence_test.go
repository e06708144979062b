package collab

import (
	"reflect"
	"testing"
)

func TestJoin_AssignsPaletteColors(t *testing.T) {
	room := NewRoom(nil)
	a := room.Join("u1", "Alice")
	b := room.Join("u2", "Bob")

	if a.Presence().Color == b.Presence().Color {
		t.Error("consecutive users share an accent color")
	}
	if a.Presence().Color != presencePalette[0] {
		t.Errorf("first user color = %+v", a.Presence().Color)
	}

	// Rejoin returns the same session, not a new color.
	again := room.Join("u1", "Alice")
	if again != a {
		t.Error("rejoin created a new session")
	}
}

func TestSelectionAndCursor(t *testing.T) {
	room := NewRoom(nil)
	alice := room.Join("u1", "Alice")
	bob := room.Join("u2", "Bob")

	alice.SetSelection([]string{"l1", "l2"})
	alice.SetCursor(12, 34)

	others := bob.Others()
	if len(others) != 1 {
		t.Fatalf("others count = %d, want 1", len(others))
	}
	got := others[0]
	if got.UserID != "u1" || got.Name != "Alice" {
		t.Errorf("presence identity = %+v", got)
	}
	if !reflect.DeepEqual(got.Selection, []string{"l1", "l2"}) {
		t.Errorf("selection = %v", got.Selection)
	}
	if got.Cursor == nil || got.Cursor.X != 12 || got.Cursor.Y != 34 {
		t.Errorf("cursor = %+v", got.Cursor)
	}

	alice.ClearCursor()
	others = bob.Others()
	if others[0].Cursor != nil {
		t.Error("cursor not cleared")
	}
}

func TestOthers_ExcludesSelfAndLeft(t *testing.T) {
	room := NewRoom(nil)
	alice := room.Join("u1", "Alice")
	room.Join("u2", "Bob")

	for _, p := range alice.Others() {
		if p.UserID == "u1" {
			t.Error("Others includes self")
		}
	}

	room.Leave("u2")
	if got := len(alice.Others()); got != 0 {
		t.Errorf("others after leave = %d, want 0", got)
	}
	if got := len(room.Presences()); got != 1 {
		t.Errorf("presences after leave = %d, want 1", got)
	}
}

func TestPresence_ReturnsClone(t *testing.T) {
	room := NewRoom(nil)
	alice := room.Join("u1", "Alice")
	alice.SetSelection([]string{"l1"})

	p := alice.Presence()
	p.Selection[0] = "mutated"

	if alice.Presence().Selection[0] != "l1" {
		t.Error("Presence exposed internal state")
	}
}
