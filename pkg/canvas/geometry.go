// Package canvas implements the pointer/keyboard interaction state machine
// of the diagram editor, plus the geometry, camera and derived overlay it
// needs. The machine translates raw input events into document mutations;
// its mode is per-session UI state and is never shared between users.
package canvas

import (
	"math"

	"github.com/entidraw/entidraw/pkg/document"
)

// Point is a position in canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// Manhattan returns the Manhattan distance between two points.
func (p Point) Manhattan(o Point) float64 {
	return math.Abs(p.X-o.X) + math.Abs(p.Y-o.Y)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromPoints returns the normalized rectangle spanned by two points.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// Corner names one corner of a rectangle.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// CornerPoint returns the coordinates of a corner.
func (r Rect) CornerPoint(c Corner) Point {
	switch c {
	case TopLeft:
		return Point{X: r.X, Y: r.Y}
	case TopRight:
		return Point{X: r.X + r.Width, Y: r.Y}
	case BottomLeft:
		return Point{X: r.X, Y: r.Y + r.Height}
	default:
		return Point{X: r.X + r.Width, Y: r.Y + r.Height}
	}
}

// Opposite returns the diagonally opposite corner.
func (c Corner) Opposite() Corner {
	switch c {
	case TopLeft:
		return BottomRight
	case TopRight:
		return BottomLeft
	case BottomLeft:
		return TopRight
	default:
		return TopLeft
	}
}

// Resize computes the bounds that result from dragging the given corner of
// initial to p. The opposite corner stays fixed and dimensions are derived
// as absolute deltas, so a pointer dragged past the anchor clamps to
// non-negative width/height instead of inverting the box.
func Resize(initial Rect, corner Corner, p Point) Rect {
	anchor := initial.CornerPoint(corner.Opposite())
	return RectFromPoints(anchor, p)
}

// Anchor names one of the four link-connection handles on an entity's
// edges.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorRight
	AnchorBottom
	AnchorLeft
)

// AnchorPoint returns the midpoint of the rectangle edge an anchor sits on.
func (r Rect) AnchorPoint(a Anchor) Point {
	switch a {
	case AnchorTop:
		return Point{X: r.X + r.Width/2, Y: r.Y}
	case AnchorRight:
		return Point{X: r.X + r.Width, Y: r.Y + r.Height/2}
	case AnchorBottom:
		return Point{X: r.X + r.Width/2, Y: r.Y + r.Height}
	default:
		return Point{X: r.X, Y: r.Y + r.Height/2}
	}
}

// EntityBounds returns the bounding box of an entity layer. Relations have
// no bounds; they are excluded from hit-testing entirely.
func EntityBounds(e document.Entity) Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}
