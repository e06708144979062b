package canvas

// Zoom limits and the toolbar step. Wheel input only pans; zoom changes
// come from the toolbar buttons in fixed increments.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.25
)

// Camera is the per-session viewport: a pan offset and a clamped zoom
// factor. It never touches the document.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

// NewCamera returns a camera at the origin with zoom 1.
func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// PanBy shifts the viewport offset.
func (c *Camera) PanBy(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ZoomIn increases zoom by one step, clamped to MaxZoom.
func (c *Camera) ZoomIn() {
	c.Zoom = clampZoom(c.Zoom + ZoomStep)
}

// ZoomOut decreases zoom by one step, clamped to MinZoom.
func (c *Camera) ZoomOut() {
	c.Zoom = clampZoom(c.Zoom - ZoomStep)
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
