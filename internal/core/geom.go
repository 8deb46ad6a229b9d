// Package core holds the platform-neutral types games and the terminal
// platform share: screen buffers, input frames and screen geometry.
// It does not depend on Bubble Tea.
package core

import "math"

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport maps a rectangle of world space (metres, Y up) onto a
// rectangle of screen cells (Y down).
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Screen     Rect
}

// Project returns the cell containing the world point (x, y).
// Points outside the world rectangle map outside Screen.
func (v Viewport) Project(x, y float64) (col, row int) {
	sx, sy := v.Scale()
	col = v.Screen.X + int(math.Floor((x-v.MinX)*sx))
	row = v.Screen.Y + v.Screen.H - 1 - int(math.Floor((y-v.MinY)*sy))
	return col, row
}

// Scale returns cells per metre along each axis.
func (v Viewport) Scale() (sx, sy float64) {
	w, h := v.MaxX-v.MinX, v.MaxY-v.MinY
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return float64(v.Screen.W) / w, float64(v.Screen.H) / h
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}
