package ui

import "image"

// pt is a helper function to check if a point is within a rectangle.
func pt(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

// squareIn returns the largest square centred in a w x h area.
func squareIn(w, h int) image.Rectangle {
	side := w
	if h < side {
		side = h
	}
	x := (w - side) / 2
	y := (h - side) / 2
	return image.Rect(x, y, x+side, y+side)
}
