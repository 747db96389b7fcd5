package ui

import "image/color"

var (
	colBackground = color.RGBA{250, 250, 250, 255}
	colToastOK    = color.RGBA{30, 120, 40, 230}
	colToastFail  = color.RGBA{150, 30, 30, 230}
	colHint       = color.RGBA{60, 60, 60, 255}
)

const (
	// ebitenutil's debug font cell.
	glyphW = 6
	glyphH = 16
)
