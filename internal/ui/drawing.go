package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ingyamilmolinar/patternlock/core/geom"
)

// The draw helpers below are variables so tests can override them to
// capture draw calls without a graphics context.

var fillScreen = func(dst *ebiten.Image, c color.Color) {
	dst.Fill(c)
}

// drawRect draws a rectangle, filled or outlined.
var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, c, false)
	}
}

var strokeCircle = func(dst *ebiten.Image, c geom.Point, r, width float64, clr color.Color) {
	vector.StrokeCircle(dst, float32(c.X), float32(c.Y), float32(r), float32(width), clr, true)
}

var strokeLine = func(dst *ebiten.Image, from, to geom.Point, width float64, clr color.Color) {
	vector.StrokeLine(dst, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), clr, true)
}

var fillTriangle = func(dst *ebiten.Image, tri geom.Triangle, clr color.RGBA) {
	var path vector.Path
	path.MoveTo(float32(tri[0].X), float32(tri[0].Y))
	path.LineTo(float32(tri[1].X), float32(tri[1].Y))
	path.LineTo(float32(tri[2].X), float32(tri[2].Y))
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(clr.R) / 0xff
		vs[i].ColorG = float32(clr.G) / 0xff
		vs[i].ColorB = float32(clr.B) / 0xff
		vs[i].ColorA = float32(clr.A) / 0xff
	}
	dst.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var debugPrint = func(dst *ebiten.Image, msg string, x, y int) {
	ebitenutil.DebugPrintAt(dst, msg, x, y)
}

var white *ebiten.Image

// whitePixel is the 1x1 source image for solid triangle fills.
func whitePixel() *ebiten.Image {
	if white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return white
}
