package srv

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
)

const (
	screenWidth  = 128
	screenHeight = 64
)

var col = color.RGBA{255, 255, 255, 255}
var uniformImage = image.NewUniform(col)

func AddLabel(img draw.Image, x, y int, label string) {

	point := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}

	d := &font.Drawer{
		Dst:  img,
		Src:  uniformImage,
		Face: bitmapfont.Face,
		Dot:  point,
	}
	d.DrawString(label)
}

func LabelWidth(label string) int {
	return font.MeasureString(bitmapfont.Face, label).Ceil()
}

func AddCenteredLabel(img draw.Image, y int, label string) {
	AddLabel(img, (img.Bounds().Dx()-LabelWidth(label))/2, y, label)
}

// AddScrollingLabel draws label at y, looping it horizontally when wider than the image.
func AddScrollingLabel(img draw.Image, y int, label string, offset int) {
	width := LabelWidth(label)
	if width <= img.Bounds().Dx() {
		AddCenteredLabel(img, y, label)
		return
	}
	period := width + 20
	deltaX := offset % period
	AddLabel(img, 10-deltaX, y, label)
	AddLabel(img, period+10-deltaX, y, label)
}

func AddRect(img draw.Image, rect image.Rectangle) {
	draw.Draw(img, rect, uniformImage, image.Point{}, draw.Src)
}

func newScreenImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screenWidth, screenHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	return img
}
