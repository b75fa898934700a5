package utils

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to 8-bit grayscale with bounds anchored at
// the origin.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return gray
}

// CenterCrop returns the central region of the image covering the given
// fraction of each dimension (0 < frac <= 1).
func CenterCrop(img image.Image, frac float64) image.Image {
	if frac <= 0 || frac >= 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * frac)
	h := int(float64(b.Dy()) * frac)
	if w < 1 || h < 1 {
		return img
	}
	return imaging.CropCenter(img, w, h)
}

// GrayHistogram builds a 256-bin intensity histogram.
func GrayHistogram(g *image.Gray) [256]int {
	var hist [256]int
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}
