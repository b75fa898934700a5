package preprocess

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/tillscan/tillscan/internal/utils"
)

// Variant is a named binarization strategy applied to the enhanced
// grayscale receipt. Each strategy allocates its own output; the input
// is never mutated.
type Variant struct {
	Name  string
	Apply func(g *image.Gray) *image.Gray
}

// DefaultVariants returns the candidate enhancement strategies in probe
// order.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "adaptive", Apply: func(g *image.Gray) *image.Gray {
			return AdaptiveBinarize(g, 15, 10)
		}},
		{Name: "otsu", Apply: OtsuBinarize},
		{Name: "denoise", Apply: func(g *image.Gray) *image.Gray {
			return OtsuBinarize(BoxDenoise(g, 1))
		}},
		{Name: "close", Apply: func(g *image.Gray) *image.Gray {
			return MorphClose(OtsuBinarize(g), 3)
		}},
	}
}

// minEnhanceWidth is the smallest width at which receipt glyphs resolve
// well; narrower inputs are upscaled before binarization.
const minEnhanceWidth = 1200

// Enhance applies the shared pre-enhancement common to all variants:
// contrast and sharpness boost, upscaling of small inputs, and
// grayscale conversion.
func Enhance(img image.Image) *image.Gray {
	enhanced := imaging.AdjustContrast(img, 40)
	enhanced = imaging.Sharpen(enhanced, 1.0)
	if enhanced.Bounds().Dx() < minEnhanceWidth {
		enhanced = imaging.Resize(enhanced, minEnhanceWidth, 0, imaging.Lanczos)
	}
	return utils.ToGray(enhanced)
}

// OtsuBinarize thresholds the image at the intensity that maximizes
// between-class variance of the histogram.
func OtsuBinarize(g *image.Gray) *image.Gray {
	hist := utils.GrayHistogram(g)
	thresh := otsuThreshold(hist, g.Bounds().Dx()*g.Bounds().Dy())
	return Binarize(g, thresh)
}

// otsuThreshold computes Otsu's threshold over a 256-bin histogram.
func otsuThreshold(hist [256]int, total int) uint8 {
	if total == 0 {
		return 128
	}
	var totalSum float64
	for i, c := range hist {
		totalSum += float64(i) * float64(c)
	}

	var sumB float64
	var wB int
	var maxVariance float64
	best := 0

	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best)
}

// Binarize maps pixels above the threshold to white and the rest to black.
func Binarize(g *image.Gray, thresh uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := g.Pix[y*g.Stride : y*g.Stride+b.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x, v := range src {
			if v > thresh {
				dst[x] = 255
			} else {
				dst[x] = 0
			}
		}
	}
	return out
}

// AdaptiveBinarize thresholds each pixel against the mean of its
// window-sized neighborhood minus a bias, separating text from uneven
// illumination. Window must be odd.
func AdaptiveBinarize(g *image.Gray, window, bias int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	integral := integralImage(g)
	half := window / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			sum := integral[(y1+1)*(w+1)+(x1+1)] - integral[y0*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := int(sum) / area
			if int(g.Pix[y*g.Stride+x]) > mean-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// integralImage returns the (w+1)x(h+1) summed-area table of the image.
func integralImage(g *image.Gray) []uint64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	integral := make([]uint64, (w+1)*(h+1))
	for y := 1; y <= h; y++ {
		var rowSum uint64
		for x := 1; x <= w; x++ {
			rowSum += uint64(g.Pix[(y-1)*g.Stride+(x-1)])
			integral[y*(w+1)+x] = integral[(y-1)*(w+1)+x] + rowSum
		}
	}
	return integral
}

// BoxDenoise applies a mean filter with the given radius.
func BoxDenoise(g *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return g
	}
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, count int
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						sum += int(g.Pix[ny*g.Stride+nx])
						count++
					}
				}
			}
			out.Pix[y*out.Stride+x] = uint8(sum / count)
		}
	}
	return out
}

// MorphClose dilates then erodes a binarized image, filling small gaps
// in glyph strokes.
func MorphClose(g *image.Gray, kernelSize int) *image.Gray {
	if kernelSize <= 1 {
		return g
	}
	return erodeGray(dilateGray(g, kernelSize), kernelSize)
}

// dilateGray expands bright regions.
func dilateGray(g *image.Gray, kernelSize int) *image.Gray {
	return morphGray(g, kernelSize, func(best, v uint8) bool { return v > best })
}

// erodeGray shrinks bright regions.
func erodeGray(g *image.Gray, kernelSize int) *image.Gray {
	return morphGray(g, kernelSize, func(best, v uint8) bool { return v < best })
}

func morphGray(g *image.Gray, kernelSize int, better func(best, v uint8) bool) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	half := kernelSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := g.Pix[y*g.Stride+x]
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					nx, ny := x+kx, y+ky
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						if v := g.Pix[ny*g.Stride+nx]; better(best, v) {
							best = v
						}
					}
				}
			}
			out.Pix[y*out.Stride+x] = best
		}
	}
	return out
}
