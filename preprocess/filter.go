// seehuhn.de/go/engrave - turn raster images into jewelry blank outlines
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package preprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"seehuhn.de/go/engrave/gray"
)

// Upsample magnifies img by an integer factor using Catmull-Rom cubic
// interpolation.
func Upsample(img *gray.Image, factor int) *gray.Image {
	if factor <= 1 {
		return img.Clone()
	}

	src := img.Gray16()
	dst := image.NewGray16(image.Rect(0, 0, img.Width*factor, img.Height*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return gray.FromGray16(dst)
}

// GaussianKernel returns a normalised 1D Gaussian kernel with standard
// deviation sigma.  The kernel has 2*ceil(3*sigma)+1 taps.
// For sigma <= 0 the identity kernel [1] is returned.
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, 2*half+1)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Blur applies a separable Gaussian filter to img.  Pixels outside the
// image are replaced by the nearest edge pixel.
func Blur(img *gray.Image, sigma float64) *gray.Image {
	kernel := GaussianKernel(sigma)
	if len(kernel) == 1 {
		return img.Clone()
	}
	half := len(kernel) / 2
	w, h := img.Width, img.Height

	tmp := gray.New(w, h)
	for y := range h {
		row := tmp.Pix[y*w : (y+1)*w]
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				sum += img.At(x+k-half, y) * weight
			}
			row[x] = sum
		}
	}

	res := gray.New(w, h)
	for y := range h {
		row := res.Pix[y*w : (y+1)*w]
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				sum += tmp.At(x, y+k-half) * weight
			}
			row[x] = sum
		}
	}
	return res
}

// Open applies a grayscale morphological opening (erosion followed by
// dilation) over a square window of side 2*radius+1.  This removes light
// features smaller than the window.  For radius <= 0 the image is copied.
func Open(img *gray.Image, radius int) *gray.Image {
	if radius <= 0 {
		return img.Clone()
	}
	img = rank(img, radius, func(a, b float32) float32 { return min(a, b) })
	return rank(img, radius, func(a, b float32) float32 { return max(a, b) })
}

// rank applies the separable square window filter pick.
func rank(img *gray.Image, radius int, pick func(a, b float32) float32) *gray.Image {
	w, h := img.Width, img.Height

	tmp := gray.New(w, h)
	for y := range h {
		row := tmp.Pix[y*w : (y+1)*w]
		for x := range w {
			v := img.At(x-radius, y)
			for k := -radius + 1; k <= radius; k++ {
				v = pick(v, img.At(x+k, y))
			}
			row[x] = v
		}
	}

	res := gray.New(w, h)
	for y := range h {
		row := res.Pix[y*w : (y+1)*w]
		for x := range w {
			v := tmp.At(x, y-radius)
			for k := -radius + 1; k <= radius; k++ {
				v = pick(v, tmp.At(x, y+k))
			}
			row[x] = v
		}
	}
	return res
}

// histogramBins is the resolution used for threshold selection.
const histogramBins = 256

// OtsuThreshold selects the global threshold which minimises the
// intra-class variance of the two pixel classes (equivalently, maximises
// the between-class variance).  Pixels with values below the returned
// threshold form the dark class.
//
// If the image is empty or all samples fall into the same histogram bin,
// ErrDegenerateImage is returned.
func OtsuThreshold(img *gray.Image) (float32, error) {
	if img.Empty() {
		return 0, ErrDegenerateImage
	}

	var hist [histogramBins]int
	for _, v := range img.Pix {
		hist[bin(v)]++
	}

	total := float64(len(img.Pix))
	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var (
		weightDark float64
		sumDark    float64
		best       = -1.0
		bestIdx    = -1
	)
	for t := range histogramBins - 1 {
		weightDark += float64(hist[t])
		if weightDark == 0 {
			continue
		}
		weightLight := total - weightDark
		if weightLight == 0 {
			break
		}
		sumDark += float64(t) * float64(hist[t])

		meanDark := sumDark / weightDark
		meanLight := (sumAll - sumDark) / weightLight
		d := meanDark - meanLight
		between := weightDark * weightLight * d * d
		if between > best {
			best = between
			bestIdx = t
		}
	}
	if bestIdx < 0 || best <= 0 {
		return 0, ErrDegenerateImage
	}

	// The threshold is placed at the upper edge of the selected bin, so
	// that all samples in bins 0..bestIdx fall on the dark side.
	return float32(bestIdx+1) / histogramBins, nil
}

func bin(v float32) int {
	i := int(v * histogramBins)
	return min(max(i, 0), histogramBins-1)
}
