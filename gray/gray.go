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

// Package gray holds the single-channel raster types passed between the
// stages of the engraving pipeline.
package gray

import (
	"image"
	"image/color"
	"math"
)

// Image is a single-channel intensity image in row-major order.
// Sample values are in the range [0, 1], where 0 is black.
//
// Pipeline stages treat an Image as immutable and return new images.
type Image struct {
	Width  int
	Height int
	Pix    []float32
}

// New allocates a black image of the given size.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// At returns the sample at (x, y).  Coordinates outside the image are
// clamped to the nearest edge pixel.
func (img *Image) At(x, y int) float32 {
	x = min(max(x, 0), img.Width-1)
	y = min(max(y, 0), img.Height-1)
	return img.Pix[y*img.Width+x]
}

// Empty reports whether the image has no samples.
func (img *Image) Empty() bool {
	return img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) == 0
}

// Uniform reports whether all samples have the same value.
// An empty image is considered uniform.
func (img *Image) Uniform() bool {
	if img.Empty() {
		return true
	}
	first := img.Pix[0]
	for _, v := range img.Pix[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	res := &Image{Width: img.Width, Height: img.Height}
	res.Pix = append([]float32(nil), img.Pix...)
	return res
}

// FromImage converts an arbitrary image to intensity values.
// Partially transparent pixels are composited over white.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	res := New(b.Dx(), b.Dy())
	for y := range res.Height {
		row := res.Pix[y*res.Width : (y+1)*res.Width]
		for x := range res.Width {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			g := color.Gray16Model.Convert(color.NRGBA64{R: c.R, G: c.G, B: c.B, A: 0xffff}).(color.Gray16)
			v := float64(g.Y) / 0xffff
			a := float64(c.A) / 0xffff
			row[x] = float32(a*v + (1 - a))
		}
	}
	return res
}

// Gray16 returns img as a 16-bit gray image, for use with image
// processing code from the standard library and golang.org/x/image.
func (img *Image) Gray16() *image.Gray16 {
	res := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for i, v := range img.Pix {
		u := uint16(math.Round(float64(clamp01(v)) * 0xffff))
		res.Pix[2*i] = uint8(u >> 8)
		res.Pix[2*i+1] = uint8(u)
	}
	return res
}

// FromGray16 converts a 16-bit gray image back to intensity values.
func FromGray16(src *image.Gray16) *Image {
	b := src.Bounds()
	res := New(b.Dx(), b.Dy())
	for y := range res.Height {
		for x := range res.Width {
			res.Pix[y*res.Width+x] = float32(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / 0xffff
		}
	}
	return res
}

// FromGray converts an 8-bit gray image to intensity values.
func FromGray(src *image.Gray) *Image {
	b := src.Bounds()
	res := New(b.Dx(), b.Dy())
	for y := range res.Height {
		for x := range res.Width {
			res.Pix[y*res.Width+x] = float32(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
		}
	}
	return res
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
