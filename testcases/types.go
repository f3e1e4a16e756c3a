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

// Package testcases provides synthetic artwork for testing the engraving
// pipeline.  Each case is a vector shape which is rasterised to a gray
// image, so that tests can compare traced outlines against known geometry.
package testcases

import (
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/preview"
)

// TestCase defines a single piece of input artwork.
type TestCase struct {
	Name   string           // lowercase a-z and _ only
	Path   *path.Data       // the shape, in pixel coordinates with y down
	Width  int              // canvas width in pixels
	Height int              // canvas height in pixels
	Rule   preview.FillRule // fill rule used to paint Path
	CTM    matrix.Matrix    // transformation matrix (zero-value means no transform)

	// Inverted cases paint a white shape on a black background.
	Inverted bool

	// Components is the number of separate foreground regions, counting
	// holes, which a border follower should find in the image.
	Components int
}

// Raster paints the test case into an 8-bit image.
func (tc TestCase) Raster() *image.Gray {
	bg, fg := preview.Background, uint8(0)
	if tc.Inverted {
		bg, fg = fg, bg
	}

	img := image.NewGray(image.Rect(0, 0, tc.Width, tc.Height))
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	r := preview.NewRasteriser(img.Bounds())
	if tc.CTM != (matrix.Matrix{}) {
		r.CTM = tc.CTM
	}
	preview.Paint(img, r, tc.Path, tc.Rule, fg)
	return img
}

// Image returns the test case as pipeline input.
func (tc TestCase) Image() *gray.Image {
	return gray.FromGray(tc.Raster())
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
