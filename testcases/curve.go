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

package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/engrave/preview"
)

// kappa for cubic Bezier approximation of a quarter circle
const kappa = 0.5522847498307936

var curveCases = []TestCase{
	{
		Name:       "disc",
		Path:       circle(32, 32, 24),
		Width:      64,
		Height:     64,
		Components: 1,
	},
	{
		Name:       "ellipse",
		Path:       ellipse(48, 32, 40, 20),
		Width:      96,
		Height:     64,
		Components: 1,
	},
	{
		Name:       "ring",
		Path:       concat(circle(32, 32, 26), circle(32, 32, 14)),
		Width:      64,
		Height:     64,
		Rule:       preview.EvenOdd,
		Components: 2,
	},
	{
		Name:       "heart",
		Path:       heart(32, 32, 24),
		Width:      64,
		Height:     64,
		Components: 1,
	},
	{
		// unit circle scaled up by the CTM
		Name:       "scaled_disc",
		Path:       circle(0, 0, 1),
		Width:      256,
		Height:     192,
		CTM:        matrix.Matrix{80, 0, 0, 80, 128, 96},
		Components: 1,
	},
}

// circle builds an approximate circle using four cubic Bezier curves.
func circle(cx, cy, r float64) *path.Data {
	return ellipse(cx, cy, r, r)
}

// ellipse builds an approximate ellipse using four cubic Bezier curves.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	kx := rx * kappa
	ky := ry * kappa

	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).                                     // start at right
		CubeTo(pt(cx+rx, cy-ky), pt(cx+kx, cy-ry), pt(cx, cy-ry)). // top-right quadrant
		CubeTo(pt(cx-kx, cy-ry), pt(cx-rx, cy-ky), pt(cx-rx, cy)). // top-left quadrant
		CubeTo(pt(cx-rx, cy+ky), pt(cx-kx, cy+ry), pt(cx, cy+ry)). // bottom-left quadrant
		CubeTo(pt(cx+kx, cy+ry), pt(cx+rx, cy+ky), pt(cx+rx, cy)). // bottom-right quadrant
		Close()
}

// heart builds a heart shape from two cubic lobes and a quadratic tip.
// The shape fits into a square of side 2*s centred at (cx, cy).
func heart(cx, cy, s float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(cx, cy-0.5*s)).
		CubeTo(pt(cx+0.2*s, cy-1.1*s), pt(cx+1.1*s, cy-1.0*s), pt(cx+s, cy-0.3*s)).
		QuadTo(pt(cx+0.9*s, cy+0.3*s), pt(cx, cy+s)).
		QuadTo(pt(cx-0.9*s, cy+0.3*s), pt(cx-s, cy-0.3*s)).
		CubeTo(pt(cx-1.1*s, cy-1.0*s), pt(cx-0.2*s, cy-1.1*s), pt(cx, cy-0.5*s)).
		Close()
}
