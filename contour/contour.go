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

// Package contour extracts closed outlines from binary masks.
//
// Two tracers are provided.  [BorderFollower] implements the border
// following algorithm of Suzuki and Abe (1985) and returns every outer
// border and every hole border as a separate polygon through the centres
// of the border pixels.  [Potrace] uses the potrace algorithm, which fits
// smooth curves to the pixel edges; these curves are flattened to
// polygons.
//
// Both tracers discard outlines with fewer than three distinct points.
// If nothing remains, [ErrNoFeatures] is returned.
package contour

import (
	"errors"

	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/shape"
)

// ErrNoFeatures is returned when a mask contains no usable outline.
var ErrNoFeatures = errors.New("no features detected")

// Tracer converts a binary mask into closed polygons.
// Coordinates are in pixel units, with x increasing to the right and y
// increasing downwards.
type Tracer interface {
	Trace(m *gray.Mask) ([]shape.Polygon, error)
}

// keep drops all polygons with fewer than three distinct points.
func keep(polys []shape.Polygon) ([]shape.Polygon, error) {
	res := polys[:0]
	for _, p := range polys {
		if p.Distinct() >= 3 {
			res = append(res, p)
		}
	}
	if len(res) == 0 {
		return nil, ErrNoFeatures
	}
	return res, nil
}
