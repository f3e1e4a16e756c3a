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

// Package document assembles the layered vector document describing a
// jewelry blank and writes it in DXF and PDF format.
//
// A document has three layers, in this order: "body" holds the outline
// of the blank, "handles" holds the mounting holes, and "engraving" holds
// the fitted engraving outlines.  All coordinates are in millimetres.
package document

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/shape"
)

// Names of the document layers.
const (
	LayerBody      = "body"
	LayerHandles   = "handles"
	LayerEngraving = "engraving"
)

// Units is the unit of length used for all coordinates.
const Units = "mm"

// Meta holds document-level metadata.
type Meta struct {
	// SKU identifies the product.  It is used to name output files.
	SKU string
}

// Primitive is a drawable element of a layer.
type Primitive interface {
	Bounds() rect.Rect
	Path() *path.Data
}

// Circle is a full circle.
type Circle struct {
	shape.Circle
}

// Polyline is a closed polygon.
type Polyline struct {
	Points shape.Polygon
}

// Bounds implements the [Primitive] interface.
func (p *Polyline) Bounds() rect.Rect {
	r, _ := p.Points.Bounds()
	return r
}

// Path implements the [Primitive] interface.
func (p *Polyline) Path() *path.Data {
	return p.Points.Path()
}

// Spline is a closed cubic spline through a sequence of fit points.
type Spline struct {
	FitPoints []vec.Vec2
}

// Bounds implements the [Primitive] interface.
// The bounds of the Bézier control points of [Spline.Path] are returned.
// These contain the curve, including where it overshoots the fit points.
func (s *Spline) Bounds() rect.Rect {
	r, _ := shape.Polygon(s.Path().Coords).Bounds()
	return r
}

// Path implements the [Primitive] interface.
// The curve is approximated by a closed Catmull-Rom spline.
func (s *Spline) Path() *path.Data {
	pts := shape.Polygon(s.FitPoints).Open()
	n := len(pts)
	res := &path.Data{}
	if n == 0 {
		return res
	}
	res = res.MoveTo(pts[0])
	for i := range n {
		p0 := pts[(i+n-1)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]
		c1 := p1.Add(p2.Sub(p0).Mul(1.0 / 6))
		c2 := p2.Sub(p3.Sub(p1).Mul(1.0 / 6))
		res = res.CubeTo(c1, c2, p2)
	}
	return res.Close()
}

// Layer is a named group of primitives.
type Layer struct {
	Name string

	// Color is the AutoCAD colour index used for the layer.
	Color int

	Primitives []Primitive
}

// Add appends primitives to the layer.
func (l *Layer) Add(p ...Primitive) {
	l.Primitives = append(l.Primitives, p...)
}

// Document is a layered vector drawing of a jewelry blank.
type Document struct {
	Meta   Meta
	Layers []*Layer
}

// Layer returns the layer with the given name, or nil if there is no
// such layer.
func (d *Document) Layer(name string) *Layer {
	for _, l := range d.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Bounds returns the bounding box of all primitives.
// The second return value is false if the document is empty.
func (d *Document) Bounds() (rect.Rect, bool) {
	var res rect.Rect
	found := false
	for _, l := range d.Layers {
		for _, p := range l.Primitives {
			b := p.Bounds()
			if !found {
				res = b
				found = true
				continue
			}
			res.LLx = min(res.LLx, b.LLx)
			res.LLy = min(res.LLy, b.LLy)
			res.URx = max(res.URx, b.URx)
			res.URy = max(res.URy, b.URy)
		}
	}
	return res, found
}

// Assemble builds the document for a blank with the given layout and the
// (already fitted) engraving outlines.  If conv is nil, engraving outlines
// are stored as polylines.
func Assemble(meta Meta, lay *layout.Layout, engraving []shape.Polygon, conv Converter) *Document {
	if conv == nil {
		conv = PolylineConverter{}
	}

	body := &Layer{Name: LayerBody, Color: 7}
	body.Add(&Circle{lay.Body})

	handles := &Layer{Name: LayerHandles, Color: 1}
	for _, h := range lay.Holes {
		handles.Add(&Circle{h})
	}

	engr := &Layer{Name: LayerEngraving, Color: 5}
	for _, p := range engraving {
		engr.Add(conv.Convert(p))
	}

	return &Document{
		Meta:   meta,
		Layers: []*Layer{body, handles, engr},
	}
}

// RectPolyline returns the outline of r as a closed polyline.
func RectPolyline(r rect.Rect) *Polyline {
	return &Polyline{
		Points: shape.Polygon{
			{X: r.LLx, Y: r.LLy},
			{X: r.URx, Y: r.LLy},
			{X: r.URx, Y: r.URy},
			{X: r.LLx, Y: r.URy},
		},
	}
}
