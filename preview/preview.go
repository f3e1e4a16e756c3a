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

// Package preview draws jewelry blank documents as gray scale images.
//
// The images are meant for a quick visual check of the fitted engraving:
// the body is drawn in light gray, the holes are cut out and the engraving
// is filled in a dark shade.  Outline primitives on the body layer, like
// the debug rectangle, are stroked in black.
package preview

import (
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/engrave/document"
)

// Gray levels used by [Render].
const (
	Background uint8 = 255
	BodyShade  uint8 = 200
	Engraving  uint8 = 40
	Outline    uint8 = 0
)

// border is the margin around the body, in mm
const border = 1.0

// outlineWidth is the pen width for outline primitives, in mm
const outlineWidth = 0.1

// Paint fills p with the gray level v, blending by coverage.
// The rasteriser clip is set to the image bounds.
func Paint(img *image.Gray, r *Rasteriser, p *path.Data, rule FillRule, v uint8) {
	r.Clip = img.Bounds()
	r.Fill(p, rule, blend(img, v))
}

// PaintStroke draws the outline of p with the gray level v, using a pen
// of the given width in user space units.
func PaintStroke(img *image.Gray, r *Rasteriser, p *path.Data, width float64, v uint8) {
	r.Clip = img.Bounds()
	r.Stroke(p, width, blend(img, v))
}

func blend(img *image.Gray, v uint8) func(y, x int, coverage []float32) {
	return func(y, x int, coverage []float32) {
		row := img.Pix[(y-img.Rect.Min.Y)*img.Stride+(x-img.Rect.Min.X):]
		for i, c := range coverage {
			old := float32(row[i])
			row[i] = uint8(math.Round(float64(old + (float32(v)-old)*c)))
		}
	}
}

// Render draws doc at the given resolution.  The image covers the bounds
// of the document plus a small border.
func Render(doc *document.Document, pxPerMM float64) (*image.Gray, error) {
	b, ok := doc.Bounds()
	if !ok {
		return nil, errors.New("preview: empty document")
	}
	if !(pxPerMM > 0) {
		return nil, errors.New("preview: invalid resolution")
	}

	w := int(math.Ceil((b.URx - b.LLx + 2*border) * pxPerMM))
	h := int(math.Ceil((b.URy - b.LLy + 2*border) * pxPerMM))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = Background
	}

	r := NewRasteriser(img.Bounds())
	// document coordinates have y pointing up
	r.CTM = matrix.Matrix{
		pxPerMM, 0, 0, -pxPerMM,
		(border - b.LLx) * pxPerMM, (border + b.URy) * pxPerMM,
	}

	var outlines []document.Primitive
	if l := doc.Layer(document.LayerBody); l != nil {
		for _, p := range l.Primitives {
			if c, ok := p.(*document.Circle); ok {
				Paint(img, r, c.Path(), NonZero, BodyShade)
			} else {
				outlines = append(outlines, p)
			}
		}
	}
	if l := doc.Layer(document.LayerHandles); l != nil {
		for _, p := range l.Primitives {
			Paint(img, r, p.Path(), NonZero, Background)
		}
	}
	if l := doc.Layer(document.LayerEngraving); l != nil && len(l.Primitives) > 0 {
		all := &path.Data{}
		for _, p := range l.Primitives {
			q := p.Path()
			all.Cmds = append(all.Cmds, q.Cmds...)
			all.Coords = append(all.Coords, q.Coords...)
		}
		Paint(img, r, all, EvenOdd, Engraving)
	}
	for _, p := range outlines {
		PaintStroke(img, r, p.Path(), outlineWidth, Outline)
	}
	return img, nil
}

// SavePNG renders doc and writes the result to the named PNG file.
// Missing parent directories are created.
func SavePNG(doc *document.Document, fname string, pxPerMM float64) (err error) {
	img, err := Render(doc, pxPerMM)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return err
	}
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fd.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(fd, img)
}
