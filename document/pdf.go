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

package document

import (
	"errors"
	"os"
	"path/filepath"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	pdfdoc "seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"
)

// PDF proof sheet settings, in mm
const (
	pdfBorder    = 2.0
	pdfLineWidth = 0.05
)

const ptPerMM = 72 / 25.4

// SavePDF writes a one-page proof sheet of the document to the named file.
// The page shows the blank at its true size: body and holes are stroked,
// the engraving is filled using the even-odd rule.
func (d *Document) SavePDF(fname string) error {
	b, ok := d.Bounds()
	if !ok {
		return errors.New("pdf: empty document")
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return err
	}

	w := (b.URx - b.LLx + 2*pdfBorder) * ptPerMM
	h := (b.URy - b.LLy + 2*pdfBorder) * ptPerMM
	paper := &pdf.Rectangle{URx: w, URy: h}
	page, err := pdfdoc.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// from here on, user space units are mm
	page.Transform(matrix.Matrix{
		ptPerMM, 0, 0, ptPerMM,
		(pdfBorder - b.LLx) * ptPerMM, (pdfBorder - b.LLy) * ptPerMM,
	})

	if engr := d.Layer(LayerEngraving); engr != nil && len(engr.Primitives) > 0 {
		page.SetFillColor(color.DeviceGray(0.2))
		for _, p := range engr.Primitives {
			drawPath(page, p.Path())
		}
		page.FillEvenOdd()
	}

	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(pdfLineWidth)
	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)
	for _, name := range []string{LayerBody, LayerHandles} {
		l := d.Layer(name)
		if l == nil || len(l.Primitives) == 0 {
			continue
		}
		for _, p := range l.Primitives {
			drawPath(page, p.Path())
		}
		page.Stroke()
	}

	return page.Close()
}

func drawPath(page *pdfdoc.Page, p *path.Data) {
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}
