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

// Command gensamples writes the synthetic test artwork to disk.  Every
// test case becomes a PNG file which can be fed to the engrave command.
// With -pdf, a vector version of each shape is written alongside.
package main

import (
	"fmt"
	"image/png"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/sfomuseum/go-flags/flagset"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/engrave/preview"
	"seehuhn.de/go/engrave/testcases"
)

func main() {
	var outDir string
	var withPDF bool

	fs := flagset.NewFlagSet("gensamples")
	fs.StringVar(&outDir, "out", "testdata/samples", "output directory")
	fs.BoolVar(&withPDF, "pdf", false, "also write PDF versions of the shapes")
	flagset.Parse(fs)

	if err := run(outDir, withPDF); err != nil {
		log.Fatal(err)
	}
}

func run(outDir string, withPDF bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	n := 0
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			base := filepath.Join(outDir, category+"_"+tc.Name)
			if err := writePNG(tc, base+".png"); err != nil {
				return fmt.Errorf("%s: %w", base, err)
			}
			if withPDF {
				if err := writePDF(tc, base+".pdf"); err != nil {
					return fmt.Errorf("%s: %w", base, err)
				}
			}
			n++
		}
	}
	log.Printf("wrote %d samples to %s", n, outDir)
	return nil
}

func writePNG(tc testcases.TestCase, fname string) (err error) {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fd.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(fd, tc.Raster())
}

// writePDF draws the shape on a page of tc.Width x tc.Height points.
func writePDF(tc testcases.TestCase, fname string) error {
	w, h := float64(tc.Width), float64(tc.Height)
	page, err := document.CreateSinglePage(fname, &pdf.Rectangle{URx: w, URy: h}, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	paper, ink := color.DeviceGray(1), color.DeviceGray(0)
	if tc.Inverted {
		paper, ink = ink, paper
	}
	page.SetFillColor(paper)
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// test case coordinates have y pointing down
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})
	if tc.CTM != (matrix.Matrix{}) {
		page.Transform(tc.CTM)
	}

	page.SetFillColor(ink)
	for cmd, pts := range tc.Path.Iter().ToCubic() {
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
	if tc.Rule == preview.EvenOdd {
		page.FillEvenOdd()
	} else {
		page.Fill()
	}
	return page.Close()
}
