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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"seehuhn.de/go/geom/vec"
)

// DXF header values
const (
	dxfVersion     = "AC1024" // AutoCAD 2010
	dxfCodePage    = "ANSI_1252"
	insUnitsMM     = 4
	measureMetric  = 1
	splineFitTol   = 1e-10
	splineFlagBits = 1 | 8 // closed, planar
	firstHandle    = 0x10
)

// WriteDXF writes the document as an ASCII DXF file.
//
// The file has the structure expected by AutoCAD 2010 readers: the
// symbol tables including the block records for model and paper space,
// the corresponding blocks, owner handles on all entities and table
// entries, and the root dictionary in the OBJECTS section.
func (d *Document) WriteDXF(w io.Writer) error {
	body := &bytes.Buffer{}
	dw := &dxfWriter{w: body, next: firstHandle}

	rootDict := dw.alloc()
	groupDict := dw.alloc()

	dw.section("CLASSES")
	dw.endsec()

	modelSpace, paperSpace := dw.tables(d.Layers)
	dw.blocks(modelSpace, paperSpace)

	dw.section("ENTITIES")
	for _, l := range d.Layers {
		for _, p := range l.Primitives {
			switch p := p.(type) {
			case *Circle:
				dw.circle(modelSpace, l.Name, p)
			case *Polyline:
				dw.polyline(modelSpace, l.Name, p)
			case *Spline:
				dw.spline(modelSpace, l.Name, p)
			default:
				if dw.err == nil {
					dw.err = fmt.Errorf("dxf: unsupported primitive %T", p)
				}
			}
		}
	}
	dw.endsec()

	dw.section("OBJECTS")
	dw.pair(0, "DICTIONARY")
	dw.pair(5, rootDict)
	dw.pair(330, "0")
	dw.pair(100, "AcDbDictionary")
	dw.integer(281, 1)
	dw.pair(3, "ACAD_GROUP")
	dw.pair(350, groupDict)
	dw.pair(0, "DICTIONARY")
	dw.pair(5, groupDict)
	dw.pair(330, rootDict)
	dw.pair(100, "AcDbDictionary")
	dw.integer(281, 1)
	dw.endsec()
	dw.pair(0, "EOF")
	if dw.err != nil {
		return dw.err
	}

	out := bufio.NewWriter(w)
	hw := &dxfWriter{w: out}
	hw.header(d, dw.next)
	if hw.err != nil {
		return hw.err
	}
	if _, err := body.WriteTo(out); err != nil {
		return err
	}
	return out.Flush()
}

// SaveDXF writes the document to the named file.  Missing parent
// directories are created.
func (d *Document) SaveDXF(fname string) (err error) {
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
	return d.WriteDXF(fd)
}

// dxfWriter writes group code/value pairs and remembers the first error.
type dxfWriter struct {
	w    io.Writer
	err  error
	next int // next free handle
}

func (dw *dxfWriter) pair(code int, value string) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, "%3d\n%s\n", code, value)
}

func (dw *dxfWriter) integer(code, value int) {
	dw.pair(code, strconv.Itoa(value))
}

func (dw *dxfWriter) float(code int, value float64) {
	dw.pair(code, strconv.FormatFloat(value, 'f', -1, 64))
}

func (dw *dxfWriter) point(code int, v vec.Vec2) {
	dw.float(code, v.X)
	dw.float(code+10, v.Y)
}

func (dw *dxfWriter) point3(code int, x, y, z float64) {
	dw.float(code, x)
	dw.float(code+10, y)
	dw.float(code+20, z)
}

// alloc returns a new, unused handle.
func (dw *dxfWriter) alloc() string {
	h := fmt.Sprintf("%X", dw.next)
	dw.next++
	return h
}

func (dw *dxfWriter) section(name string) {
	dw.pair(0, "SECTION")
	dw.pair(2, name)
}

func (dw *dxfWriter) endsec() {
	dw.pair(0, "ENDSEC")
}

func (dw *dxfWriter) header(d *Document, handSeed int) {
	b, ok := d.Bounds()
	if !ok {
		b.URx, b.URy = 1, 1
	}

	dw.section("HEADER")
	dw.pair(9, "$ACADVER")
	dw.pair(1, dxfVersion)
	dw.pair(9, "$DWGCODEPAGE")
	dw.pair(3, dxfCodePage)
	dw.pair(9, "$INSBASE")
	dw.point3(10, 0, 0, 0)
	dw.pair(9, "$EXTMIN")
	dw.point3(10, b.LLx, b.LLy, 0)
	dw.pair(9, "$EXTMAX")
	dw.point3(10, b.URx, b.URy, 0)
	dw.pair(9, "$INSUNITS")
	dw.integer(70, insUnitsMM)
	dw.pair(9, "$MEASUREMENT")
	dw.integer(70, measureMetric)
	dw.pair(9, "$HANDSEED")
	dw.pair(5, fmt.Sprintf("%X", handSeed))
	dw.endsec()
}

// table starts a symbol table with n entries and returns its handle.
func (dw *dxfWriter) table(name string, n int) string {
	h := dw.alloc()
	dw.pair(0, "TABLE")
	dw.pair(2, name)
	dw.pair(5, h)
	dw.pair(330, "0")
	dw.pair(100, "AcDbSymbolTable")
	dw.integer(70, n)
	return h
}

// record starts a symbol table entry owned by the given table.
func (dw *dxfWriter) record(kind, owner, subclass, name string) string {
	h := dw.alloc()
	dw.pair(0, kind)
	dw.pair(5, h)
	dw.pair(330, owner)
	dw.pair(100, "AcDbSymbolTableRecord")
	dw.pair(100, subclass)
	dw.pair(2, name)
	dw.integer(70, 0)
	return h
}

// tables writes the TABLES section and returns the handles of the block
// records for model space and paper space.
func (dw *dxfWriter) tables(layers []*Layer) (modelSpace, paperSpace string) {
	dw.section("TABLES")

	t := dw.table("VPORT", 1)
	dw.record("VPORT", t, "AcDbViewportTableRecord", "*Active")
	dw.point(10, vec.Vec2{})
	dw.point(11, vec.Vec2{X: 1, Y: 1})
	dw.point(12, vec.Vec2{})
	dw.point(13, vec.Vec2{})
	dw.point(14, vec.Vec2{X: 1, Y: 1})
	dw.point(15, vec.Vec2{X: 1, Y: 1})
	dw.point3(16, 0, 0, 1)
	dw.point3(17, 0, 0, 0)
	dw.float(40, 20)
	dw.float(41, 1)
	dw.float(42, 50)
	dw.endtab()

	t = dw.table("LTYPE", 3)
	for _, name := range []string{"ByBlock", "ByLayer", "Continuous"} {
		dw.record("LTYPE", t, "AcDbLinetypeTableRecord", name)
		desc := ""
		if name == "Continuous" {
			desc = "Solid line"
		}
		dw.pair(3, desc)
		dw.integer(72, 65)
		dw.integer(73, 0)
		dw.float(40, 0)
	}
	dw.endtab()

	t = dw.table("LAYER", len(layers)+1)
	dw.layer(t, "0", 7)
	for _, l := range layers {
		dw.layer(t, l.Name, l.Color)
	}
	dw.endtab()

	t = dw.table("STYLE", 1)
	dw.record("STYLE", t, "AcDbTextStyleTableRecord", "Standard")
	dw.float(40, 0)
	dw.float(41, 1)
	dw.float(50, 0)
	dw.integer(71, 0)
	dw.float(42, 2.5)
	dw.pair(3, "txt")
	dw.pair(4, "")
	dw.endtab()

	dw.table("VIEW", 0)
	dw.endtab()
	dw.table("UCS", 0)
	dw.endtab()

	t = dw.table("APPID", 1)
	dw.record("APPID", t, "AcDbRegAppTableRecord", "ACAD")
	dw.endtab()

	// dimension styles use group code 105 for their handles
	t = dw.table("DIMSTYLE", 1)
	dw.pair(100, "AcDbDimStyleTable")
	dw.integer(71, 0)
	dw.pair(0, "DIMSTYLE")
	dw.pair(105, dw.alloc())
	dw.pair(330, t)
	dw.pair(100, "AcDbSymbolTableRecord")
	dw.pair(100, "AcDbDimStyleTableRecord")
	dw.pair(2, "Standard")
	dw.integer(70, 0)
	dw.endtab()

	t = dw.table("BLOCK_RECORD", 2)
	modelSpace = dw.record("BLOCK_RECORD", t, "AcDbBlockTableRecord", "*Model_Space")
	paperSpace = dw.record("BLOCK_RECORD", t, "AcDbBlockTableRecord", "*Paper_Space")
	dw.endtab()

	dw.endsec()
	return modelSpace, paperSpace
}

func (dw *dxfWriter) endtab() {
	dw.pair(0, "ENDTAB")
}

func (dw *dxfWriter) layer(owner, name string, color int) {
	dw.record("LAYER", owner, "AcDbLayerTableRecord", name)
	dw.integer(62, color)
	dw.pair(6, "Continuous")
	dw.integer(370, -3) // default line weight
}

// blocks writes the BLOCKS section with the (empty) model space and
// paper space blocks.
func (dw *dxfWriter) blocks(modelSpace, paperSpace string) {
	dw.section("BLOCKS")
	for _, b := range []struct {
		name, owner string
		paper       bool
	}{
		{"*Model_Space", modelSpace, false},
		{"*Paper_Space", paperSpace, true},
	} {
		dw.pair(0, "BLOCK")
		dw.pair(5, dw.alloc())
		dw.pair(330, b.owner)
		dw.pair(100, "AcDbEntity")
		if b.paper {
			dw.integer(67, 1)
		}
		dw.pair(8, "0")
		dw.pair(100, "AcDbBlockBegin")
		dw.pair(2, b.name)
		dw.integer(70, 0)
		dw.point3(10, 0, 0, 0)
		dw.pair(3, b.name)
		dw.pair(1, "")

		dw.pair(0, "ENDBLK")
		dw.pair(5, dw.alloc())
		dw.pair(330, b.owner)
		dw.pair(100, "AcDbEntity")
		if b.paper {
			dw.integer(67, 1)
		}
		dw.pair(8, "0")
		dw.pair(100, "AcDbBlockEnd")
	}
	dw.endsec()
}

func (dw *dxfWriter) entity(kind, owner, layer, subclass string) {
	dw.pair(0, kind)
	dw.pair(5, dw.alloc())
	dw.pair(330, owner)
	dw.pair(100, "AcDbEntity")
	dw.pair(8, layer)
	dw.pair(100, subclass)
}

func (dw *dxfWriter) circle(owner, layer string, c *Circle) {
	dw.entity("CIRCLE", owner, layer, "AcDbCircle")
	dw.point(10, c.Center)
	dw.float(30, 0)
	dw.float(40, c.Radius)
}

func (dw *dxfWriter) polyline(owner, layer string, p *Polyline) {
	pts := p.Points.Open()
	dw.entity("LWPOLYLINE", owner, layer, "AcDbPolyline")
	dw.integer(90, len(pts))
	dw.integer(70, 1) // closed
	for _, pt := range pts {
		dw.point(10, pt)
	}
}

func (dw *dxfWriter) spline(owner, layer string, s *Spline) {
	dw.entity("SPLINE", owner, layer, "AcDbSpline")
	dw.float(210, 0)
	dw.float(220, 0)
	dw.float(230, 1)
	dw.integer(70, splineFlagBits)
	dw.integer(71, 3) // degree
	dw.integer(72, 0) // knots
	dw.integer(73, 0) // control points
	dw.integer(74, len(s.FitPoints))
	dw.float(44, splineFitTol)
	for _, pt := range s.FitPoints {
		dw.point(11, pt)
		dw.float(31, 0)
	}
}
