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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// svgMargin is the space around the drawing, in mm
const svgMargin = 1.0

// svgStroke is the line width of all outlines, in mm
const svgStroke = 0.05

// WriteSVG writes the document as an SVG drawing.  Lengths are in mm.
// Every layer becomes a group whose id is the layer name, and all
// primitives are drawn as black outlines without fill.
func (d *Document) WriteSVG(w io.Writer) error {
	b, ok := d.Bounds()
	if !ok {
		return fmt.Errorf("svg: empty document")
	}
	x0 := b.LLx - svgMargin
	y0 := -b.URy - svgMargin // the y axis points down in SVG
	width := b.URx - b.LLx + 2*svgMargin
	height := b.URy - b.LLy + 2*svgMargin

	sw := &svgWriter{w: bufio.NewWriter(w)}
	sw.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sw.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\"\n")
	sw.printf("     width=\"%smm\" height=\"%smm\" viewBox=\"%s %s %s %s\">\n",
		num(width), num(height), num(x0), num(y0), num(width), num(height))
	if d.Meta.SKU != "" {
		sw.printf("<title>%s</title>\n", escape(d.Meta.SKU))
	}
	for _, l := range d.Layers {
		sw.printf("<g id=\"%s\" fill=\"none\" stroke=\"black\" stroke-width=\"%s\">\n",
			escape(l.Name), num(svgStroke))
		for _, p := range l.Primitives {
			switch p := p.(type) {
			case *Circle:
				sw.printf("<circle cx=\"%s\" cy=\"%s\" r=\"%s\"/>\n",
					num(p.Center.X), num(-p.Center.Y), num(p.Radius))
			case *Polyline:
				var pts []string
				for _, pt := range p.Points.Open() {
					pts = append(pts, num(pt.X)+","+num(-pt.Y))
				}
				sw.printf("<polygon points=\"%s\"/>\n", strings.Join(pts, " "))
			default:
				sw.printf("<path d=\"%s\"/>\n", pathData(p.Path()))
			}
		}
		sw.printf("</g>\n")
	}
	sw.printf("</svg>\n")

	if sw.err != nil {
		return sw.err
	}
	return sw.w.Flush()
}

// SaveSVG writes the document to the named file.  Missing parent
// directories are created.
func (d *Document) SaveSVG(fname string) (err error) {
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
	return d.WriteSVG(fd)
}

// svgWriter remembers the first write error.
type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (sw *svgWriter) printf(format string, a ...any) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, a...)
}

// pathData converts p into SVG path syntax, mirroring the y axis.
func pathData(p *path.Data) string {
	var sb strings.Builder
	pt := func(v vec.Vec2) {
		sb.WriteString(num(v.X))
		sb.WriteByte(',')
		sb.WriteString(num(-v.Y))
	}
	k := 0
	for i, cmd := range p.Cmds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch cmd {
		case path.CmdMoveTo:
			sb.WriteString("M")
			pt(p.Coords[k])
			k++
		case path.CmdLineTo:
			sb.WriteString("L")
			pt(p.Coords[k])
			k++
		case path.CmdQuadTo:
			sb.WriteString("Q")
			pt(p.Coords[k])
			sb.WriteByte(' ')
			pt(p.Coords[k+1])
			k += 2
		case path.CmdCubeTo:
			sb.WriteString("C")
			pt(p.Coords[k])
			sb.WriteByte(' ')
			pt(p.Coords[k+1])
			sb.WriteByte(' ')
			pt(p.Coords[k+2])
			k += 3
		case path.CmdClose:
			sb.WriteString("Z")
		}
	}
	return sb.String()
}

func num(x float64) string {
	if x == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
