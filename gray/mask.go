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

package gray

import (
	"image"
	"strings"
)

// Mask is a binary image in row-major order.  True marks foreground.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// Get returns the value at (x, y).  Pixels outside the mask are background.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set changes the value at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Image returns the mask as an 8-bit image with black foreground on a
// white background.
func (m *Mask) Image() *image.Gray {
	res := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.Bits {
		if !b {
			res.Pix[i] = 255
		}
	}
	return res
}

// ParseMask builds a mask from rows of text, where '#' marks foreground
// and any other character marks background.  All rows must have the same
// length.  This is mostly useful for tests.
func ParseMask(rows ...string) *Mask {
	if len(rows) == 0 {
		return NewMask(0, 0)
	}
	m := NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if x < m.Width && c == '#' {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// String renders the mask using '#' and '.', one line per row.
func (m *Mask) String() string {
	var b strings.Builder
	for y := range m.Height {
		for x := range m.Width {
			if m.Get(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
