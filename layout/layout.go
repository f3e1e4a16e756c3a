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

// Package layout computes the fixed geometry of a jewelry blank: the
// circular body and the mounting holes.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/shape"
)

var (
	// ErrInvalidObjectType is returned for unknown object types.
	ErrInvalidObjectType = errors.New("invalid object type")

	// ErrInvalidParams is returned when the dimensions of an object are
	// not usable.
	ErrInvalidParams = errors.New("invalid object parameters")
)

// ObjectType selects the arrangement of mounting holes.
type ObjectType int

// These are the supported object types.
const (
	Necklace ObjectType = iota + 1 // one hole at the top
	Bracelet                       // two holes, left and right
)

func (t ObjectType) String() string {
	switch t {
	case Necklace:
		return "necklace"
	case Bracelet:
		return "bracelet"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

// ParseObjectType converts the output of [ObjectType.String] back.
func ParseObjectType(s string) (ObjectType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "necklace":
		return Necklace, nil
	case "bracelet":
		return Bracelet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidObjectType, s)
}

// DefaultHoleDiameter is the diameter of the mounting holes in mm.
const DefaultHoleDiameter = 1.1

// Params describes a jewelry blank.  All lengths are in mm.
type Params struct {
	Type ObjectType

	// Size is the diameter of the body.
	Size float64

	// HoleDiameter is the diameter of the mounting holes.  The zero value
	// selects DefaultHoleDiameter.
	HoleDiameter float64
}

// Layout is the geometry of a blank, centred at the origin, with the y
// axis pointing up.
type Layout struct {
	Type  ObjectType
	Body  shape.Circle
	Holes []shape.Circle
}

// Compute returns the body and hole circles for the object described by p.
// Each hole is inset from the rim of the body by one hole diameter.
func Compute(p Params) (*Layout, error) {
	d := p.HoleDiameter
	if d == 0 {
		d = DefaultHoleDiameter
	}
	if !(p.Size > 0) {
		return nil, fmt.Errorf("%w: size %g", ErrInvalidParams, p.Size)
	}
	if !(d > 0) {
		return nil, fmt.Errorf("%w: hole diameter %g", ErrInvalidParams, d)
	}

	r := p.Size / 2
	res := &Layout{
		Type: p.Type,
		Body: shape.Circle{Radius: r},
	}
	offset := r - d
	switch p.Type {
	case Necklace:
		res.Holes = []shape.Circle{
			{Center: vec.Vec2{X: 0, Y: offset}, Radius: d / 2},
		}
	case Bracelet:
		res.Holes = []shape.Circle{
			{Center: vec.Vec2{X: -offset, Y: 0}, Radius: d / 2},
			{Center: vec.Vec2{X: offset, Y: 0}, Radius: d / 2},
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidObjectType, p.Type)
	}

	// The hole must lie inside the body, away from the centre.
	if offset-d/2 <= 0 {
		return nil, fmt.Errorf("%w: hole diameter %g too large for size %g",
			ErrInvalidParams, d, p.Size)
	}
	return res, nil
}
