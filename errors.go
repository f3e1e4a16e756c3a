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

package engrave

import (
	"fmt"

	"seehuhn.de/go/engrave/contour"
	"seehuhn.de/go/engrave/fit"
	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/preprocess"
	"seehuhn.de/go/engrave/source"
)

// These errors describe why a job failed.  Use errors.Is to test for them.
var (
	ErrSourceUnavailable     = source.ErrSourceUnavailable
	ErrDegenerateImage       = preprocess.ErrDegenerateImage
	ErrNoFeatures            = contour.ErrNoFeatures
	ErrInvalidObjectType     = layout.ErrInvalidObjectType
	ErrInvalidParams         = layout.ErrInvalidParams
	ErrNoUsableArea          = fit.ErrNoUsableArea
	ErrDegenerateBoundingBox = fit.ErrDegenerateBoundingBox
)

// Stage identifies a step of the pipeline.
type Stage int

// These are the stages of the pipeline, in the order they are run.
const (
	StageLoad Stage = iota + 1
	StagePreprocess
	StageTrace
	StageSimplify
	StageLayout
	StageFit
	StageAssemble
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StagePreprocess:
		return "preprocess"
	case StageTrace:
		return "trace"
	case StageSimplify:
		return "simplify"
	case StageLayout:
		return "layout"
	case StageFit:
		return "fit"
	case StageAssemble:
		return "assemble"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageError records the pipeline stage in which a job failed.
type StageError struct {
	Stage Stage
	Input string
	Err   error
}

func (e *StageError) Error() string {
	if e.Input == "" {
		return e.Stage.String() + ": " + e.Err.Error()
	}
	return e.Input + ": " + e.Stage.String() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
