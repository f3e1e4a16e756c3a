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

// Package engrave turns a raster image into the outlines of an engraved
// jewelry blank.
//
// [Run] executes the whole pipeline for one [Job]: the image is loaded,
// binarised and traced, the outlines are simplified and fitted into the
// usable area of the blank, and the result is assembled into a layered
// [document.Document] which the caller can save as DXF, PDF or PNG.
package engrave

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/engrave/contour"
	"seehuhn.de/go/engrave/document"
	"seehuhn.de/go/engrave/fit"
	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/preprocess"
	"seehuhn.de/go/engrave/shape"
	"seehuhn.de/go/engrave/simplify"
	"seehuhn.de/go/engrave/source"
)

// Config holds the tunable parameters of the pipeline.
type Config struct {
	Orientation preprocess.Orientation
	Polarity    preprocess.Polarity

	// Upsample is the integer magnification applied before smoothing.
	Upsample int

	// BlurSigma is the standard deviation of the Gaussian smoothing
	// kernel, in pixels of the upsampled image.
	BlurSigma float64

	// OpenRadius is the radius of the morphological opening which removes
	// small light specks.  Zero disables the step.
	OpenRadius int

	// Tolerance is the simplification tolerance, relative to the
	// perimeter of each outline.
	Tolerance float64

	// MinArea drops outlines whose absolute area, in pixels of the
	// upsampled image, is at most this value.
	MinArea float64

	// Margin is the fraction of the usable rectangle which the engraving
	// may fill.  Zero selects fit.DefaultMargin.
	Margin float64

	// Tracer extracts the outlines from the binary mask.
	// If nil, a border follower is used.
	Tracer contour.Tracer

	// Converter turns fitted outlines into document primitives.
	// If nil, outlines are stored as polylines.
	Converter document.Converter

	// DebugRect adds the usable rectangle to the body layer.
	DebugRect bool

	// Load controls how remote images are fetched.
	Load *source.Options
}

// DefaultConfig returns the settings used for DXF output.
func DefaultConfig() Config {
	pre := preprocess.DefaultConfig()
	return Config{
		Orientation: pre.Orientation,
		Polarity:    pre.Polarity,
		Upsample:    pre.Upsample,
		BlurSigma:   pre.BlurSigma,
		OpenRadius:  pre.OpenRadius,
		Tolerance:   simplify.DefaultTolerance,
		Margin:      fit.DefaultMargin,
	}
}

// Job describes one blank to produce.
type Job struct {
	Source source.Source
	Object layout.Params
	SKU    string

	Config Config
}

// Stats summarises a pipeline run.
type Stats struct {
	Width, Height int // size of the binary mask
	Foreground    int // number of foreground pixels in the mask
	Contours      int // outlines found by the tracer
	Dropped       int // outlines removed by the area filter
	Points        int // vertices in the final engraving
	Elapsed       time.Duration
}

// Result is the outcome of a successful [Run].
type Result struct {
	Document *document.Document
	Fit      *fit.Result
	Stats    Stats
}

// Run executes the pipeline for job.  The object parameters are checked
// before the image is loaded.  The context is honoured while the image is
// loaded and checked between stages.  On failure, the returned error is a
// [*StageError] and no document is produced.
//
// If log is nil, nothing is logged.
func Run(ctx context.Context, job *Job, log *zap.Logger) (*Result, error) {
	log = jobLogger(log, job)
	start := time.Now()

	lay, err := computeLayout(job, log)
	if err != nil {
		return nil, err
	}

	img, err := source.Load(ctx, job.Source, job.Config.Load)
	if err != nil {
		return nil, stageFailed(log, job, StageLoad, err)
	}
	log.Debug("image loaded",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))

	return process(ctx, img, lay, job, log, start)
}

// RunImage is like [Run], but takes an already decoded image in place of
// job.Source.
func RunImage(ctx context.Context, img *gray.Image, job *Job, log *zap.Logger) (*Result, error) {
	log = jobLogger(log, job)
	start := time.Now()

	lay, err := computeLayout(job, log)
	if err != nil {
		return nil, err
	}
	return process(ctx, img, lay, job, log, start)
}

func computeLayout(job *Job, log *zap.Logger) (*layout.Layout, error) {
	lay, err := layout.Compute(job.Object)
	if err != nil {
		return nil, stageFailed(log, job, StageLayout, err)
	}
	log.Debug("layout computed",
		zap.Stringer("type", lay.Type),
		zap.Float64("radius", lay.Body.Radius),
		zap.Int("holes", len(lay.Holes)))
	return lay, nil
}

func jobLogger(log *zap.Logger, job *Job) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(zap.String("sku", job.SKU), zap.Stringer("input", job.Source))
}

func stageFailed(log *zap.Logger, job *Job, stage Stage, err error) error {
	log.Debug("stage failed", zap.Stringer("stage", stage), zap.Error(err))
	return &StageError{Stage: stage, Input: job.Source.String(), Err: err}
}

func process(ctx context.Context, img *gray.Image, lay *layout.Layout, job *Job, log *zap.Logger, start time.Time) (*Result, error) {
	cfg := job.Config
	stats := Stats{}

	fail := func(stage Stage, err error) (*Result, error) {
		return nil, stageFailed(log, job, stage, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(StagePreprocess, err)
	}
	mask, err := preprocess.Run(img, preprocess.Config{
		Orientation: cfg.Orientation,
		Polarity:    cfg.Polarity,
		Upsample:    cfg.Upsample,
		BlurSigma:   cfg.BlurSigma,
		OpenRadius:  cfg.OpenRadius,
	})
	if err != nil {
		return fail(StagePreprocess, err)
	}
	stats.Width, stats.Height = mask.Width, mask.Height
	stats.Foreground = mask.Count()
	log.Debug("image binarised",
		zap.Int("width", mask.Width),
		zap.Int("height", mask.Height),
		zap.Int("foreground", stats.Foreground))

	polys, err := trace(ctx, cfg.Tracer, mask)
	if err != nil {
		return fail(StageTrace, err)
	}
	stats.Contours = len(polys)
	log.Debug("outlines traced", zap.Int("contours", len(polys)))

	if err := ctx.Err(); err != nil {
		return fail(StageSimplify, err)
	}
	polys, stats.Dropped = simplify.Polygons(polys, simplify.Options{
		Tolerance: cfg.Tolerance,
		MinArea:   cfg.MinArea,
	})
	if len(polys) == 0 {
		return fail(StageSimplify, fmt.Errorf("%w: all %d outlines below the area threshold",
			contour.ErrNoFeatures, stats.Dropped))
	}
	log.Debug("outlines simplified",
		zap.Int("contours", len(polys)),
		zap.Int("dropped", stats.Dropped))

	if err := ctx.Err(); err != nil {
		return fail(StageFit, err)
	}
	fitted, err := fit.Engraving(lay, polys, cfg.Margin)
	if err != nil {
		return fail(StageFit, err)
	}
	log.Debug("engraving fitted",
		zap.Float64("scale", fitted.Transform.Scale),
		zap.Float64("dx", fitted.Transform.DX),
		zap.Float64("dy", fitted.Transform.DY))

	if err := ctx.Err(); err != nil {
		return fail(StageAssemble, err)
	}
	conv := cfg.Converter
	if conv != nil {
		conv = document.ContainedConverter{Converter: conv, Area: fitted.Usable}
	}
	doc := document.Assemble(document.Meta{SKU: job.SKU}, lay, fitted.Polygons, conv)
	if cfg.DebugRect {
		doc.Layer(document.LayerBody).Add(document.RectPolyline(fitted.Usable))
	}
	for _, p := range fitted.Polygons {
		stats.Points += len(p.Open())
	}
	stats.Elapsed = time.Since(start)

	log.Info("blank assembled",
		zap.Stringer("type", lay.Type),
		zap.Float64("size", job.Object.Size),
		zap.Int("contours", len(fitted.Polygons)),
		zap.Int("points", stats.Points),
		zap.Float64("scale", fitted.Transform.Scale),
		zap.Duration("elapsed", stats.Elapsed))

	return &Result{
		Document: doc,
		Fit:      fitted,
		Stats:    stats,
	}, nil
}

func trace(ctx context.Context, t contour.Tracer, mask *gray.Mask) ([]shape.Polygon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		t = &contour.BorderFollower{}
	}
	return t.Trace(mask)
}
