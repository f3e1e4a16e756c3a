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

// Command engrave converts an image into the outline drawing of an
// engraved jewelry blank.
//
// Usage:
//
//	engrave -image logo.png -sku N-12 -type necklace -size 12 -out blanks
//
// With -svg, an SVG drawing is written in place of the DXF file, and the
// image is rotated by 90 degrees unless -orient is given.
//
// Every flag can also be set using an environment variable with the
// prefix ENGRAVE_, for example ENGRAVE_SIZE=12.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sfomuseum/go-flags/flagset"
	"go.uber.org/zap"

	"seehuhn.de/go/engrave"
	"seehuhn.de/go/engrave/contour"
	"seehuhn.de/go/engrave/document"
	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/preprocess"
	"seehuhn.de/go/engrave/preview"
	"seehuhn.de/go/engrave/source"
)

type options struct {
	image, url string
	sku        string
	objectType string
	size, hole float64

	orient, polarity string
	orientSet        bool
	upsample         int
	sigma            float64
	open             int
	tolerance        float64
	minArea          float64
	margin           float64
	tracer           string
	curves           bool
	debugRect        bool

	out      string
	writeSVG bool
	writePDF bool
	writePNG bool
	pxPerMM  float64
	timeout  time.Duration
	verbose  bool
}

func main() {
	def := engrave.DefaultConfig()
	opt := &options{}

	fs := flagset.NewFlagSet("engrave")

	fs.StringVar(&opt.image, "image", "", "input image file")
	fs.StringVar(&opt.url, "url", "", "input image URL")
	fs.StringVar(&opt.sku, "sku", "", "product identifier, used for the output file names")
	fs.StringVar(&opt.objectType, "type", "necklace", "object type (necklace or bracelet)")
	fs.Float64Var(&opt.size, "size", 0, "body diameter in mm")
	fs.Float64Var(&opt.hole, "hole", layout.DefaultHoleDiameter, "hole diameter in mm")

	fs.StringVar(&opt.orient, "orient", def.Orientation.String(), "image orientation (identity, flipv, fliph, rot90)")
	fs.StringVar(&opt.polarity, "polarity", def.Polarity.String(), "foreground polarity (dark or light)")
	fs.IntVar(&opt.upsample, "upsample", def.Upsample, "upsampling factor")
	fs.Float64Var(&opt.sigma, "sigma", def.BlurSigma, "standard deviation of the smoothing kernel, in pixels")
	fs.IntVar(&opt.open, "open", def.OpenRadius, "radius of the morphological opening, in pixels")
	fs.Float64Var(&opt.tolerance, "tolerance", def.Tolerance, "simplification tolerance, relative to the outline perimeter")
	fs.Float64Var(&opt.minArea, "min-area", def.MinArea, "drop outlines up to this area, in pixels")
	fs.Float64Var(&opt.margin, "margin", def.Margin, "fraction of the usable area filled by the engraving")
	fs.StringVar(&opt.tracer, "tracer", "border", "outline tracer (border or potrace)")
	fs.BoolVar(&opt.curves, "curves", false, "store smooth outlines as splines")
	fs.BoolVar(&opt.debugRect, "debug-rect", false, "add the usable rectangle to the body layer")

	fs.StringVar(&opt.out, "out", ".", "output directory")
	fs.BoolVar(&opt.writeSVG, "svg", false, "write an SVG drawing instead of DXF")
	fs.BoolVar(&opt.writePDF, "pdf", false, "also write a PDF proof")
	fs.BoolVar(&opt.writePNG, "png", false, "also write a PNG preview")
	fs.Float64Var(&opt.pxPerMM, "png-res", 40, "PNG preview resolution in pixels per mm")
	fs.DurationVar(&opt.timeout, "timeout", source.DefaultTimeout, "time limit for downloading the image")
	fs.BoolVar(&opt.verbose, "verbose", false, "log details of every stage")

	flagset.Parse(fs)
	err := flagset.SetFlagsFromEnvVars(fs, "ENGRAVE")
	if err != nil {
		fmt.Fprintln(os.Stderr, "engrave:", err)
		os.Exit(1)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "orient" {
			opt.orientSet = true
		}
	})

	log, err := newLogger(opt.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "engrave:", err)
		os.Exit(1)
	}

	err = run(context.Background(), opt, log)
	log.Sync()
	if err != nil {
		log.Error("engrave failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, opt *options, log *zap.Logger) error {
	job, err := opt.job()
	if err != nil {
		return err
	}

	if job.Source.URL != "" {
		ok, err := source.Probe(ctx, job.Source.URL, job.Config.Load)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is not an image", engrave.ErrSourceUnavailable, job.Source.URL)
		}
	}

	res, err := engrave.Run(ctx, job, log)
	if err != nil {
		return err
	}

	if opt.writeSVG {
		name := filepath.Join(opt.out, document.FileName(job.SKU, "svg"))
		if err := res.Document.SaveSVG(name); err != nil {
			return err
		}
		log.Info("wrote drawing", zap.String("file", name))
	} else {
		name := filepath.Join(opt.out, document.FileName(job.SKU, "dxf"))
		if err := res.Document.SaveDXF(name); err != nil {
			return err
		}
		log.Info("wrote drawing", zap.String("file", name))
	}

	if opt.writePDF {
		name := filepath.Join(opt.out, document.FileName(job.SKU, "pdf"))
		if err := res.Document.SavePDF(name); err != nil {
			return err
		}
		log.Info("wrote proof", zap.String("file", name))
	}
	if opt.writePNG {
		name := filepath.Join(opt.out, document.FileName(job.SKU, "png"))
		if err := preview.SavePNG(res.Document, name, opt.pxPerMM); err != nil {
			return err
		}
		log.Info("wrote preview", zap.String("file", name))
	}
	return nil
}

// job converts the command line options into a pipeline job.
func (opt *options) job() (*engrave.Job, error) {
	if (opt.image == "") == (opt.url == "") {
		return nil, errors.New("exactly one of -image and -url must be given")
	}
	if opt.sku == "" {
		return nil, errors.New("missing -sku")
	}

	objectType, err := layout.ParseObjectType(opt.objectType)
	if err != nil {
		return nil, err
	}
	orientName := opt.orient
	if opt.writeSVG && !opt.orientSet {
		orientName = preprocess.Rotate90.String()
	}
	orient, err := preprocess.ParseOrientation(orientName)
	if err != nil {
		return nil, err
	}
	polarity, err := preprocess.ParsePolarity(opt.polarity)
	if err != nil {
		return nil, err
	}

	cfg := engrave.DefaultConfig()
	cfg.Orientation = orient
	cfg.Polarity = polarity
	cfg.Upsample = opt.upsample
	cfg.BlurSigma = opt.sigma
	cfg.OpenRadius = opt.open
	cfg.Tolerance = opt.tolerance
	cfg.MinArea = opt.minArea
	cfg.Margin = opt.margin
	cfg.DebugRect = opt.debugRect
	cfg.Load = &source.Options{Timeout: opt.timeout}

	switch strings.ToLower(opt.tracer) {
	case "border":
		cfg.Tracer = &contour.BorderFollower{}
	case "potrace":
		cfg.Tracer = contour.NewPotrace()
	default:
		return nil, fmt.Errorf("unknown tracer %q", opt.tracer)
	}
	if opt.curves {
		cfg.Converter = document.SmoothConverter{}
	}

	return &engrave.Job{
		Source: source.Source{Path: opt.image, URL: opt.url},
		Object: layout.Params{
			Type:         objectType,
			Size:         opt.size,
			HoleDiameter: opt.hole,
		},
		SKU:    opt.sku,
		Config: cfg,
	}, nil
}
