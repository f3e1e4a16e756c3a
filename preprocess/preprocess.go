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

// Package preprocess turns an intensity image into a binary mask, ready
// for contour tracing.
//
// The steps are applied in a fixed order: orientation, upsampling,
// Gaussian smoothing, and global thresholding using Otsu's method.
package preprocess

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/engrave/gray"
)

// ErrDegenerateImage is returned for images without any intensity
// variation, where no threshold can separate foreground and background.
var ErrDegenerateImage = errors.New("degenerate image")

// Orientation selects an axis transformation applied before any other
// processing step.  Different output formats use different axis
// conventions, so there is no implicit default.
type Orientation int

// These are the supported orientations.
const (
	Identity       Orientation = iota // leave the image unchanged
	FlipHorizontal                    // mirror left and right
	FlipVertical                      // mirror top and bottom
	Rotate90                          // rotate by 90 degrees counter-clockwise
)

func (o Orientation) String() string {
	switch o {
	case Identity:
		return "identity"
	case FlipHorizontal:
		return "fliph"
	case FlipVertical:
		return "flipv"
	case Rotate90:
		return "rot90"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation converts the output of [Orientation.String] back.
func ParseOrientation(s string) (Orientation, error) {
	for o := Identity; o <= Rotate90; o++ {
		if strings.EqualFold(s, o.String()) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// Polarity selects which side of the threshold is foreground.
type Polarity int

const (
	// DarkForeground treats dark pixels as foreground.  This suits
	// drawings and photographs which are etched into the metal.
	DarkForeground Polarity = iota

	// LightForeground treats light pixels as foreground.  This suits line
	// art on a dark background.
	LightForeground
)

func (p Polarity) String() string {
	switch p {
	case DarkForeground:
		return "dark"
	case LightForeground:
		return "light"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// ParsePolarity converts the output of [Polarity.String] back.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(s) {
	case "dark":
		return DarkForeground, nil
	case "light":
		return LightForeground, nil
	}
	return 0, fmt.Errorf("unknown polarity %q", s)
}

// Config holds the parameters of [Run].
type Config struct {
	Orientation Orientation
	Polarity    Polarity

	// Upsample is the integer magnification factor.  Values below 1 are
	// treated as 1.
	Upsample int

	// BlurSigma is the standard deviation of the Gaussian smoothing
	// kernel, in pixels of the upsampled image.  Zero disables smoothing.
	BlurSigma float64

	// OpenRadius is the radius of the morphological opening applied after
	// smoothing.  Zero disables the step.
	OpenRadius int
}

// DefaultConfig returns the settings used for DXF output.
func DefaultConfig() Config {
	return Config{
		Orientation: FlipVertical,
		Polarity:    DarkForeground,
		Upsample:    2,
		BlurSigma:   1.0,
	}
}

// Run applies all preprocessing steps to img and returns the resulting
// foreground mask.  The input image is not modified.
func Run(img *gray.Image, cfg Config) (*gray.Mask, error) {
	if img.Uniform() {
		return nil, ErrDegenerateImage
	}

	img = Orient(img, cfg.Orientation)
	img = Upsample(img, cfg.Upsample)
	img = Blur(img, cfg.BlurSigma)
	img = Open(img, cfg.OpenRadius)

	t, err := OtsuThreshold(img)
	if err != nil {
		return nil, err
	}
	return Binarize(img, t, cfg.Polarity), nil
}

// Orient applies the axis transformation o to img.
func Orient(img *gray.Image, o Orientation) *gray.Image {
	w, h := img.Width, img.Height
	switch o {
	case FlipHorizontal:
		res := gray.New(w, h)
		for y := range h {
			src := img.Pix[y*w : (y+1)*w]
			dst := res.Pix[y*w : (y+1)*w]
			for x := range w {
				dst[x] = src[w-1-x]
			}
		}
		return res
	case FlipVertical:
		res := gray.New(w, h)
		for y := range h {
			copy(res.Pix[y*w:(y+1)*w], img.Pix[(h-1-y)*w:(h-y)*w])
		}
		return res
	case Rotate90:
		// The top row of the input becomes the left column of the output,
		// read from bottom to top.
		res := gray.New(h, w)
		for y := range h {
			for x := range w {
				res.Pix[(w-1-x)*h+y] = img.Pix[y*w+x]
			}
		}
		return res
	default:
		return img.Clone()
	}
}

// Binarize returns the mask of all pixels on the foreground side of the
// threshold t.  Values below t are dark, values at or above t are light.
func Binarize(img *gray.Image, t float32, p Polarity) *gray.Mask {
	m := gray.NewMask(img.Width, img.Height)
	for i, v := range img.Pix {
		if p == LightForeground {
			m.Bits[i] = v >= t
		} else {
			m.Bits[i] = v < t
		}
	}
	return m
}
