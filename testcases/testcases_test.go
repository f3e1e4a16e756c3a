package testcases

import (
	"regexp"
	"testing"
)

var validName = regexp.MustCompile(`^[a-z_]+$`)

func TestNames(t *testing.T) {
	for category, cases := range All {
		seen := make(map[string]bool)
		for _, tc := range cases {
			if !validName.MatchString(tc.Name) {
				t.Errorf("%s: invalid name %q", category, tc.Name)
			}
			if seen[tc.Name] {
				t.Errorf("%s: duplicate name %q", category, tc.Name)
			}
			seen[tc.Name] = true
		}
	}
}

func TestRaster(t *testing.T) {
	for category, cases := range All {
		for _, tc := range cases {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				img := tc.Raster()
				if b := img.Bounds(); b.Dx() != tc.Width || b.Dy() != tc.Height {
					t.Fatalf("size %dx%d, want %dx%d", b.Dx(), b.Dy(), tc.Width, tc.Height)
				}

				dark := 0
				for _, v := range img.Pix {
					if v < 128 {
						dark++
					}
				}
				if tc.Inverted {
					dark = len(img.Pix) - dark
				}
				if dark == 0 || dark >= len(img.Pix)/2 {
					t.Errorf("shape covers %d of %d pixels", dark, len(img.Pix))
				}

				// the canvas border stays background
				corner := img.Pix[0]
				if tc.Inverted && corner != 0 || !tc.Inverted && corner != 255 {
					t.Errorf("corner pixel = %d", corner)
				}
			})
		}
	}
}

func TestImage(t *testing.T) {
	tc, ok := Find("curve", "disc")
	if !ok {
		t.Fatal("curve/disc not found")
	}
	img := tc.Image()
	if img.Uniform() {
		t.Fatal("image is uniform")
	}
	if v := img.At(32, 32); v != 0 {
		t.Errorf("centre = %g, want 0", v)
	}
	if v := img.At(0, 0); v != 1 {
		t.Errorf("corner = %g, want 1", v)
	}

	if _, ok := Find("curve", "missing"); ok {
		t.Error("found a missing test case")
	}
}
