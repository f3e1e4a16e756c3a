package gray

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestUniform(t *testing.T) {
	img := New(3, 2)
	if !img.Uniform() {
		t.Error("black image should be uniform")
	}
	img.Pix[4] = 0.5
	if img.Uniform() {
		t.Error("image with two values reported as uniform")
	}
	if !(&Image{}).Uniform() {
		t.Error("empty image should be uniform")
	}
}

func TestFromImageTransparent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{A: 255})

	img := FromImage(src)
	if img.Pix[0] != 1 {
		t.Errorf("transparent pixel: got %g, want 1", img.Pix[0])
	}
	if img.Pix[1] != 0 {
		t.Errorf("opaque black pixel: got %g, want 0", img.Pix[1])
	}
}

func TestGray16RoundTrip(t *testing.T) {
	img := New(4, 3)
	for i := range img.Pix {
		img.Pix[i] = float32(i) / float32(len(img.Pix)-1)
	}
	back := FromGray16(img.Gray16())
	for i := range img.Pix {
		if math.Abs(float64(img.Pix[i]-back.Pix[i])) > 1e-4 {
			t.Errorf("sample %d: got %g, want %g", i, back.Pix[i], img.Pix[i])
		}
	}
}

func TestParseMask(t *testing.T) {
	m := ParseMask(
		".#.",
		"###",
	)
	if m.Width != 3 || m.Height != 2 {
		t.Fatalf("size %dx%d, want 3x2", m.Width, m.Height)
	}
	if m.Count() != 4 {
		t.Errorf("count = %d, want 4", m.Count())
	}
	if m.Get(-1, 0) || m.Get(3, 1) {
		t.Error("pixels outside the mask must be background")
	}
	if got, want := m.String(), ".#.\n###\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
