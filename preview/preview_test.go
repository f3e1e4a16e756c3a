package preview

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/document"
	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/shape"
)

func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	r := NewRasteriser(image.Rect(0, 0, 10, 1))
	coverage := make([]float32, 10)
	r.Fill(triangle, NonZero, func(y, x int, cov []float32) {
		if y == 0 {
			copy(coverage[x:], cov)
		}
	})

	for x := range 10 {
		want := float32(2*x+1) / 20
		if math.Abs(float64(coverage[x]-want)) > 1e-6 {
			t.Errorf("pixel %d: coverage %.4f, want %.4f", x, coverage[x], want)
		}
	}
}

func square(x0, y0, size float64) *path.Data {
	return shape.Polygon{
		{X: x0, Y: y0}, {X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size}, {X: x0, Y: y0 + size},
	}.Path()
}

func render(p *path.Data, rule FillRule, ctm matrix.Matrix, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	r := NewRasteriser(img.Bounds())
	r.CTM = ctm
	Paint(img, r, p, rule, 255)
	return img
}

func TestFillRules(t *testing.T) {
	// two nested squares with the same orientation
	p := square(2, 2, 16)
	inner := square(6, 6, 8)
	p.Cmds = append(p.Cmds, inner.Cmds...)
	p.Coords = append(p.Coords, inner.Coords...)

	nz := render(p, NonZero, matrix.Identity, 20, 20)
	eo := render(p, EvenOdd, matrix.Identity, 20, 20)

	if nz.GrayAt(10, 10).Y != 255 {
		t.Errorf("nonzero: centre is %d, want 255", nz.GrayAt(10, 10).Y)
	}
	if eo.GrayAt(10, 10).Y != 0 {
		t.Errorf("even-odd: centre is %d, want 0", eo.GrayAt(10, 10).Y)
	}
	for _, img := range []*image.Gray{nz, eo} {
		if img.GrayAt(3, 3).Y != 255 || img.GrayAt(0, 0).Y != 0 || img.GrayAt(19, 19).Y != 0 {
			t.Error("ring or outside pixels wrong")
		}
	}
}

func TestCircleArea(t *testing.T) {
	c := shape.Circle{Center: vec.Vec2{X: 2, Y: 2}, Radius: 1.5}
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	r := NewRasteriser(img.Bounds())
	r.CTM = matrix.Matrix{10, 0, 0, 10, 0, 0} // scale by 10 about the origin
	r.Flatness = 0.01
	Paint(img, r, c.Path(), NonZero, 255)

	var sum float64
	for _, v := range img.Pix {
		sum += float64(v) / 255
	}
	want := math.Pi * 15 * 15
	if math.Abs(sum-want) > 0.01*want {
		t.Errorf("covered area %g, want %g", sum, want)
	}
}

func TestClip(t *testing.T) {
	p := square(-5, -5, 30)
	img := image.NewGray(image.Rect(0, 0, 10, 8))
	r := NewRasteriser(image.Rectangle{})
	Paint(img, r, p, NonZero, 255)
	for i, v := range img.Pix {
		if v != 255 {
			t.Fatalf("pixel %d is %d, want 255", i, v)
		}
	}
}

func TestRender(t *testing.T) {
	lay, err := layout.Compute(layout.Params{Type: layout.Necklace, Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	engraving := []shape.Polygon{
		{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}},
		{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}},
	}
	doc := document.Assemble(document.Meta{SKU: "x"}, lay, engraving, nil)

	const res = 10
	img, err := Render(doc, res)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 140 || img.Bounds().Dy() != 140 {
		t.Fatalf("image size %v, want 140x140", img.Bounds())
	}

	// (x, y) in mm, y pointing up
	at := func(x, y float64) uint8 {
		px := int((x + 6 + border) * res)
		py := int((6 + border - y) * res)
		return img.GrayAt(px, py).Y
	}
	checks := []struct {
		name string
		x, y float64
		want uint8
	}{
		{"corner", -6.5, -6.5, Background},
		{"body", 4, -3, BodyShade},
		{"hole", 0, 4.9, Background},
		{"engraving", 1.5, 0, Engraving},
		{"counter", 0, 0, BodyShade},
	}
	for _, c := range checks {
		if got := at(c.x, c.y); got != c.want {
			t.Errorf("%s: gray %d, want %d", c.name, got, c.want)
		}
	}

	fname := filepath.Join(t.TempDir(), "preview", "x.png")
	if err := SavePNG(doc, fname, res); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fname); err != nil {
		t.Error(err)
	}
}

func TestStroke(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	r := NewRasteriser(img.Bounds())
	r.Flatness = 0.01
	p := (&path.Data{}).MoveTo(vec.Vec2{X: 2, Y: 10}).LineTo(vec.Vec2{X: 18, Y: 10})
	PaintStroke(img, r, p, 4, 255)

	for _, pt := range []image.Point{{10, 8}, {10, 11}, {2, 10}, {18, 9}} {
		if v := img.GrayAt(pt.X, pt.Y).Y; v != 255 {
			t.Errorf("pixel %v is %d, want 255", pt, v)
		}
	}
	for _, pt := range []image.Point{{10, 6}, {10, 13}, {0, 0}, {19, 19}} {
		if v := img.GrayAt(pt.X, pt.Y).Y; v != 0 {
			t.Errorf("pixel %v is %d, want 0", pt, v)
		}
	}
	// round cap beyond the end point
	if v := img.GrayAt(19, 10).Y; v == 0 || v == 255 {
		t.Errorf("cap pixel is %d, want partial coverage", v)
	}
}

// Overlapping pieces of a stroke are painted once.
func TestStrokeArea(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	r := NewRasteriser(img.Bounds())
	r.Flatness = 0.01
	PaintStroke(img, r, square(4, 4, 12), 2, 255)

	var sum float64
	for _, v := range img.Pix {
		sum += float64(v) / 255
	}
	want := 14*14 - 10*10 - 4*(1-math.Pi/4)
	if math.Abs(sum-want) > 0.01*want {
		t.Errorf("covered area %g, want %g", sum, want)
	}
}

func TestRenderOutline(t *testing.T) {
	lay, err := layout.Compute(layout.Params{Type: layout.Necklace, Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	doc := document.Assemble(document.Meta{SKU: "x"}, lay, nil, nil)

	const res = 40
	at := func(img *image.Gray, x, y float64) uint8 {
		px := int((x + 6 + border) * res)
		py := int((6 + border - y) * res)
		return img.GrayAt(px, py).Y
	}

	img, err := Render(doc, res)
	if err != nil {
		t.Fatal(err)
	}
	if v := at(img, -3, 0); v != BodyShade {
		t.Fatalf("body is %d, want %d", v, BodyShade)
	}

	doc.Layer(document.LayerBody).Add(document.RectPolyline(rect.Rect{LLx: -3, LLy: -3, URx: 3, URy: 3}))
	img, err = Render(doc, res)
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range [][2]float64{{-3, 0}, {3, 1}, {0, 3}, {-1, -3}} {
		if v := at(img, pt[0], pt[1]); v != Outline {
			t.Errorf("outline at %v is %d, want %d", pt, v, Outline)
		}
	}
	if v := at(img, 0, 0); v != BodyShade {
		t.Errorf("inside the outline: %d, want %d", v, BodyShade)
	}
}
