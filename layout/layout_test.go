package layout

import (
	"errors"
	"math"
	"testing"
)

func TestNecklace(t *testing.T) {
	lay, err := Compute(Params{Type: Necklace, Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	if lay.Body.Radius != 6 || lay.Body.Center.X != 0 || lay.Body.Center.Y != 0 {
		t.Errorf("body = %v", lay.Body)
	}
	if len(lay.Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(lay.Holes))
	}
	h := lay.Holes[0]
	if h.Center.X != 0 || math.Abs(h.Center.Y-4.9) > 1e-12 || h.Radius != 0.55 {
		t.Errorf("hole = %v, want centre (0, 4.9) and radius 0.55", h)
	}
}

func TestBracelet(t *testing.T) {
	lay, err := Compute(Params{Type: Bracelet, Size: 12, HoleDiameter: 1.1})
	if err != nil {
		t.Fatal(err)
	}
	if len(lay.Holes) != 2 {
		t.Fatalf("got %d holes, want 2", len(lay.Holes))
	}
	l, r := lay.Holes[0], lay.Holes[1]
	if l.Center.Y != 0 || r.Center.Y != 0 || l.Center.X != -r.Center.X {
		t.Errorf("holes not symmetric: %v %v", l, r)
	}
	if math.Abs(r.Center.X-4.9) > 1e-12 {
		t.Errorf("right hole at x=%g, want 4.9", r.Center.X)
	}
}

func TestInvalid(t *testing.T) {
	cases := []struct {
		p    Params
		want error
	}{
		{Params{Type: 0, Size: 12}, ErrInvalidObjectType},
		{Params{Type: 7, Size: 12}, ErrInvalidObjectType},
		{Params{Type: Necklace, Size: 0}, ErrInvalidParams},
		{Params{Type: Necklace, Size: -3}, ErrInvalidParams},
		{Params{Type: Necklace, Size: 12, HoleDiameter: -1}, ErrInvalidParams},
		{Params{Type: Bracelet, Size: 3, HoleDiameter: 1.1}, ErrInvalidParams},
	}
	for _, c := range cases {
		_, err := Compute(c.p)
		if !errors.Is(err, c.want) {
			t.Errorf("%+v: got %v, want %v", c.p, err, c.want)
		}
	}
}

func TestParseObjectType(t *testing.T) {
	for _, tp := range []ObjectType{Necklace, Bracelet} {
		got, err := ParseObjectType(tp.String())
		if err != nil || got != tp {
			t.Errorf("ParseObjectType(%q) = %v, %v", tp.String(), got, err)
		}
	}
	if _, err := ParseObjectType("ring"); !errors.Is(err, ErrInvalidObjectType) {
		t.Errorf("ring: got %v", err)
	}
}
