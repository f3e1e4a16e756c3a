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

package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetGray(1, 1, color.Gray{Y: 0})

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "in.png")
	if err := os.WriteFile(fname, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(context.Background(), Source{Path: fname}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Fatalf("size %dx%d, want 4x3", img.Width, img.Height)
	}
	if img.Pix[1*4+1] != 0 || img.Pix[0] != 1 {
		t.Errorf("unexpected samples %v", img.Pix)
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		src  Source
	}{
		{"missing", Source{Path: filepath.Join(dir, "missing.png")}},
		{"undecodable", Source{Path: garbage}},
		{"empty", Source{}},
		{"both", Source{Path: garbage, URL: "http://example.invalid/"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(context.Background(), c.src, nil)
			if !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("got %v, want ErrSourceUnavailable", err)
			}
		})
	}
}

func TestLoadURL(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/slow.png":
			time.Sleep(200 * time.Millisecond)
			w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	img, err := Load(context.Background(), Source{URL: srv.URL + "/ok.png"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 4 {
		t.Errorf("width = %d, want 4", img.Width)
	}

	_, err = Load(context.Background(), Source{URL: srv.URL + "/missing.png"}, nil)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("404: got %v, want ErrSourceUnavailable", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = Load(ctx, Source{URL: srv.URL + "/slow.png"}, nil)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("timeout: got %v, want ErrSourceUnavailable", err)
	}

	_, err = Load(context.Background(), Source{URL: srv.URL + "/ok.png"}, &Options{MaxBytes: 10})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("size limit: got %v, want ErrSourceUnavailable", err)
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected method %s", r.Method)
		}
		switch r.URL.Path {
		case "/img":
			w.Header().Set("Content-Type", "image/jpeg")
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		case "/moved":
			http.Redirect(w, r, "/img", http.StatusFound)
		}
	}))
	defer srv.Close()

	cases := map[string]bool{
		"/img":   true,
		"/page":  false,
		"/moved": false,
	}
	for p, want := range cases {
		got, err := Probe(context.Background(), srv.URL+p, nil)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if got != want {
			t.Errorf("%s: got %t, want %t", p, got, want)
		}
	}
}
