package engrave

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"seehuhn.de/go/engrave/contour"
	"seehuhn.de/go/engrave/document"
	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/preprocess"
	"seehuhn.de/go/engrave/preview"
	"seehuhn.de/go/engrave/shape"
	"seehuhn.de/go/engrave/source"
	"seehuhn.de/go/engrave/testcases"
)

func necklace(cfg Config) *Job {
	return &Job{
		Object: layout.Params{Type: layout.Necklace, Size: 12},
		SKU:    "N-12",
		Config: cfg,
	}
}

func testCase(t *testing.T, category, name string) testcases.TestCase {
	t.Helper()
	tc, ok := testcases.Find(category, name)
	if !ok {
		t.Fatalf("test case %s/%s not found", category, name)
	}
	return tc
}

func TestRunTestCases(t *testing.T) {
	for category, cases := range testcases.All {
		for _, tc := range cases {
			if tc.Components == 0 {
				continue
			}
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				cfg := DefaultConfig()
				cfg.MinArea = 4
				if tc.Inverted {
					cfg.Polarity = preprocess.LightForeground
				}
				job := necklace(cfg)

				res, err := RunImage(context.Background(), tc.Image(), job, nil)
				if err != nil {
					t.Fatal(err)
				}

				if got := len(res.Fit.Polygons); got != tc.Components {
					t.Errorf("%d outlines, want %d", got, tc.Components)
				}
				for i, p := range res.Fit.Polygons {
					if p.Distinct() < 3 {
						t.Errorf("outline %d has %d distinct points", i, p.Distinct())
					}
					if !p.IsClosed() {
						t.Errorf("outline %d is not closed", i)
					}
				}

				b, ok := shape.Bounds(res.Fit.Polygons)
				if !ok {
					t.Fatal("no bounds")
				}
				if !shape.StrictlyInside(b, res.Fit.Usable) {
					t.Errorf("engraving %v not inside usable area %v", b, res.Fit.Usable)
				}

				doc := res.Document
				if len(doc.Layers) != 3 {
					t.Fatalf("%d layers", len(doc.Layers))
				}
				if n := len(doc.Layer(document.LayerEngraving).Primitives); n != tc.Components {
					t.Errorf("%d engraving primitives, want %d", n, tc.Components)
				}
				if res.Stats.Width != 2*tc.Width || res.Stats.Height != 2*tc.Height {
					t.Errorf("mask size %dx%d", res.Stats.Width, res.Stats.Height)
				}
			})
		}
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	tc := testCase(t, "holes", "frame")

	fname := filepath.Join(dir, "frame.png")
	fd, err := os.Create(fname)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(fd, tc.Raster()); err != nil {
		t.Fatal(err)
	}
	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}

	job := &Job{
		Source: source.Source{Path: fname},
		Object: layout.Params{Type: layout.Bracelet, Size: 20},
		SKU:    "B 20/frame",
		Config: DefaultConfig(),
	}
	res, err := Run(context.Background(), job, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(res.Document.Layer(document.LayerHandles).Primitives); n != 2 {
		t.Errorf("%d handles, want 2", n)
	}

	out := filepath.Join(dir, "out")
	for _, ext := range []string{"dxf", "pdf", "png"} {
		name := filepath.Join(out, document.FileName(job.SKU, ext))
		var err error
		switch ext {
		case "dxf":
			err = res.Document.SaveDXF(name)
		case "pdf":
			err = res.Document.SavePDF(name)
		case "png":
			err = preview.SavePNG(res.Document, name, 10)
		}
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if st, err := os.Stat(name); err != nil || st.Size() == 0 {
			t.Errorf("%s: missing or empty output", name)
		}
	}
}

type spyTracer struct {
	calls int
}

func (s *spyTracer) Trace(m *gray.Mask) ([]shape.Polygon, error) {
	s.calls++
	return (&contour.BorderFollower{}).Trace(m)
}

func TestRunUniform(t *testing.T) {
	img := gray.New(32, 32)
	for i := range img.Pix {
		img.Pix[i] = 0.7
	}
	spy := &spyTracer{}
	cfg := DefaultConfig()
	cfg.Tracer = spy

	res, err := RunImage(context.Background(), img, necklace(cfg), nil)
	if res != nil {
		t.Error("got a result for a uniform image")
	}
	if !errors.Is(err, ErrDegenerateImage) {
		t.Fatalf("got %v, want ErrDegenerateImage", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StagePreprocess {
		t.Errorf("got %v, want a preprocess stage error", err)
	}
	if spy.calls != 0 {
		t.Errorf("tracer called %d times", spy.calls)
	}
}

func TestRunErrors(t *testing.T) {
	disc := testCase(t, "curve", "disc").Image()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	type errorCase struct {
		name  string
		ctx   context.Context
		img   *gray.Image
		job   func(*Job)
		stage Stage
		want  error
	}
	cases := []errorCase{
		{
			name:  "missing_file",
			job:   func(j *Job) { j.Source.Path = filepath.Join(t.TempDir(), "none.png") },
			stage: StageLoad,
			want:  ErrSourceUnavailable,
		},
		{
			name:  "no_source",
			stage: StageLoad,
			want:  ErrSourceUnavailable,
		},
		{
			name:  "bad_type",
			img:   disc,
			job:   func(j *Job) { j.Object.Type = 0 },
			stage: StageLayout,
			want:  ErrInvalidObjectType,
		},
		{
			name: "bad_type_missing_file",
			job: func(j *Job) {
				j.Object.Type = 0
				j.Source.Path = filepath.Join(t.TempDir(), "none.png")
			},
			stage: StageLayout,
			want:  ErrInvalidObjectType,
		},
		{
			name:  "bad_size",
			img:   disc,
			job:   func(j *Job) { j.Object.Size = -1 },
			stage: StageLayout,
			want:  ErrInvalidParams,
		},
		{
			name:  "huge_holes",
			img:   disc,
			job:   func(j *Job) { j.Object.HoleDiameter = 5 },
			stage: StageLayout,
			want:  ErrInvalidParams,
		},
		{
			name:  "all_too_small",
			img:   disc,
			job:   func(j *Job) { j.Config.MinArea = 1e6 },
			stage: StageSimplify,
			want:  ErrNoFeatures,
		},
		{
			name:  "cancelled",
			ctx:   cancelled,
			img:   disc,
			stage: StagePreprocess,
			want:  context.Canceled,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := c.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			job := necklace(DefaultConfig())
			if c.job != nil {
				c.job(job)
			}

			var err error
			if c.img != nil {
				_, err = RunImage(ctx, c.img, job, nil)
			} else {
				_, err = Run(ctx, job, nil)
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
			var se *StageError
			if !errors.As(err, &se) {
				t.Fatalf("%T is not a stage error", err)
			}
			if se.Stage != c.stage {
				t.Errorf("stage %s, want %s", se.Stage, c.stage)
			}
		})
	}
}

// Invalid object parameters are reported before any image processing.
func TestRunLayoutFirst(t *testing.T) {
	spy := &spyTracer{}
	cfg := DefaultConfig()
	cfg.Tracer = spy
	job := necklace(cfg)
	job.Object.Type = 0

	_, err := RunImage(context.Background(), testCase(t, "basic", "square").Image(), job, nil)
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageLayout {
		t.Fatalf("got %v, want a layout error", err)
	}
	if spy.calls != 0 {
		t.Errorf("tracer called %d times", spy.calls)
	}
}

// Curved outlines stay inside the usable rectangle, even where the
// curve through the vertices overshoots.
func TestRunSmoothContained(t *testing.T) {
	for _, name := range []string{"disc", "heart", "ring"} {
		cfg := DefaultConfig()
		cfg.Converter = document.SmoothConverter{MaxAngle: 1, MaxCurvature: 1}
		job := necklace(cfg)
		job.Object.HoleDiameter = 3.8

		res, err := RunImage(context.Background(), testCase(t, "curve", name).Image(), job, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		u := res.Fit.Usable
		for i, p := range res.Document.Layer(document.LayerEngraving).Primitives {
			b := p.Bounds()
			if !(b.LLx > u.LLx && b.LLy > u.LLy && b.URx < u.URx && b.URy < u.URy) {
				t.Errorf("%s: primitive %d (%T) has bounds %v outside %v", name, i, p, b, u)
			}
		}
		for _, h := range res.Document.Layer(document.LayerHandles).Primitives {
			hb := h.Bounds()
			if hb.URx > u.LLx && hb.LLx < u.URx && hb.URy > u.LLy && hb.LLy < u.URy {
				t.Errorf("%s: hole %v overlaps the usable area %v", name, hb, u)
			}
		}
	}
}

func TestDebugRect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebugRect = true
	res, err := RunImage(context.Background(), testCase(t, "basic", "square").Image(), necklace(cfg), nil)
	if err != nil {
		t.Fatal(err)
	}
	body := res.Document.Layer(document.LayerBody).Primitives
	if len(body) != 2 {
		t.Fatalf("%d body primitives, want 2", len(body))
	}
	if _, ok := body[1].(*document.Polyline); !ok {
		t.Errorf("debug rectangle is %T", body[1])
	}
	if got := body[1].Bounds(); got != res.Fit.Usable {
		t.Errorf("debug rectangle %v, want %v", got, res.Fit.Usable)
	}
}

func TestRunPotrace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracer = contour.NewPotrace()
	res, err := RunImage(context.Background(), testCase(t, "curve", "ring").Image(), necklace(cfg), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Fit.Polygons) == 0 {
		t.Error("no outlines")
	}
}

func TestRunLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	_, err := RunImage(context.Background(), testCase(t, "basic", "triangle").Image(), necklace(DefaultConfig()), log)
	if err != nil {
		t.Fatal(err)
	}

	done := logs.FilterMessage("blank assembled").All()
	if len(done) != 1 {
		t.Fatalf("%d completion messages, want 1", len(done))
	}
	if done[0].Level != zapcore.InfoLevel {
		t.Errorf("completion logged at level %s", done[0].Level)
	}
	if sku := done[0].ContextMap()["sku"]; sku != "N-12" {
		t.Errorf("sku field = %v", sku)
	}
	if n := logs.FilterLevelExact(zapcore.DebugLevel).Len(); n < 4 {
		t.Errorf("%d debug messages, want one per stage", n)
	}
}

func TestStageError(t *testing.T) {
	err := &StageError{Stage: StageTrace, Input: "logo.png", Err: ErrNoFeatures}
	if got, want := err.Error(), "logo.png: trace: no features detected"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNoFeatures) {
		t.Error("errors.Is failed")
	}
	if got := Stage(99).String(); got != "Stage(99)" {
		t.Errorf("got %q", got)
	}
}
