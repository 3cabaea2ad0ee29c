package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/mcollide/internal/collision"
	"github.com/san-kum/mcollide/internal/scene"
	"github.com/san-kum/mcollide/internal/shape"
)

func TestParsePlane(t *testing.T) {
	tests := []struct {
		in      string
		want    Plane
		wantErr bool
	}{
		{"", PlaneXY, false},
		{"XY", PlaneXY, false},
		{"xz", PlaneXZ, false},
		{"zy", PlaneZY, false},
		{"yy", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePlane(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePlane(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestSceneToSVG(t *testing.T) {
	w := scene.NewWorld("pair")
	_, ma := w.AddBody(mgl64.Vec3{}, mgl64.QuatIdent())
	ma.AddShape(shape.NewSphere(1, mgl64.Vec3{}))
	_, mb := w.AddBody(mgl64.Vec3{1.5, 0, 0}, mgl64.QuatIdent())
	mb.AddShape(shape.NewSphere(1, mgl64.Vec3{}))
	w.Fluid = scene.Particles{{0, 3, 0}}

	sys := collision.New(collision.DefaultConfig())
	if err := w.Register(sys); err != nil {
		t.Fatal(err)
	}
	w.Sync(sys)
	sys.Run()

	snap := Capture(sys, w.Fluid)
	if len(snap.Boxes) != 2 || len(snap.Contacts) != 1 {
		t.Fatalf("snapshot has %d boxes, %d contacts", len(snap.Boxes), len(snap.Contacts))
	}
	if snap.Boxes[1].Min[0] < 0.4 || snap.Boxes[1].Min[0] > 0.5 {
		t.Errorf("box not in world space: %v", snap.Boxes[1])
	}

	svg := SceneToSVG(snap, PlaneXY, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed svg document")
	}
	if n := strings.Count(svg, "<rect x="); n != 2 {
		t.Errorf("expected 2 box rects, got %d", n)
	}
	if n := strings.Count(svg, `r="2"`); n != 1 {
		t.Errorf("expected 1 contact marker, got %d", n)
	}
	if n := strings.Count(svg, `r="1"`); n != 1 {
		t.Errorf("expected 1 fluid marker, got %d", n)
	}
}

func TestSceneToSVGEmpty(t *testing.T) {
	svg := SceneToSVG(Snapshot{}, PlaneXZ, 100, 100)
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("empty snapshot should still give a document")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 100, "#fff") != "" {
		t.Error("single value should give no plot")
	}
	svg := SeriesToSVG([]float64{0, 2, 1, 1}, 300, 100, "#00ff00")
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 segments in %q", svg)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
}
