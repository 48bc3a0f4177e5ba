package canopy

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Affine) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestScaleTranslate(t *testing.T) {
	m := ScaleTranslate(2, 10, 20)
	assertMatrix(t, "scaleTranslate", m, Affine{2, 0, 0, 2, 10, 20})
	x, y := m.Apply(3, 4)
	assertNear(t, "x", x, 16)
	assertNear(t, "y", y, 28)
}

func TestAffineMulIdentity(t *testing.T) {
	m := Affine{2, 1, -1, 3, 5, 7}
	assertMatrix(t, "I*m", Identity.Mul(m), m)
	assertMatrix(t, "m*I", m.Mul(Identity), m)
}

func TestAffineMulOrder(t *testing.T) {
	scale := ScaleTranslate(2, 0, 0)
	move := ScaleTranslate(1, 10, 0)
	// move after scale: (1,0) -> (2,0) -> (12,0)
	x, y := move.Mul(scale).Apply(1, 0)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 0)
	// scale after move: (1,0) -> (11,0) -> (22,0)
	x, _ = scale.Mul(move).Apply(1, 0)
	assertNear(t, "x", x, 22)
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Affine{2, 0.5, -0.25, 3, 40, -12}
	inv := m.Invert()
	assertMatrix(t, "m*inv", m.Mul(inv), Identity)

	x, y := m.Apply(7, 9)
	bx, by := inv.Apply(x, y)
	assertNear(t, "x", bx, 7)
	assertNear(t, "y", by, 9)
}

func TestAffineInvertSingular(t *testing.T) {
	m := Affine{0, 0, 0, 0, 5, 5}
	assertMatrix(t, "singular", m.Invert(), Identity)
}

func TestAffineGeoM(t *testing.T) {
	m := Affine{2, 0, 0, 3, 10, 20}
	g := m.GeoM()
	x, y := g.Apply(1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 23)
}
