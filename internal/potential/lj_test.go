package potential

import (
	"errors"
	"math"
	"testing"
)

func TestEnergy(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		want float64
	}{
		{"potential minimum", math.Pow(2, 1.0/6.0), -1.0},
		{"zero crossing", 1.0, 0.0},
		{"repulsive core", 0.8, 4 * (math.Pow(0.8, -12) - math.Pow(0.8, -6))},
		{"attractive tail", 2.0, 4 * (math.Pow(2, -12) - math.Pow(2, -6))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Energy(tt.r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Energy(%f): expected %g, got %g", tt.r, tt.want, got)
			}
		})
	}
}

func TestForceVanishesAtMinimum(t *testing.T) {
	rMin := math.Pow(2, 1.0/6.0)
	f, err := Force(rMin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f) > 1e-12 {
		t.Errorf("expected zero force at r=2^(1/6), got %g", f)
	}
}

func TestForceMatchesNumericalDerivative(t *testing.T) {
	const h = 1e-6
	for _, r := range []float64{0.9, 1.0, 1.2, 1.8, 3.0} {
		f, err := Force(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		up, _ := Energy(r + h)
		um, _ := Energy(r - h)
		numeric := -(up - um) / (2 * h)
		if math.Abs(f-numeric) > 1e-4*math.Max(1, math.Abs(f)) {
			t.Errorf("r=%f: -du/dr=%g but central difference gives %g", r, f, numeric)
		}
	}
}

func TestVirial(t *testing.T) {
	r := 1.3
	v, err := Virial(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 24 * (2*math.Pow(r, -12) - math.Pow(r, -6))
	if math.Abs(v-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, v)
	}
}

func TestCoincidentPair(t *testing.T) {
	for _, r := range []float64{0, -0.5} {
		if _, err := Energy(r); !errors.Is(err, ErrCoincident) {
			t.Errorf("Energy(%f): expected ErrCoincident, got %v", r, err)
		}
		if _, err := Force(r); !errors.Is(err, ErrCoincident) {
			t.Errorf("Force(%f): expected ErrCoincident, got %v", r, err)
		}
	}

	var de *DomainError
	_, err := Energy(0)
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.R != 0 {
		t.Errorf("expected offending distance 0, got %g", de.R)
	}
}
