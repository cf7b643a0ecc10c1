package tracking

import (
	"math"
	"testing"
)

func TestSmoother_FirstCallEchoesInput(t *testing.T) {
	s, err := NewSmoother(0.7)
	if err != nil {
		t.Fatalf("NewSmoother: %v", err)
	}

	if got := s.Smooth(320); got != 320 {
		t.Errorf("First output: got %d, want 320", got)
	}
}

func TestSmoother_BlendsWithPrevious(t *testing.T) {
	s, _ := NewSmoother(0.7)

	s.Smooth(100) // primes to 100

	// round(0.7*100 + 0.3*200) = round(130) = 130
	if got := s.Smooth(200); got != 130 {
		t.Errorf("Second output: got %d, want 130", got)
	}

	// Previous is now 130: round(0.7*130 + 0.3*200) = round(151) = 151
	if got := s.Smooth(200); got != 151 {
		t.Errorf("Third output: got %d, want 151", got)
	}
}

func TestSmoother_SequenceMatchesFormula(t *testing.T) {
	const factor = 0.4
	s, _ := NewSmoother(factor)

	inputs := []int{50, 310, 12, 600, 599, 0}
	prev := 0.0

	for i, x := range inputs {
		got := s.Smooth(x)

		var want int
		if i == 0 {
			want = x
		} else {
			want = int(math.Round(factor*prev + (1-factor)*float64(x)))
		}

		if got != want {
			t.Errorf("Input %d (x=%d): got %d, want %d", i, x, got, want)
		}
		prev = float64(got)
	}
}

func TestSmoother_ZeroFactorTracksInput(t *testing.T) {
	s, _ := NewSmoother(0)

	s.Smooth(100)
	if got := s.Smooth(477); got != 477 {
		t.Errorf("Factor 0 should pass input through, got %d", got)
	}
}

func TestSmoother_FullFactorHoldsFirst(t *testing.T) {
	s, _ := NewSmoother(1)

	s.Smooth(250)
	if got := s.Smooth(9999); got != 250 {
		t.Errorf("Factor 1 should hold the first value, got %d", got)
	}
}

func TestSmoother_RejectsOutOfRangeFactor(t *testing.T) {
	for _, f := range []float64{-0.1, 1.5, 2} {
		if _, err := NewSmoother(f); err == nil {
			t.Errorf("Expected error for factor %v", f)
		}
	}

	s, _ := NewSmoother(0.5)
	if err := s.SetFactor(1.5); err == nil {
		t.Error("Expected error for SetFactor(1.5)")
	}
	if s.Factor() != 0.5 {
		t.Errorf("Factor should be unchanged after rejected update, got %v", s.Factor())
	}
}

func TestSmoother_SetFactorAccepted(t *testing.T) {
	s, _ := NewSmoother(0.7)

	if err := s.SetFactor(0.5); err != nil {
		t.Fatalf("SetFactor(0.5): %v", err)
	}
	if s.Factor() != 0.5 {
		t.Errorf("Factor: got %v, want 0.5", s.Factor())
	}
}

func TestSmoother_ResetPrimesAgain(t *testing.T) {
	s, _ := NewSmoother(0.7)

	s.Smooth(100)
	s.Reset()

	if got := s.Smooth(500); got != 500 {
		t.Errorf("After reset, first output should echo input, got %d", got)
	}
}
