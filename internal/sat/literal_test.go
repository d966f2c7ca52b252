package sat

import "testing"

func TestLiteralEncoding(t *testing.T) {
	for v := 0; v < 5; v++ {
		pos := PositiveLiteral(v)
		neg := NegativeLiteral(v)

		if !pos.IsPositive() {
			t.Errorf("PositiveLiteral(%d).IsPositive() = false, want true", v)
		}
		if neg.IsPositive() {
			t.Errorf("NegativeLiteral(%d).IsPositive() = true, want false", v)
		}
		if got := pos.VarID(); got != v {
			t.Errorf("PositiveLiteral(%d).VarID() = %d, want %d", v, got, v)
		}
		if got := neg.VarID(); got != v {
			t.Errorf("NegativeLiteral(%d).VarID() = %d, want %d", v, got, v)
		}
		if pos.Opposite() != neg {
			t.Errorf("PositiveLiteral(%d).Opposite() != NegativeLiteral(%d)", v, v)
		}
		if neg.Opposite() != pos {
			t.Errorf("NegativeLiteral(%d).Opposite() != PositiveLiteral(%d)", v, v)
		}
		if pos.Opposite().Opposite() != pos {
			t.Errorf("Opposite is not involutive for variable %d", v)
		}
	}
}

func TestDimacsRoundTrip(t *testing.T) {
	cases := []int{1, -1, 2, -2, 42, -42}
	for _, x := range cases {
		l := DimacsLiteral(x)
		if got := l.Dimacs(); got != x {
			t.Errorf("DimacsLiteral(%d).Dimacs() = %d, want %d", x, got, x)
		}
	}
}

func TestDimacsLiteralPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DimacsLiteral(0) did not panic")
		}
	}()
	DimacsLiteral(0)
}
