// File: internal/value/match_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package value_test

import (
	"math"
	"testing"

	"github.com/momentics/lindaring/internal/value"
)

func TestRequestSatisfiesEQ(t *testing.T) {
	req := value.NewRequest(value.Int(5), value.EQ)
	if !req.Satisfies(value.Int(5)) {
		t.Error("expected Int(5) EQ to satisfy Int(5)")
	}
	if req.Satisfies(value.Int(6)) {
		t.Error("expected Int(5) EQ to not satisfy Int(6)")
	}
}

func TestRequestSatisfiesANYRequiresType(t *testing.T) {
	req := value.NewRequest(value.EmptyFloat(), value.ANY)
	if !req.Satisfies(value.Float(3.14)) {
		t.Error("expected ANY Float to satisfy Float(3.14)")
	}
	if req.Satisfies(value.Int(3)) {
		t.Error("expected ANY Float to not satisfy Int(3) (type mismatch)")
	}
}

func TestRequestSatisfiesStringOrdering(t *testing.T) {
	req := value.NewRequest(value.Str("abc"), value.LT)
	if !req.Satisfies(value.Str("abd")) {
		t.Error(`expected String("abc") LT to satisfy String("abd")`)
	}
}

func TestRequestSatisfiesCrossTypeFalse(t *testing.T) {
	req := value.NewRequest(value.Int(1), value.ANY)
	if req.Satisfies(value.Str("1")) {
		t.Error("expected cross-type match to be false, not an error")
	}
}

func TestRequestSatisfiesNaNAlwaysFalse(t *testing.T) {
	nan := math.NaN()
	cases := []value.ComparisonOperator{value.EQ, value.NEQ, value.GE, value.GT, value.LE, value.LT}
	for _, op := range cases {
		req := value.NewRequest(value.Float(1.0), op)
		if req.Satisfies(value.Float(nan)) {
			t.Errorf("op %v: expected NaN candidate to never satisfy", op)
		}
		reqNaN := value.NewRequest(value.Float(nan), op)
		if reqNaN.Satisfies(value.Float(1.0)) {
			t.Errorf("op %v: expected NaN operand to never satisfy", op)
		}
	}
}

func TestTupleSatisfiesArityMismatch(t *testing.T) {
	req := value.Tuple[value.Request]{value.NewRequest(value.EmptyInt(), value.ANY)}
	vals := value.Tuple[value.Value]{value.Int(1), value.Int(2)}
	if value.TupleSatisfies(req, vals) {
		t.Error("expected arity mismatch to fail")
	}
}

func TestTupleSatisfiesElementwise(t *testing.T) {
	req := value.Tuple[value.Request]{
		value.NewRequest(value.EmptyInt(), value.ANY),
		value.NewRequest(value.Str("x"), value.EQ),
	}
	vals := value.Tuple[value.Value]{value.Int(1), value.Str("x")}
	if !value.TupleSatisfies(req, vals) {
		t.Error("expected elementwise match to succeed")
	}
}
