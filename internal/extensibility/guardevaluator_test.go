package extensibility

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultGuardEvaluator_Eval_Func(t *testing.T) {
	called := false
	e := &DefaultGuardEvaluator{}
	result := e.Eval(step, func() bool {
		called = true
		return true
	})
	if !result {
		t.Error("func guard returned false")
	}
	if !called {
		t.Error("guard func not called")
	}
}

func TestDefaultGuardEvaluator_Eval_Nil(t *testing.T) {
	e := &DefaultGuardEvaluator{}
	if !e.Eval(step, nil) {
		t.Error("nil guard should be true")
	}
}

func TestLoggingGuardEvaluator(t *testing.T) {
	var buf bytes.Buffer
	e := NewLoggingGuardEvaluator(nil, zerolog.New(&buf).Level(zerolog.DebugLevel))

	if e.Eval(step, func() bool { return false }) {
		t.Error("rejecting guard accepted")
	}
	if !strings.Contains(buf.String(), `"accepted":false`) {
		t.Errorf("missing outcome in log: %s", buf.String())
	}
}

func TestParseExpression(t *testing.T) {
	vars := map[string]any{
		"temp":     35.0,
		"count":    3,
		"loggedIn": true,
		"region":   "eu",
		"missing":  nil,
	}
	tests := []struct {
		expr string
		want bool
	}{
		{"temp == 35", true},
		{"temp == 31", false},
		{"temp > 30", true},
		{"temp < 30", false},
		{"temp >= 35", true},
		{"temp <= 34.5", false},
		{"count < 4", true},
		{"count == 3", true},
		{"loggedIn == true", true},
		{"loggedIn == false", false},
		{"loggedIn != false", true},
		{"region == eu", true},
		{"region != us", true},
		{"missing == nil", true},
		{"absent == nil", false},
		{"absent > 0", false},
		{"region > 1", false},
	}
	for _, tt := range tests {
		pred, err := ParseExpression(tt.expr)
		if err != nil {
			t.Fatalf("ParseExpression(%q): %v", tt.expr, err)
		}
		if got := pred(vars); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestParseExpression_Invalid(t *testing.T) {
	for _, expr := range []string{"", "temp", "temp >", "temp ~ 3", "temp > hot", "a == b c"} {
		if _, err := ParseExpression(expr); !errors.Is(err, ErrBadExpression) {
			t.Errorf("ParseExpression(%q) err = %v, want ErrBadExpression", expr, err)
		}
	}
}

func TestExpressionGuard(t *testing.T) {
	g := MustExpressionGuard[string, string]("amount >= 1000")
	if !g("PaymentReceived", "Process", map[string]any{"amount": 1500}) {
		t.Error("1500 >= 1000")
	}
	if g("PaymentReceived", "Process", map[string]any{"amount": 10}) {
		t.Error("10 < 1000")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustExpressionGuard should panic on a bad expression")
		}
	}()
	MustExpressionGuard[string, string]("amount >=")
}
