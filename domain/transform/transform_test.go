package transform_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/transform"
)

func vals(ss ...string) []document.Value {
	out := make([]document.Value, len(ss))
	for i, s := range ss {
		out[i] = document.String(s)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		rule    transform.Rule
		inputs  []document.Value
		want    string
		absent  bool
		wantErr string
	}{
		{
			name:   "direct",
			rule:   transform.Direct(),
			inputs: vals("hello"),
			want:   "hello",
		},
		{
			name:   "direct absent passthrough",
			rule:   transform.Direct(),
			inputs: []document.Value{document.Absent},
			absent: true,
		},
		{
			name:   "concat",
			rule:   transform.Rule{Kind: transform.KindConcat, Separator: " "},
			inputs: vals("John", "Doe"),
			want:   "John Doe",
		},
		{
			name:   "concat absent joins empty",
			rule:   transform.Rule{Kind: transform.KindConcat, Separator: "-"},
			inputs: []document.Value{document.String("A"), document.Absent, document.String("C")},
			want:   "A--C",
		},
		{
			name:   "uppercase",
			rule:   transform.Rule{Kind: transform.KindUpperCase},
			inputs: vals("eur"),
			want:   "EUR",
		},
		{
			name:   "lowercase",
			rule:   transform.Rule{Kind: transform.KindLowerCase},
			inputs: vals("EUR"),
			want:   "eur",
		},
		{
			name:   "uppercase absent passthrough",
			rule:   transform.Rule{Kind: transform.KindUpperCase},
			inputs: []document.Value{document.Absent},
			absent: true,
		},
		{
			name:   "trim",
			rule:   transform.Rule{Kind: transform.KindTrim},
			inputs: vals("  x  "),
			want:   "x",
		},
		{
			name:   "replace",
			rule:   transform.Rule{Kind: transform.KindReplace, Old: ",", New: "."},
			inputs: vals("1,50"),
			want:   "1.50",
		},
		{
			name:   "arithmetic sum",
			rule:   transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpSum},
			inputs: vals("10", "2.5"),
			want:   "12.5",
		},
		{
			name:   "arithmetic multiply",
			rule:   transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpMultiply},
			inputs: vals("4", "2.5"),
			want:   "10",
		},
		{
			name:   "arithmetic divide",
			rule:   transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpDivide},
			inputs: vals("10", "4"),
			want:   "2.5",
		},
		{
			name:    "arithmetic divide by zero",
			rule:    transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpDivide},
			inputs:  vals("10", "0"),
			wantErr: "division by zero",
		},
		{
			name:    "arithmetic single input",
			rule:    transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpSum},
			inputs:  vals("10"),
			wantErr: "at least 2 inputs",
		},
		{
			name:    "arithmetic non-numeric",
			rule:    transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpSum},
			inputs:  vals("10", "abc"),
			wantErr: "not numeric",
		},
		{
			name:    "arithmetic absent input",
			rule:    transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpSum},
			inputs:  []document.Value{document.String("10"), document.Absent},
			wantErr: "absent",
		},
		{
			name:   "dateformat",
			rule:   transform.Rule{Kind: transform.KindDateFormat, FromFmt: "20060102", ToFmt: "2006-01-02"},
			inputs: vals("20260115"),
			want:   "2026-01-15",
		},
		{
			name:    "dateformat bad input",
			rule:    transform.Rule{Kind: transform.KindDateFormat, FromFmt: "20060102", ToFmt: "2006-01-02"},
			inputs:  vals("not-a-date"),
			wantErr: "dateformat",
		},
		{
			name:   "substring",
			rule:   transform.Rule{Kind: transform.KindSubstring, Start: 3, Length: 4},
			inputs: vals("DE-12345"),
			want:   "1234",
		},
		{
			name:   "substring clamps past end",
			rule:   transform.Rule{Kind: transform.KindSubstring, Start: 3, Length: 99},
			inputs: vals("DE-12345"),
			want:   "12345",
		},
		{
			name:   "substring start past end",
			rule:   transform.Rule{Kind: transform.KindSubstring, Start: 99, Length: 2},
			inputs: vals("short"),
			want:   "",
		},
		{
			name:   "default fills absent",
			rule:   transform.Rule{Kind: transform.KindDefault, Value: "N/A"},
			inputs: []document.Value{document.Absent},
			want:   "N/A",
		},
		{
			name:   "default keeps present",
			rule:   transform.Rule{Kind: transform.KindDefault, Value: "N/A"},
			inputs: vals("real"),
			want:   "real",
		},
		{
			name:   "lookup hit",
			rule:   transform.Rule{Kind: transform.KindLookup, Table: map[string]string{"ST": "EA"}},
			inputs: vals("ST"),
			want:   "EA",
		},
		{
			name:   "lookup miss passes through",
			rule:   transform.Rule{Kind: transform.KindLookup, Table: map[string]string{"ST": "EA"}},
			inputs: vals("KG"),
			want:   "KG",
		},
		{
			name:    "unknown kind",
			rule:    transform.Rule{Kind: "bogus"},
			inputs:  vals("x"),
			wantErr: "unknown transformation kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transform.Apply(tt.rule, tt.inputs, nil)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tt.absent {
				if got.Present() {
					t.Fatalf("got %q, want absent", got.Str())
				}
				return
			}
			if !got.Present() || got.Str() != tt.want {
				t.Errorf("got %q (present=%v), want %q", got.Str(), got.Present(), tt.want)
			}
		})
	}
}

// fakeEval implements transform.Evaluator for formula tests.
type fakeEval struct {
	got map[string]any
	out any
	err error
}

func (f *fakeEval) Eval(expression string, env map[string]any) (any, error) {
	f.got = env
	return f.out, f.err
}

func TestApply_Formula(t *testing.T) {
	eval := &fakeEval{out: 12.5}
	rule := transform.Rule{Kind: transform.KindFormula, Expr: "value1 * value2"}

	got, err := transform.Apply(rule, vals("5", "2.5"), eval)
	if err != nil {
		t.Fatal(err)
	}
	if got.Str() != "12.5" {
		t.Errorf("got %q, want 12.5", got.Str())
	}
	if eval.got["value1"] != 5.0 || eval.got["value2"] != 2.5 {
		t.Errorf("numeric inputs not coerced: %v", eval.got)
	}
}

func TestApply_Formula_AbsentIsNil(t *testing.T) {
	eval := &fakeEval{out: nil}
	rule := transform.Rule{Kind: transform.KindFormula, Expr: "value1"}

	got, err := transform.Apply(rule, []document.Value{document.Absent}, eval)
	if err != nil {
		t.Fatal(err)
	}
	if got.Present() {
		t.Error("nil formula result should be absent")
	}
	if v, ok := eval.got["value1"]; !ok || v != nil {
		t.Errorf("absent input should map to nil, got %v", v)
	}
}

func TestApply_Formula_Errors(t *testing.T) {
	rule := transform.Rule{Kind: transform.KindFormula, Expr: "x"}

	if _, err := transform.Apply(rule, vals("1"), nil); err == nil {
		t.Error("nil evaluator should error")
	}

	eval := &fakeEval{err: fmt.Errorf("undefined identifier")}
	if _, err := transform.Apply(rule, vals("1"), eval); err == nil {
		t.Error("evaluator error should propagate")
	}
}
