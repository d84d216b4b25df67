// Package transform provides the transformation rule library: a closed set
// of rule kinds, each a pure function from extracted values to one output
// value, plus best-effort rule inversion for the reverse mapper.
package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mapforge/mapforge/domain/document"
)

// Kind tags a transformation rule variant. The set is closed: dispatch is
// an exhaustive switch in Apply, never runtime type inspection.
type Kind string

const (
	KindDirect     Kind = "direct"
	KindConcat     Kind = "concat"
	KindUpperCase  Kind = "uppercase"
	KindLowerCase  Kind = "lowercase"
	KindTrim       Kind = "trim"
	KindReplace    Kind = "replace"
	KindArithmetic Kind = "arithmetic"
	KindDateFormat Kind = "dateformat"
	KindSubstring  Kind = "substring"
	KindDefault    Kind = "default"
	KindLookup     Kind = "lookup"
	KindFormula    Kind = "formula"
)

// ArithmeticOp selects the arithmetic fold.
type ArithmeticOp string

const (
	OpSum      ArithmeticOp = "sum"
	OpMultiply ArithmeticOp = "multiply"
	OpDivide   ArithmeticOp = "divide"
)

// Rule is a tagged variant: Kind selects the case, the remaining fields are
// that case's parameters.
type Rule struct {
	Kind Kind `json:"kind"`

	Separator string            `json:"separator,omitempty"`  // Concat
	Op        ArithmeticOp      `json:"op,omitempty"`         // Arithmetic
	FromFmt   string            `json:"from,omitempty"`       // DateFormat (Go layout)
	ToFmt     string            `json:"to,omitempty"`         // DateFormat (Go layout)
	Start     int               `json:"start,omitempty"`      // Substring
	Length    int               `json:"length,omitempty"`     // Substring, 0 = to end
	Old       string            `json:"old,omitempty"`        // Replace
	New       string            `json:"new,omitempty"`        // Replace
	Value     string            `json:"value,omitempty"`      // Default
	Table     map[string]string `json:"table,omitempty"`      // Lookup
	Expr      string            `json:"expr,omitempty"`       // Formula
}

// Direct is the identity rule.
func Direct() Rule { return Rule{Kind: KindDirect} }

// Evaluator runs a restricted formula expression against an environment.
// Undefined identifiers and division by zero must surface as errors.
type Evaluator interface {
	Eval(expression string, env map[string]any) (any, error)
}

// ErrNoEvaluator is returned when a Formula rule is applied without an
// evaluator.
var ErrNoEvaluator = errors.New("formula rule requires an evaluator")

// Apply runs the rule over the extracted inputs. A missing input is Absent,
// not an empty string; most unary rules pass Absent through as Absent
// rather than failing, since "no value" is a normal extraction outcome.
// Errors mark genuine rule failures (bad number, bad date, formula error).
func Apply(r Rule, inputs []document.Value, eval Evaluator) (document.Value, error) {
	switch r.Kind {
	case KindDirect, "":
		return first(inputs), nil

	case KindConcat:
		parts := make([]string, len(inputs))
		for i, in := range inputs {
			parts[i] = in.StrOr("") // Absent joins as empty
		}
		return document.String(strings.Join(parts, r.Separator)), nil

	case KindUpperCase:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		return document.String(strings.ToUpper(in.Str())), nil

	case KindLowerCase:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		return document.String(strings.ToLower(in.Str())), nil

	case KindTrim:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		return document.String(strings.TrimSpace(in.Str())), nil

	case KindReplace:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		return document.String(strings.ReplaceAll(in.Str(), r.Old, r.New)), nil

	case KindArithmetic:
		return applyArithmetic(r.Op, inputs)

	case KindDateFormat:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		t, err := time.Parse(r.FromFmt, in.Str())
		if err != nil {
			return document.Absent, fmt.Errorf("dateformat: parse %q with layout %q: %w", in.Str(), r.FromFmt, err)
		}
		return document.String(t.Format(r.ToFmt)), nil

	case KindSubstring:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		return document.String(clampSubstring(in.Str(), r.Start, r.Length)), nil

	case KindDefault:
		in := first(inputs)
		if !in.Present() || in.Str() == "" {
			return document.String(r.Value), nil
		}
		return in, nil

	case KindLookup:
		in := first(inputs)
		if !in.Present() {
			return document.Absent, nil
		}
		if mapped, ok := r.Table[in.Str()]; ok {
			return document.String(mapped), nil
		}
		return in, nil

	case KindFormula:
		if eval == nil {
			return document.Absent, ErrNoEvaluator
		}
		return applyFormula(r.Expr, inputs, eval)

	default:
		return document.Absent, fmt.Errorf("unknown transformation kind %q", r.Kind)
	}
}

func first(inputs []document.Value) document.Value {
	if len(inputs) == 0 {
		return document.Absent
	}
	return inputs[0]
}

func applyArithmetic(op ArithmeticOp, inputs []document.Value) (document.Value, error) {
	if len(inputs) < 2 {
		return document.Absent, fmt.Errorf("arithmetic: need at least 2 inputs, got %d", len(inputs))
	}
	nums := make([]float64, len(inputs))
	for i, in := range inputs {
		if !in.Present() {
			return document.Absent, fmt.Errorf("arithmetic: input %d is absent", i+1)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(in.Str()), 64)
		if err != nil {
			return document.Absent, fmt.Errorf("arithmetic: input %d: %q is not numeric", i+1, in.Str())
		}
		nums[i] = n
	}

	acc := nums[0]
	for _, n := range nums[1:] {
		switch op {
		case OpSum:
			acc += n
		case OpMultiply:
			acc *= n
		case OpDivide:
			if n == 0 {
				return document.Absent, errors.New("arithmetic: division by zero")
			}
			acc /= n
		default:
			return document.Absent, fmt.Errorf("arithmetic: unknown op %q", op)
		}
	}
	return document.String(formatNumber(acc)), nil
}

func applyFormula(expression string, inputs []document.Value, eval Evaluator) (document.Value, error) {
	env := make(map[string]any, len(inputs)+1)
	values := make([]any, len(inputs))
	for i, in := range inputs {
		var v any
		if in.Present() {
			if n, err := strconv.ParseFloat(strings.TrimSpace(in.Str()), 64); err == nil && in.Str() != "" {
				v = n
			} else {
				v = in.Str()
			}
		}
		env[fmt.Sprintf("value%d", i+1)] = v
		values[i] = v
	}
	env["values"] = values

	out, err := eval.Eval(expression, env)
	if err != nil {
		return document.Absent, fmt.Errorf("formula: %w", err)
	}
	switch v := out.(type) {
	case nil:
		return document.Absent, nil
	case string:
		return document.String(v), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return document.Absent, errors.New("formula: non-finite result")
		}
		return document.String(formatNumber(v)), nil
	case int:
		return document.String(strconv.Itoa(v)), nil
	case bool:
		return document.String(strconv.FormatBool(v)), nil
	default:
		return document.String(fmt.Sprintf("%v", v)), nil
	}
}

func clampSubstring(s string, start, length int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start >= len(runes) {
		return ""
	}
	end := len(runes)
	if length > 0 && start+length < end {
		end = start + length
	}
	return string(runes[start:end])
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
