// Package app provides application services that orchestrate domain logic.
package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FormulaService evaluates restricted Expr expressions for Formula
// transformation rules and business-rule conditions. Compiled programs are
// cached per expression text.
type FormulaService struct {
	cache   map[string]*vm.Program
	cacheMu sync.RWMutex

	envOptions []expr.Option
}

// NewFormulaService creates a formula service with the custom functions
// available in all expressions.
func NewFormulaService() *FormulaService {
	s := &FormulaService{
		cache: make(map[string]*vm.Program),
	}

	s.envOptions = []expr.Option{
		expr.Function("lower", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("lower requires 1 argument")
			}
			return strings.ToLower(toString(params[0])), nil
		}),
		expr.Function("upper", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("upper requires 1 argument")
			}
			return strings.ToUpper(toString(params[0])), nil
		}),
		expr.Function("trim", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("trim requires 1 argument")
			}
			return strings.TrimSpace(toString(params[0])), nil
		}),
		expr.Function("replace", func(params ...any) (any, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("replace requires 3 arguments (str, old, new)")
			}
			return strings.ReplaceAll(toString(params[0]), toString(params[1]), toString(params[2])), nil
		}),
		expr.Function("concat", func(params ...any) (any, error) {
			var b strings.Builder
			for _, p := range params {
				b.WriteString(toString(p))
			}
			return b.String(), nil
		}),
		expr.Function("coalesce", func(params ...any) (any, error) {
			for _, p := range params {
				if p != nil && p != "" {
					return p, nil
				}
			}
			return nil, nil
		}),
		expr.Function("default", func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("default requires 2 arguments (value, defaultValue)")
			}
			if params[0] == nil || params[0] == "" {
				return params[1], nil
			}
			return params[0], nil
		}),
		expr.Function("num", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("num requires 1 argument")
			}
			return toFloat(params[0]), nil
		}),
	}

	return s
}

// Eval evaluates an expression against the environment. Undefined
// identifiers are compile errors, and integer division by zero is a
// runtime error; both surface as rule failures, never panics.
func (s *FormulaService) Eval(expression string, env map[string]any) (any, error) {
	program, err := s.getOrCompile(expression, env)
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("run expression: %w", err)
	}
	return result, nil
}

// EvalBool evaluates a condition expression. Non-boolean results are an
// error: conditions must be assertions, not values.
func (s *FormulaService) EvalBool(expression string, env map[string]any) (bool, error) {
	result, err := s.Eval(expression, env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q evaluated to %T, want bool", expression, result)
	}
	return b, nil
}

// ClearCache clears the compiled expression cache.
func (s *FormulaService) ClearCache() {
	s.cacheMu.Lock()
	s.cache = make(map[string]*vm.Program)
	s.cacheMu.Unlock()
}

func (s *FormulaService) getOrCompile(expression string, env map[string]any) (*vm.Program, error) {
	s.cacheMu.RLock()
	program, ok := s.cache[expression]
	s.cacheMu.RUnlock()
	if ok {
		return program, nil
	}

	opts := append([]expr.Option{expr.Env(env)}, s.envOptions...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.cache[expression] = program
	s.cacheMu.Unlock()
	return program, nil
}

// Helper functions

func toString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v any) float64 {
	if v == nil {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		var f float64
		fmt.Sscanf(val, "%f", &f)
		return f
	default:
		return 0
	}
}
