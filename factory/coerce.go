package factory

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// coerceInt, coerceBool and coerceFloat turn a scalar's source text into a
// primitive Go value by compiling and evaluating it as a literal
// expression with github.com/expr-lang/expr. Here the "environment" is
// always nil: any expression that needs no variables is evaluated (so
// "22", "-3.5" and "true" read as themselves, and "2*3" reads as 6), and
// an evaluation error or a result of the wrong type is a BadConversion.
func coerceInt(raw string) (int, error) {
	out, err := expr.Eval(raw, nil)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer: %w", raw, err)
	}
	switch v := out.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%q is not an integer", raw)
}

func coerceBool(raw string) (bool, error) {
	out, err := expr.Eval(raw, nil)
	if err != nil {
		return false, fmt.Errorf("%q is not a bool: %w", raw, err)
	}
	v, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%q is not a bool", raw)
	}
	return v, nil
}

func coerceFloat(raw string) (float64, error) {
	out, err := expr.Eval(raw, nil)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", raw, err)
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%q is not a number", raw)
}
