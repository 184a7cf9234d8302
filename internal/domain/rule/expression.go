package rule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EvalExpression вычисляет литерал порога: число или произведение двух чисел (`7*2.5`).
// Других операторов, скобок и переменных нет.
func EvalExpression(token string) (float64, error) {
	parts := strings.Split(token, "*")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q has more than one '*'", ErrMalformedExpression, token)
	}

	value := 1.0
	for _, part := range parts {
		n, err := parseNumber(part)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedExpression, token, err)
		}
		value *= n
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedExpression, token)
	}
	return value, nil
}

// parseNumber принимает только цифры с не более чем одной точкой.
// strconv.ParseFloat сам по себе пропустил бы знаки, экспоненту, inf и hex.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty operand")
	}

	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return 0, fmt.Errorf("unexpected character %q in %q", c, s)
		}
	}
	if digits == 0 || dots > 1 {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	return strconv.ParseFloat(s, 64)
}
