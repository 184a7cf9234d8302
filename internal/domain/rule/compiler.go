package rule

import (
	"fmt"
	"strconv"
	"strings"
)

// token результат классификации одного токена строки правила.
type token interface {
	isToken()
}

type conditionToken struct {
	cond Condition
}

type modifierToken struct {
	include bool
	index   uint32
}

func (conditionToken) isToken() {}
func (modifierToken) isToken() {}

// classifyToken определяет вид токена по первому символу.
func classifyToken(s string) (token, error) {
	switch c := s[0]; {
	case isLetter(c):
		cond, err := ParseCondition(s)
		if err != nil {
			return nil, err
		}
		return conditionToken{cond: cond}, nil

	case (c == '+' || c == '-') && isDigits(s[1:]):
		n, err := strconv.ParseUint(s[1:], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: variant %q out of range", ErrInvalidToken, s)
		}
		return modifierToken{include: c == '+', index: uint32(n)}, nil

	default:
		return nil, ErrInvalidToken
	}
}

// Option настраивает компиляцию Ruleset.
type Option func(*Ruleset)

// WithVariantPolicy задаёт, как сочетаются наборы +N и -N одного правила.
func WithVariantPolicy(p VariantPolicy) Option {
	return func(rs *Ruleset) {
		rs.policy = p
	}
}

// Compile собирает Ruleset из многострочного текста правил.
// Первая ошибочная строка прерывает компиляцию целиком.
func Compile(text string, opts ...Option) (*Ruleset, error) {
	rs := New(opts...)
	if err := rs.Compile(text); err != nil {
		return nil, err
	}
	return rs, nil
}

func compileText(text string) ([]Rule, error) {
	var compiled []Rule

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		r, err := compileLine(line, i+1)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, r)
	}

	return compiled, nil
}

func compileLine(line string, lineNo int) (Rule, error) {
	fields := strings.Fields(line)
	r := Rule{
		Code:   fields[0],
		Line:   lineNo,
		Source: strings.Join(fields, " "),
	}

	for _, f := range fields[1:] {
		tok, err := classifyToken(f)
		if err != nil {
			return Rule{}, &LineError{Line: lineNo, Token: f, Err: err}
		}

		switch t := tok.(type) {
		case conditionToken:
			r.Conditions = append(r.Conditions, t.cond)
		case modifierToken:
			if t.include {
				r.Included = addVariant(r.Included, t.index)
			} else {
				r.Excluded = addVariant(r.Excluded, t.index)
			}
		default:
			return Rule{}, &LineError{Line: lineNo, Token: f, Err: ErrInvalidToken}
		}
	}

	return r, nil
}

func addVariant(set map[uint32]struct{}, v uint32) map[uint32]struct{} {
	if set == nil {
		set = make(map[uint32]struct{})
	}
	set[v] = struct{}{}
	return set
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
