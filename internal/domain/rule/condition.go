package rule

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute выбирает одну из геометрических величин дефекта.
type Attribute int

const (
	PositionX Attribute = iota
	PositionY
	Width
	Height
)

var attributeLetters = map[byte]Attribute{
	'x': PositionX,
	'y': PositionY,
	'w': Width,
	'h': Height,
}

func (a Attribute) String() string {
	switch a {
	case PositionX:
		return "x"
	case PositionY:
		return "y"
	case Width:
		return "w"
	case Height:
		return "h"
	default:
		return "?"
	}
}

// Comparator оператор сравнения в условии.
type Comparator int

const (
	GreaterThan Comparator = iota
	GreaterOrEqual
	LessThan
	LessOrEqual
	Equal
)

// comparatorSpellings упорядочен: двухсимвольные операторы проверяются раньше односимвольных.
var comparatorSpellings = []struct {
	text string
	cmp  Comparator
}{
	{">=", GreaterOrEqual},
	{"<=", LessOrEqual},
	{"==", Equal},
	{">", GreaterThan},
	{"<", LessThan},
}

func (c Comparator) String() string {
	for _, s := range comparatorSpellings {
		if s.cmp == c {
			return s.text
		}
	}
	return "?"
}

func (c Comparator) compare(a, b float64) bool {
	switch c {
	case GreaterThan:
		return a > b
	case GreaterOrEqual:
		return a >= b
	case LessThan:
		return a < b
	case LessOrEqual:
		return a <= b
	case Equal:
		return a == b
	default:
		return false
	}
}

// Condition геометрический предикат вида `w<=17.5`.
type Condition struct {
	Attribute  Attribute
	Comparator Comparator
	Threshold  float64
}

// ParseCondition разбирает токен `<x|y|w|h><оператор><выражение>`.
func ParseCondition(token string) (Condition, error) {
	if token == "" {
		return Condition{}, fmt.Errorf("%w: empty condition", ErrUnknownAttribute)
	}

	attr, ok := attributeLetters[token[0]]
	if !ok {
		return Condition{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, token[:1])
	}

	rest := token[1:]
	for _, s := range comparatorSpellings {
		if !strings.HasPrefix(rest, s.text) {
			continue
		}
		threshold, err := EvalExpression(rest[len(s.text):])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Attribute: attr, Comparator: s.cmp, Threshold: threshold}, nil
	}

	return Condition{}, fmt.Errorf("%w: %q", ErrUnknownComparator, rest)
}

// Holds проверяет условие для целочисленного значения атрибута дефекта.
func (c Condition) Holds(value int64) bool {
	return c.Comparator.compare(float64(value), c.Threshold)
}

func (c Condition) String() string {
	return c.Attribute.String() + c.Comparator.String() + strconv.FormatFloat(c.Threshold, 'f', -1, 64)
}
