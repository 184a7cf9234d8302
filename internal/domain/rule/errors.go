package rule

import (
	"errors"
	"fmt"
)

// Ошибки компиляции и контракта Ruleset.
var (
	ErrMalformedExpression = errors.New("malformed expression")
	ErrUnknownAttribute    = errors.New("unknown attribute")
	ErrUnknownComparator   = errors.New("unknown comparator")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNotCompiled         = errors.New("ruleset is not compiled")
	ErrAlreadyCompiled     = errors.New("ruleset is already compiled")
)

// LineError привязывает ошибку компиляции к строке текста правил.
type LineError struct {
	Line  int    // номер строки, начиная с 1
	Token string // токен, на котором остановился разбор
	Err   error
}

func (e *LineError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: token %q: %v", e.Line, e.Token, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
