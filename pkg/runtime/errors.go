package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind classifies runtime failures. ReturnedValue is a control-flow
// carrier for `return` and never reaches callers of the interpreter.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	UndefinedVariable
	DuplicateDeclaration
	NullValueEncountered
	ReturnedValue
	DivisionByZero
	CallDepthExceeded
)

var (
	ErrType                 = errors.New("type error")
	ErrUndefinedVariable    = errors.New("undefined variable")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrNullValue            = errors.New("null value encountered")
	ErrReturnedValue        = errors.New("returned value")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrCallDepth            = errors.New("call depth exceeded")
)

var sentinels = map[ErrorKind]error{
	TypeError:            ErrType,
	UndefinedVariable:    ErrUndefinedVariable,
	DuplicateDeclaration: ErrDuplicateDeclaration,
	NullValueEncountered: ErrNullValue,
	ReturnedValue:        ErrReturnedValue,
	DivisionByZero:       ErrDivisionByZero,
	CallDepthExceeded:    ErrCallDepth,
}

func (k ErrorKind) String() string {
	if err, ok := sentinels[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a runtime failure. Offset is the byte offset of the construct that
// failed, or -1 when unknown.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   Value
	Offset  int
	Hint    string
}

// Errorf builds an Error without a location.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// Returned wraps the value of a return statement.
func Returned(v Value) *Error {
	return &Error{Kind: ReturnedValue, Message: "return outside function", Value: v, Offset: -1}
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", e.Kind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// At sets the error location if it has none yet.
func (e *Error) At(offset int) *Error {
	if e.Offset < 0 {
		e.Offset = offset
	}
	return e
}
