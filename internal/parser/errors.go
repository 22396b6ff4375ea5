package parser

import (
	"errors"
	"fmt"
)

// ErrRecursion matches any RecursionError via errors.Is
var ErrRecursion = errors.New("recursion limit exceeded")

// RecursionKind names the nesting that hit its limit
type RecursionKind string

const (
	FileRecursion  RecursionKind = "file"
	QuoteRecursion RecursionKind = "quote"
)

// RecursionError reports an inclusion or quote nested deeper than allowed.
// Depth is the depth the rejected parse would have run at.
type RecursionError struct {
	Kind  RecursionKind
	Name  string
	Line  int
	Depth int
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("%s recursion limit exceeded at %s:%d: depth %d exceeds max %d",
		e.Kind, e.Name, e.Line, e.Depth, e.Limit)
}

func (e *RecursionError) Is(target error) bool {
	return target == ErrRecursion
}

// MissingFileError reports an included file that could not be located or read
type MissingFileError struct {
	Name string
	From string
	Line int
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("cannot include %q from %s:%d: %v", e.Name, e.From, e.Line, e.Err)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}
