package markup

import "fmt"

// ErrorKind classifies markup errors.
type ErrorKind int

const (
	UnterminatedTag ErrorKind = iota + 1
	MismatchedClose
	InvalidAttribute
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedTag:
		return "unterminated tag"
	case MismatchedClose:
		return "mismatched close tag"
	case InvalidAttribute:
		return "invalid attribute"
	}
	return "markup error"
}

// Sentinels for errors.Is.
var (
	ErrUnterminatedTag  = &ParseError{Kind: UnterminatedTag}
	ErrMismatchedClose  = &ParseError{Kind: MismatchedClose}
	ErrInvalidAttribute = &ParseError{Kind: InvalidAttribute}
)

// ParseError reports malformed markup. Offset is a byte offset into the
// original markup, not into the de-tagged text.
type ParseError struct {
	Kind   ErrorKind
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// Is matches any ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func errorf(kind ErrorKind, offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
