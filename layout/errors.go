package layout

import (
	"fmt"
	"strings"
)

// ErrorKind 区分布局错误类型。
type ErrorKind int

const (
	NoSuchFont ErrorKind = iota + 1
	InvalidSpan
	ShapingFailed
)

func (k ErrorKind) String() string {
	switch k {
	case NoSuchFont:
		return "no such font"
	case InvalidSpan:
		return "invalid span"
	case ShapingFailed:
		return "shaping failed"
	}
	return "layout error"
}

// 供 errors.Is 使用的哨兵值。
var (
	ErrNoSuchFont    = &Error{Kind: NoSuchFont}
	ErrInvalidSpan   = &Error{Kind: InvalidSpan}
	ErrShapingFailed = &Error{Kind: ShapingFailed}
)

// Error 是 Finalize 返回的错误。Families 为找不到的字体族列表，Start/End 为出错的文本区间。
type Error struct {
	Kind     ErrorKind
	Families []string
	Start    int
	End      int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("layout: ")
	b.WriteString(e.Kind.String())
	if len(e.Families) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Families, ", "))
	}
	fmt.Fprintf(&b, " at [%d,%d)", e.Start, e.End)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is 匹配同类错误。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }
