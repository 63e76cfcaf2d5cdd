// Package markup parses bracket-tag rich text into plain text and style spans.
//
// The grammar is literal text interleaved with tags:
//
//	[bold]        open a class tag
//	[size=32]     open a valued tag
//	[ff=Serif;i]  several attributes in one tag
//	[/bold]       close the innermost open tag
//	\[ \] \\      literal brackets and backslash
//
// Close tags must match the innermost open tag: every name in the close tag
// must be one of the names the open tag declared.
package markup

import (
	"errors"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/ByLCY/scroll/style"
)

// Parsed is the result of parsing markup: the de-tagged text and the spans
// in the order their open tags appear.
type Parsed struct {
	Text  string       `json:"text"`
	Spans []style.Span `json:"spans"`
}

// openTag is a stack entry for a tag waiting for its close.
type openTag struct {
	kinds     []string
	rawOffset int
	spanIndex int
}

type attribute struct {
	name     string
	value    string
	hasValue bool
	offset   int
}

// Parse parses markup with the built-in classes only.
func Parse(src string) (*Parsed, error) {
	return ParseWithClasses(src, nil)
}

// lexFailure keeps the byte offset the lexer reported.
func lexFailure(err error) *ParseError {
	var le *lexer.Error
	if errors.As(err, &le) {
		return errorf(InvalidAttribute, le.Pos.Offset, "%s", le.Msg)
	}
	return &ParseError{Kind: InvalidAttribute, Detail: err.Error()}
}

// ParseWithClasses parses markup, resolving value-less attributes against
// classes before the built-in ones. On error no partial result is returned.
func ParseWithClasses(src string, classes Classes) (*Parsed, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, lexFailure(err)
	}
	p := &parser{tokens: tokens, classes: classes, stack: arraystack.New()}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.result(), nil
}

type parser struct {
	tokens  []lexer.Token
	pos     int
	classes Classes
	out     strings.Builder
	spans   []style.Span
	stack   *arraystack.Stack
}

func (p *parser) run() error {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.EOF() {
			break
		}
		switch tok.Type {
		case textType, backslashType:
			p.out.WriteString(tok.Value)
		case escapeType:
			p.out.WriteString(tok.Value[1:])
		case openStartType:
			if err := p.openTag(tok.Pos.Offset); err != nil {
				return err
			}
		case closeStartType:
			if err := p.closeTag(tok.Pos.Offset); err != nil {
				return err
			}
		default:
			return errorf(InvalidAttribute, tok.Pos.Offset, "unexpected %s %q", tokenName(tok.Type), tok.Value)
		}
	}
	if !p.stack.Empty() {
		values := p.stack.Values()
		outer := values[len(values)-1].(*openTag)
		return errorf(UnterminatedTag, outer.rawOffset, "[%s] is never closed", strings.Join(outer.kinds, ";"))
	}
	return nil
}

// attributes consumes the tokens of a tag up to and including its closing
// bracket. An empty tag yields no attributes and no error.
func (p *parser) attributes(start int) ([]attribute, error) {
	var attrs []attribute
	cur := attribute{offset: -1}
	assigns := 0
	flush := func(at int) error {
		name := strings.TrimSpace(cur.name)
		if name == "" || assigns > 1 {
			return errorf(InvalidAttribute, at, "malformed attribute in tag")
		}
		cur.name = name
		cur.value = strings.TrimSpace(cur.value)
		attrs = append(attrs, cur)
		cur, assigns = attribute{offset: -1}, 0
		return nil
	}
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.EOF() {
			break
		}
		if cur.offset < 0 {
			cur.offset = tok.Pos.Offset
		}
		switch tok.Type {
		case wordType:
			if assigns == 0 {
				cur.name += tok.Value
			} else {
				cur.value += tok.Value
			}
		case assignType:
			assigns++
			cur.hasValue = true
		case semiType:
			if err := flush(cur.offset); err != nil {
				return nil, err
			}
		case tagEndType:
			if cur.offset == tok.Pos.Offset && len(attrs) == 0 {
				return nil, nil
			}
			if err := flush(cur.offset); err != nil {
				return nil, err
			}
			return attrs, nil
		}
	}
	return nil, errorf(UnterminatedTag, start, "missing ']'")
}

func (p *parser) openTag(start int) error {
	attrs, err := p.attributes(start)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return errorf(InvalidAttribute, start, "empty tag")
	}
	var (
		kinds    []string
		override style.Override
	)
	for _, a := range attrs {
		if a.hasValue {
			kind, o, err := valuedAttr(a.name, a.value)
			if err != nil {
				return errorf(InvalidAttribute, a.offset, "%v", err)
			}
			kinds = append(kinds, kind)
			override = override.Merge(o)
			continue
		}
		ks, o, ok := classAttr(a.name, p.classes)
		if !ok {
			return errorf(InvalidAttribute, a.offset, "unknown class or property %q", a.name)
		}
		kinds = append(kinds, ks...)
		override = override.Merge(o)
	}
	p.spans = append(p.spans, style.Span{Start: p.out.Len(), End: -1, Override: override})
	p.stack.Push(&openTag{kinds: kinds, rawOffset: start, spanIndex: len(p.spans) - 1})
	return nil
}

func (p *parser) closeTag(start int) error {
	attrs, err := p.attributes(start)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return errorf(MismatchedClose, start, "empty close tag")
	}
	top, ok := p.stack.Peek()
	if !ok {
		return errorf(MismatchedClose, start, "no open tag")
	}
	open := top.(*openTag)
	for _, a := range attrs {
		if a.hasValue {
			return errorf(InvalidAttribute, a.offset, "close tag cannot carry a value")
		}
		if !slices.Contains(open.kinds, canonicalName(a.name, p.classes)) {
			return errorf(MismatchedClose, start, "[/%s] does not close [%s]", a.name, strings.Join(open.kinds, ";"))
		}
	}
	p.stack.Pop()
	p.spans[open.spanIndex].End = p.out.Len()
	return nil
}

// result drops spans that cover no text.
func (p *parser) result() *Parsed {
	spans := make([]style.Span, 0, len(p.spans))
	for _, s := range p.spans {
		if s.End > s.Start {
			spans = append(spans, s)
		}
	}
	return &Parsed{Text: p.out.String(), Spans: spans}
}
