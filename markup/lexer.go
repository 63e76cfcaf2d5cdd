package markup

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	markupLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Escape", Pattern: `\\[\[\]\\]`},
			{Name: "CloseStart", Pattern: `\[/`, Action: lexer.Push("Tag")},
			{Name: "OpenStart", Pattern: `\[`, Action: lexer.Push("Tag")},
			{Name: "Backslash", Pattern: `\\`},
			{Name: "Text", Pattern: `[^\[\\]+`},
		},
		"Tag": {
			{Name: "TagEnd", Pattern: `\]`, Action: lexer.Pop()},
			{Name: "Semi", Pattern: `;`},
			{Name: "Assign", Pattern: `=`},
			{Name: "Word", Pattern: `[^\];=]+`},
		},
	})

	tokenNames     = invertSymbols(markupLexer.Symbols())
	escapeType     = mustTokenType("Escape")
	closeStartType = mustTokenType("CloseStart")
	openStartType  = mustTokenType("OpenStart")
	backslashType  = mustTokenType("Backslash")
	textType       = mustTokenType("Text")
	tagEndType     = mustTokenType("TagEnd")
	semiType       = mustTokenType("Semi")
	assignType     = mustTokenType("Assign")
	wordType       = mustTokenType("Word")
)

// tokenize splits markup into lexer tokens. The final token is EOF.
func tokenize(src string) ([]lexer.Token, error) {
	lex, err := markupLexer.LexString("", src)
	if err != nil {
		return nil, err
	}
	return lexer.ConsumeAll(lex)
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, typ := range symbols {
		out[typ] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	typ, ok := markupLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token type %q not defined in markup lexer", name))
	}
	return typ
}

func tokenName(typ lexer.TokenType) string {
	if name, ok := tokenNames[typ]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", typ)
}
