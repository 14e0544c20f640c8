// Package myg implements the front end of the MYG game language: a
// line-oriented lexer, a block-structured parser producing a closed AST, and
// the integer expression evaluator shared by the parser (constant folding)
// and the runtime.
package myg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokInt TokenKind = iota
	TokIdent
	TokString
	TokOp
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokInt:
		return "integer"
	case TokIdent:
		return "identifier"
	case TokString:
		return "string"
	case TokOp:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is a single lexeme within one source line.
type Token struct {
	Kind   TokenKind
	Value  string // String tokens keep their quotes stripped
	Line   int
	Column int
}

// Line is the token stream of one non-blank, non-comment source line.
type Line struct {
	Num    int
	Tokens []Token
}

// lineLexer tokenizes a single physical line. Rule order matters: strings are
// tried before comments so a '#' inside a button label survives.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Op", Pattern: `==|!=|<=|>=|[-+*/<>=,(){}]`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var (
	symbols      = lineLexer.Symbols()
	symString    = symbols["String"]
	symInt       = symbols["Int"]
	symIdent     = symbols["Ident"]
	symOp        = symbols["Op"]
	symComment   = symbols["Comment"]
	symSpace     = symbols["Whitespace"]
	symEndOfLine = lexer.EOF
)

// Lex splits source into lines and tokenizes each one. Blank lines and lines
// holding only a comment are dropped. Lexing continues past bad lines so all
// problems are reported together.
func Lex(source string) ([]Line, Diagnostics) {
	var (
		lines []Line
		diags Diagnostics
	)

	for i, raw := range strings.Split(source, "\n") {
		num := i + 1
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		toks, err := lexLine(text, num)
		if err != nil {
			diags = append(diags, *err)
			continue
		}
		if len(toks) > 0 {
			lines = append(lines, Line{Num: num, Tokens: toks})
		}
	}

	return lines, diags
}

// lexLine tokenizes one trimmed line.
func lexLine(text string, num int) ([]Token, *ParseError) {
	lx, err := lineLexer.LexString("", text)
	if err != nil {
		return nil, &ParseError{Line: num, Message: err.Error()}
	}

	raw, err := lexer.ConsumeAll(lx)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, &ParseError{
				Line:    num,
				Message: fmt.Sprintf("column %d: %s", lexErr.Pos.Column, lexErr.Msg),
			}
		}
		return nil, &ParseError{Line: num, Message: err.Error()}
	}

	toks := make([]Token, 0, len(raw))
	for _, t := range raw {
		tok := Token{Value: t.Value, Line: num, Column: t.Pos.Column}
		switch t.Type {
		case symEndOfLine, symSpace, symComment:
			continue
		case symString:
			tok.Kind = TokString
			tok.Value = strings.Trim(t.Value, `"`)
		case symInt:
			tok.Kind = TokInt
		case symIdent:
			tok.Kind = TokIdent
		case symOp:
			tok.Kind = TokOp
		default:
			return nil, &ParseError{Line: num, Message: fmt.Sprintf("unexpected token %q", t.Value)}
		}
		toks = append(toks, tok)
	}

	return toks, nil
}
