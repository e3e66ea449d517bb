// Package lexer tokenizes contract source. The token stream is line
// oriented: logical lines end with a Newline token and block structure is
// expressed with Indent and Dedent tokens, derived from leading whitespace.
// Newlines inside brackets are suppressed so expressions may span lines.
package lexer

import (
	"fmt"
	"strings"

	"github.com/sriharikapu/SRILang/internal/diag"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Newline
	Indent
	Dedent
	Ident   // names and keywords
	Int     // decimal integer literal
	Decimal // fixed-point literal
	Hex     // 0x literal, text kept verbatim
	Binary  // 0b literal, text kept verbatim
	Str     // string literal, Text holds the decoded value
	Bytes   // byte-string literal, Text holds the decoded value
	Op      // operators and punctuation
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Newline:
		return "newline"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Ident:
		return "identifier"
	case Int:
		return "integer literal"
	case Decimal:
		return "decimal literal"
	case Hex:
		return "hex literal"
	case Binary:
		return "binary literal"
	case Str:
		return "string literal"
	case Bytes:
		return "bytes literal"
	case Op:
		return "operator"
	}

	return "unknown token"
}

// Token is one lexeme with its source coordinates. Offsets are byte offsets
// into the original source; Lineno is 1-based and Col is 0-based.
type Token struct {
	Kind   Kind
	Text   string
	Lineno int
	Col    int
	Offset int

	EndLineno int
	EndCol    int
	EndOffset int
}

// multi-character operators, longest first.
var operators = []string{
	"**=", "//", "**", "==", "!=", "<=", ">=", "->",
	"+=", "-=", "*=", "/=", "%=",
	"+", "-", "*", "/", "%", "<", ">", "=",
	"(", ")", "[", "]", "{", "}",
	",", ":", ".", "@",
}

type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	tokens []Token

	indents      []int
	bracketDepth int
	lineStart    bool
}

// Tokenize converts source into a complete token stream, ending with any
// outstanding Dedent tokens and a single EOF token.
func Tokenize(source string) ([]Token, error) {
	l := &lexer{
		src:       source,
		line:      1,
		indents:   []int{0},
		lineStart: true,
	}

	if err := l.run(); err != nil {
		return nil, err
	}

	return l.tokens, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		if l.lineStart && l.bracketDepth == 0 {
			if err := l.handleIndentation(); err != nil {
				return err
			}

			if l.pos >= len(l.src) {
				break
			}
		}

		c := l.src[l.pos]

		switch {
		case c == '\n':
			l.handleNewline()

		case c == ' ':
			l.advance(1)

		case c == '\t':
			return l.errorf("Tab characters are not allowed")

		case c == '\\' && l.peekAt(1) == '\n':
			// explicit line continuation
			l.advance(1)
			l.handleLineBreak()

		case c == '#':
			l.skipComment()

		case c == '"' || c == '\'':
			if err := l.lexString(false); err != nil {
				return err
			}

		case c == 'b' && (l.peekAt(1) == '"' || l.peekAt(1) == '\''):
			l.advance(1)
			if err := l.lexString(true); err != nil {
				return err
			}

		case isDigit(c):
			if err := l.lexNumber(); err != nil {
				return err
			}

		case isIdentStart(c):
			l.lexIdent()

		default:
			if !l.lexOperator() {
				return l.errorf("Invalid character %q", c)
			}
		}
	}

	l.finishLine()

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emitEmpty(Dedent)
	}

	l.emitEmpty(EOF)

	return nil
}

// handleIndentation measures leading whitespace and emits Indent or Dedent
// tokens. Lines holding only whitespace or a comment produce nothing.
func (l *lexer) handleIndentation() error {
	width := 0

	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			width++
			l.advance(1)
			continue
		case '\t':
			return l.errorf("Tab characters are not allowed")
		}

		break
	}

	if l.pos >= len(l.src) {
		return nil
	}

	if c := l.src[l.pos]; c == '\n' || c == '#' {
		return nil
	}

	l.lineStart = false
	current := l.indents[len(l.indents)-1]

	switch {
	case width > current:
		l.indents = append(l.indents, width)
		l.emitEmpty(Indent)

	case width < current:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emitEmpty(Dedent)
		}

		if l.indents[len(l.indents)-1] != width {
			return l.errorf("Unindent does not match any outer indentation level")
		}
	}

	return nil
}

func (l *lexer) handleNewline() {
	if l.bracketDepth > 0 {
		l.handleLineBreak()
		return
	}

	l.finishLine()
	l.handleLineBreak()
	l.lineStart = true
}

// finishLine emits a Newline token when the current line produced content.
func (l *lexer) finishLine() {
	if len(l.tokens) == 0 {
		return
	}

	switch l.tokens[len(l.tokens)-1].Kind {
	case Newline, Indent, Dedent:
		return
	}

	l.emitEmpty(Newline)
}

func (l *lexer) handleLineBreak() {
	l.pos++
	l.line++
	l.col = 0
}

func (l *lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
}

func (l *lexer) lexIdent() {
	start := l.mark()

	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.advance(1)
	}

	l.emit(Ident, l.src[start.Offset:l.pos], start)
}

func (l *lexer) lexNumber() error {
	start := l.mark()

	if l.src[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance(2)

		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.advance(1)
		}

		l.emit(Hex, l.src[start.Offset:l.pos], start)

		return nil
	}

	if l.src[l.pos] == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.advance(2)

		for l.pos < len(l.src) && (l.src[l.pos] == '0' || l.src[l.pos] == '1') {
			l.advance(1)
		}

		l.emit(Binary, l.src[start.Offset:l.pos], start)

		return nil
	}

	kind := Int

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance(1)
	}

	if l.pos < len(l.src) && l.src[l.pos] == '.' && isDigit(l.peekAt(1)) {
		kind = Decimal
		l.advance(1)

		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance(1)
		}
	}

	if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
		return l.errorf("Invalid character in number literal")
	}

	l.emit(kind, l.src[start.Offset:l.pos], start)

	return nil
}

// lexString scans a quoted literal, handling triple quotes and the usual
// escapes. The emitted token text is the decoded value.
func (l *lexer) lexString(isBytes bool) error {
	start := l.mark()
	if isBytes {
		start.Offset--
		start.Col--
	}

	quote := l.src[l.pos]
	triple := strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3))

	if triple {
		l.advance(3)
	} else {
		l.advance(1)
	}

	var b strings.Builder

	for {
		if l.pos >= len(l.src) {
			return l.errorf("Unterminated string literal")
		}

		c := l.src[l.pos]

		if triple {
			if strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3)) {
				l.advance(3)
				break
			}
		} else if c == quote {
			l.advance(1)
			break
		} else if c == '\n' {
			return l.errorf("Unterminated string literal")
		}

		if c == '\\' {
			decoded, err := l.lexEscape()
			if err != nil {
				return err
			}

			b.WriteByte(decoded)

			continue
		}

		if c == '\n' {
			l.handleLineBreak()
			b.WriteByte('\n')

			continue
		}

		b.WriteByte(c)
		l.advance(1)
	}

	kind := Str
	if isBytes {
		kind = Bytes
	}

	l.emit(kind, b.String(), start)

	return nil
}

func (l *lexer) lexEscape() (byte, error) {
	l.advance(1) // consume the backslash

	if l.pos >= len(l.src) {
		return 0, l.errorf("Unterminated string literal")
	}

	c := l.src[l.pos]
	l.advance(1)

	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return c, nil
	case 'x':
		if l.pos+1 >= len(l.src) || !isHexDigit(l.src[l.pos]) || !isHexDigit(l.src[l.pos+1]) {
			return 0, l.errorf("Invalid hex escape in string literal")
		}

		value := hexValue(l.src[l.pos])<<4 | hexValue(l.src[l.pos+1])
		l.advance(2)

		return byte(value), nil
	}

	return 0, l.errorf("Invalid escape sequence \\%c", c)
}

func (l *lexer) lexOperator() bool {
	for _, op := range operators {
		if !strings.HasPrefix(l.src[l.pos:], op) {
			continue
		}

		start := l.mark()
		l.advance(len(op))

		switch op {
		case "(", "[", "{":
			l.bracketDepth++
		case ")", "]", "}":
			if l.bracketDepth > 0 {
				l.bracketDepth--
			}
		}

		l.emit(Op, op, start)

		return true
	}

	return false
}

type position struct {
	Lineno int
	Col    int
	Offset int
}

func (l *lexer) mark() position {
	return position{Lineno: l.line, Col: l.col, Offset: l.pos}
}

func (l *lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}

	return l.src[l.pos+n]
}

func (l *lexer) emit(kind Kind, text string, start position) {
	l.tokens = append(l.tokens, Token{
		Kind:      kind,
		Text:      text,
		Lineno:    start.Lineno,
		Col:       start.Col,
		Offset:    start.Offset,
		EndLineno: l.line,
		EndCol:    l.col,
		EndOffset: l.pos,
	})
}

func (l *lexer) emitEmpty(kind Kind) {
	l.tokens = append(l.tokens, Token{
		Kind:      kind,
		Lineno:    l.line,
		Col:       l.col,
		Offset:    l.pos,
		EndLineno: l.line,
		EndCol:    l.col,
		EndOffset: l.pos,
	})
}

func (l *lexer) errorf(format string, args ...any) error {
	return diag.NewErrorAt(
		diag.KindSyntax, fmt.Sprintf(format, args...), l.src, l.line, l.col)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
