// Package parser turns contract source into the typed syntax tree. Parsing
// happens in two stages: a recursive-descent pass over the token stream
// builds a generic dict-of-fields tree, and ast.FromMap converts that tree
// into typed nodes, applying the per-variant structure rules.
package parser

import (
	"fmt"
	"strings"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
	"github.com/sriharikapu/SRILang/internal/lexer"
)

// decimalPlaces is the fixed number of fractional digits of the decimal
// type; literals with more digits are rejected rather than rounded.
const decimalPlaces = 10

var keywords = map[string]bool{
	"def": true, "return": true, "pass": true, "if": true, "elif": true,
	"else": true, "for": true, "in": true, "break": true, "continue": true,
	"assert": true, "raise": true, "import": true, "from": true, "as": true,
	"and": true, "or": true, "not": true, "True": true, "False": true,
	"None": true, "struct": true, "contract": true,
}

var augAssignOps = map[string]ast.BinaryOperator{
	"+=":  ast.OpAdd,
	"-=":  ast.OpSub,
	"*=":  ast.OpMult,
	"/=":  ast.OpDiv,
	"%=":  ast.OpMod,
	"**=": ast.OpPow,
}

var cmpOps = map[string]ast.CmpOperator{
	"==": ast.OpEq,
	"!=": ast.OpNotEq,
	"<":  ast.OpLt,
	"<=": ast.OpLtE,
	">":  ast.OpGt,
	">=": ast.OpGtE,
}

// ParseModule parses a complete compilation unit.
func ParseModule(source string) (*ast.Module, error) {
	return ParseModuleNamed(source, "")
}

// ParseModuleNamed parses a complete compilation unit, recording name as the
// module name.
func ParseModuleNamed(source, name string) (*ast.Module, error) {
	if strings.ContainsRune(source, 0) {
		return nil, diag.NewErrorAt(
			diag.KindSyntax, "Source code contains null bytes", "", 1, 0)
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}

	p := &parser{source: source, tokens: tokens}

	body, err := p.parseStatements(lexer.EOF)
	if err != nil {
		return nil, err
	}

	docString, body := liftDocString(body)

	raw := map[string]any{
		"ast_type":         "Module",
		"name":             name,
		"doc_string":       docString,
		"body":             body,
		"lineno":           1,
		"col_offset":       0,
		"end_lineno":       p.prev().EndLineno,
		"end_col_offset":   p.prev().EndCol,
		"node_source_code": source,
		"full_source_code": source,
	}

	node, err := ast.FromMap(raw, nil)
	if err != nil {
		return nil, err
	}

	return node.(*ast.Module), nil
}

type parser struct {
	source string
	tokens []lexer.Token
	pos    int
}

func (p *parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *parser) prev() lexer.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}

	return p.tokens[p.pos-1]
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}

	return tok
}

func (p *parser) atOp(text string) bool {
	tok := p.cur()
	return tok.Kind == lexer.Op && tok.Text == text
}

func (p *parser) atKeyword(word string) bool {
	tok := p.cur()
	return tok.Kind == lexer.Ident && tok.Text == word
}

func (p *parser) acceptOp(text string) bool {
	if p.atOp(text) {
		p.next()
		return true
	}

	return false
}

func (p *parser) expectOp(text string) error {
	if !p.acceptOp(text) {
		return p.errorAt(p.cur(), fmt.Sprintf("Expected %q", text))
	}

	return nil
}

func (p *parser) expectKind(kind lexer.Kind) (lexer.Token, error) {
	if p.cur().Kind != kind {
		return lexer.Token{}, p.errorAt(
			p.cur(), fmt.Sprintf("Expected %s, found %s", kind, p.cur().Kind))
	}

	return p.next(), nil
}

func (p *parser) expectName() (lexer.Token, error) {
	tok, err := p.expectKind(lexer.Ident)
	if err != nil {
		return lexer.Token{}, err
	}

	if keywords[tok.Text] {
		return lexer.Token{}, p.errorAt(
			tok, fmt.Sprintf("%q is a reserved word", tok.Text))
	}

	return tok, nil
}

func (p *parser) expectNewline() error {
	if p.cur().Kind == lexer.EOF || p.cur().Kind == lexer.Dedent {
		return nil
	}

	if _, err := p.expectKind(lexer.Newline); err != nil {
		return err
	}

	return nil
}

func (p *parser) errorAt(tok lexer.Token, msg string) error {
	return diag.NewErrorAt(diag.KindSyntax, msg, p.source, tok.Lineno, tok.Col)
}

// node builds the common keys of a raw node spanning from start through the
// most recently consumed token.
func (p *parser) node(astType string, start lexer.Token) map[string]any {
	end := p.prev()

	return map[string]any{
		"ast_type":         astType,
		"lineno":           start.Lineno,
		"col_offset":       start.Col,
		"end_lineno":       end.EndLineno,
		"end_col_offset":   end.EndCol,
		"node_source_code": p.source[start.Offset:end.EndOffset],
	}
}

// parseStatements parses statements until the given terminator.
func (p *parser) parseStatements(until lexer.Kind) ([]any, error) {
	var body []any

	for {
		for p.cur().Kind == lexer.Newline {
			p.next()
		}

		if p.cur().Kind == until || p.cur().Kind == lexer.EOF {
			if p.cur().Kind == until && until != lexer.EOF {
				p.next()
			}

			return body, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}
}

// parseBlock parses `: NEWLINE INDENT statements DEDENT`.
func (p *parser) parseBlock() ([]any, error) {
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lexer.Newline); err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lexer.Indent); err != nil {
		return nil, err
	}

	return p.parseStatements(lexer.Dedent)
}

func (p *parser) parseStatement() (map[string]any, error) {
	tok := p.cur()

	if tok.Kind == lexer.Op && tok.Text == "@" {
		return p.parseFunctionDef()
	}

	if tok.Kind == lexer.Ident {
		switch tok.Text {
		case "def":
			return p.parseFunctionDef()
		case "struct", "contract":
			return p.parseClassDef()
		case "import":
			return p.parseImport()
		case "from":
			return p.parseImportFrom()
		case "return":
			return p.parseReturn()
		case "pass":
			return p.parseSimple("Pass")
		case "break":
			return p.parseSimple("Break")
		case "continue":
			return p.parseSimple("Continue")
		case "raise":
			return p.parseRaise()
		case "assert":
			return p.parseAssert()
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		}
	}

	return p.parseExprStatement()
}

func (p *parser) parseSimple(astType string) (map[string]any, error) {
	start := p.next()

	stmt := p.node(astType, start)

	return stmt, p.expectNewline()
}

func (p *parser) parseReturn() (map[string]any, error) {
	start := p.next()

	var value any

	if p.cur().Kind != lexer.Newline && p.cur().Kind != lexer.EOF &&
		p.cur().Kind != lexer.Dedent {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		value = expr
	}

	stmt := p.node("Return", start)
	stmt["value"] = value

	return stmt, p.expectNewline()
}

func (p *parser) parseRaise() (map[string]any, error) {
	start := p.next()

	var exc any

	if p.cur().Kind != lexer.Newline && p.cur().Kind != lexer.EOF &&
		p.cur().Kind != lexer.Dedent {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		exc = expr
	}

	stmt := p.node("Raise", start)
	stmt["exc"] = exc

	return stmt, p.expectNewline()
}

func (p *parser) parseAssert() (map[string]any, error) {
	start := p.next()

	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var msg any

	if p.acceptOp(",") {
		msg, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	stmt := p.node("Assert", start)
	stmt["test"] = test
	stmt["msg"] = msg

	return stmt, p.expectNewline()
}

func (p *parser) parseIf() (map[string]any, error) {
	start := p.next()

	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var orelse []any

	switch {
	case p.atKeyword("elif"):
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		orelse = []any{nested}

	case p.atKeyword("else"):
		p.next()

		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	stmt := p.node("If", start)
	stmt["test"] = test
	stmt["body"] = body
	stmt["orelse"] = orelse

	return stmt, nil
}

func (p *parser) parseFor() (map[string]any, error) {
	start := p.next()

	targetTok, err := p.expectName()
	if err != nil {
		return nil, err
	}

	target := p.node("Name", targetTok)
	target["id"] = targetTok.Text

	if !p.atKeyword("in") {
		return nil, p.errorAt(p.cur(), "Expected \"in\"")
	}

	p.next()

	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := p.node("For", start)
	stmt["target"] = target
	stmt["iter"] = iter
	stmt["body"] = body

	return stmt, nil
}

func (p *parser) parseClassDef() (map[string]any, error) {
	start := p.next()

	nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := p.node("ClassDef", start)
	stmt["class_type"] = start.Text
	stmt["name"] = nameTok.Text
	stmt["body"] = body

	return stmt, nil
}

func (p *parser) parseImport() (map[string]any, error) {
	start := p.next()

	alias, err := p.parseAlias()
	if err != nil {
		return nil, err
	}

	stmt := p.node("Import", start)
	stmt["names"] = []any{alias}

	return stmt, p.expectNewline()
}

func (p *parser) parseImportFrom() (map[string]any, error) {
	start := p.next()

	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}

	if !p.atKeyword("import") {
		return nil, p.errorAt(p.cur(), "Expected \"import\"")
	}

	p.next()

	var names []any

	for {
		alias, err := p.parseAlias()
		if err != nil {
			return nil, err
		}

		names = append(names, alias)

		if !p.acceptOp(",") {
			break
		}
	}

	stmt := p.node("ImportFrom", start)
	stmt["module"] = module
	stmt["names"] = names

	return stmt, p.expectNewline()
}

func (p *parser) parseAlias() (map[string]any, error) {
	start := p.cur()

	name, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}

	asName := ""

	if p.atKeyword("as") {
		p.next()

		tok, err := p.expectName()
		if err != nil {
			return nil, err
		}

		asName = tok.Text
	}

	alias := p.node("Alias", start)
	alias["name"] = name
	alias["asname"] = asName

	return alias, nil
}

func (p *parser) parseDottedName() (string, error) {
	tok, err := p.expectName()
	if err != nil {
		return "", err
	}

	name := tok.Text

	for p.acceptOp(".") {
		part, err := p.expectName()
		if err != nil {
			return "", err
		}

		name += "." + part.Text
	}

	return name, nil
}

func (p *parser) parseFunctionDef() (map[string]any, error) {
	start := p.cur()

	var decorators []any

	for p.atOp("@") {
		p.next()

		dec, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}

		decorators = append(decorators, dec)

		if _, err := p.expectKind(lexer.Newline); err != nil {
			return nil, err
		}
	}

	if !p.atKeyword("def") {
		return nil, p.errorAt(p.cur(), "Expected \"def\"")
	}

	p.next()

	nameTok, err := p.expectName()
	if err != nil {
		return nil, err
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	var returns any

	if p.acceptOp("->") {
		returns, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	docString, body := liftDocString(body)

	stmt := p.node("FunctionDef", start)
	stmt["name"] = nameTok.Text
	stmt["args"] = args
	stmt["returns"] = returns
	stmt["decorator_list"] = decorators
	stmt["doc_string"] = docString
	stmt["body"] = body

	return stmt, nil
}

func (p *parser) parseArguments() (map[string]any, error) {
	start := p.cur()

	if err := p.expectOp("("); err != nil {
		return nil, err
	}

	var (
		args     []any
		defaults []any
	)

	for !p.atOp(")") {
		argTok, err := p.expectName()
		if err != nil {
			return nil, err
		}

		var annotation any

		if p.acceptOp(":") {
			annotation, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		arg := p.node("Arg", argTok)
		arg["arg"] = argTok.Text
		arg["annotation"] = annotation
		args = append(args, arg)

		if p.acceptOp("=") {
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			defaults = append(defaults, def)
		} else if len(defaults) > 0 {
			return nil, p.errorAt(argTok, "Non-default argument follows default argument")
		}

		if !p.acceptOp(",") {
			break
		}
	}

	if err := p.expectOp(")"); err != nil {
		return nil, err
	}

	node := p.node("Arguments", start)
	node["args"] = args
	node["defaults"] = defaults

	return node, nil
}

// parseExprStatement parses an expression statement and its assignment
// forms: plain, annotated and augmented assignment.
func (p *parser) parseExprStatement() (map[string]any, error) {
	start := p.cur()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch {
	case p.atOp(":"):
		p.next()

		annotation, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		var value any

		if p.acceptOp("=") {
			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		stmt := p.node("AnnAssign", start)
		stmt["target"] = expr
		stmt["annotation"] = annotation
		stmt["value"] = value

		return stmt, p.expectNewline()

	case p.atOp("="):
		targets := []any{expr}

		var value any

		for p.acceptOp("=") {
			if value != nil {
				targets = append(targets, value)
			}

			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		stmt := p.node("Assign", start)
		stmt["targets"] = targets
		stmt["value"] = value

		return stmt, p.expectNewline()
	}

	if p.cur().Kind == lexer.Op {
		if op, ok := augAssignOps[p.cur().Text]; ok {
			p.next()

			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			stmt := p.node("AugAssign", start)
			stmt["op"] = op
			stmt["target"] = expr
			stmt["value"] = value

			return stmt, p.expectNewline()
		}
	}

	stmt := p.node("Expr", start)
	stmt["value"] = expr

	return stmt, p.expectNewline()
}

// liftDocString pulls a leading string literal out of a statement body.
func liftDocString(body []any) (any, []any) {
	if len(body) == 0 {
		return nil, body
	}

	first, ok := body[0].(map[string]any)
	if !ok || first["ast_type"] != "Expr" {
		return nil, body
	}

	value, ok := first["value"].(map[string]any)
	if !ok || value["ast_type"] != "Str" {
		return nil, body
	}

	doc := cloneWithType(value, "DocStr")

	return doc, body[1:]
}

func cloneWithType(raw map[string]any, astType string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}

	out["ast_type"] = astType

	return out
}
