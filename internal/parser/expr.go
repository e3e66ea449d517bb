package parser

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
	"github.com/sriharikapu/SRILang/internal/lexer"
)

// Expression grammar, loosest binding first:
//
//	or > and > not > comparison > add/sub > mul/div/mod > unary minus >
//	power > call/subscript/attribute > atom
//
// Power is right associative and binds tighter than unary minus on its
// left, so -2 ** 2 parses as -(2 ** 2).

func (p *parser) parseExpr() (map[string]any, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (map[string]any, error) {
	return p.parseBoolOp("or", ast.OpOr, p.parseAnd)
}

func (p *parser) parseAnd() (map[string]any, error) {
	return p.parseBoolOp("and", ast.OpAnd, p.parseNot)
}

func (p *parser) parseBoolOp(word string, op ast.BoolOperator, operand func() (map[string]any, error)) (map[string]any, error) {
	start := p.cur()

	left, err := operand()
	if err != nil {
		return nil, err
	}

	if !p.atKeyword(word) {
		return left, nil
	}

	values := []any{left}

	for p.atKeyword(word) {
		p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		values = append(values, right)
	}

	expr := p.node("BoolOp", start)
	expr["op"] = op
	expr["values"] = values

	return expr, nil
}

func (p *parser) parseNot() (map[string]any, error) {
	if !p.atKeyword("not") {
		return p.parseComparison()
	}

	start := p.next()

	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	expr := p.node("UnaryOp", start)
	expr["op"] = ast.OpNot
	expr["operand"] = operand

	return expr, nil
}

func (p *parser) comparisonOp() (ast.CmpOperator, bool) {
	if p.atKeyword("in") {
		return ast.OpIn, true
	}

	if p.cur().Kind != lexer.Op {
		return "", false
	}

	op, ok := cmpOps[p.cur().Text]

	return op, ok
}

// parseComparison collects every operator of a chained comparison so that
// conversion can reject the chain with a dedicated message.
func (p *parser) parseComparison() (map[string]any, error) {
	start := p.cur()

	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}

	var (
		ops         []any
		comparators []any
	)

	for {
		op, ok := p.comparisonOp()
		if !ok {
			break
		}

		p.next()

		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
		comparators = append(comparators, right)
	}

	if len(ops) == 0 {
		return left, nil
	}

	expr := p.node("Compare", start)
	expr["left"] = left
	expr["ops"] = ops
	expr["comparators"] = comparators

	return expr, nil
}

var arithOps = map[string]ast.BinaryOperator{
	"+": ast.OpAdd,
	"-": ast.OpSub,
}

var termOps = map[string]ast.BinaryOperator{
	"*": ast.OpMult,
	"/": ast.OpDiv,
	"%": ast.OpMod,
}

func (p *parser) parseArith() (map[string]any, error) {
	return p.parseBinOp(arithOps, p.parseTerm)
}

func (p *parser) parseTerm() (map[string]any, error) {
	left, err := p.parseBinOp(termOps, p.parseUnary)
	if err != nil {
		return nil, err
	}

	if p.atOp("//") {
		return nil, p.errorAt(p.cur(), "srilang does not support floor division")
	}

	return left, nil
}

func (p *parser) parseBinOp(ops map[string]ast.BinaryOperator, operand func() (map[string]any, error)) (map[string]any, error) {
	start := p.cur()

	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == lexer.Op {
		op, ok := ops[p.cur().Text]
		if !ok {
			break
		}

		p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr := p.node("BinOp", start)
		expr["left"] = left
		expr["op"] = op
		expr["right"] = right

		left = expr
	}

	return left, nil
}

func (p *parser) parseUnary() (map[string]any, error) {
	if p.atOp("+") {
		return nil, p.errorAt(p.cur(), `srilang does not support "UAdd" as a unary operator`)
	}

	if !p.atOp("-") {
		return p.parsePower()
	}

	start := p.next()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	expr := p.node("UnaryOp", start)
	expr["op"] = ast.OpUSub
	expr["operand"] = operand

	return expr, nil
}

func (p *parser) parsePower() (map[string]any, error) {
	start := p.cur()

	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if !p.atOp("**") {
		return left, nil
	}

	p.next()

	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	expr := p.node("BinOp", start)
	expr["left"] = left
	expr["op"] = ast.OpPow
	expr["right"] = right

	return expr, nil
}

func (p *parser) parsePostfix() (map[string]any, error) {
	start := p.cur()

	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.atOp("("):
			expr, err = p.parseCall(expr, start)

		case p.atOp("["):
			expr, err = p.parseSubscript(expr, start)

		case p.atOp("."):
			p.next()

			attr, nameErr := p.expectName()
			if nameErr != nil {
				return nil, nameErr
			}

			node := p.node("Attribute", start)
			node["value"] = expr
			node["attr"] = attr.Text
			expr = node

		default:
			return expr, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseCall(fn map[string]any, start lexer.Token) (map[string]any, error) {
	p.next() // consume "("

	var (
		args     []any
		keywords []any
	)

	for !p.atOp(")") {
		// a name followed by "=" is a keyword argument
		if p.cur().Kind == lexer.Ident && p.peekIsOp(1, "=") && !isReserved(p.cur().Text) {
			nameTok := p.next()
			p.next() // consume "="

			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			kw := p.node("Keyword", nameTok)
			kw["arg"] = nameTok.Text
			kw["value"] = value
			keywords = append(keywords, kw)
		} else {
			if len(keywords) > 0 {
				return nil, p.errorAt(p.cur(), "Positional argument follows keyword argument")
			}

			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		if !p.acceptOp(",") {
			break
		}
	}

	if err := p.expectOp(")"); err != nil {
		return nil, err
	}

	expr := p.node("Call", start)
	expr["func"] = fn
	expr["args"] = args
	expr["keywords"] = keywords

	return expr, nil
}

func (p *parser) parseSubscript(value map[string]any, start lexer.Token) (map[string]any, error) {
	p.next() // consume "["

	idxStart := p.cur()

	if p.atOp(":") {
		return nil, p.errorAt(p.cur(), "srilang does not support slicing")
	}

	idx, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.atOp(":") {
		return nil, p.errorAt(p.cur(), "srilang does not support slicing")
	}

	if err := p.expectOp("]"); err != nil {
		return nil, err
	}

	index := p.node("Index", idxStart)
	index["value"] = idx

	expr := p.node("Subscript", start)
	expr["value"] = value
	expr["slice"] = index

	return expr, nil
}

func (p *parser) parseAtom() (map[string]any, error) {
	tok := p.cur()

	switch tok.Kind {
	case lexer.Int:
		p.next()

		value, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			return nil, p.errorAt(tok, "Invalid integer literal")
		}

		expr := p.node("Int", tok)
		expr["value"] = value

		return expr, nil

	case lexer.Decimal:
		p.next()

		return p.decimalAtom(tok)

	case lexer.Hex:
		p.next()

		expr := p.node("Hex", tok)
		expr["value"] = tok.Text

		return expr, nil

	case lexer.Binary:
		p.next()

		return p.binaryAtom(tok)

	case lexer.Str:
		p.next()

		expr := p.node("Str", tok)
		expr["value"] = tok.Text

		return expr, nil

	case lexer.Bytes:
		p.next()

		expr := p.node("Bytes", tok)
		expr["value"] = []byte(tok.Text)

		return expr, nil

	case lexer.Ident:
		return p.nameAtom()

	case lexer.Op:
		switch tok.Text {
		case "(":
			return p.parseParenthesized()
		case "[":
			return p.parseList()
		case "{":
			return p.parseDict()
		}
	}

	return nil, p.errorAt(tok, fmt.Sprintf("Invalid syntax (unexpected %s)", tok.Kind))
}

func (p *parser) nameAtom() (map[string]any, error) {
	tok := p.next()

	switch tok.Text {
	case "True", "False":
		expr := p.node("NameConstant", tok)
		expr["value"] = tok.Text == "True"

		return expr, nil

	case "None":
		expr := p.node("NameConstant", tok)
		expr["value"] = nil

		return expr, nil
	}

	if keywords[tok.Text] {
		return nil, p.errorAt(tok, fmt.Sprintf("%q is a reserved word", tok.Text))
	}

	expr := p.node("Name", tok)
	expr["id"] = tok.Text

	return expr, nil
}

// decimalAtom parses a fixed-point literal; more than ten fractional digits
// is an error, never silent truncation.
func (p *parser) decimalAtom(tok lexer.Token) (map[string]any, error) {
	if frac := tok.Text[strings.IndexByte(tok.Text, '.')+1:]; len(frac) > decimalPlaces {
		return nil, diag.NewErrorAt(
			diag.KindInvalidLiteral,
			fmt.Sprintf("Cannot have more than %d decimal places", decimalPlaces),
			p.source, tok.Lineno, tok.Col)
	}

	value, _, err := apd.NewFromString(tok.Text)
	if err != nil {
		return nil, p.errorAt(tok, "Invalid decimal literal")
	}

	expr := p.node("Decimal", tok)
	expr["value"] = value

	return expr, nil
}

// binaryAtom converts a bit-notation literal to a byte-string; the bit count
// must describe whole bytes.
func (p *parser) binaryAtom(tok lexer.Token) (map[string]any, error) {
	bits := tok.Text[2:]

	if len(bits) == 0 || len(bits)%8 != 0 {
		return nil, p.errorAt(tok, "Bit notation requires a multiple of 8 bits")
	}

	value := make([]byte, len(bits)/8)

	for i := 0; i < len(bits); i++ {
		if bits[i] == '1' {
			value[i/8] |= 1 << (7 - i%8)
		}
	}

	expr := p.node("Bytes", tok)
	expr["value"] = value

	return expr, nil
}

func (p *parser) parseParenthesized() (map[string]any, error) {
	start := p.next() // consume "("

	if p.atOp(")") {
		p.next()

		expr := p.node("Tuple", start)
		expr["elts"] = []any{}

		return expr, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.atOp(",") {
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}

		return first, nil
	}

	elts := []any{first}

	for p.acceptOp(",") {
		if p.atOp(")") {
			break
		}

		elt, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elts = append(elts, elt)
	}

	if err := p.expectOp(")"); err != nil {
		return nil, err
	}

	expr := p.node("Tuple", start)
	expr["elts"] = elts

	return expr, nil
}

func (p *parser) parseList() (map[string]any, error) {
	start := p.next() // consume "["

	var elts []any

	for !p.atOp("]") {
		elt, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elts = append(elts, elt)

		if !p.acceptOp(",") {
			break
		}
	}

	if err := p.expectOp("]"); err != nil {
		return nil, err
	}

	expr := p.node("List", start)
	expr["elts"] = elts

	return expr, nil
}

func (p *parser) parseDict() (map[string]any, error) {
	start := p.next() // consume "{"

	var (
		keys   []any
		values []any
	)

	for !p.atOp("}") {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expectOp(":"); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)
		values = append(values, value)

		if !p.acceptOp(",") {
			break
		}
	}

	if err := p.expectOp("}"); err != nil {
		return nil, err
	}

	expr := p.node("Dict", start)
	expr["keys"] = keys
	expr["values"] = values

	return expr, nil
}

func (p *parser) peekIsOp(n int, text string) bool {
	if p.pos+n >= len(p.tokens) {
		return false
	}

	tok := p.tokens[p.pos+n]

	return tok.Kind == lexer.Op && tok.Text == text
}

func isReserved(word string) bool { return keywords[word] }
