package ast

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// Module is the root of a compilation unit.
type Module struct {
	NodeBase
	Name      string `ast:"name"`
	DocString Node   `ast:"doc_string"`
	Body      []Node `ast:"body"`
}

// FunctionDef is a function definition, including its decorators.
type FunctionDef struct {
	NodeBase
	Name          string `ast:"name"`
	Args          Node   `ast:"args"`
	Returns       Node   `ast:"returns"`
	DecoratorList []Node `ast:"decorator_list"`
	DocString     Node   `ast:"doc_string"`
	Body          []Node `ast:"body"`
}

// DocStr is a documentation string lifted out of a Module or FunctionDef
// body.
type DocStr struct {
	NodeBase
	Value string `ast:"value"`
}

// Arguments is the parameter list of a FunctionDef.
type Arguments struct {
	NodeBase
	Args     []Node `ast:"args"`
	Defaults []Node `ast:"defaults"`
}

// Arg is a single named, annotated parameter.
type Arg struct {
	NodeBase
	Arg        string `ast:"arg"`
	Annotation Node   `ast:"annotation"`
}

// Return is a return statement.
type Return struct {
	NodeBase
	Value Node `ast:"value"`
}

// ClassDef declares a struct or contract interface.
type ClassDef struct {
	NodeBase
	ClassType string `ast:"class_type"`
	Name      string `ast:"name"`
	Body      []Node `ast:"body"`
}

// Constant is the marker interface of literal nodes: values fully known at
// compile time.
type Constant interface {
	Node

	// LiteralValue returns the node's represented value.
	LiteralValue() any
}

// Int is an integer literal.
type Int struct {
	NodeBase
	Value *big.Int `ast:"value"`
}

func (n *Int) LiteralValue() any { return n.Value }

// Decimal is a fixed-point decimal literal with ten fractional digits.
type Decimal struct {
	NodeBase
	Value *apd.Decimal `ast:"value"`
}

func (n *Decimal) LiteralValue() any { return n.Value }

// Hex is a hexadecimal literal, stored exactly as written, e.g. "0xFF".
type Hex struct {
	NodeBase
	Value string `ast:"value"`
}

func (n *Hex) LiteralValue() any { return n.Value }

// Str is a string literal. Only codepoints below 256 are permitted.
type Str struct {
	NodeBase
	Value string `ast:"value"`
}

func (n *Str) LiteralValue() any { return n.Value }

// Bytes is a byte-string literal.
type Bytes struct {
	NodeBase
	Value []byte `ast:"value"`
}

func (n *Bytes) LiteralValue() any { return n.Value }

// NameConstant is a boolean literal, or the unit value (nil).
type NameConstant struct {
	NodeBase
	Value any `ast:"value"`
}

func (n *NameConstant) LiteralValue() any { return n.Value }

// List is an ordered literal sequence.
type List struct {
	NodeBase
	Elts []Node `ast:"elts"`
}

// Tuple is a fixed-arity literal sequence.
type Tuple struct {
	NodeBase
	Elts []Node `ast:"elts"`
}

// Dict is a literal mapping.
type Dict struct {
	NodeBase
	Keys   []Node `ast:"keys"`
	Values []Node `ast:"values"`
}

// Name is an identifier reference.
type Name struct {
	NodeBase
	ID string `ast:"id"`
}

// Expr is an expression statement.
type Expr struct {
	NodeBase
	Value Node `ast:"value"`
}

// UnaryOp applies a unary operator to a single operand.
type UnaryOp struct {
	NodeBase
	Op      UnaryOperator `ast:"op"`
	Operand Node          `ast:"operand"`
}

// BinOp applies a binary arithmetic operator.
type BinOp struct {
	NodeBase
	Left  Node           `ast:"left"`
	Op    BinaryOperator `ast:"op"`
	Right Node           `ast:"right"`
}

// BoolOp applies a boolean operator over two or more operands.
type BoolOp struct {
	NodeBase
	Op     BoolOperator `ast:"op"`
	Values []Node       `ast:"values"`
}

// Compare is a comparison of exactly two values. Chained comparisons are
// rejected at conversion time.
type Compare struct {
	NodeBase
	Left  Node        `ast:"left"`
	Op    CmpOperator `ast:"op"`
	Right Node        `ast:"right"`
}

// Call is a function call.
type Call struct {
	NodeBase
	Func     Node   `ast:"func"`
	Args     []Node `ast:"args"`
	Keywords []Node `ast:"keywords"`
}

// Keyword is a named argument within a Call.
type Keyword struct {
	NodeBase
	Arg   string `ast:"arg"`
	Value Node   `ast:"value"`
}

// Attribute is a dotted member access; Value is the base expression.
type Attribute struct {
	NodeBase
	Attr  string `ast:"attr"`
	Value Node   `ast:"value"`
}

// Subscript is an indexed access into a sequence.
type Subscript struct {
	NodeBase
	Value Node `ast:"value"`
	Slice Node `ast:"slice"`
}

// Index wraps the index expression of a Subscript.
type Index struct {
	NodeBase
	Value Node `ast:"value"`
}

// Assignment is the marker interface of the three assignment statement
// variants.
type Assignment interface {
	Node

	// AssignTarget returns the left-hand side of the assignment.
	AssignTarget() Node
}

// Assign is a plain single-target assignment.
type Assign struct {
	NodeBase
	Target Node `ast:"target"`
	Value  Node `ast:"value"`
}

func (n *Assign) AssignTarget() Node { return n.Target }

// AnnAssign is an annotated assignment; constant declarations use the
// `name: constant(type) = value` form.
type AnnAssign struct {
	NodeBase
	Target     Node `ast:"target"`
	Annotation Node `ast:"annotation"`
	Value      Node `ast:"value"`
}

func (n *AnnAssign) AssignTarget() Node { return n.Target }

// AugAssign is an augmented assignment such as `x += 1`.
type AugAssign struct {
	NodeBase
	Op     BinaryOperator `ast:"op"`
	Target Node           `ast:"target"`
	Value  Node           `ast:"value"`
}

func (n *AugAssign) AssignTarget() Node { return n.Target }

// Raise is a raise statement.
type Raise struct {
	NodeBase
	Exc Node `ast:"exc"`
}

// Assert is an assert statement with an optional message.
type Assert struct {
	NodeBase
	Test Node `ast:"test"`
	Msg  Node `ast:"msg"`
}

// Pass is a no-op statement.
type Pass struct {
	NodeBase
}

// Import is an import statement.
type Import struct {
	NodeBase
	Names []Node `ast:"names"`
}

// ImportFrom is a from-import statement.
type ImportFrom struct {
	NodeBase
	Module string `ast:"module"`
	Names  []Node `ast:"names"`
}

// Alias is a single name within an import statement.
type Alias struct {
	NodeBase
	Name   string `ast:"name"`
	AsName string `ast:"asname"`
}

// If is a conditional statement.
type If struct {
	NodeBase
	Test   Node   `ast:"test"`
	Body   []Node `ast:"body"`
	Orelse []Node `ast:"orelse"`
}

// For is a bounded iteration statement.
type For struct {
	NodeBase
	Target Node   `ast:"target"`
	Iter   Node   `ast:"iter"`
	Body   []Node `ast:"body"`
}

// Break terminates the innermost loop.
type Break struct {
	NodeBase
}

// Continue skips to the next loop iteration.
type Continue struct {
	NodeBase
}

// Operation is the marker interface of the foldable operator variants.
type Operation interface {
	Node
	isOperation()
}

func (*UnaryOp) isOperation() {}
func (*BinOp) isOperation()   {}
func (*BoolOp) isOperation()  {}
func (*Compare) isOperation() {}

// variantFactories is the closed registry mapping variant tags to
// constructors; conversion of a raw tree consults it and nothing else.
var variantFactories = map[string]func() Node{
	"Module":       func() Node { return &Module{} },
	"FunctionDef":  func() Node { return &FunctionDef{} },
	"DocStr":       func() Node { return &DocStr{} },
	"Arguments":    func() Node { return &Arguments{} },
	"Arg":          func() Node { return &Arg{} },
	"Return":       func() Node { return &Return{} },
	"ClassDef":     func() Node { return &ClassDef{} },
	"Int":          func() Node { return &Int{} },
	"Decimal":      func() Node { return &Decimal{} },
	"Hex":          func() Node { return &Hex{} },
	"Str":          func() Node { return &Str{} },
	"Bytes":        func() Node { return &Bytes{} },
	"NameConstant": func() Node { return &NameConstant{} },
	"List":         func() Node { return &List{} },
	"Tuple":        func() Node { return &Tuple{} },
	"Dict":         func() Node { return &Dict{} },
	"Name":         func() Node { return &Name{} },
	"Expr":         func() Node { return &Expr{} },
	"UnaryOp":      func() Node { return &UnaryOp{} },
	"BinOp":        func() Node { return &BinOp{} },
	"BoolOp":       func() Node { return &BoolOp{} },
	"Compare":      func() Node { return &Compare{} },
	"Call":         func() Node { return &Call{} },
	"Keyword":      func() Node { return &Keyword{} },
	"Attribute":    func() Node { return &Attribute{} },
	"Subscript":    func() Node { return &Subscript{} },
	"Index":        func() Node { return &Index{} },
	"Assign":       func() Node { return &Assign{} },
	"AnnAssign":    func() Node { return &AnnAssign{} },
	"AugAssign":    func() Node { return &AugAssign{} },
	"Raise":        func() Node { return &Raise{} },
	"Assert":       func() Node { return &Assert{} },
	"Pass":         func() Node { return &Pass{} },
	"Import":       func() Node { return &Import{} },
	"ImportFrom":   func() Node { return &ImportFrom{} },
	"Alias":        func() Node { return &Alias{} },
	"If":           func() Node { return &If{} },
	"For":          func() Node { return &For{} },
	"Break":        func() Node { return &Break{} },
	"Continue":     func() Node { return &Continue{} },
}
