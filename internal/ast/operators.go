package ast

// Operator tags are plain field values, not child nodes. Each enum carries a
// human-readable description used in diagnostics.

// UnaryOperator tags a UnaryOp node.
type UnaryOperator string

const (
	OpUSub UnaryOperator = "USub"
	OpNot  UnaryOperator = "Not"
)

// Description returns the operator's human-readable name.
func (op UnaryOperator) Description() string {
	switch op {
	case OpUSub:
		return "negation"
	case OpNot:
		return "logical negation"
	}

	return string(op)
}

// BinaryOperator tags a BinOp or AugAssign node.
type BinaryOperator string

const (
	OpAdd  BinaryOperator = "Add"
	OpSub  BinaryOperator = "Sub"
	OpMult BinaryOperator = "Mult"
	OpDiv  BinaryOperator = "Div"
	OpMod  BinaryOperator = "Mod"
	OpPow  BinaryOperator = "Pow"
)

// Description returns the operator's human-readable name.
func (op BinaryOperator) Description() string {
	switch op {
	case OpAdd:
		return "addition"
	case OpSub:
		return "subtraction"
	case OpMult:
		return "multiplication"
	case OpDiv:
		return "division"
	case OpMod:
		return "modulus"
	case OpPow:
		return "exponentiation"
	}

	return string(op)
}

// BoolOperator tags a BoolOp node.
type BoolOperator string

const (
	OpAnd BoolOperator = "And"
	OpOr  BoolOperator = "Or"
)

// Description returns the operator's human-readable name.
func (op BoolOperator) Description() string {
	switch op {
	case OpAnd:
		return "conjunction"
	case OpOr:
		return "disjunction"
	}

	return string(op)
}

// CmpOperator tags a Compare node.
type CmpOperator string

const (
	OpEq    CmpOperator = "Eq"
	OpNotEq CmpOperator = "NotEq"
	OpLt    CmpOperator = "Lt"
	OpLtE   CmpOperator = "LtE"
	OpGt    CmpOperator = "Gt"
	OpGtE   CmpOperator = "GtE"
	OpIn    CmpOperator = "In"
)

// Description returns the operator's human-readable name.
func (op CmpOperator) Description() string {
	switch op {
	case OpEq:
		return "equality"
	case OpNotEq:
		return "non-equality"
	case OpLt:
		return "less than"
	case OpLtE:
		return "less-or-equal"
	case OpGt:
		return "greater than"
	case OpGtE:
		return "greater-or-equal"
	case OpIn:
		return "membership"
	}

	return string(op)
}

// Ordered reports whether the comparison requires operand ordering, i.e. is
// only legal between numeric literals of identical kind.
func (op CmpOperator) Ordered() bool {
	switch op {
	case OpLt, OpLtE, OpGt, OpGtE:
		return true
	}

	return false
}
