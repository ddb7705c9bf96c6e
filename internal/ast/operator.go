package ast

// Operator identifies a unary, binary or ternary operator
type Operator int

const (
	OpNone Operator = iota

	// Prefix
	OpNot
	OpMinus
	OpBitNot
	OpPreIncrement
	OpPreDecrement
	OpNew
	OpReference

	// Postfix
	OpPostIncrement
	OpPostDecrement
	OpNonNull

	// Binary
	OpPower
	OpMultiply
	OpDivide
	OpModulo
	OpIntDivide
	OpAdd
	OpSubtract
	OpShiftLeft
	OpShiftRight
	OpShiftUnsignedRight
	OpLess
	OpLessEquals
	OpGreater
	OpGreaterEquals
	OpInstanceOf
	OpIn
	OpAs
	OpEquals
	OpNotEquals
	OpStrictEquals
	OpStrictNotEquals
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
	OpXor
	OpNullCoalescing

	// Ternary parts
	OpTernary
	OpColon

	// Assignment
	OpAssign
	OpAddAssign
	OpSubtractAssign
	OpMultiplyAssign
	OpDivideAssign
	OpModuloAssign
	OpIntDivideAssign
	OpPowerAssign
	OpShiftLeftAssign
	OpShiftRightAssign
	OpShiftUnsignedRightAssign
	OpBitAndAssign
	OpBitOrAssign
	OpBitXorAssign
	OpNullCoalescingAssign
)

type opInfo struct {
	symbol     string
	precedence int
	right      bool
}

// Binding strength, higher binds tighter
const (
	PrecAssignment = 1
	PrecTernary    = 2
	PrecPrefix     = 15
	PrecPostfix    = 16
)

var opTable = map[Operator]opInfo{
	OpNot:                      {"!", PrecPrefix, true},
	OpMinus:                    {"-", PrecPrefix, true},
	OpBitNot:                   {"~", PrecPrefix, true},
	OpPreIncrement:             {"++", PrecPrefix, true},
	OpPreDecrement:             {"--", PrecPrefix, true},
	OpNew:                      {"new", PrecPrefix, true},
	OpReference:                {"@", PrecPrefix, true},
	OpPostIncrement:            {"++", PrecPostfix, false},
	OpPostDecrement:            {"--", PrecPostfix, false},
	OpNonNull:                  {"!", PrecPostfix, false},
	OpPower:                    {"**", 13, true},
	OpMultiply:                 {"*", 12, false},
	OpDivide:                   {"/", 12, false},
	OpModulo:                   {"%", 12, false},
	OpIntDivide:                {"\\", 12, false},
	OpAdd:                      {"+", 11, false},
	OpSubtract:                 {"-", 11, false},
	OpShiftLeft:                {"<<", 10, false},
	OpShiftRight:               {">>", 10, false},
	OpShiftUnsignedRight:       {">>>", 10, false},
	OpLess:                     {"<", 9, false},
	OpLessEquals:               {"<=", 9, false},
	OpGreater:                  {">", 9, false},
	OpGreaterEquals:            {">=", 9, false},
	OpInstanceOf:               {"instanceof", 9, false},
	OpIn:                       {"in", 9, false},
	OpAs:                       {"as", 9, false},
	OpEquals:                   {"==", 8, false},
	OpNotEquals:                {"!=", 8, false},
	OpStrictEquals:             {"===", 8, false},
	OpStrictNotEquals:          {"!==", 8, false},
	OpBitAnd:                   {"&", 7, false},
	OpBitXor:                   {"^", 6, false},
	OpBitOr:                    {"|", 5, false},
	OpAnd:                      {"&&", 4, false},
	OpOr:                       {"||", 3, false},
	OpXor:                      {"xor", 3, false},
	OpNullCoalescing:           {"??", 3, false},
	OpTernary:                  {"?", PrecTernary, true},
	OpColon:                    {":", PrecTernary, true},
	OpAssign:                   {"=", PrecAssignment, true},
	OpAddAssign:                {"+=", PrecAssignment, true},
	OpSubtractAssign:           {"-=", PrecAssignment, true},
	OpMultiplyAssign:           {"*=", PrecAssignment, true},
	OpDivideAssign:             {"/=", PrecAssignment, true},
	OpModuloAssign:             {"%=", PrecAssignment, true},
	OpIntDivideAssign:          {"\\=", PrecAssignment, true},
	OpPowerAssign:              {"**=", PrecAssignment, true},
	OpShiftLeftAssign:          {"<<=", PrecAssignment, true},
	OpShiftRightAssign:         {">>=", PrecAssignment, true},
	OpShiftUnsignedRightAssign: {">>>=", PrecAssignment, true},
	OpBitAndAssign:             {"&=", PrecAssignment, true},
	OpBitOrAssign:              {"|=", PrecAssignment, true},
	OpBitXorAssign:             {"^=", PrecAssignment, true},
	OpNullCoalescingAssign:     {"??=", PrecAssignment, true},
}

// binaryOperators maps source spellings to binary operators
var binaryOperators = map[string]Operator{
	"**": OpPower, "*": OpMultiply, "/": OpDivide, "%": OpModulo, "\\": OpIntDivide,
	"+": OpAdd, "-": OpSubtract,
	"<<": OpShiftLeft, ">>": OpShiftRight, ">>>": OpShiftUnsignedRight,
	"<": OpLess, "<=": OpLessEquals, ">": OpGreater, ">=": OpGreaterEquals, "instanceof": OpInstanceOf,
	"==": OpEquals, "!=": OpNotEquals, "===": OpStrictEquals, "!==": OpStrictNotEquals,
	"&": OpBitAnd, "^": OpBitXor, "|": OpBitOr,
	"&&": OpAnd, "and": OpAnd, "||": OpOr, "or": OpOr, "xor": OpXor, "??": OpNullCoalescing,
	"?": OpTernary, ":": OpColon,
	"=": OpAssign, "+=": OpAddAssign, "-=": OpSubtractAssign, "*=": OpMultiplyAssign,
	"/=": OpDivideAssign, "%=": OpModuloAssign, "\\=": OpIntDivideAssign, "**=": OpPowerAssign,
	"<<=": OpShiftLeftAssign, ">>=": OpShiftRightAssign, ">>>=": OpShiftUnsignedRightAssign,
	"&=": OpBitAndAssign, "|=": OpBitOrAssign, "^=": OpBitXorAssign, "??=": OpNullCoalescingAssign,
}

// prefixOperators maps source spellings to prefix operators
var prefixOperators = map[string]Operator{
	"!": OpNot, "not": OpNot, "-": OpMinus, "~": OpBitNot,
	"++": OpPreIncrement, "--": OpPreDecrement, "new": OpNew, "@": OpReference,
}

// BinaryOperator looks up a binary, ternary or assignment operator
func BinaryOperator(symbol string) (Operator, bool) {
	op, ok := binaryOperators[symbol]
	return op, ok
}

// PrefixOperator looks up a prefix operator
func PrefixOperator(symbol string) (Operator, bool) {
	op, ok := prefixOperators[symbol]
	return op, ok
}

// IsPrefixOnly reports whether symbol can only start an operand
func IsPrefixOnly(symbol string) bool {
	_, prefix := prefixOperators[symbol]
	_, binary := binaryOperators[symbol]
	return prefix && !binary && symbol != "++" && symbol != "--" && symbol != "!"
}

// Symbol returns the source spelling
func (op Operator) Symbol() string {
	return opTable[op].symbol
}

// Precedence returns the binding strength, zero for OpNone
func (op Operator) Precedence() int {
	return opTable[op].precedence
}

// RightAssociative reports whether a chain groups to the right
func (op Operator) RightAssociative() bool {
	return opTable[op].right
}

// IsAssignment reports whether op stores into its left operand
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpNullCoalescingAssign
}

// IsPostfix reports whether op is written after its operand
func (op Operator) IsPostfix() bool {
	return op >= OpPostIncrement && op <= OpNonNull
}

// Mutates reports whether op writes its operand
func (op Operator) Mutates() bool {
	switch op {
	case OpPreIncrement, OpPreDecrement, OpPostIncrement, OpPostDecrement:
		return true
	}
	return op.IsAssignment()
}

func (op Operator) String() string {
	if s := op.Symbol(); s != "" {
		return s
	}
	return "?op"
}
