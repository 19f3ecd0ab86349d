package sexp

type terminal int

const (
	termEOF terminal = iota
	termLParen
	termRParen
	termDot
	termAtom

	// termQuote never reaches the action table; see Parser.quote.
	termQuote
)

var terminalNames = [...]string{"[eof]", "(", ")", ".", "atom", "'"}

func (t terminal) String() string {
	return terminalNames[t]
}

type nonterminal int

const (
	ntStart nonterminal = iota
	ntExpression
	ntExpressionList
)

type production struct {
	reduce  func(p *Parser) error
	nonterm nonterminal
	count   int
}

//	0: <START> ::= <expression>
//	1: <expression> ::= LPAREN <expression-list> RPAREN
//	2: <expression> ::= LPAREN <expression-list> DOT <expression> RPAREN
//	3: <expression> ::= LPAREN RPAREN
//	4: <expression> ::= ATOM
//	5: <expression-list> ::= <expression-list> <expression>
//	6: <expression-list> ::= <expression>
var productions [7]production

func init() {
	productions = [7]production{
		{(*Parser).identity, ntStart, 1},
		{(*Parser).makeList, ntExpression, 3},
		{(*Parser).makeDotList, ntExpression, 5},
		{(*Parser).makeNil, ntExpression, 2},
		{(*Parser).identity, ntExpression, 1},
		{(*Parser).extendCons, ntExpressionList, 2},
		{(*Parser).makeCons, ntExpressionList, 1},
	}
}

// Raw table encoding: 0 is an error, 1..6 reduce by that production,
// 7..18 shift to state n-7 and 19 accepts.
const (
	rawErr    = 0
	rawShift  = 7
	rawAccept = 19
)

func rd(n uint8) uint8 { return n }
func sh(n uint8) uint8 { return n + rawShift }

const acceptState = 1

var actionTable = [12][5]uint8{
	{rawErr, sh(2), rawErr, rawErr, sh(3)},
	{rawAccept, rawErr, rawErr, rawErr, rawErr},
	{rawErr, sh(2), sh(6), rawErr, sh(3)},
	{rd(4), rd(4), rd(4), rd(4), rd(4)},
	{rawErr, rd(6), rd(6), rd(6), rd(6)},
	{rawErr, sh(2), sh(8), sh(9), sh(3)},
	{rd(3), rd(3), rd(3), rd(3), rd(3)},
	{rawErr, rd(5), rd(5), rd(5), rd(5)},
	{rd(1), rd(1), rd(1), rd(1), rd(1)},
	{rawErr, sh(2), rawErr, rawErr, sh(3)},
	{rawErr, rawErr, sh(11), rawErr, rawErr},
	{rd(2), rd(2), rd(2), rd(2), rd(2)},
}

var gotoTable = [12][3]int{
	{0, 1, 0},
	{0, 0, 0},
	{0, 4, 5},
	{0, 0, 0},
	{0, 0, 0},
	{0, 7, 0},
	{0, 0, 0},
	{0, 0, 0},
	{0, 0, 0},
	{0, 10, 0},
	{0, 0, 0},
	{0, 0, 0},
}

type actionKind int

const (
	actError actionKind = iota
	actShift
	actReduce
	actAccept
)

type action struct {
	kind actionKind
	// state to shift to, or production to reduce by
	arg int
}

func decode(raw uint8) action {
	switch {
	case raw == rawErr:
		return action{kind: actError}
	case raw == rawAccept:
		return action{kind: actAccept}
	case raw < rawShift:
		return action{kind: actReduce, arg: int(raw)}
	default:
		return action{kind: actShift, arg: int(raw - rawShift)}
	}
}

func lookup(state int, t terminal) action {
	return decode(actionTable[state][t])
}
