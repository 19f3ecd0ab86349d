package sexp

import (
	"errors"
	"io"
)

const (
	initialTokenSize = 256
	initialStackSize = 32
)

// Callback is called by a Parser for every complete top-level expression.
// The expression is on top of the parser's Machine and the callback is
// responsible for removing it.
type Callback func(p *Parser, arg any) error

type Option func(p *Parser)

// WithMaxTokenSize limits the token buffer to n bytes. Longer tokens fail
// with ErrNoMemory.
func WithMaxTokenSize(n int) Option {
	return func(p *Parser) {
		p.maxToken = n
	}
}

// WithMaxDepth limits the automaton's state stack to n entries. Deeper
// nesting fails with ErrNoMemory.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// Parser is an incremental s-expression reader. Input may be split at any
// byte: the parser keeps partial tokens and open lists between calls. A
// Parser must not be used from more than one goroutine at a time.
type Parser struct {
	machine  Machine
	callback Callback
	arg      any

	states []int
	// quotes holds the state stack heights at which a quoted expression
	// is still being read
	quotes []int

	lex   lexState
	token []byte

	// number of machine values belonging to the expression being read
	pending int
	pos     int64

	maxToken int
	maxDepth int
}

func NewParser(m Machine, cb Callback, arg any, opts ...Option) *Parser {
	p := &Parser{
		machine:  m,
		callback: cb,
		arg:      arg,
		states:   make([]int, 1, initialStackSize),
		token:    make([]byte, 0, initialTokenSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxToken > 0 && p.maxToken < cap(p.token) {
		p.token = make([]byte, 0, p.maxToken)
	}
	if p.maxDepth > 0 && p.maxDepth < cap(p.states) {
		p.states = make([]int, 1, p.maxDepth)
	}
	return p
}

func (p *Parser) Machine() Machine {
	return p.machine
}

// Pos returns the number of bytes consumed since the session began.
func (p *Parser) Pos() int64 {
	return p.pos
}

// Incomplete reports whether an expression or token has been started but
// not yet finished.
func (p *Parser) Incomplete() bool {
	return len(p.states) > 1 || len(p.quotes) > 0 || p.lex != lexStart
}

// ReadBuffer feeds buf to the parser. An empty buf marks the end of input,
// which completes any pending token. On failure the returned *ParseError
// points at the offending byte and the session is reset, ready for a new
// expression.
func (p *Parser) ReadBuffer(buf []byte) error {
	if len(buf) == 0 {
		if err := p.feed(eof); err != nil {
			return p.fail(err, 0)
		}
		return nil
	}
	for i, c := range buf {
		if err := p.feed(int(c)); err != nil {
			return p.fail(err, i)
		}
		p.pos++
	}
	return nil
}

// Finish marks the end of input.
func (p *Parser) Finish() error {
	return p.ReadBuffer(nil)
}

// Write implements io.Writer. It never marks the end of input.
func (p *Parser) Write(buf []byte) (n int, err error) {
	if len(buf) == 0 {
		return 0, nil
	}
	err = p.ReadBuffer(buf)
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Offset, err
	}
	return len(buf), err
}

// ReadFrom feeds everything read from r and then marks the end of input.
func (p *Parser) ReadFrom(r io.Reader) (n int64, err error) {
	buf := make([]byte, 4096)
	for {
		var m int
		m, err = r.Read(buf)
		n += int64(m)
		if m > 0 {
			if perr := p.ReadBuffer(buf[:m]); perr != nil {
				return n, perr
			}
		}
		if err == io.EOF {
			return n, p.Finish()
		}
		if err != nil {
			return
		}
	}
}

// Reset abandons the expression being read and discards its values from
// the machine.
func (p *Parser) Reset() {
	if p.pending > 0 {
		p.machine.Drop(p.pending)
	}
	p.pending = 0
	p.states = p.states[:1]
	p.states[0] = 0
	p.quotes = p.quotes[:0]
	p.lex = lexStart
	p.token = p.token[:0]
}

func (p *Parser) fail(err error, offset int) error {
	perr := &ParseError{Err: err, Offset: offset, Pos: p.pos}
	if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrOverflow) {
		perr.Token = string(p.token)
	}
	p.Reset()
	return perr
}

// pushed accounts for delta values left on the machine by a successful
// operation.
func (p *Parser) pushed(err error, delta int) error {
	if err == nil {
		p.pending += delta
	}
	return err
}

func (p *Parser) top() int {
	return p.states[len(p.states)-1]
}

func (p *Parser) push(state int) error {
	if len(p.states) == cap(p.states) {
		if err := p.growStack(); err != nil {
			return err
		}
	}
	p.states = append(p.states, state)
	return nil
}

func (p *Parser) growStack() error {
	n := cap(p.states) * 2
	if p.maxDepth > 0 && n > p.maxDepth {
		if cap(p.states) >= p.maxDepth {
			return ErrNoMemory
		}
		n = p.maxDepth
	}
	states := make([]int, len(p.states), n)
	copy(states, p.states)
	p.states = states
	return nil
}

// pop removes count states. The bottom state is never removed; trying to
// is a bug in the tables, not in the input.
func (p *Parser) pop(count int) {
	if count > len(p.states)-1 {
		panic("sexp: popped off the top of the state stack")
	}
	p.states = p.states[:len(p.states)-count]
}

// advance moves the automaton along as far as it can go with terminal t.
func (p *Parser) advance(t terminal) error {
	if t == termQuote {
		return p.quote()
	}

	height := len(p.states)
	if n := len(p.quotes); n > 0 && p.quotes[n-1] == height && t != termLParen && t != termAtom {
		return ErrSyntax
	}
	if t == termEOF && height == 1 {
		return nil
	}

	act := lookup(p.top(), t)
	switch act.kind {
	case actError:
		return ErrSyntax
	case actShift:
		if err := p.push(act.arg); err != nil {
			return err
		}
	}

	for {
		act = lookup(p.top(), t)
		if act.kind != actReduce {
			break
		}
		prod := &productions[act.arg]
		p.pop(prod.count)
		if err := prod.reduce(p); err != nil {
			return err
		}
		if prod.nonterm == ntExpression {
			if err := p.unquote(); err != nil {
				return err
			}
		}
		if err := p.push(gotoTable[p.top()][prod.nonterm]); err != nil {
			return err
		}
	}

	if p.top() == acceptState {
		p.pop(1)
		return p.accept()
	}
	return nil
}

// quote notes that the next expression to start at the current height is
// quoted.
func (p *Parser) quote() error {
	if lookup(p.top(), termAtom).kind != actShift {
		return ErrSyntax
	}
	p.quotes = append(p.quotes, len(p.states))
	return nil
}

// unquote wraps the expression just reduced in (quote ...) once for every
// quote read at its height.
func (p *Parser) unquote() error {
	height := len(p.states)
	for n := len(p.quotes); n > 0 && p.quotes[n-1] >= height; n-- {
		if p.quotes[n-1] > height {
			return ErrSyntax
		}
		if err := p.makeQuote(); err != nil {
			return err
		}
		p.quotes = p.quotes[:n-1]
	}
	return nil
}

func (p *Parser) accept() error {
	p.pending = 0
	if p.callback == nil {
		return p.machine.Drop(1)
	}
	return p.callback(p, p.arg)
}

func (p *Parser) identity() error {
	return nil
}

// makeList terminates the reversed element chain with nil.
func (p *Parser) makeList() error {
	if err := p.pushed(p.machine.PushNil(), 1); err != nil {
		return err
	}
	return p.pushed(p.machine.UnwindList(), -1)
}

// makeDotList uses the expression after the dot as the list's tail.
func (p *Parser) makeDotList() error {
	return p.pushed(p.machine.UnwindList(), -1)
}

func (p *Parser) makeNil() error {
	return p.pushed(p.machine.PushNil(), 1)
}

// extendCons links the new expression onto the reversed chain.
func (p *Parser) extendCons() error {
	return p.pushed(p.machine.MakeCons(), -1)
}

// makeCons starts a reversed chain with (nil . expr).
func (p *Parser) makeCons() error {
	if err := p.pushed(p.machine.PushNil(), 1); err != nil {
		return err
	}
	if err := p.machine.Swap(); err != nil {
		return err
	}
	return p.pushed(p.machine.MakeCons(), -1)
}

// makeQuote turns x into (quote x).
func (p *Parser) makeQuote() error {
	if err := p.pushed(p.machine.PushNil(), 1); err != nil {
		return err
	}
	if err := p.pushed(p.machine.MakeCons(), -1); err != nil {
		return err
	}
	if err := p.pushed(p.machine.PushString("quote"), 1); err != nil {
		return err
	}
	if err := p.machine.MakeSymbol(); err != nil {
		return err
	}
	if err := p.machine.Swap(); err != nil {
		return err
	}
	return p.pushed(p.machine.MakeCons(), -1)
}
