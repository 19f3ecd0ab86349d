package sexp

import (
	"errors"
	"strconv"
)

// eof is fed to the lexer when the input is exhausted.
const eof = -1

type lexState int

const (
	lexStart lexState = iota
	lexComment
	lexString
	lexStringEsc
	lexChar
	lexSigned
	lexFloatPre
	lexDot
	lexFloat
	lexInteger
	lexExpPre
	lexExpSigned
	lexExp
	lexSymbol
	lexSymbolEsc
)

// idChars marks the bytes that may continue a symbol.
var idChars = [128]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '*': true, '+': true,
	'-': true, '.': true, '/': true,
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	':': true, ';': true, '<': true, '=': true, '>': true, '?': true, '@': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'[': true, ']': true, '^': true, '_': true, '`': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true,
	'h': true, 'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true,
	'o': true, 'p': true, 'q': true, 'r': true, 's': true, 't': true, 'u': true,
	'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
	'{': true, '|': true, '}': true, '~': true,
}

func isIDChar(ch int) bool {
	return ch >= 0 && ch < len(idChars) && idChars[ch]
}

func isDigit(ch int) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch int) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func translateEscape(ch int) byte {
	switch ch {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	}
	return byte(ch)
}

// feed runs one character (or eof) through the lexer.
func (p *Parser) feed(ch int) error {
	switch p.lex {
	case lexStart:
		return p.start(ch)
	case lexComment:
		return p.comment(ch)
	case lexString:
		return p.str(ch)
	case lexStringEsc:
		return p.strEsc(ch)
	case lexChar:
		return p.char(ch)
	case lexSigned:
		return p.signed(ch)
	case lexFloatPre:
		return p.floatPre(ch)
	case lexDot:
		return p.dot(ch)
	case lexFloat:
		return p.float(ch)
	case lexInteger:
		return p.integer(ch)
	case lexExpPre:
		return p.expPre(ch)
	case lexExpSigned:
		return p.expSigned(ch)
	case lexExp:
		return p.exp(ch)
	case lexSymbol:
		return p.symbol(ch)
	case lexSymbolEsc:
		return p.symbolEsc(ch)
	}
	panic("sexp: bad lexer state")
}

// begin starts a new token, optionally with its first character.
func (p *Parser) begin(next lexState, first ...int) error {
	p.token = p.token[:0]
	p.lex = next
	for _, ch := range first {
		if err := p.appendChar(byte(ch)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) appendChar(ch byte) error {
	if len(p.token) == cap(p.token) {
		if err := p.growToken(); err != nil {
			return err
		}
	}
	p.token = append(p.token, ch)
	return nil
}

func (p *Parser) growToken() error {
	n := cap(p.token) * 2
	if p.maxToken > 0 && n > p.maxToken {
		if cap(p.token) >= p.maxToken {
			return ErrNoMemory
		}
		n = p.maxToken
	}
	token := make([]byte, len(p.token), n)
	copy(token, p.token)
	p.token = token
	return nil
}

// invalid records ch as part of the bad token.
func (p *Parser) invalid(ch int) error {
	if ch != eof {
		// the token only feeds the error report; a full buffer keeps what it has
		_ = p.appendChar(byte(ch))
	}
	return ErrInvalidToken
}

// reinject hands ch, which ended the previous token, to the start state.
func (p *Parser) reinject(ch int) error {
	p.lex = lexStart
	return p.start(ch)
}

func (p *Parser) start(ch int) error {
	switch ch {
	case '"':
		return p.begin(lexString)
	case '\'':
		return p.advance(termQuote)
	case '(':
		return p.advance(termLParen)
	case ')':
		return p.advance(termRParen)
	case '+', '-':
		return p.begin(lexSigned, ch)
	case ';':
		p.lex = lexComment
		return nil
	case '.':
		return p.begin(lexDot, ch)
	case '?':
		p.lex = lexChar
		return nil
	case '\\':
		return p.begin(lexSymbolEsc)
	case eof:
		return p.advance(termEOF)
	}

	switch {
	case isSpace(ch):
		return nil
	case isDigit(ch):
		return p.begin(lexInteger, ch)
	case isIDChar(ch):
		return p.begin(lexSymbol, ch)
	}

	p.token = p.token[:0]
	return p.invalid(ch)
}

func (p *Parser) comment(ch int) error {
	switch ch {
	case eof:
		return p.reinject(ch)
	case '\n':
		p.lex = lexStart
	}
	return nil
}

func (p *Parser) str(ch int) error {
	switch ch {
	case eof:
		return ErrUnterminatedString
	case '"':
		p.lex = lexStart
		return p.acceptString(string(p.token))
	case '\\':
		p.lex = lexStringEsc
		return nil
	}
	return p.appendChar(byte(ch))
}

// strEsc reads the character after a backslash in a string. An escaped
// newline continues the string on the next line and is dropped.
func (p *Parser) strEsc(ch int) error {
	switch ch {
	case eof:
		return ErrUnterminatedString
	case '\n':
		p.lex = lexString
		return nil
	}
	p.lex = lexString
	return p.appendChar(translateEscape(ch))
}

func (p *Parser) char(ch int) error {
	if ch == eof {
		return ErrUnterminatedSymbol
	}
	p.lex = lexStart
	return p.acceptChar(byte(ch))
}

func (p *Parser) signed(ch int) error {
	switch {
	case ch == '.':
		p.lex = lexFloatPre
		return p.appendChar(byte(ch))
	case isDigit(ch):
		p.lex = lexInteger
		return p.appendChar(byte(ch))
	}
	p.lex = lexSymbol
	return p.symbol(ch)
}

func (p *Parser) floatPre(ch int) error {
	if isDigit(ch) {
		p.lex = lexFloat
		return p.appendChar(byte(ch))
	}
	return p.invalid(ch)
}

func (p *Parser) dot(ch int) error {
	if isDigit(ch) {
		p.lex = lexFloat
		return p.appendChar(byte(ch))
	}
	p.lex = lexStart
	if err := p.advance(termDot); err != nil {
		return err
	}
	return p.reinject(ch)
}

func (p *Parser) integer(ch int) error {
	switch {
	case ch == '.':
		p.lex = lexFloat
		return p.appendChar(byte(ch))
	case ch == 'l' || ch == 'L':
		p.lex = lexStart
		return p.acceptInt64(string(p.token))
	case ch == 'e' || ch == 'E':
		p.lex = lexExpPre
		return p.appendChar(byte(ch))
	case isDigit(ch):
		return p.appendChar(byte(ch))
	}
	if err := p.acceptInt32(string(p.token)); err != nil {
		return err
	}
	return p.reinject(ch)
}

func (p *Parser) float(ch int) error {
	switch {
	case ch == 'e' || ch == 'E':
		p.lex = lexExpPre
		return p.appendChar(byte(ch))
	case isDigit(ch):
		return p.appendChar(byte(ch))
	}
	if err := p.acceptFloat(string(p.token)); err != nil {
		return err
	}
	return p.reinject(ch)
}

func (p *Parser) expPre(ch int) error {
	switch {
	case ch == '+' || ch == '-':
		p.lex = lexExpSigned
		return p.appendChar(byte(ch))
	case isDigit(ch):
		p.lex = lexExp
		return p.appendChar(byte(ch))
	}
	return p.invalid(ch)
}

func (p *Parser) expSigned(ch int) error {
	if isDigit(ch) {
		p.lex = lexExp
		return p.appendChar(byte(ch))
	}
	return p.invalid(ch)
}

func (p *Parser) exp(ch int) error {
	if isDigit(ch) {
		return p.appendChar(byte(ch))
	}
	if err := p.acceptFloat(string(p.token)); err != nil {
		return err
	}
	return p.reinject(ch)
}

func (p *Parser) symbol(ch int) error {
	switch {
	case ch == '\\':
		p.lex = lexSymbolEsc
		return nil
	case isIDChar(ch):
		return p.appendChar(byte(ch))
	}
	if err := p.acceptSymbol(string(p.token)); err != nil {
		return err
	}
	return p.reinject(ch)
}

func (p *Parser) symbolEsc(ch int) error {
	if ch == eof {
		return ErrUnterminatedSymbol
	}
	p.lex = lexSymbol
	return p.appendChar(byte(ch))
}

// zeroMantissa reports whether every digit before the exponent of s is 0.
func zeroMantissa(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == 'e' || c == 'E':
			return true
		case c >= '1' && c <= '9':
			return false
		}
	}
	return true
}

func numberError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrOverflow
	}
	return ErrInvalidToken
}

func (p *Parser) acceptString(s string) error {
	if err := p.pushed(p.machine.PushString(s), 1); err != nil {
		return err
	}
	return p.advance(termAtom)
}

func (p *Parser) acceptChar(c byte) error {
	if err := p.pushed(p.machine.PushChar(c), 1); err != nil {
		return err
	}
	return p.advance(termAtom)
}

func (p *Parser) acceptInt32(s string) error {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return numberError(err)
	}
	if err = p.pushed(p.machine.PushInt32(int32(v)), 1); err != nil {
		return err
	}
	return p.advance(termAtom)
}

func (p *Parser) acceptInt64(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return numberError(err)
	}
	if err = p.pushed(p.machine.PushInt64(v), 1); err != nil {
		return err
	}
	return p.advance(termAtom)
}

func (p *Parser) acceptFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return numberError(err)
	}
	if v == 0 && !zeroMantissa(s) {
		// underflow is out of range too
		return ErrOverflow
	}
	if err = p.pushed(p.machine.PushFloat(v), 1); err != nil {
		return err
	}
	return p.advance(termAtom)
}

func (p *Parser) acceptSymbol(s string) error {
	if err := p.pushed(p.machine.PushString(s), 1); err != nil {
		return err
	}
	if err := p.machine.MakeSymbol(); err != nil {
		return err
	}
	return p.advance(termAtom)
}
