package sexp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func (a *Atom) String() string {
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	if err := Fprint(w, a); err != nil {
		return "!!(" + err.Error() + ")!!"
	}
	w.Flush()
	return sb.String()
}

// Fprint writes the printed form of a to w. Anything Fprint writes reads
// back as an equal atom, except that floats are printed in %e notation and
// may lose precision.
func Fprint(w *bufio.Writer, a *Atom) (err error) {
	a.check()
	switch a.kind {
	case KindNil:
		_, err = w.WriteString("nil")
	case KindInt32:
		_, err = w.WriteString(strconv.FormatInt(a.i, 10))
	case KindInt64:
		_, err = w.WriteString(strconv.FormatInt(a.i, 10) + "L")
	case KindFloat:
		_, err = fmt.Fprintf(w, "%e", a.f)
	case KindString:
		err = printString(w, a.s)
	case KindChar:
		w.WriteByte('?')
		err = w.WriteByte(byte(a.i))
	case KindSymbol:
		err = printSymbol(w, a.s)
	case KindCons:
		w.WriteByte('(')
		if err = Fprint(w, a.car); err != nil {
			return
		}
		for a = a.cdr; a.kind == KindCons; a = a.cdr {
			w.WriteByte(' ')
			if err = Fprint(w, a.car); err != nil {
				return
			}
		}
		if a.kind != KindNil {
			w.WriteString(" . ")
			if err = Fprint(w, a); err != nil {
				return
			}
		}
		err = w.WriteByte(')')
	default:
		err = fmt.Errorf("unknown atom kind %v", a.kind)
	}
	return
}

// Print writes a to w followed by a newline.
func Print(w io.Writer, a *Atom) error {
	bw := bufio.NewWriter(w)
	if err := Fprint(bw, a); err != nil {
		return err
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

var escapeCodes = map[byte]byte{
	'\a': 'a',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'"':  '"',
	'\\': '\\',
}

func printString(w *bufio.Writer, s []byte) error {
	w.WriteByte('"')
	for _, c := range s {
		if e, ok := escapeCodes[c]; ok {
			w.WriteByte('\\')
			c = e
		}
		w.WriteByte(c)
	}
	return w.WriteByte('"')
}

// printSymbol escapes every byte the lexer would not read back as part of
// the symbol, including leading bytes that would start another token.
func printSymbol(w *bufio.Writer, s []byte) error {
	for i, c := range s {
		if !isIDChar(int(c)) || (i == 0 && !isSymbolStart(s)) {
			w.WriteByte('\\')
		}
		w.WriteByte(c)
	}
	return nil
}

func isSymbolStart(s []byte) bool {
	switch c := s[0]; {
	case isDigit(int(c)), c == '.', c == '?', c == ';':
		return false
	case c == '+', c == '-':
		return len(s) == 1 || !(isDigit(int(s[1])) || s[1] == '.')
	}
	return true
}
