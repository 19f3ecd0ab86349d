package sexp

import (
	"bytes"
)

// List builds a proper list, taking ownership of elems.
func List(elems ...*Atom) *Atom {
	return ListTail(NewNil(), elems...)
}

// ListTail builds a list of elems ending in tail, taking ownership of all
// of them.
func ListTail(tail *Atom, elems ...*Atom) *Atom {
	n := tail
	for i := len(elems) - 1; i >= 0; i-- {
		n = NewCons(elems[i], n)
	}
	return n
}

// Quote builds (quote a), taking ownership of a.
func Quote(a *Atom) *Atom {
	return List(NewSymbol("quote"), a)
}

// Parse reads every expression in s. The caller owns the returned atoms.
func Parse(s string, opts ...Option) (exprs []*Atom, err error) {
	m := NewStack()
	p := NewParser(m, collect, &exprs, opts...)
	if _, err = p.ReadFrom(bytes.NewReader([]byte(s))); err != nil {
		for _, a := range exprs {
			a.Release()
		}
		return nil, err
	}
	return
}

func collect(p *Parser, arg any) error {
	v, err := p.Machine().(*Stack).Pop()
	if err != nil {
		return err
	}
	exprs := arg.(*[]*Atom)
	*exprs = append(*exprs, v)
	return nil
}

// ParseOne reads exactly one expression from s.
func ParseOne(s string, opts ...Option) (n *Atom, err error) {
	exprs, err := Parse(s, opts...)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		for _, a := range exprs {
			a.Release()
		}
		return nil, ErrSyntax
	}
	return exprs[0], nil
}

func MustParse(s string) (n *Atom) {
	n, err := ParseOne(s)
	if err != nil {
		panic(err)
	}
	return n
}
