package sexp

import (
	"fmt"
	"io"
)

// Machine is the value stack a Parser assembles expressions on.
//
// Every operation either succeeds completely or fails without touching the
// stack. Drop discards values left behind by an expression that failed to
// parse.
type Machine interface {
	PushString(s string) error
	PushInt32(v int32) error
	PushInt64(v int64) error
	PushFloat(v float64) error
	PushChar(c byte) error
	PushNil() error

	// MakeSymbol replaces the string on top of the stack with a symbol.
	MakeSymbol() error
	// MakeCons pops cdr then car and pushes (car . cdr).
	MakeCons() error
	Swap() error
	// UnwindList pops a tail and a reversed chain of cells (see Reverse)
	// and pushes the list they form.
	UnwindList() error

	Drop(n int) error
}

// Stack is the reference Machine. It owns one reference to every value it
// holds.
type Stack struct {
	// Values contains stack values. Index 0 is the bottom of the stack.
	Values   []*Atom
	MaxDepth int
	NumPush  int
}

var _ Machine = (*Stack)(nil)

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Len() int {
	return len(s.Values)
}

// Push places v at the top of the stack, taking ownership of it.
func (s *Stack) Push(v *Atom) {
	s.Values = append(s.Values, v)
	if len(s.Values) > s.MaxDepth {
		s.MaxDepth = len(s.Values)
	}
	s.NumPush++
}

// Peek returns the value at the top of the stack without a new reference.
func (s *Stack) Peek() (*Atom, error) {
	if len(s.Values) == 0 {
		return nil, ErrStackUnderflow
	}
	return s.Values[len(s.Values)-1], nil
}

// Pop removes the value at the top of the stack; the caller inherits its
// reference.
func (s *Stack) Pop() (*Atom, error) {
	if len(s.Values) == 0 {
		return nil, ErrStackUnderflow
	}
	v := s.Values[len(s.Values)-1]
	s.Values[len(s.Values)-1] = nil
	s.Values = s.Values[:len(s.Values)-1]
	return v, nil
}

func (s *Stack) need(n int) error {
	if len(s.Values) < n {
		return ErrStackUnderflow
	}
	return nil
}

func (s *Stack) PushString(v string) error {
	s.Push(NewString(v))
	return nil
}

func (s *Stack) PushInt32(v int32) error {
	s.Push(NewInt32(v))
	return nil
}

func (s *Stack) PushInt64(v int64) error {
	s.Push(NewInt64(v))
	return nil
}

func (s *Stack) PushFloat(v float64) error {
	s.Push(NewFloat(v))
	return nil
}

func (s *Stack) PushChar(c byte) error {
	s.Push(NewChar(c))
	return nil
}

func (s *Stack) PushNil() error {
	s.Push(NewNil())
	return nil
}

func (s *Stack) MakeSymbol() error {
	top, err := s.Peek()
	if err != nil {
		return err
	}
	if top.Kind() != KindString {
		return ErrNotString
	}
	s.Values[len(s.Values)-1] = NewSymbol(top.Text())
	top.Release()
	return nil
}

func (s *Stack) MakeCons() error {
	if err := s.need(2); err != nil {
		return err
	}
	cdr, _ := s.Pop()
	car, _ := s.Pop()
	s.Push(NewCons(car, cdr))
	return nil
}

func (s *Stack) Swap() error {
	if err := s.need(2); err != nil {
		return err
	}
	n := len(s.Values)
	s.Values[n-1], s.Values[n-2] = s.Values[n-2], s.Values[n-1]
	return nil
}

func (s *Stack) UnwindList() error {
	if err := s.need(2); err != nil {
		return err
	}
	n := len(s.Values)
	chain := s.Values[n-2]
	if !reversible(chain) {
		return ErrImproperList
	}
	tail, _ := s.Pop()
	s.Values[n-2] = unwind(chain, tail)
	return nil
}

// reversible reports whether chain is a chain of cells linked through their
// cars and ending in nil.
func reversible(chain *Atom) bool {
	for chain.IsCons() {
		chain = chain.car
	}
	return chain.IsNil()
}

// unwind builds the list for chain and tail. Chains nobody else refers to
// are reversed in place; shared ones are copied.
func unwind(chain, tail *Atom) *Atom {
	if chain.IsNil() {
		chain.Release()
		return tail
	}
	for c := chain; c.IsCons(); c = c.car {
		if c.Refs() != 1 {
			list := tail
			for c = chain; c.IsCons(); c = c.car {
				list = NewCons(c.cdr.Retain(), list)
			}
			chain.Release()
			return list
		}
	}
	return Reverse(chain, tail)
}

func (s *Stack) Drop(n int) error {
	if err := s.need(n); err != nil {
		return err
	}
	for ; n > 0; n-- {
		v, _ := s.Pop()
		v.Release()
	}
	return nil
}

// Reset releases every value and clears the statistics.
func (s *Stack) Reset() {
	s.Drop(len(s.Values))
	s.Values = nil
	s.MaxDepth = 0
	s.NumPush = 0
}

// FormatStatistics writes statistics about the stack to w.
func (s *Stack) FormatStatistics(w io.Writer) (int, error) {
	return fmt.Fprintf(w,
		"MaxDepth  = %d -- Depth = %d -- NumPushes = %d",
		s.MaxDepth, len(s.Values), s.NumPush)
}
