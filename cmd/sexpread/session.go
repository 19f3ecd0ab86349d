package main

import (
	"io"
	"log"
	"strings"

	sexp "github.com/epronk/xtickertape"
	"github.com/google/uuid"
)

// session is one parser session. Every completed expression, or its value
// when eval is set, is handed to emit.
type session struct {
	id     uuid.UUID
	stack  *sexp.Stack
	parser *sexp.Parser
	eval   bool
	emit   func(a *sexp.Atom) error
	exprs  int
}

func newSession(eval bool, emit func(a *sexp.Atom) error, opts ...sexp.Option) *session {
	s := &session{
		id:    uuid.New(),
		stack: sexp.NewStack(),
		eval:  eval,
		emit:  emit,
	}
	s.parser = sexp.NewParser(s.stack, complete, s, opts...)
	log.Printf("session %s: opened", s.id)
	return s
}

func complete(p *sexp.Parser, arg any) error {
	s := arg.(*session)
	a, err := s.stack.Pop()
	if err != nil {
		return err
	}
	defer a.Release()
	s.exprs++
	totalExprs.Add(1)

	if s.eval {
		v := sexp.Eval(a)
		defer v.Release()
		return s.emit(v)
	}
	return s.emit(a)
}

// feed hands buf to the parser; an empty buf ends the input.
func (s *session) feed(buf []byte) error {
	totalBytes.Add(int64(len(buf)))
	return s.parser.ReadBuffer(buf)
}

func (s *session) readFrom(r io.Reader) error {
	n, err := s.parser.ReadFrom(r)
	totalBytes.Add(n)
	return err
}

// close discards any unfinished expression and releases the stack.
func (s *session) close() {
	s.parser.Reset()
	var sb strings.Builder
	s.stack.FormatStatistics(&sb)
	log.Printf("session %s: closed after %d expressions, %s", s.id, s.exprs, sb.String())
	s.stack.Reset()
}

// printTo emits atoms to w, one per line.
func printTo(w io.Writer) func(a *sexp.Atom) error {
	return func(a *sexp.Atom) error {
		return sexp.Print(w, a)
	}
}
