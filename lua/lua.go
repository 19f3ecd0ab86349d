// Package lua exposes the s-expression reader to gopher-lua scripts.
//
// Values convert as follows: numbers become Lua numbers, strings become Lua
// strings, a symbol becomes {symbol="name"}, a character becomes
// {char="c"} and a list becomes {list={...}} with a tail field when the list
// is dotted. nil is the empty list {list={}}.
package lua

import (
	"errors"
	"fmt"
	"math"

	sexp "github.com/epronk/xtickertape"
	lua "github.com/yuin/gopher-lua"
)

const readerTypeName = "sexp.reader"

var ErrUnsupported = errors.New("value has no s-expression form")

// ToLua converts a to a Lua value. a is not released.
func ToLua(L *lua.LState, a *sexp.Atom) lua.LValue {
	switch a.Kind() {
	case sexp.KindInt32, sexp.KindInt64:
		return lua.LNumber(a.Int64())
	case sexp.KindFloat:
		return lua.LNumber(a.Float())
	case sexp.KindString:
		return lua.LString(a.Text())
	case sexp.KindSymbol:
		t := L.NewTable()
		t.RawSetString("symbol", lua.LString(a.Text()))
		return t
	case sexp.KindChar:
		t := L.NewTable()
		t.RawSetString("char", lua.LString([]byte{a.Char()}))
		return t
	}

	list := L.NewTable()
	for ; a.IsCons(); a = a.Cdr() {
		list.Append(ToLua(L, a.Car()))
	}
	t := L.NewTable()
	t.RawSetString("list", list)
	if !a.IsNil() {
		t.RawSetString("tail", ToLua(L, a))
	}
	return t
}

// FromLua converts v back to an atom owned by the caller. Integral numbers
// become integers, using a long only when the value does not fit 32 bits.
func FromLua(v lua.LValue) (a *sexp.Atom, err error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return sexp.NewNil(), nil
	case lua.LString:
		return sexp.NewString(string(v)), nil
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
			return sexp.NewFloat(f), nil
		}
		if f >= math.MinInt32 && f <= math.MaxInt32 {
			return sexp.NewInt32(int32(f)), nil
		}
		return sexp.NewInt64(int64(f)), nil
	case *lua.LTable:
		return fromTable(v)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, v.Type())
}

func fromTable(t *lua.LTable) (a *sexp.Atom, err error) {
	if s, ok := t.RawGetString("symbol").(lua.LString); ok {
		return sexp.NewSymbol(string(s)), nil
	}
	if s, ok := t.RawGetString("char").(lua.LString); ok {
		if len(s) != 1 {
			return nil, fmt.Errorf("%w: char %q", ErrUnsupported, string(s))
		}
		return sexp.NewChar(s[0]), nil
	}
	list, ok := t.RawGetString("list").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: table without symbol, char or list", ErrUnsupported)
	}

	tail, err := FromLua(t.RawGetString("tail"))
	if err != nil {
		return nil, err
	}
	elems := make([]*sexp.Atom, 0, list.Len())
	for i := 1; i <= list.Len(); i++ {
		e, err := FromLua(list.RawGetInt(i))
		if err != nil {
			tail.Release()
			for _, e := range elems {
				e.Release()
			}
			return nil, err
		}
		elems = append(elems, e)
	}
	return sexp.ListTail(tail, elems...), nil
}

// errorTable describes err for a script: {err=message, offset=n}.
func errorTable(L *lua.LState, err error) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("err", lua.LString(err.Error()))
	var perr *sexp.ParseError
	if errors.As(err, &perr) {
		t.RawSetString("err", lua.LString(perr.Err.Error()))
		t.RawSetString("offset", lua.LNumber(perr.Pos))
		if perr.Token != "" {
			t.RawSetString("token", lua.LString(perr.Token))
		}
	}
	return t
}

// Loader opens the sexp module; use it with L.PreloadModule("sexp", Loader).
func Loader(L *lua.LState) int {
	mt := L.NewTypeMetatable(readerTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), readerMethods))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"parse":  parse,
		"print":  printValue,
		"reader": newReader,
	})
	L.Push(mod)
	return 1
}

// parse(str) returns a table of every expression in str, or nil and an
// error table.
func parse(L *lua.LState) int {
	exprs, err := sexp.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(errorTable(L, err))
		return 2
	}
	t := L.NewTable()
	for _, a := range exprs {
		t.Append(ToLua(L, a))
		a.Release()
	}
	L.Push(t)
	L.Push(lua.LNil)
	return 2
}

// print(value) returns the printed form of value.
func printValue(L *lua.LState) int {
	a, err := FromLua(L.CheckAny(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LString(a.String()))
	a.Release()
	return 1
}

// reader keeps one parser session alive across feed calls.
type reader struct {
	stack  *sexp.Stack
	parser *sexp.Parser
	ready  []*sexp.Atom
}

func collect(p *sexp.Parser, arg any) error {
	r := arg.(*reader)
	a, err := r.stack.Pop()
	if err != nil {
		return err
	}
	r.ready = append(r.ready, a)
	return nil
}

func newReader(L *lua.LState) int {
	r := &reader{stack: sexp.NewStack()}
	r.parser = sexp.NewParser(r.stack, collect, r)

	ud := L.NewUserData()
	ud.Value = r
	L.SetMetatable(ud, L.GetTypeMetatable(readerTypeName))
	L.Push(ud)
	return 1
}

func checkReader(L *lua.LState) *reader {
	ud := L.CheckUserData(1)
	if r, ok := ud.Value.(*reader); ok {
		return r
	}
	L.ArgError(1, "reader expected")
	return nil
}

var readerMethods = map[string]lua.LGFunction{
	"feed":       readerFeed,
	"finish":     readerFinish,
	"incomplete": readerIncomplete,
}

// drain pushes the expressions completed so far and the error, if any.
func (r *reader) drain(L *lua.LState, err error) int {
	t := L.NewTable()
	for _, a := range r.ready {
		t.Append(ToLua(L, a))
		a.Release()
	}
	r.ready = r.ready[:0]
	L.Push(t)
	if err != nil {
		L.Push(errorTable(L, err))
	} else {
		L.Push(lua.LNil)
	}
	return 2
}

// reader:feed(str) returns the expressions str completed and an error
// table or nil. The reader resets itself after an error.
func readerFeed(L *lua.LState) int {
	r := checkReader(L)
	return r.drain(L, r.parser.ReadBuffer([]byte(L.CheckString(2))))
}

// reader:finish() ends the input.
func readerFinish(L *lua.LState) int {
	r := checkReader(L)
	return r.drain(L, r.parser.Finish())
}

func readerIncomplete(L *lua.LState) int {
	L.Push(lua.LBool(checkReader(L).parser.Incomplete()))
	return 1
}
