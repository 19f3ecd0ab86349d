package sexp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtom_sharing(t *testing.T) {
	live := Live()
	a := NewString("shared")
	assert.Equal(t, 1, a.Refs())
	for i := 0; i < 10; i++ {
		a.Retain()
	}
	assert.Equal(t, 11, a.Refs())
	for i := 0; i < 10; i++ {
		a.Release()
	}
	assert.Equal(t, 1, a.Refs())
	assert.Equal(t, "shared", a.Text())
	a.Release()
	assert.Equal(t, live, Live())
	assert.Panics(t, func() { a.Retain() })
	assert.Panics(t, func() { a.Text() })
}

func TestAtom_cachedIntegers(t *testing.T) {
	live := Live()
	for v := int32(-1); v <= 9; v++ {
		a := NewInt32(v)
		require.True(t, a.Static(), "%d should be cached", v)
		before := a.Refs()
		b := NewInt32(v)
		assert.Same(t, a, b)
		assert.Equal(t, before+1, b.Refs())
		b.Release()
		a.Release()
		assert.Equal(t, before-1, a.Refs())
		assert.Equal(t, v, a.Int32())
	}
	assert.Equal(t, live, Live())

	a := NewInt32(10)
	assert.False(t, a.Static())
	assert.Equal(t, live+1, Live())
	a.Release()
	b := NewInt32(-2)
	assert.False(t, b.Static())
	b.Release()
	assert.Equal(t, live, Live())
}

func TestAtom_nil(t *testing.T) {
	a := NewNil()
	b := NewNil()
	assert.Same(t, a, b)
	assert.True(t, a.IsNil())
	a.Release()
	b.Release()

	detached := &Atom{kind: KindNil, static: true, refs: 1}
	assert.PanicsWithValue(t, "sexp: attempted to free nil", func() { detached.Release() })

	five := &Atom{kind: KindInt32, static: true, refs: 1, i: 5}
	assert.Panics(t, func() { five.Release() })
}

func TestAtom_staticAcrossGoroutines(t *testing.T) {
	live := Live()
	n, one := NewNil(), NewInt32(1)
	nilRefs, oneRefs := n.Refs(), one.Refs()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				MustParse("(1 2 () . -1)").Release()
				v := NewNil().Retain()
				v.Release()
				v.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, nilRefs, n.Refs())
	assert.Equal(t, oneRefs, one.Refs())
	n.Release()
	one.Release()
	assert.Equal(t, live, Live())
}

func TestAtom_consTeardown(t *testing.T) {
	live := Live()
	shared := NewSymbol("kept")
	l := List(NewString("a"), shared.Retain(), NewFloat(1.5), NewInt64(1<<40))
	assert.Equal(t, 4, Len(l))
	assert.Equal(t, live+8, Live())
	l.Release()
	assert.Equal(t, live+1, Live())
	assert.Equal(t, 1, shared.Refs())
	assert.Equal(t, "kept", shared.Text())
	shared.Release()
	assert.Equal(t, live, Live())
}

func TestAtom_longListTeardown(t *testing.T) {
	live := Live()
	l := NewNil()
	for i := 0; i < 1000000; i++ {
		l = NewCons(NewInt32(int32(i)), l)
	}
	assert.Equal(t, 1000000, Len(l))
	l.Release()
	assert.Equal(t, live, Live())
}

func TestAtom_accessors(t *testing.T) {
	tests := []struct {
		name string
		a    *Atom
		kind Kind
		get  func(a *Atom) any
		want any
	}{
		{"int32", NewInt32(1234), KindInt32, func(a *Atom) any { return a.Int32() }, int32(1234)},
		{"int32 as int64", NewInt32(-99), KindInt32, func(a *Atom) any { return a.Int64() }, int64(-99)},
		{"int64", NewInt64(-1 << 40), KindInt64, func(a *Atom) any { return a.Int64() }, int64(-1 << 40)},
		{"float", NewFloat(2.5), KindFloat, func(a *Atom) any { return a.Float() }, 2.5},
		{"string", NewString("hi"), KindString, func(a *Atom) any { return a.Text() }, "hi"},
		{"symbol", NewSymbol("sym"), KindSymbol, func(a *Atom) any { return a.Text() }, "sym"},
		{"char", NewChar('q'), KindChar, func(a *Atom) any { return a.Char() }, byte('q')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.a.Kind())
			assert.Equal(t, tt.want, tt.get(tt.a))
			assert.Panics(t, func() { tt.a.Car() })
			tt.a.Release()
		})
	}

	c := NewCons(NewInt32(1), NewInt32(2))
	assert.Equal(t, int32(1), c.Car().Int32())
	assert.Equal(t, int32(2), c.Cdr().Int32())
	assert.Panics(t, func() { c.Int32() })
	c.Release()
}

func TestAtom_stringCopy(t *testing.T) {
	b := []byte("mutable")
	a := NewString(string(b))
	b[0] = 'M'
	assert.Equal(t, "mutable", a.Text())
	a.Release()
}

func TestReverse(t *testing.T) {
	live := Live()
	chain := NewCons(NewCons(NewCons(NewNil(), NewSymbol("a")), NewSymbol("b")), NewSymbol("c"))
	l := Reverse(chain, NewSymbol("d"))
	assert.Equal(t, "(a b c . d)", l.String())
	l.Release()
	assert.Equal(t, live, Live())
}

func TestEqual(t *testing.T) {
	a := MustParse(`(1 "two" ?3 four (5.0 . 6L))`)
	b := MustParse(`(1 "two" ?3 four (5.0 . 6L))`)
	c := MustParse(`(1 "two" ?3 four (5.0 . 6))`)
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(NewString("x"), NewSymbol("x")))
	a.Release()
	b.Release()
	c.Release()
}

func TestEval(t *testing.T) {
	for _, s := range []string{"1", "12345L", "1.5", `"s"`, "?c", "()"} {
		a := MustParse(s)
		v := Eval(a)
		assert.Same(t, a, v, s)
		v.Release()
		a.Release()
	}
	for _, s := range []string{"sym", "(f x)", "'x"} {
		a := MustParse(s)
		v := Eval(a)
		assert.True(t, v.IsNil(), s)
		v.Release()
		a.Release()
	}
}
