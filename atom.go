package sexp

import (
	"fmt"
	"sync/atomic"
)

type Kind int

const (
	KindNil Kind = iota
	KindInt32
	KindInt64
	KindFloat
	KindString
	KindChar
	KindSymbol
	KindCons

	kindFreed Kind = -1
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindInt32:  "int32",
	KindInt64:  "int64",
	KindFloat:  "float",
	KindString: "string",
	KindChar:   "char",
	KindSymbol: "symbol",
	KindCons:   "cons",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Atom is a reference counted s-expression value.
//
// Every constructor hands out one reference. Retain adds a reference and
// Release drops one; when the last reference is dropped the atom is freed
// and any atoms it owns are released in turn. Atoms are not safe for
// concurrent use, with the exception of the static nil and small integer
// atoms, whose counts are only advisory.
type Atom struct {
	kind   Kind
	static bool
	refs   int32

	i   int64
	f   float64
	s   []byte
	car *Atom
	cdr *Atom
}

const (
	minCachedInt = -1
	maxCachedInt = 9
)

var (
	nilAtom   = Atom{kind: KindNil, static: true, refs: 1}
	cachedInt [maxCachedInt - minCachedInt + 1]Atom

	live atomic.Int64
)

func init() {
	for i := range cachedInt {
		cachedInt[i] = Atom{
			kind:   KindInt32,
			static: true,
			refs:   1,
			i:      int64(i + minCachedInt),
		}
	}
}

// Live reports how many heap allocated atoms have not been freed yet.
// Static atoms are never counted.
func Live() int64 {
	return live.Load()
}

func alloc(kind Kind) *Atom {
	live.Add(1)
	return &Atom{kind: kind, refs: 1}
}

func NewNil() *Atom {
	atomic.AddInt32(&nilAtom.refs, 1)
	return &nilAtom
}

func NewInt32(v int32) *Atom {
	if v >= minCachedInt && v <= maxCachedInt {
		a := &cachedInt[v-minCachedInt]
		atomic.AddInt32(&a.refs, 1)
		return a
	}
	a := alloc(KindInt32)
	a.i = int64(v)
	return a
}

func NewInt64(v int64) *Atom {
	a := alloc(KindInt64)
	a.i = v
	return a
}

func NewFloat(v float64) *Atom {
	a := alloc(KindFloat)
	a.f = v
	return a
}

// NewString copies s into a new string atom.
func NewString(s string) *Atom {
	a := alloc(KindString)
	a.s = []byte(s)
	return a
}

func NewChar(c byte) *Atom {
	a := alloc(KindChar)
	a.i = int64(c)
	return a
}

// NewSymbol copies name into a new symbol atom.
func NewSymbol(name string) *Atom {
	a := alloc(KindSymbol)
	a.s = []byte(name)
	return a
}

// NewCons takes ownership of the references passed as car and cdr.
func NewCons(car, cdr *Atom) *Atom {
	a := alloc(KindCons)
	a.car = car
	a.cdr = cdr
	return a
}

func (a *Atom) check() {
	if a.kind == kindFreed {
		panic("sexp: use of freed atom")
	}
}

func (a *Atom) must(k Kind) {
	a.check()
	if a.kind != k {
		panic(fmt.Sprintf("sexp: %v atom used as %v", a.kind, k))
	}
}

// Retain adds a reference to a and returns it.
func (a *Atom) Retain() *Atom {
	if a.static {
		atomic.AddInt32(&a.refs, 1)
		return a
	}
	a.check()
	a.refs++
	return a
}

// Release drops a reference to a, freeing it when none remain.
// Dropping the last reference to a static atom is a programming error and
// panics; the memory model is corrupt at that point.
func (a *Atom) Release() {
	if a.static {
		a.releaseStatic()
		return
	}
	if !a.release() {
		return
	}
	for a != nil {
		a = a.free()
	}
}

// releaseStatic drops an advisory reference on a shared atom. Shared atoms
// never reach free.
func (a *Atom) releaseStatic() {
	if atomic.AddInt32(&a.refs, -1) > 0 {
		return
	}
	if a.kind == KindNil {
		panic("sexp: attempted to free nil")
	}
	panic(fmt.Sprintf("sexp: attempted to free cached integer %d", a.i))
}

// release drops one reference and reports whether a must now be freed.
func (a *Atom) release() bool {
	if a.static {
		a.releaseStatic()
		return false
	}
	a.check()
	a.refs--
	return a.refs == 0
}

// free destroys a heap atom whose last reference is gone and returns the
// next atom of a cdr chain that has to be freed as well, so long lists are
// torn down without recursion.
func (a *Atom) free() (next *Atom) {
	switch a.kind {
	case KindString, KindSymbol:
		a.s = nil
	case KindCons:
		car, cdr := a.car, a.cdr
		a.car, a.cdr = nil, nil
		car.Release()
		if cdr.release() {
			next = cdr
		}
	}
	a.kind = kindFreed
	live.Add(-1)
	return
}

func (a *Atom) Kind() Kind {
	return a.kind
}

// Refs returns the number of references held on a.
func (a *Atom) Refs() int {
	if a.static {
		return int(atomic.LoadInt32(&a.refs))
	}
	return int(a.refs)
}

// Static reports whether a is one of the shared nil or small integer atoms.
func (a *Atom) Static() bool {
	return a.static
}

func (a *Atom) IsNil() bool {
	a.check()
	return a.kind == KindNil
}

func (a *Atom) IsCons() bool {
	a.check()
	return a.kind == KindCons
}

func (a *Atom) Int32() int32 {
	a.must(KindInt32)
	return int32(a.i)
}

// Int64 returns the value of an int32 or int64 atom.
func (a *Atom) Int64() int64 {
	a.check()
	if a.kind != KindInt32 {
		a.must(KindInt64)
	}
	return a.i
}

func (a *Atom) Float() float64 {
	a.must(KindFloat)
	return a.f
}

// Text returns the characters of a string or symbol atom.
func (a *Atom) Text() string {
	a.check()
	if a.kind != KindString {
		a.must(KindSymbol)
	}
	return string(a.s)
}

func (a *Atom) Char() byte {
	a.must(KindChar)
	return byte(a.i)
}

// Car returns the car of a cons atom. The reference is borrowed.
func (a *Atom) Car() *Atom {
	a.must(KindCons)
	return a.car
}

// Cdr returns the cdr of a cons atom. The reference is borrowed.
func (a *Atom) Cdr() *Atom {
	a.must(KindCons)
	return a.cdr
}

// Len returns the number of cons cells along the cdr chain of a.
func Len(a *Atom) (n int) {
	for a.IsCons() {
		n++
		a = a.cdr
	}
	return
}

// Reverse turns a chain of cells linked through their cars, as built by
// the parser, into a list linked through the cdrs and terminated by end.
// The cells are reused; ownership of chain and end passes to the result.
func Reverse(chain, end *Atom) *Atom {
	cdr := end
	for {
		car := chain.Car()
		chain.car = chain.cdr
		chain.cdr = cdr
		if car.IsNil() {
			car.Release()
			return chain
		}
		cdr = chain
		chain = car
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b *Atom) bool {
	for {
		if a == b {
			return true
		}
		a.check()
		b.check()
		if a.kind != b.kind {
			return false
		}
		switch a.kind {
		case KindNil:
			return true
		case KindInt32, KindInt64, KindChar:
			return a.i == b.i
		case KindFloat:
			return a.f == b.f
		case KindString, KindSymbol:
			return string(a.s) == string(b.s)
		case KindCons:
			if !Equal(a.car, b.car) {
				return false
			}
			a, b = a.cdr, b.cdr
		default:
			return false
		}
	}
}
