package sexp

// Eval evaluates a. Literals evaluate to themselves; symbols and forms are
// inert and evaluate to nil. The result is a new reference.
func Eval(a *Atom) *Atom {
	switch a.Kind() {
	case KindNil, KindInt32, KindInt64, KindFloat, KindString, KindChar:
		return a.Retain()
	}
	return NewNil()
}
