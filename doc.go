// s-expression reader for the tickertape lisp-like data language
//
// the reader is incremental: bytes are pushed into a Parser in buffers of
// any size and a callback fires once for every complete top-level
// expression. values are reference counted atoms (see Atom) assembled on a
// Machine, normally a Stack.
//
// examples:
//
//	(subscribe "tickertape" 42 12345678901L 3.5e2 ?x foo-bar)
//	'(a b . c)   ; same as (quote (a b . c))
//
// BNF:
//
//	<start>           :: <expression> ;
//	<expression>      :: "(" <expression-list> ")"
//	                   | "(" <expression-list> "." <expression> ")"
//	                   | "(" ")"
//	                   | "'" <expression>
//	                   | <atom> ;
//	<expression-list> :: <expression-list> <expression> | <expression> ;
//
//	<atom>            :: <string> | <char> | <integer> | <long> | <float> | <symbol> ;
//
//	<string>          :: "\"" ( <string-char> | "\\" <any char> )* "\"" ;
//	<char>            :: "?" <any char> ;
//	<integer>         :: [ "+" | "-" ] <digit>+ ;
//	<long>            :: <integer> ( "l" | "L" ) ;
//	<float>           :: [ "+" | "-" ] ( <digit>+ "." <digit>* | "." <digit>+ ) [ <exponent> ]
//	                   | [ "+" | "-" ] <digit>+ <exponent> ;
//	<exponent>        :: ( "e" | "E" ) [ "+" | "-" ] <digit>+ ;
//	<symbol>          :: ( <id-char> | "\\" <any char> )+ ;
//
//	<comment>         :: ";" <any char except newline>* ;
//
// string escapes \a \b \f \n \r \t \v translate to control characters, any
// other escaped character stands for itself, and an escaped newline is
// dropped so a string can continue on the next line.
package sexp
