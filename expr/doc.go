// Package expr tokenizes and evaluates C-like integer condition
// expressions over a table of named values.
//
// The evaluator drives the #[if]/#[elif] conditions of permutable shader
// text, and doubles as the discovery mechanism for which permutation
// variables a shader references: every identifier looked up during
// evaluation can be recorded into a caller-provided set.
//
//	result, err := expr.Evaluate("(A < B) || (C < D)", values, expr.Strict, nil)
//
// Supported operators, loosest binding last: unary + - ~ !, then * / %,
// + -, << >>, comparisons, & ^ |, && and ||. Arithmetic is signed 64-bit;
// the result is truncated to a signed 32-bit value. The identifiers true
// and false evaluate to 1 and 0. Identifiers may contain :: so that enum
// constants like LIGHTING_MODE::DEFERRED are a single name.
package expr
