// Package ptext renders text containing #[if] / #[elif] / #[else] /
// #[endif] directives under a permutation variable assignment.
//
// A directive occupies a line whose first non-whitespace content is "#[".
// Everything between directives is emitted verbatim when its enclosing
// branch is taken. Conditions are evaluated by the expr package, so a
// branch can test any expression over permutation variable values:
//
//	#[if LIGHTING_MODE == LIGHTING_MODE::DEFERRED && !USE_FOG]
//	...
//	#[elif USE_FOG]
//	...
//	#[else]
//	...
//	#[endif]
//
// Blocks nest. Text containing no directives is reproduced unchanged.
package ptext
