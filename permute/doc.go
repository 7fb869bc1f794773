// Package permute implements the bit-packed permutation variable engine.
//
// A Manager assigns every registered variable a bit range inside a packed
// 64-bit block space. Partial assignments (State), per-shader variable
// membership (Set) and finalized assignments (Selection) are all views over
// the same block layout, so merging application layers and restricting them
// to the variables a shader actually uses is a handful of bitwise
// operations per 64-bit block.
//
// The typical frame flow:
//
//	var global, material permute.State
//	global.SetBool(fog, true)
//	material.SetLabel(mode, "DEFERRED")
//
//	var merged permute.State
//	permute.MergeStates(&global, &material, shaderSet, &merged)
//
//	var sel permute.Selection
//	mgr.FinalizeState(&merged, shaderSet, &sel)
//
// FinalizeState fills unset variables from registered defaults and fails if
// a used variable has neither a value nor a default. The selection's hash
// identifies the shader variant and is stable for a fixed manager layout.
package permute
