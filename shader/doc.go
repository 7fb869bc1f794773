// Package shader is the file-format layer of the permutation system: it
// loads ".hydra" shader files, splits them into sections, resolves import
// and #include statements, reads the [PERMUTATIONS] declarations and JSON
// variable definitions, and generates permuted source text per stage.
//
// A shader file has the shape
//
//	import <RenderCommon.hydra>
//
//	[PERMUTATIONS]
//	USE_FOG
//	LIGHTING_MODE = *
//	USE_MOTIONBLUR = FALSE
//
//	[ALL_SHADERS]
//	#include "common/util.h"
//
//	[VERTEX_SHADER]
//	...
//	[PIXEL_SHADER]
//	#[if USE_FOG]
//	...
//	#[endif]
//
// Text before the first section header holds import statements. The
// [ALL_SHADERS] section is prepended to each of the six shader stage
// sections (VERTEX through COMPUTE); the eight [USER_n] sections are
// free-form slots whose header names can be reconfigured per Library, and
// they get no [ALL_SHADERS] prefix.
//
// None of this package is mandatory for using permute: an engine with its
// own file formats can drive the runtime directly.
package shader
