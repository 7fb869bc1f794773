package shader

import "github.com/leaappelsmeier/hydra/ptext"

// FreeValue marks a [PERMUTATIONS] declaration without a pinned value,
// meaning the variable participates in permutation selection.
const FreeValue = ""

// Shader holds all information about one loaded shader file: the
// permutable source of every stage, the import chain, the files pulled in
// by #include statements, and the permutation variables the file uses and
// declares.
//
// Shaders are created by a Library and are read-only afterwards.
type Shader struct {
	// Path is the normalized path the shader was loaded from.
	Path string

	// Imports lists the shader files pulled in via 'import' statements at
	// the start of the file.
	Imports []string

	// UsedVariables lists the permutation variables mentioned in this
	// file's conditions (excluding imports). May contain duplicates across
	// sections; AllUsedVariables deduplicates.
	UsedVariables []string

	// ReferencedFiles is the set of files read for this shader besides
	// imports, mostly via #include statements.
	ReferencedFiles map[string]struct{}

	// AllowedPermutations maps each variable declared in the
	// [PERMUTATIONS] section to its pinned value, or FreeValue if the
	// variable may permute freely.
	AllowedPermutations map[string]string

	// Sections holds the permutable text of each stage.
	Sections [NumStages]ptext.Text
}
