// Package hydra provides a shader permutation selector: a library for
// declaring typed permutation variables, combining partial variable
// assignments from several application layers, and producing compact,
// hashable selections that identify one concrete code variant of a shader.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	hydra/            Root package with the FileCache and FileLocator interfaces
//	├── permute/      Bit-packed variable registry, states, sets, merge and finalize
//	├── expr/         Tokenizer and condition expression evaluator
//	├── ptext/        Conditional #[if]/#[elif]/#[else]/#[endif] text rendering
//	├── filecache/    File cache and include-path locator implementations
//	├── shader/       Shader file parsing, imports, includes, and the shader library
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Register variables and select a permutation:
//
//	mgr := permute.NewManager(nil)
//	fog, _ := mgr.RegisterBool("USE_FOG", permute.DefaultBool(false))
//	mode, _ := mgr.RegisterEnum("LIGHTING_MODE", []permute.EnumValue{
//	    {Label: "FORWARD", Value: 0},
//	    {Label: "DEFERRED", Value: 1},
//	}, nil)
//
//	var used permute.Set
//	used.AddVariable(fog)
//	used.AddVariable(mode)
//
//	var state permute.State
//	state.SetBool(fog, true)
//	state.SetLabel(mode, "DEFERRED")
//
//	var sel permute.Selection
//	if err := mgr.FinalizeState(&state, &used, &sel); err != nil {
//	    log.Fatal(err)
//	}
//	key := sel.Hash() // cache key for this shader variant
//
// Render one permutation of a conditional text:
//
//	var pt ptext.Text
//	pt.SetText(src)
//	out, err := pt.Generate(expr.ValueTable{"USE_FOG": 1, "LIGHTING_MODE": 1})
//
// # Layers
//
// The permute package is self-contained and has no file-system or text
// dependencies; an engine can drive it with entirely custom tooling. The
// shader package is the optional tools layer: it loads ".hydra" shader
// files, resolves import and #include statements, parses the
// [PERMUTATIONS] section, and generates permuted source text per shader
// stage.
//
// # Thread Safety
//
// A permute.Manager is populated once and then read-only: registration must
// be serialized by the caller, while lookups and FinalizeState are safe for
// concurrent readers afterwards. State, Set and Selection values are owned
// by their caller. The shader.Library and filecache.Cache serialize their
// internal maps and are safe for concurrent use.
package hydra
