package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // variable registration
	PhaseEncode   Phase = "encode"   // value encoding into packed bits
	PhaseMerge    Phase = "merge"    // state merging
	PhaseFinalize Phase = "finalize" // selection finalization
	PhaseParse    Phase = "parse"    // condition/text/section parsing
	PhaseLoad     Phase = "load"     // shader and variable-definition loading
)

// Kind categorizes the error
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindInvalidValue Kind = "invalid_value"
	KindMissingValue Kind = "missing_value"
	KindNotFound     Kind = "not_found"
	KindSyntax       Kind = "syntax"
	KindIO           Kind = "io"
	KindNotReady     Kind = "not_ready"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Variable string // permutation variable name, if the error concerns one
	File     string // file path, if the error concerns one
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Variable != "" {
		b.WriteString(" variable '")
		b.WriteString(e.Variable)
		b.WriteByte('\'')
	}

	if e.File != "" {
		b.WriteString(" file '")
		b.WriteString(e.File)
		b.WriteByte('\'')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// Conflict creates a registration conflict error
func Conflict(variable, detail string, args ...any) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindConflict,
		Variable: variable,
		Detail:   fmt.Sprintf(detail, args...),
	}
}

// InvalidValue creates an invalid encoding error
func InvalidValue(phase Phase, variable string, value any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidValue,
		Variable: variable,
		Detail:   fmt.Sprintf("%v is not a valid value", value),
	}
}

// MissingValue reports a used variable with neither a state value nor a default
func MissingValue(variable string) *Error {
	return &Error{
		Phase:    PhaseFinalize,
		Kind:     KindMissingValue,
		Variable: variable,
		Detail:   "not set in state and has no default value",
	}
}

// VariableNotFound creates a variable lookup error
func VariableNotFound(phase Phase, variable string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotFound,
		Variable: variable,
		Detail:   "variable does not exist",
	}
}

// FileNotFound creates a file lookup error
func FileNotFound(phase Phase, file string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		File:   file,
		Detail: "file could not be located",
	}
}

// Syntax creates a parse error
func Syntax(file, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		File:   file,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Load wraps an error that occurred while loading a file
func Load(file string, cause error) *Error {
	return &Error{
		Phase: PhaseLoad,
		Kind:  KindIO,
		File:  file,
		Cause: cause,
	}
}

// NotReady reports that a mandatory collaborator has not been configured
func NotReady(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotReady,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
