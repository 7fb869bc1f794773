package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseRegister,
				Kind:     KindConflict,
				Variable: "USE_FOG",
				Detail:   "already exists as 'Int'",
			},
			contains: []string{"[register]", "conflict", "USE_FOG", "already exists as 'Int'"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseFinalize,
				Kind:  KindMissingValue,
			},
			contains: []string{"[finalize]", "missing_value"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindIO,
				File:   "shaders/pbr.hydra",
				Cause:  errors.New("underlying error"),
				Detail: "read failed",
			},
			contains: []string{"[load]", "io", "shaders/pbr.hydra", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("file.hydra", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not match the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap does not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := MissingValue("ENUM")
	target := &Error{Phase: PhaseFinalize, Kind: KindMissingValue}

	if !errors.Is(err, target) {
		t.Error("errors.Is does not match same phase and kind")
	}

	other := &Error{Phase: PhaseFinalize, Kind: KindNotFound}
	if errors.Is(err, other) {
		t.Error("errors.Is matched a different kind")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"conflict", Conflict("A", "mismatch"), PhaseRegister, KindConflict},
		{"invalid value", InvalidValue(PhaseEncode, "A", 7), PhaseEncode, KindInvalidValue},
		{"missing value", MissingValue("A"), PhaseFinalize, KindMissingValue},
		{"variable not found", VariableNotFound(PhaseLoad, "A"), PhaseLoad, KindNotFound},
		{"file not found", FileNotFound(PhaseLoad, "x.hydra"), PhaseLoad, KindNotFound},
		{"syntax", Syntax("x.hydra", "bad token '%s'", "="), PhaseParse, KindSyntax},
		{"not ready", NotReady(PhaseLoad, "file cache is not set up"), PhaseLoad, KindNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %q, want %q", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", tt.err.Kind, tt.kind)
			}
		})
	}
}
