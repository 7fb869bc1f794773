package ptext

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/leaappelsmeier/hydra/expr"
)

// PieceType classifies one piece of a permutable text.
type PieceType uint8

const (
	PieceUnconditional PieceType = iota
	PieceIf
	PieceElif
	PieceElse
	PieceEndif
)

func (t PieceType) String() string {
	switch t {
	case PieceIf:
		return "if"
	case PieceElif:
		return "elif"
	case PieceElse:
		return "else"
	case PieceEndif:
		return "endif"
	}
	return "text"
}

// Piece is one segment of a permutable text: either a verbatim text slice
// or a directive with its trimmed condition.
type Piece struct {
	Type PieceType
	Text string
}

// Text is a prepared permutable text. SetText splits the input once; the
// text can then be rendered any number of times under different variable
// assignments.
type Text struct {
	text   string
	pieces []Piece
}

// SetText sets the text to permute and scans it for #[...] directives.
func (t *Text) SetText(text string) {
	t.text = text
	t.pieces = nil

	pieceStart := 0
	pos := 0

	for pos < len(text) {
		lineStart := pos
		lineEnd := strings.IndexByte(text[pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd = pos + lineEnd + 1
		}
		pos = lineEnd

		line := skipSpace(text[lineStart:lineEnd])
		if rest, ok := acceptByte(line, '#'); ok {
			if rawCondition, ok := acceptByte(skipSpace(rest), '['); ok {
				if pieceStart < lineStart {
					t.pieces = append(t.pieces, Piece{PieceUnconditional, text[pieceStart:lineStart]})
				}
				if rawCondition != "" {
					kind, condition := determinePieceType(rawCondition)
					t.pieces = append(t.pieces, Piece{kind, condition})
				}
				pieceStart = pos
			}
		}
	}

	if pieceStart < len(text) {
		t.pieces = append(t.pieces, Piece{PieceUnconditional, text[pieceStart:]})
	}
}

// OriginalText returns the text that was set, without any permutation.
func (t *Text) OriginalText() string {
	return t.text
}

// Pieces returns the scanned pieces in order.
func (t *Text) Pieces() []Piece {
	return t.pieces
}

// determinePieceType reads the directive keyword and trims the remaining
// condition text, dropping the optional closing ']'.
func determinePieceType(line string) (PieceType, string) {
	line = skipSpace(line)
	kind := PieceUnconditional

	if rest, ok := acceptPrefix(line, "if"); ok {
		kind, line = PieceIf, rest
	}
	if rest, ok := acceptPrefix(line, "elif"); ok {
		kind, line = PieceElif, rest
	}
	if rest, ok := acceptPrefix(line, "else"); ok {
		kind, line = PieceElse, rest
	}
	if rest, ok := acceptPrefix(line, "endif"); ok {
		kind, line = PieceEndif, rest
	}

	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, "]")
	line = strings.TrimRight(line, " \t\r\n")

	return kind, line
}

// Generate renders the permutation of the text described by the given
// variable values.
func (t *Text) Generate(values expr.ValueTable) (string, error) {
	var out strings.Builder
	idx := 0

	for idx < len(t.pieces) {
		before := idx
		if err := t.enterBlock(values, &idx, &out); err != nil {
			return "", fmt.Errorf("generating text permutation: %w", err)
		}
		// enterBlock returns without progress on a directive that has no
		// enclosing #[if]
		if idx == before {
			return "", fmt.Errorf("unmatched #[%s] directive", t.pieces[idx].Type)
		}
	}

	return out.String(), nil
}

// enterBlock emits pieces of the active branch, recursing into taken
// conditional blocks and skipping the rest. It returns to the caller when
// it meets a sibling directive belonging to the enclosing frame.
func (t *Text) enterBlock(values expr.ValueTable, idx *int, out *strings.Builder) error {
	foundIf := false
	takenBranch := false

	for *idx < len(t.pieces) {
		piece := t.pieces[*idx]

		switch piece.Type {
		case PieceUnconditional:
			out.WriteString(piece.Text)
			*idx++

		case PieceIf, PieceElif:
			if piece.Type == PieceIf {
				if foundIf {
					return fmt.Errorf("#[if] inside an unfinished #[if] block")
				}
				foundIf = true
				takenBranch = false
			} else if !foundIf {
				return nil
			}

			condition := 0
			if !takenBranch {
				var err error
				condition, err = expr.Evaluate(piece.Text, values, expr.Strict, nil)
				if err != nil {
					return err
				}
			}

			*idx++
			if !takenBranch && condition != 0 {
				takenBranch = true
				if err := t.enterBlock(values, idx, out); err != nil {
					return err
				}
			} else {
				if err := t.skipBlock(idx); err != nil {
					return err
				}
			}

		case PieceElse:
			if !foundIf {
				return nil
			}

			*idx++
			if !takenBranch {
				if err := t.enterBlock(values, idx, out); err != nil {
					return err
				}
			} else {
				if err := t.skipBlock(idx); err != nil {
					return err
				}
			}

		case PieceEndif:
			if !foundIf {
				return nil
			}
			*idx++
			foundIf = false
			takenBranch = false
		}
	}

	if foundIf {
		return fmt.Errorf("#[if] block is not terminated")
	}

	return nil
}

// skipBlock advances past a rejected branch, tracking nested #[if] blocks,
// and stops at the first sibling #[elif], #[else] or #[endif].
func (t *Text) skipBlock(idx *int) error {
	nesting := 0

	for ; *idx < len(t.pieces); *idx++ {
		switch t.pieces[*idx].Type {
		case PieceIf:
			nesting++

		case PieceEndif:
			if nesting == 0 {
				return nil
			}
			nesting--

		case PieceElif, PieceElse:
			if nesting == 0 {
				return nil
			}
		}
	}

	if nesting == 0 {
		return nil
	}

	return fmt.Errorf("#[if] block is not terminated")
}

// DetermineUsedVariables returns the names of all permutation variables
// referenced by the text's conditions, sorted and without duplicates.
//
// Discovery is best-effort: every malformed condition is reported through
// the returned error, but the identifiers gathered from all readable
// conditions are returned regardless.
func (t *Text) DetermineUsedVariables() ([]string, error) {
	used := make(expr.ValueSet)
	var errs []error

	for _, piece := range t.pieces {
		if piece.Type != PieceIf && piece.Type != PieceElif {
			continue
		}

		if _, err := expr.Evaluate(piece.Text, nil, expr.Lenient, used); err != nil {
			errs = append(errs, err)
		}
	}

	vars := make([]string, 0, len(used))
	for name := range used {
		vars = append(vars, name)
	}
	sort.Strings(vars)

	return vars, errors.Join(errs...)
}

// skipSpace removes leading whitespace, including line breaks.
func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t\r\n")
}

// acceptByte strips a leading byte c, reporting whether it was present.
func acceptByte(s string, c byte) (string, bool) {
	if len(s) > 0 && s[0] == c {
		return s[1:], true
	}
	return s, false
}

// acceptPrefix strips a leading prefix, reporting whether it was present.
func acceptPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
