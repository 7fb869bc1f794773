package expr

import "go.uber.org/zap"

// TokenType classifies a token.
type TokenType int

const (
	TokenUnknown TokenType = iota
	TokenIdentifier
	TokenNonIdentifier
	TokenInteger
	TokenNewLine
	TokenLineComment
	TokenBlockComment
)

func (t TokenType) String() string {
	switch t {
	case TokenIdentifier:
		return "identifier"
	case TokenNonIdentifier:
		return "non-identifier"
	case TokenInteger:
		return "integer"
	case TokenNewLine:
		return "newline"
	case TokenLineComment:
		return "line comment"
	case TokenBlockComment:
		return "block comment"
	}
	return "unknown"
}

// Token is one lexical element of a condition expression. Value is a slice
// of the tokenized input.
type Token struct {
	Value string
	Type  TokenType
}

func isIdentifierChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// Tokenize splits input into a token stream. Space and tab are skipped;
// "\n" and "\r\n" become NewLine tokens; // and /* */ comments are kept as
// comment tokens so higher layers can skip them. An unterminated block
// comment consumes the rest of the input and logs a warning.
func Tokenize(input string) []Token {
	var tokens []Token

	for i := 0; i < len(input); {
		c := input[i]
		var next byte
		if i+1 < len(input) {
			next = input[i+1]
		}

		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '/' && next == '/':
			start := i
			i += 2
			for i < len(input) && input[i] != '\n' && input[i] != '\r' {
				i++
			}
			tokens = append(tokens, Token{input[start:i], TokenLineComment})

		case c == '/' && next == '*':
			start := i
			i += 2
			closed := false
			for i+1 < len(input) {
				if input[i] == '*' && input[i+1] == '/' {
					i += 2
					closed = true
					break
				}
				i++
			}
			if !closed {
				i = len(input)
				Logger().Warn("unclosed block comment", zap.String("text", input[start:]))
			}
			tokens = append(tokens, Token{input[start:i], TokenBlockComment})

		case isDigit(c):
			start := i
			if c == '0' && (next == 'x' || next == 'X') && i+2 < len(input) && isHexDigit(input[i+2]) {
				i += 3
				for i < len(input) && isHexDigit(input[i]) {
					i++
				}
			} else {
				i++
				for i < len(input) && isDigit(input[i]) {
					i++
				}
			}
			tokens = append(tokens, Token{input[start:i], TokenInteger})

		case isIdentifierChar(c):
			start := i
			i++
			for i < len(input) {
				if isIdentifierChar(input[i]) {
					i++
					continue
				}
				// Foo::Bar is concatenated into a single identifier, but
				// only when a non-digit identifier character follows the ::
				if input[i] == ':' && i+2 < len(input) && input[i+1] == ':' &&
					isIdentifierChar(input[i+2]) && !isDigit(input[i+2]) {
					i += 3
					continue
				}
				break
			}
			tokens = append(tokens, Token{input[start:i], TokenIdentifier})

		case c == '\n':
			tokens = append(tokens, Token{input[i : i+1], TokenNewLine})
			i++

		case c == '\r' && next == '\n':
			tokens = append(tokens, Token{input[i : i+2], TokenNewLine})
			i += 2

		default:
			tokens = append(tokens, Token{input[i : i+1], TokenNonIdentifier})
			i++
		}
	}

	return tokens
}
