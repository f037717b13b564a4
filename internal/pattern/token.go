package pattern

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenKey // quoted key name; literal holds the name without quotes
	tokenDot
	tokenSlash
	tokenPlus
	tokenLBracket
	tokenRBracket
	tokenEquals
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenKey:
		return "quoted key"
	case tokenDot:
		return `"."`
	case tokenSlash:
		return `"/"`
	case tokenPlus:
		return `"+"`
	case tokenLBracket:
		return `"["`
	case tokenRBracket:
		return `"]"`
	case tokenEquals:
		return `"="`
	default:
		return "unknown token"
	}
}

type token struct {
	typ     tokenType
	literal string
	pos     int
}

// lex tokenizes a format string. Whitespace and commas separate tokens and
// carry no meaning of their own; `#` starts a comment running to end of line.
func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/4)
	pos := 0

	for pos < len(input) {
		switch c := input[pos]; c {
		case ' ', '\t', '\r', '\n', ',':
			pos++
		case '#':
			for pos < len(input) && input[pos] != '\n' {
				pos++
			}
		case '"':
			name, next, err := lexKey(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenKey, literal: name, pos: pos})
			pos = next
		case '.':
			tokens = append(tokens, token{typ: tokenDot, pos: pos})
			pos++
		case '/':
			tokens = append(tokens, token{typ: tokenSlash, pos: pos})
			pos++
		case '+':
			tokens = append(tokens, token{typ: tokenPlus, pos: pos})
			pos++
		case '[':
			tokens = append(tokens, token{typ: tokenLBracket, pos: pos})
			pos++
		case ']':
			tokens = append(tokens, token{typ: tokenRBracket, pos: pos})
			pos++
		case '=':
			tokens = append(tokens, token{typ: tokenEquals, pos: pos})
			pos++
		default:
			return nil, formatError("unrecognized character %q at position %d", c, pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

// lexKey scans a double-quoted key starting at input[start]. Keys are one or
// more non-quote bytes; there is no escape syntax.
func lexKey(input string, start int) (string, int, error) {
	for pos := start + 1; pos < len(input); pos++ {
		if input[pos] != '"' {
			continue
		}
		if pos == start+1 {
			return "", 0, formatError("empty key at position %d", start)
		}
		return input[start+1 : pos], pos + 1, nil
	}
	return "", 0, formatError("missing closing quote for key at position %d", start)
}
