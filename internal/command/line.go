package command

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseLine splits a plugin-command line such as
//
//	selfswitch state=Toggle map=2 event="1-3, 5" switch=B
//
// into a command name and its arguments. Double quotes group a value that
// contains spaces.
func ParseLine(line string) (string, map[string]string, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return "", nil, err
	}
	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("%w: empty command line", ErrInvalidArgs)
	}

	args := make(map[string]string, len(tokens)-1)
	for _, tok := range tokens[1:] {
		key, val, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidArgs, tok)
		}
		key = strings.ToLower(key)
		if _, dup := args[key]; dup {
			return "", nil, fmt.Errorf("%w: duplicate argument %q", ErrInvalidArgs, key)
		}
		args[key] = val
	}
	return tokens[0], args, nil
}

func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote, inToken := false, false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inToken = true
		case unicode.IsSpace(r) && !inQuote:
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", ErrInvalidArgs)
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
