package util

import (
	"errors"
	"strings"
)

var ErrNotAList = errors.New("not a list literal")

// ParseFieldList decodes a serialized list of placeholder names as written by
// the spreadsheet authors: ['a', 'b'] or ["a", "b"]. Elements are trimmed;
// empty elements are dropped. Any other shape is ErrNotAList.
func ParseFieldList(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}, nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, ErrNotAList
	}

	body := []rune(strings.TrimSpace(s[1 : len(s)-1]))
	out := []string{}
	i := 0
	for i < len(body) {
		for i < len(body) && isListSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}

		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, ErrNotAList
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(body) {
			r := body[i]
			if r == '\\' && i+1 < len(body) {
				b.WriteRune(body[i+1])
				i += 2
				continue
			}
			i++
			if r == quote {
				closed = true
				break
			}
			b.WriteRune(r)
		}
		if !closed {
			return nil, ErrNotAList
		}
		if v := strings.TrimSpace(b.String()); v != "" {
			out = append(out, v)
		}

		for i < len(body) && isListSpace(body[i]) {
			i++
		}
		if i < len(body) {
			if body[i] != ',' {
				return nil, ErrNotAList
			}
			i++
		}
	}

	return out, nil
}

func isListSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\u00a0'
}
