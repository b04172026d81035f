package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value after JSON extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSONStrict decodes the first JSON object in raw model output into
// T. Code fences, surrounding prose, // and /* */ comments and bare
// leading decimals (".5") are tolerated. Fields T does not declare are
// rejected, matching additionalProperties: false.
func ExtractJSONStrict[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	obj, ok := firstObject(stripCodeFences(raw))
	if !ok {
		return zero, fmt.Errorf("%w: no JSON object found in output", ErrInvalidOutput)
	}

	dec := json.NewDecoder(strings.NewReader(obj))
	dec.DisallowUnknownFields()
	var result T
	if err := dec.Decode(&result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// stripCodeFences drops markdown fence lines (```json, ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// firstObject returns the first balanced {...} block of s with comments
// removed and ".5" style numbers rewritten to "0.5". String contents are
// copied untouched.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	var (
		b        strings.Builder
		depth    int
		inString bool
		escaped  bool
		last     byte // last non-space byte written
	)
	b.Grow(len(s) - start)
	write := func(c byte) {
		b.WriteByte(c)
		if !isSpace(c) {
			last = c
		}
	}

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			write(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return "", false
			}
			i += end + 3
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && opensNumber(last):
			write('0')
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				write(c)
				return b.String(), true
			}
		}
		write(c)
	}
	return "", false
}

// opensNumber reports whether a number may start right after c.
func opensNumber(c byte) bool {
	switch c {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
