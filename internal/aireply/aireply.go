// Package aireply decodes structured payloads out of AI collaborator
// replies. Models wrap JSON in markdown fences or surrounding prose often
// enough that a strict top-level unmarshal is only the first layer.
package aireply

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoPayload reports that no decodable JSON object was found in a reply.
var ErrNoPayload = errors.New("aireply: no JSON payload in reply")

// DecodeObject runs the layered parse over a reply: strict unmarshal of the
// fence-stripped text first, then a strict unmarshal of the largest
// balanced brace-delimited substring. It never panics on malformed input.
func DecodeObject(reply string, v any) error {
	text := StripFences(reply)

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	obj, ok := ExtractObject(text)
	if !ok {
		return ErrNoPayload
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return ErrNoPayload
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, preferring a
// ```json fence when both appear.
func StripFences(s string) string {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(s, marker)
		if start == -1 {
			continue
		}
		rest := s[start+len(marker):]
		end := strings.Index(rest, "```")
		if end == -1 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced brace-delimited substring,
// skipping braces inside JSON string literals.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
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
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
