package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoJSON wraps parse failures from ExtractJSON.
type ErrNoJSON struct {
	Response string
}

func (e *ErrNoJSON) Error() string {
	return fmt.Sprintf("no parseable JSON in model response: %s", truncate(e.Response, 200))
}

// ExtractJSON decodes a JSON object out of a model response, tolerating
// the shapes models actually produce. Attempts, in order: fenced
// markdown block, direct parse, outermost-brace scan, then unwrap of a
// single-key wrapper object. v must be a pointer; it is zeroed between
// attempts. An optional validator rejects decodes that parsed but did
// not populate the expected fields, letting a later attempt (typically
// the wrapper unwrap) run.
func ExtractJSON(response string, v interface{}, valid ...func() bool) error {
	accept := func() bool {
		for _, f := range valid {
			if !f() {
				return false
			}
		}
		return true
	}
	try := func(data []byte) bool {
		zero(v)
		return json.Unmarshal(data, v) == nil && accept()
	}

	candidates := jsonCandidates(response)
	for _, cand := range candidates {
		if try([]byte(cand)) {
			return nil
		}
	}
	// Single-key wrapper: {"result": {...}} and friends.
	for _, cand := range candidates {
		var wrapper map[string]json.RawMessage
		if json.Unmarshal([]byte(cand), &wrapper) != nil || len(wrapper) != 1 {
			continue
		}
		for _, inner := range wrapper {
			if try(inner) {
				return nil
			}
		}
	}
	zero(v)
	return &ErrNoJSON{Response: response}
}

func zero(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	}
}

func jsonCandidates(response string) []string {
	var out []string
	if block := fencedBlock(response); block != "" {
		out = append(out, block)
	}
	trimmed := strings.TrimSpace(response)
	out = append(out, trimmed)
	if span := braceSpan(trimmed); span != "" && span != trimmed {
		out = append(out, span)
	}
	return out
}

// fencedBlock returns the contents of the first ```json (or bare ```)
// fence, empty when none exists.
func fencedBlock(s string) string {
	start := strings.Index(s, "```")
	if start < 0 {
		return ""
	}
	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// braceSpan returns the substring from the first '{' to the matching
// closing brace, tracking strings so embedded braces don't miscount.
func braceSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
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
				return s[start : i+1]
			}
		}
	}
	return ""
}
