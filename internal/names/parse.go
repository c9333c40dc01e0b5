package names

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Stage identifies which extraction strategy produced a parse result.
type Stage int

const (
	StageNone Stage = iota
	StageJSON
	StageStructural
	StageQuoted
)

func (s Stage) String() string {
	switch s {
	case StageJSON:
		return "json"
	case StageStructural:
		return "structural"
	case StageQuoted:
		return "quoted"
	default:
		return "none"
	}
}

var (
	namesOpener  = regexp.MustCompile(`\{\s*"` + FieldName + `"\s*:\s*\[`)
	quotedToken  = regexp.MustCompile(`"([^"]*)"`)
	quotedString = regexp.MustCompile(`"([^"]+)"`)
)

// Parse recovers up to count names from raw provider text. Strategies run in
// order and the first one that yields a name wins. Parse never panics and a
// failed result always carries an empty name list.
func Parse(raw string, count int) (Result, Stage) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return Failure("Empty response from AI provider"), StageNone
	}

	if namesOpener.MatchString(text) && !strings.HasSuffix(text, "}") {
		text += "}"
	}

	if found, fromArray, ok := decodeNames(text); ok {
		found = truncate(found, count)
		msg := fmt.Sprintf("Generated %d character names successfully", len(found))
		if fromArray {
			msg = fmt.Sprintf("Generated %d character names from array", len(found))
		}
		return Result{Success: true, Message: msg, Names: found}, StageJSON
	}

	if found := truncate(structuralEntries(text), count); len(found) > 0 {
		return Result{
			Success: true,
			Message: fmt.Sprintf("Extracted %d names with fallback method", len(found)),
			Names:   found,
		}, StageStructural
	}

	if found := truncate(quotedEntries(text), count); len(found) > 0 {
		return Result{
			Success: true,
			Message: "Names extracted using last-resort method",
			Names:   found,
		}, StageQuoted
	}

	return Failure("Failed to parse AI response"), StageNone
}

// decodeNames accepts {"names":[...]} or a bare array. Non-string and blank
// entries are dropped.
func decodeNames(text string) (found []string, fromArray bool, ok bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false, false
	}

	var items []any
	switch t := v.(type) {
	case map[string]any:
		arr, isArr := t[FieldName].([]any)
		if !isArr {
			return nil, false, false
		}
		items = arr
	case []any:
		items = t
		fromArray = true
	default:
		return nil, false, false
	}

	for _, it := range items {
		s, isStr := it.(string)
		if !isStr {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			found = append(found, s)
		}
	}
	return found, fromArray, len(found) > 0
}

// structuralEntries returns quoted tokens sitting in an array position:
// preceded by '[' or ',' and followed by ',', ']' or '}'.
func structuralEntries(text string) []string {
	var out []string
	for _, m := range quotedToken.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		prev, hasPrev := lastNonSpace(text[:start])
		next, hasNext := firstNonSpace(text[end:])
		if !hasPrev || !hasNext {
			continue
		}
		if prev != '[' && prev != ',' {
			continue
		}
		if next != ',' && next != ']' && next != '}' {
			continue
		}
		if name := acceptName(text[m[2]:m[3]]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func quotedEntries(text string) []string {
	var out []string
	for _, m := range quotedString.FindAllStringSubmatch(text, -1) {
		if name := acceptName(m[1]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// acceptName drops blanks and the bare field-name token. A character really
// called "names" is lost here; that is a known limitation.
func acceptName(s string) string {
	s = strings.TrimSpace(s)
	if s == FieldName {
		return ""
	}
	return s
}

func truncate(in []string, count int) []string {
	if count > 0 && len(in) > count {
		return in[:count]
	}
	return in
}

func lastNonSpace(s string) (byte, bool) {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return 0, false
	}
	return s[len(s)-1], true
}

func firstNonSpace(s string) (byte, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	if s == "" {
		return 0, false
	}
	return s[0], true
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		return text
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
