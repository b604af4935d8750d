// Package normalize coerces arbitrary language-model output into the
// canonical career-roadmap collection. Model output format is not
// contractually guaranteed: it may be prose with embedded JSON, a fenced
// code block, a bare array, or a mapping under one of several ad-hoc keys.
package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// RoadmapCollection is the canonical shape returned to clients:
// a single mapping with one key holding an ordered sequence of
// loosely-typed career-roadmap records.
type RoadmapCollection struct {
	CareerRoadmaps []any `json:"career_roadmaps"`
}

// Empty returns a collection with a non-nil, zero-length sequence so the
// JSON encoding is always {"career_roadmaps": []} rather than null.
func Empty() RoadmapCollection {
	return RoadmapCollection{CareerRoadmaps: []any{}}
}

func wrap(records ...any) RoadmapCollection {
	return RoadmapCollection{CareerRoadmaps: records}
}

// Normalize is a total function: whatever the model produced, the result
// conforms to the canonical shape. Extraction is impossible only when no
// strategy yields structured data, in which case the collection is empty.
func Normalize(raw any) RoadmapCollection {
	switch v := raw.(type) {
	case nil:
		return Empty()
	case string:
		return fromText(v)
	case []byte:
		return fromText(string(v))
	case json.RawMessage:
		return fromText(string(v))
	default:
		return shape(raw)
	}
}

// extractor pulls a candidate JSON substring out of free text.
type extractor func(s string) (string, bool)

// Tried in order, first candidate that parses wins.
var extractors = []extractor{
	fencedJSONBlock,
	fencedBlock,
	firstBalanced('{', '}'),
	firstBalanced('[', ']'),
}

func fromText(s string) RoadmapCollection {
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	for _, extract := range extractors {
		candidate, ok := extract(s)
		if !ok {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		return shape(parsed)
	}
	return Empty()
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedAnyRe  = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\\s*(.*?)```")
)

func fencedJSONBlock(s string) (string, bool) {
	return matchFence(fencedJSONRe, s)
}

func fencedBlock(s string) (string, bool) {
	return matchFence(fencedAnyRe, s)
}

func matchFence(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	body := strings.TrimSpace(m[1])
	if body == "" {
		return "", false
	}
	return body, true
}

// firstBalanced scans forward from the first opening bracket, tracking
// nesting depth and skipping bracket characters inside quoted strings
// (honoring backslash escapes), until depth returns to zero.
func firstBalanced(open, close byte) extractor {
	return func(s string) (string, bool) {
		start := strings.IndexByte(s, open)
		if start < 0 {
			return "", false
		}
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
			c := s[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = inString
			case c == '"':
				inString = !inString
			case inString:
			case c == open:
				depth++
			case c == close:
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		return "", false
	}
}

// shape applies the coercion rules to an already-structured value.
func shape(v any) RoadmapCollection {
	switch val := v.(type) {
	case []any:
		return RoadmapCollection{CareerRoadmaps: val}
	case map[string]any:
		return shapeMapping(val)
	default:
		return Empty()
	}
}

func shapeMapping(m map[string]any) RoadmapCollection {
	if seq, ok := m["career_roadmaps"].([]any); ok {
		return RoadmapCollection{CareerRoadmaps: seq}
	}
	if seq, ok := m["careers"].([]any); ok {
		return RoadmapCollection{CareerRoadmaps: seq}
	}
	switch r := m["roadmap"].(type) {
	case []any:
		return RoadmapCollection{CareerRoadmaps: r}
	case map[string]any:
		return wrap(r)
	}
	if _, ok := m["career_title"]; ok {
		return wrap(m)
	}
	if _, ok := m["title"]; ok {
		return wrap(m)
	}
	if seq, ok := m["roadmaps"].([]any); ok {
		return RoadmapCollection{CareerRoadmaps: seq}
	}

	// Last resort before wrapping the whole mapping: any value that is a
	// non-empty sequence of records. Keys are walked in sorted order since
	// map iteration in Go is randomized.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		seq, ok := m[k].([]any)
		if !ok || len(seq) == 0 {
			continue
		}
		if _, isRecord := seq[0].(map[string]any); isRecord {
			return RoadmapCollection{CareerRoadmaps: seq}
		}
	}

	return wrap(m)
}
