// Package parser turns semi-structured provider text into typed values. It
// locates the JSON payload inside chatty responses, repairs common syntax
// slips, validates the result against a JSON Schema and clamps numeric
// fields into their declared range.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonrepair"
	"github.com/xeipuuv/gojsonschema"

	"interview-core/internal/domain/entity"
)

var fencePattern = regexp.MustCompile("```[A-Za-z0-9_-]*")

func stripFences(raw string) string {
	return fencePattern.ReplaceAllString(raw, "")
}

// LocatePayload returns the JSON object or array embedded in raw. Objects
// run from the first '{' to its matching '}'; arrays from the first '[' to
// the last ']'. An unterminated payload is returned up to the end of the
// text so the repair step can close it.
func LocatePayload(raw string, kind entity.ShapeKind) (string, error) {
	text := stripFences(raw)
	switch kind {
	case entity.ShapeJSONObject:
		start := strings.IndexByte(text, '{')
		if start == -1 {
			return "", &entity.ParseError{Reason: "no JSON object found in response"}
		}
		return text[start:matchingBrace(text, start)], nil
	case entity.ShapeJSONArray:
		start := strings.IndexByte(text, '[')
		if start == -1 {
			return "", &entity.ParseError{Reason: "no JSON array found in response"}
		}
		end := strings.LastIndexByte(text, ']')
		if end < start {
			return text[start:], nil
		}
		return text[start : end+1], nil
	default:
		return "", &entity.ParseError{Reason: fmt.Sprintf("shape %d has no JSON payload", kind)}
	}
}

// matchingBrace returns the index just past the '}' closing the object that
// opens at start, or len(text) when the object never closes.
func matchingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
				return i + 1
			}
		}
	}
	return len(text)
}

// Repair fixes missing or trailing commas, unquoted keys, single quotes and
// unclosed brackets. Valid JSON is returned untouched.
func Repair(payload string) (string, error) {
	if json.Valid([]byte(payload)) {
		return payload, nil
	}
	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return "", &entity.ParseError{Reason: "payload is not repairable JSON", Cause: err}
	}
	return repaired, nil
}

var schemaCache sync.Map

func compiledSchema(doc string) (*gojsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(doc); ok {
		return cached.(*gojsonschema.Schema), nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, err
	}
	schemaCache.Store(doc, schema)
	return schema, nil
}

// Decode runs the full extraction pipeline for JSON shapes and unmarshals
// the validated document into T.
func Decode[T any](raw string, shape entity.OutputShape) (T, error) {
	var zero T

	payload, err := LocatePayload(raw, shape.Kind)
	if err != nil {
		return zero, err
	}
	repaired, err := Repair(payload)
	if err != nil {
		return zero, err
	}

	var doc any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return zero, &entity.ParseError{Reason: "repaired payload is not valid JSON", Cause: err}
	}
	switch shape.Kind {
	case entity.ShapeJSONArray:
		if _, ok := doc.([]any); !ok {
			return zero, &entity.ParseError{Reason: "payload is not a JSON array"}
		}
	case entity.ShapeJSONObject:
		if _, ok := doc.(map[string]any); !ok {
			return zero, &entity.ParseError{Reason: "payload is not a JSON object"}
		}
	}

	for _, r := range shape.Ranges {
		doc = clampPath(doc, strings.Split(r.Path, "."), r.Min, r.Max)
	}

	if shape.Schema != "" {
		if err := validate(doc, shape.Schema); err != nil {
			return zero, err
		}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return zero, &entity.ParseError{Reason: "re-encode payload", Cause: err}
	}
	var out T
	if err := json.Unmarshal(normalized, &out); err != nil {
		return zero, &entity.ParseError{Reason: "payload does not fit result type", Cause: err}
	}
	return out, nil
}

func validate(doc any, schemaDoc string) error {
	schema, err := compiledSchema(schemaDoc)
	if err != nil {
		return &entity.ParseError{Reason: "invalid schema", Cause: err}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &entity.ParseError{Reason: "schema validation failed", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &entity.ParseError{Reason: "payload failed schema validation: " + strings.Join(msgs, "; ")}
	}
	return nil
}

// clampPath clamps the number at path within node. Arrays along the way are
// traversed element-wise. Numeric strings are converted before clamping;
// anything else is left for schema validation to reject.
func clampPath(node any, path []string, lo, hi float64) any {
	if arr, ok := node.([]any); ok {
		for i := range arr {
			arr[i] = clampPath(arr[i], path, lo, hi)
		}
		return arr
	}
	if len(path) == 0 {
		switch v := node.(type) {
		case float64:
			return clamp(v, lo, hi)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return clamp(f, lo, hi)
			}
		}
		return node
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return node
	}
	child, ok := obj[path[0]]
	if !ok {
		return node
	}
	obj[path[0]] = clampPath(child, path[1:], lo, hi)
	return obj
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
