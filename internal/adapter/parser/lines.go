package parser

import (
	"fmt"
	"regexp"
	"strings"

	"interview-core/internal/domain/entity"
)

// leadingEnumeration matches "1.", "2)", "Q3:", "- " and similar prefixes.
var leadingEnumeration = regexp.MustCompile(`^\s*(?:(?:[Qq]\s*)?\d+\s*[.):\-]|[-*•])\s*`)

// NumberedList splits raw into one item per non-empty line, drops any
// numbering the provider added and renumbers from 1. The result is cut to
// limit items when limit is positive.
func NumberedList(raw string, limit int) ([]string, error) {
	lines := strings.Split(stripFences(raw), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(leadingEnumeration.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		items = append(items, fmt.Sprintf("%d. %s", len(items)+1, text))
		if limit > 0 && len(items) == limit {
			break
		}
	}
	if len(items) == 0 {
		return nil, &entity.ParseError{Reason: "no list items found in response"}
	}
	return items, nil
}

// PlainText accepts any non-empty text, minus code fences and wrapping quotes.
func PlainText(raw string) (string, error) {
	text := strings.TrimSpace(stripFences(raw))
	text = strings.TrimSpace(strings.Trim(text, `"“”`))
	if text == "" {
		return "", &entity.ParseError{Reason: "empty response"}
	}
	return text, nil
}
