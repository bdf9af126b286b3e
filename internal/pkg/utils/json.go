// Package utils provides small shared helpers.
package utils

import (
	"fmt"
	"strings"
)

// ExtractJSONObject pulls the first JSON object out of a chat model reply.
// Models frequently wrap structured output in markdown fences or surround it
// with prose; both are stripped before decoding.
func ExtractJSONObject(reply string) (string, error) {
	text := strings.TrimSpace(reply)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object found in reply")
	}

	return strings.TrimSpace(text[start : end+1]), nil
}
