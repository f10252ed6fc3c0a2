package utils

import (
	"context"
	"strings"
)

// LLMClientInterface is the narrow surface the recommendation services need
// from a language model: one prompt in, one JSON document out.
type LLMClientInterface interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Close() error
}

// CleanJSONResponse strips markdown fences and chatter around the first JSON
// object or array in an LLM reply.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		if end := matchingClose(response, objStart, '{', '}'); end != -1 {
			response = response[objStart : end+1]
		}
	case arrStart != -1:
		if end := matchingClose(response, arrStart, '[', ']'); end != -1 {
			response = response[arrStart : end+1]
		}
	}

	return strings.TrimSpace(response)
}

// matchingClose returns the index of the delimiter closing s[start], skipping
// over string literals, or -1.
func matchingClose(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
