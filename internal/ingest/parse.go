package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errEmptyPayload = errors.New("empty payload")

// ParsePayload decodes a request body as a single JSON value.
func ParsePayload(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedInputError{Err: errEmptyPayload}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &MalformedInputError{Err: err}
	}
	return v, nil
}

// ParseFile decodes producer output, which may wrap the JSON in a Markdown
// code fence.
func ParseFile(data []byte) (any, error) {
	text := strings.TrimSpace(string(data))

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines)
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	return ParsePayload([]byte(text))
}
