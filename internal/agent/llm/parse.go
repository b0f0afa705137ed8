package llm

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Model output is JSON wrapped in whatever the model felt like adding:
// markdown fences, prose before or after, stray whitespace. These helpers cut
// out the outermost JSON value and decode it; a miss is an error the caller
// retries.

func decodeObject[T any](content string) (*T, error) {
	raw, err := extract(content, '{', '}')
	if err != nil {
		return nil, err
	}
	var out T
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return &out, nil
}

func decodeArray[T any](content string) ([]T, error) {
	raw, err := extract(content, '[', ']')
	if err != nil {
		return nil, err
	}
	var out []T
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	return out, nil
}

func extract(content string, open, close byte) (string, error) {
	content = stripFences(content)
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start < 0 || end <= start {
		return "", fmt.Errorf("no %c...%c value in model output: %s", open, close, snippet(content))
	}
	return content[start : end+1], nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

const maxSnippet = 200

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet]
}
