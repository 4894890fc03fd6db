package view

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontMatterDelimiter = []byte("---")

// splitFrontMatter separates an optional YAML front matter block from the body.
// Sources without a leading "---" have empty metadata.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	if !bytes.HasPrefix(content, frontMatterDelimiter) {
		return map[string]any{}, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontMatterDelimiter), "\r\n")
	end := bytes.Index(rest, frontMatterDelimiter)
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontMatter)
	}

	body := rest[end+len(frontMatterDelimiter):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case bytes.HasPrefix(body, []byte("\n")):
		body = body[1:]
	}

	meta := map[string]any{}
	if raw := bytes.TrimSpace(rest[:end]); len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	}
	return meta, body, nil
}
