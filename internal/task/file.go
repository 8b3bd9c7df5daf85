package task

import (
	"bytes"
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

var (
	fence                  = []byte("---")
	errNoFrontmatter       = errors.New("file does not start with YAML frontmatter (---)")
	errUnclosedFrontmatter = errors.New("unclosed frontmatter (missing closing ---)")
)

// Decode parses a task file: YAML frontmatter between "---" fences followed
// by a markdown body. Files saved with CRLF line endings are accepted.
func Decode(data []byte) (*Task, error) {
	fm, body, err := splitFrontmatter(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))
	if err != nil {
		return nil, err
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	t.Body = string(body)
	return &t, nil
}

// Encode serializes a task to markdown with YAML frontmatter. The body is
// separated from the frontmatter by one blank line and ends with a newline.
func Encode(t *Task) ([]byte, error) {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(fence)
	buf.WriteByte('\n')
	buf.Write(fm)
	buf.Write(fence)
	buf.WriteByte('\n')
	if t.Body != "" {
		buf.WriteByte('\n')
		buf.WriteString(t.Body)
		if t.Body[len(t.Body)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// splitFrontmatter returns the frontmatter and the body with leading blank
// lines removed. The closing fence may end the file without a newline.
func splitFrontmatter(data []byte) ([]byte, []byte, error) {
	rest, ok := bytes.CutPrefix(data, []byte("---\n"))
	if !ok {
		return nil, nil, errNoFrontmatter
	}
	if fm, body, found := bytes.Cut(rest, []byte("\n---\n")); found {
		return fm, bytes.TrimLeft(body, "\n"), nil
	}
	if fm, found := bytes.CutSuffix(rest, []byte("\n---")); found {
		return fm, nil, nil
	}
	return nil, nil, errUnclosedFrontmatter
}
