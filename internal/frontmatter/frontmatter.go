package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// sensitiveValues match time-like values that must stay strings
var sensitiveValues = []*regexp.Regexp{
	regexp.MustCompile(`^(startTime:\s*)([0-9]{1,2}:[0-9]{2})\s*$`),
	regexp.MustCompile(`^(endTime:\s*)([0-9]{1,2}:[0-9]{2})\s*$`),
	regexp.MustCompile(`^(date:\s*)([0-9]{4}-[0-9]{2}-[0-9]{2})\s*$`),
}

// Extract parses a YAML front matter block at the start of lines.
// It returns the mapping and the index of the first line after the closing delimiter.
// When there is no complete block, it returns a nil map and 0.
// When the block is present but not valid YAML, end is still set so callers can skip it.
func Extract(lines []string) (map[string]any, int, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return nil, 0, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return nil, 0, nil
	}

	content := quoteSensitive(lines[1:closing])
	data := map[string]any{}
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		return map[string]any{}, closing + 1, fmt.Errorf("failed to parse front matter: %w", err)
	}

	return data, closing + 1, nil
}

// String returns the value of key as a string if it is set
func String(fm map[string]any, key string) (string, bool) {
	v, ok := fm[key]
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// Bool returns the value of key as a bool if it is set to one
func Bool(fm map[string]any, key string) (bool, bool) {
	v, ok := fm[key].(bool)
	return v, ok
}

func quoteSensitive(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line
		for _, re := range sensitiveValues {
			if m := re.FindStringSubmatch(line); m != nil {
				out[i] = m[1] + `"` + m[2] + `"`
				break
			}
		}
	}
	return strings.Join(out, "\n")
}
