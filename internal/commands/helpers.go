package commands

import (
	"os"
	"strings"
	"time"
)

// Activity is what the log file says about recent exports
type Activity struct {
	Lines        []string
	LastExport   time.Time
	LastDocument string
	Exports      int
	Warnings     int
}

// ParseLogFile reads the last N lines from the log file and extracts export activity
func ParseLogFile(logPath string, maxLines int) (*Activity, error) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	activity := &Activity{Lines: lines[startIdx:]}

	for _, line := range activity.Lines {
		switch {
		case strings.Contains(line, "document exported"):
			activity.Exports++
			// Format: 2026-01-02 14:11:57 INFO document exported document=Report ...
			if len(line) > 19 {
				if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
					activity.LastExport = t
				}
			}
			activity.LastDocument = fieldValue(line, "document")
		case strings.Contains(line, " WARN "):
			activity.Warnings++
		}
	}

	return activity, nil
}

// fieldValue extracts key=value from a logfmt line, honouring quoted values
func fieldValue(line, key string) string {
	idx := strings.Index(line, " "+key+"=")
	if idx == -1 {
		return ""
	}
	rest := line[idx+len(key)+2:]
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end != -1 {
			return rest[1 : end+1]
		}
		return rest[1:]
	}
	if end := strings.IndexByte(rest, ' '); end != -1 {
		return rest[:end]
	}
	return rest
}
