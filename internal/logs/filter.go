package logs

import (
	"encoding/json"
	"strings"

	"identigraph/internal/logging"
)

// Filter selects JSON log records. The zero Filter matches every line.
type Filter struct {
	SessionID string
	Component string
	// MinLevel is debug, info, warn or error.
	MinLevel string
}

func (f Filter) empty() bool {
	return f.SessionID == "" && f.Component == "" && f.MinLevel == ""
}

// Match reports whether line satisfies f. Lines that are not JSON objects
// only match the zero Filter.
func (f Filter) Match(line string) bool {
	if f.empty() {
		return true
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return false
	}
	if f.SessionID != "" && field(record, logging.FieldSessionID) != f.SessionID {
		return false
	}
	if f.Component != "" && field(record, logging.FieldComponent) != f.Component {
		return false
	}
	if f.MinLevel != "" && levelRank(field(record, "level")) < levelRank(f.MinLevel) {
		return false
	}
	return true
}

func field(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return -1
	}
}
