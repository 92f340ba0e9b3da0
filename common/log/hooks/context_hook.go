package hooks

import (
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

// contextHook annotates every entry with the file:line of the caller that logged it.
type contextHook struct {
	// Trim caller paths up to and including this marker.
	marker string
}

func NewContextHook() contextHook {
	return contextHook{marker: "uploadq/"}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	if line := callerLine(string(debug.Stack())); line != "" {
		ctx := strings.Split(line, hook.marker)
		entry.Data["file:line"] = strings.TrimSpace(ctx[len(ctx)-1])
	}
	return nil
}

// callerLine walks a debug.Stack() dump and returns the file:line of the first
// frame outside logrus and this hook.
func callerLine(stack string) string {
	lines := strings.Split(stack, "\n")
	foundHook := false
	// Frames are pairs of lines: function name, then "\tfile:line +0x..".
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], "context_hook.go:") {
			foundHook = true
			continue
		}
		if !foundHook || !strings.HasPrefix(lines[i], "\t") {
			continue
		}
		if strings.Contains(lines[i], "sirupsen/logrus") {
			continue
		}
		line := strings.TrimSpace(lines[i])
		if idx := strings.LastIndex(line, " +0x"); idx >= 0 {
			line = line[:idx]
		}
		return line
	}
	return ""
}
