package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one key=value pair trailing a log message.
type Field struct {
	Key   string
	Value string
}

// Entry is a parsed log line.
type Entry struct {
	Time      string
	Level     zerolog.Level
	LevelText string
	Component string
	Message   string
	Fields    []Field
}

var (
	linePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) (TRC|DBG|INF|WRN|ERR|FTL|PNC) ?(.*)$`)
	fieldPattern = regexp.MustCompile(`(?:^|\s)([A-Za-z_][A-Za-z0-9_.]*)=("(?:[^"\\]|\\.)*"|\S*)`)
)

var levelCodes = map[string]zerolog.Level{
	"TRC": zerolog.TraceLevel,
	"DBG": zerolog.DebugLevel,
	"INF": zerolog.InfoLevel,
	"WRN": zerolog.WarnLevel,
	"ERR": zerolog.ErrorLevel,
	"FTL": zerolog.FatalLevel,
	"PNC": zerolog.PanicLevel,
}

// Parse splits a line written by the curator log file writer into its parts.
// It reports false for lines in any other shape.
func Parse(line string) (Entry, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	entry := Entry{
		Time:      m[1],
		Level:     levelCodes[m[2]],
		LevelText: m[2],
	}

	rest := m[3]
	locs := fieldPattern.FindAllStringSubmatchIndex(rest, -1)
	if len(locs) == 0 {
		entry.Message = strings.TrimSpace(rest)
		return entry, true
	}
	entry.Message = strings.TrimSpace(rest[:locs[0][0]])
	for _, loc := range locs {
		f := Field{Key: rest[loc[2]:loc[3]], Value: rest[loc[4]:loc[5]]}
		if f.Key == "component" {
			entry.Component = f.Value
			continue
		}
		entry.Fields = append(entry.Fields, f)
	}
	return entry, true
}

// Filter keeps lines at or above minLevel. Lines that do not parse are kept only
// when they follow a kept line, so wrapped output stays with its entry.
func Filter(lines []string, minLevel zerolog.Level) []string {
	out := make([]string, 0, len(lines))
	keep := minLevel <= zerolog.TraceLevel
	for _, line := range lines {
		if entry, ok := Parse(line); ok {
			keep = entry.Level >= minLevel
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}
