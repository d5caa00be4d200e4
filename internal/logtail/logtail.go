package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns the last maxLines lines of the file at path, oldest first.
// A non-positive maxLines returns every line. A missing file yields no lines
// and no error, since the log may not have been written yet.
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
	total := 0
	for scanner.Scan() {
		ring[total%maxLines] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if total <= maxLines {
		return ring[:total:total], nil
	}
	start := total % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Level is the severity parsed from a slog text record.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel extracts the level=... attribute written by slog's text handler.
func ParseLevel(line string) Level {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return LevelUnknown
	}
	rest := line[idx+len("level="):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	switch strings.ToUpper(rest) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelUnknown
	}
}

// Filter keeps lines at or above min. Lines without a recognisable level are
// kept so multi-line output is not lost.
func Filter(lines []string, min Level) []string {
	if min <= LevelDebug {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lvl := ParseLevel(line)
		if lvl == LevelUnknown || lvl >= min {
			out = append(out, line)
		}
	}
	return out
}
