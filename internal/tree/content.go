package tree

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotText is returned for files whose bytes are not valid UTF-8.
	ErrNotText = errors.New("invalid UTF-8 content")
	// ErrNotRegular is returned for entries that cannot be read as a plain file
	// (sockets, devices, named pipes).
	ErrNotRegular = errors.New("not a regular file")
)

// readTextLines reads the whole file and splits it into lines that keep
// their original terminators. The file is fully validated before anything is
// returned, so callers never see a partial result.
func readTextLines(absPath string) ([]string, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotRegular)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotText)
	}
	return splitLinesKeepEnds(string(data)), nil
}

// splitLinesKeepEnds splits s after every '\n'. A final fragment without a
// terminator is returned as its own element.
func splitLinesKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// terminated makes sure a content line ends with a newline.
func terminated(line string) string {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return line
	}
	return line + "\n"
}

// trimTerminator strips a trailing "\n" or "\r\n" for console echo.
func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
