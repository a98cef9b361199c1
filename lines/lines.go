// Package lines splits and decodes file content for diffing.
package lines

import (
	"bytes"
	"strings"
)

// SplitLineEndings splits data into lines, keeping each line's original
// terminator. "\r\n", "\n" and "\r" all end a line, and "\r\r\n" is treated
// as a single terminator. A final line without a terminator is kept.
func SplitLineEndings(data []byte) [][]byte {
	var out [][]byte
	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			out = append(out, data)
			break
		}
		end := i + 1
		if data[i] == '\r' {
			switch {
			case bytes.HasPrefix(data[i:], []byte("\r\r\n")):
				end = i + 3
			case bytes.HasPrefix(data[i:], []byte("\r\n")):
				end = i + 2
			}
		}
		out = append(out, data[:end:end])
		data = data[end:]
	}
	return out
}

// Split splits text into lines with their terminators removed. A trailing
// terminator does not produce an empty final line.
func Split(text string) []string {
	raw := SplitLineEndings([]byte(text))
	out := make([]string, len(raw))
	for i, line := range raw {
		out[i] = string(TrimEOL(line))
	}
	return out
}

// TrimEOL removes the line terminator from line, if present.
func TrimEOL(line []byte) []byte {
	return bytes.TrimRight(line, "\r\n")
}

// NormalizeSpace trims s and collapses every run of whitespace to a single
// space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
