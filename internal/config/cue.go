// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// formatCUEError flattens a CUE error into "<file>: <path>: <message>" lines,
// with list indices rendered as path[0].
func formatCUEError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatCUEPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path in the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			msg = pathStr + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

func formatCUEPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// checkFileSize rejects files larger than maxSize before they are compiled.
func checkFileSize(data []byte, maxSize int, filename string) error {
	if len(data) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
