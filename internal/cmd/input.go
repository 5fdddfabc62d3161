package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// NoInputError indicates no template was given on the command line or stdin.
type NoInputError struct{}

func (e NoInputError) Error() string {
	return "no template to parse: pass a file path or pipe template text on stdin"
}

// readInputSource reads content from a file path or stdin when source is "-".
func readInputSource(source string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", fmt.Errorf("empty input source")
	}

	var r io.Reader
	if trimmed == "-" {
		if stdin != nil {
			r = stdin
		} else {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(trimmed)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", trimmed, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// readTemplateSource resolves the template text for a command that takes an
// optional [file] argument. A path argument (or "-") wins; otherwise piped
// stdin is used. Unlike readInputSource the content is returned untrimmed,
// since line numbers in the output must match the input exactly.
func readTemplateSource(args []string, stdin io.Reader) (string, error) {
	source := ""
	if len(args) > 0 {
		source = strings.TrimSpace(args[0])
	}

	if source == "" {
		if !inputHasData(stdin) {
			return "", NoInputError{}
		}
		source = "-"
	}

	var r io.Reader
	if source == "-" {
		if stdin != nil {
			r = stdin
		} else {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(source)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return string(data), nil
}

func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if file, ok := r.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	return true
}
