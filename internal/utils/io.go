package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"
)

// ReadStdin reads all content from stdin.
// Returns an error if stdin is empty, is a terminal (no piped data), or cannot be read.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}

	// If ModeCharDevice is set, stdin is connected to a terminal.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: echo \"$PASSWORD\" | dyad encrypt --password-stdin ...)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}

// ReadSecretStdin reads a secret from stdin and strips one trailing newline.
func ReadSecretStdin() ([]byte, error) {
	data, err := ReadStdin()
	if err != nil {
		return nil, err
	}
	return TrimNewline(data), nil
}

// TrimNewline strips a single trailing "\n" or "\r\n". The removed bytes are
// wiped in place and the returned slice shares data's backing array.
func TrimNewline(data []byte) []byte {
	trimmed := bytes.TrimSuffix(data, []byte("\n"))
	trimmed = bytes.TrimSuffix(trimmed, []byte("\r"))
	memguard.WipeBytes(data[len(trimmed):])
	return trimmed
}
