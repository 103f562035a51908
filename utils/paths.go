package utils

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrPathTraversal = errors.New("path traversal detected")

// SafeSubdir resolves rel under base and refuses anything that would land
// outside of it. Leading separators are ignored so blob keys can be passed as is.
func SafeSubdir(base, rel string) (string, error) {
	root, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	rel = strings.TrimLeft(strings.TrimSpace(rel), `/\`)
	target := filepath.Join(root, filepath.FromSlash(rel))

	within, err := filepath.Rel(root, target)
	if err != nil {
		return "", err
	}
	if within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return target, nil
}

// NewRequestID returns 32 lowercase hex characters.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
