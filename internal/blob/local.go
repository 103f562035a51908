package blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"imageworld/utils"
)

// Local keeps blobs on disk under baseDir; the api serves them at publicBaseUrl.
type Local struct {
	baseDir       string
	publicBaseUrl string
}

func NewLocal(baseDir, publicBaseUrl string) *Local {
	if publicBaseUrl == "" {
		publicBaseUrl = "/blobs"
	}
	return &Local{baseDir: baseDir, publicBaseUrl: publicBaseUrl}
}

func (l *Local) BaseDir() string {
	return l.baseDir
}

func (l *Local) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := utils.SafeSubdir(l.baseDir, path.Dir(key))
	if err != nil {
		return "", fmt.Errorf("blob key %q: %w", key, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	finalPath := filepath.Join(dir, path.Base(key))
	tmpPath := finalPath + ".part"

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	return joinURL(l.publicBaseUrl, key), nil
}

func (l *Local) Close() error {
	return nil
}
