package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeSubdir(t *testing.T) {
	base := t.TempDir()

	t.Run("nested", func(t *testing.T) {
		got, err := SafeSubdir(base, "images/u1")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "images", "u1"), got)
	})

	t.Run("leading_slash", func(t *testing.T) {
		got, err := SafeSubdir(base, "/images")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "images"), got)
	})

	t.Run("empty_is_base", func(t *testing.T) {
		got, err := SafeSubdir(base, "")
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("traversal", func(t *testing.T) {
		_, err := SafeSubdir(base, "../../etc")
		assert.ErrorIs(t, err, ErrPathTraversal)
	})
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
