package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest("a lighthouse at dusk")
	assert.Equal(t, "", req.NegativePrompt)
	assert.Equal(t, 1024, req.Width)
	assert.Equal(t, 1024, req.Height)
	assert.Equal(t, 30, req.Steps)
	assert.Equal(t, int64(-1), req.Seed)
	assert.Equal(t, 7.5, req.GuidanceScale)
	assert.True(t, req.InBounds())
}

func TestBridge_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("data url carries provider bytes", func(t *testing.T) {
		body := []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43, 0x00, 0x01, 0x02}
		p := &fakeProvider{data: body}

		img, err := NewBridge(p).Generate(ctx, NewRequest("a cat"))
		require.NoError(t, err)

		url := img.DataURL()
		payload, ok := strings.CutPrefix(url, "data:image/jpeg;base64,")
		require.True(t, ok, url)
		decoded, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		assert.Equal(t, body, decoded)
	})

	t.Run("exactly one provider call", func(t *testing.T) {
		p := &fakeProvider{data: []byte("x")}
		_, err := NewBridge(p).Generate(ctx, NewRequest("a cat"))
		require.NoError(t, err)
		assert.Len(t, p.calls, 1)
	})

	t.Run("one call on failure too", func(t *testing.T) {
		p := &fakeProvider{err: errors.New("503 loading")}
		_, err := NewBridge(p).Generate(ctx, NewRequest("a cat"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Len(t, p.calls, 1)
	})

	t.Run("seed and bounds pass through", func(t *testing.T) {
		p := &fakeProvider{data: []byte("x")}
		req := NewRequest("a cat")
		req.Width = 2000
		req.Steps = 5
		req.GuidanceScale = 42
		assert.False(t, req.InBounds())

		_, err := NewBridge(p).Generate(ctx, req)
		require.NoError(t, err)
		require.Len(t, p.calls, 1)
		assert.Equal(t, int64(-1), p.calls[0].Seed)
		assert.Equal(t, 2000, p.calls[0].Width)
		assert.Equal(t, 5, p.calls[0].Steps)
		assert.Equal(t, 42.0, p.calls[0].GuidanceScale)
	})
}
