package gallery

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"imageworld/internal/auth"
	"imageworld/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var owner = auth.Identity{UserID: "u1", Name: "Hedy"}

func newTestService(t *testing.T) (*Service, *fakeBlobStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gallery.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	blobs := newFakeBlobStore()
	return NewService(db, blobs), blobs
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	img := []byte{0xff, 0xd8, 0xff, 0x01}
	post, err := s.Save(ctx, SaveInput{
		Owner:          owner,
		ImageDataURL:   utils.EncodeDataURL("image/jpeg", img),
		Prompt:         "a tide pool",
		NegativePrompt: "text",
		IsPublic:       true,
		Settings:       Settings{Width: 1024, Height: 768, Steps: 30, Seed: -1, GuidanceScale: 7.5},
	})
	require.NoError(t, err)

	require.Len(t, blobs.puts, 1)
	key := strings.TrimPrefix(post.ImageURL, "https://blobs.test/")
	assert.Regexp(t, `^images/u1/1772359200000-[0-9a-f]{8}\.jpg$`, key)
	assert.Equal(t, img, blobs.puts[key])
	assert.Equal(t, "image/jpeg", blobs.ct[key])
	assert.Equal(t, "https://blobs.test/"+key, post.ImageURL)
	assert.Equal(t, 0, post.Likes)
	assert.Equal(t, "Hedy", post.UserName)

	var stored Post
	require.NoError(t, s.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, int64(-1), stored.Settings.Seed)
	assert.Equal(t, 768, stored.Settings.Height)
	assert.True(t, stored.CreatedAt.Equal(at))
}

func TestService_SaveSameMillisecond(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	first, err := s.Save(ctx, SaveInput{Owner: owner, ImageDataURL: utils.EncodeDataURL("image/jpeg", []byte("one"))})
	require.NoError(t, err)
	second, err := s.Save(ctx, SaveInput{Owner: owner, ImageDataURL: utils.EncodeDataURL("image/jpeg", []byte("two"))})
	require.NoError(t, err)

	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.Len(t, blobs.puts, 2)
}

func TestBlobKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	assert.Regexp(t, `^images/u1/1700000000000-[0-9a-f]{8}\.png$`, blobKey("u1", at, "image/png"))
	assert.Regexp(t, `^images/u1/1700000000000-[0-9a-f]{8}$`, blobKey("u1", at, "application/octet-stream"))
}

func TestService_SaveFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("not a data url", func(t *testing.T) {
		s, blobs := newTestService(t)
		_, err := s.Save(ctx, SaveInput{Owner: owner, ImageDataURL: "https://example.com/x.jpg"})
		assert.ErrorIs(t, err, ErrInvalidImage)
		assert.Empty(t, blobs.puts)
	})

	t.Run("upload error", func(t *testing.T) {
		s, blobs := newTestService(t)
		blobs.err = errors.New("bucket gone")
		_, err := s.Save(ctx, SaveInput{Owner: owner, ImageDataURL: utils.EncodeDataURL("image/jpeg", []byte("x"))})
		require.Error(t, err)

		var count int64
		require.NoError(t, s.db.Model(&Post{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("document error leaves blob", func(t *testing.T) {
		s, blobs := newTestService(t)
		require.NoError(t, s.db.Migrator().DropTable(&Post{}))

		_, err := s.Save(ctx, SaveInput{Owner: owner, ImageDataURL: utils.EncodeDataURL("image/jpeg", []byte("x"))})
		require.Error(t, err)
		assert.Len(t, blobs.puts, 1)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := func(uid string, public bool, minutes int) {
		s.now = func() time.Time { return base.Add(time.Duration(minutes) * time.Minute) }
		_, err := s.Save(ctx, SaveInput{
			Owner:        auth.Identity{UserID: uid},
			ImageDataURL: utils.EncodeDataURL("image/jpeg", []byte(uid)),
			IsPublic:     public,
		})
		require.NoError(t, err)
	}
	seed("u1", true, 1)
	seed("u1", false, 2)
	seed("u2", true, 3)

	public, err := s.ListPublic(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "u2", public[0].UserID)
	assert.Equal(t, "u1", public[1].UserID)

	mine, err := s.ListByOwner(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.False(t, mine[0].IsPublic)

	page, err := s.ListPublic(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "u1", page[0].UserID)
}

func TestNormalizePage(t *testing.T) {
	l, o := NormalizePage(0, -3)
	assert.Equal(t, DefaultPageSize, l)
	assert.Equal(t, 0, o)

	l, _ = NormalizePage(1000, 0)
	assert.Equal(t, MaxPageSize, l)
}
