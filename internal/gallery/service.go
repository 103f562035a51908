package gallery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"imageworld/internal/auth"
	"imageworld/internal/blob"
	"imageworld/utils"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidImage = errors.New("image must be a base64 data url")

type SaveInput struct {
	Owner          auth.Identity
	ImageDataURL   string
	Prompt         string
	NegativePrompt string
	IsPublic       bool
	Settings       Settings
}

type Service struct {
	db     *gorm.DB
	blobs  blob.Store
	logger *log.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, blobs blob.Store) *Service {
	return &Service{
		db:     db,
		blobs:  blobs,
		logger: log.With("component", "gallery"),
		now:    time.Now,
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Post{})
}

// Save uploads the image then writes the post document. A blob whose document
// write fails is left in the store.
func (s *Service) Save(ctx context.Context, in SaveInput) (*Post, error) {
	mimeType, data, err := utils.DecodeDataURL(in.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	now := s.now().UTC()
	key := blobKey(in.Owner.UserID, now, mimeType)

	url, err := s.blobs.Put(ctx, key, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	post := &Post{
		ID:             uuid.NewString(),
		UserID:         in.Owner.UserID,
		UserName:       in.Owner.Name,
		UserImage:      in.Owner.PhotoURL,
		Prompt:         in.Prompt,
		NegativePrompt: in.NegativePrompt,
		ImageURL:       url,
		IsPublic:       in.IsPublic,
		Likes:          0,
		CreatedAt:      now,
		Settings:       in.Settings,
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		s.logger.Warn("post write failed after upload", "key", key, "err", err)
		return nil, fmt.Errorf("write post: %w", err)
	}

	s.logger.Info("post saved", "postId", post.ID, "uid", post.UserID, "public", post.IsPublic)
	return post, nil
}

func (s *Service) ListPublic(ctx context.Context, limit, offset int) ([]Post, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("is_public = ?", true), limit, offset)
}

// ListByOwner includes private posts.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Post, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("user_id = ?", ownerID), limit, offset)
}

func (s *Service) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]Post, error) {
	limit, offset = NormalizePage(limit, offset)

	posts := make([]Post, 0, limit)
	err := q.Order("created_at DESC").Order("id").Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// blobKey is images/<owner>/<unix millis>-<8 hex><ext>; the suffix keeps two
// saves in the same millisecond from sharing a blob. The extension lets static
// serving pick a content type.
func blobKey(ownerID string, at time.Time, mimeType string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "images/" + ownerID + "/" + strconv.FormatInt(at.UnixMilli(), 10) + "-" + suffix + imageExt[mimeType]
}
