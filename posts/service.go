// Package posts owns post mutations: create/update/delete with
// ownership checks, the like toggle, and comment appends. Likes and
// comments go through atomic per-aggregate store primitives so
// concurrent interactions on one post never lose each other.
package posts

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"linkup/apperr"
	"linkup/models"
	"linkup/store"
)

const (
	maxContentLen = 500
	maxCommentLen = 200
)

type Store interface {
	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, content, image string) error
	DeletePost(ctx context.Context, id uint) error
	RecentPosts(ctx context.Context, limit int) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) (bool, error)
	AddComment(ctx context.Context, c *models.Comment) error
	PostDetail(ctx context.Context, id uint) (*store.PostDetail, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

func validImageURL(image string) bool {
	u, err := url.Parse(image)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (s *Service) Create(ctx context.Context, userID uint, content, image string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("a post must have content")
	}
	// Limits count characters, not bytes.
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, apperr.Validation("a post cannot exceed 500 characters")
	}
	if image != "" && !validImageURL(image) {
		return nil, apperr.Validation("invalid image URL")
	}
	post := &models.Post{UserID: userID, Content: content, Image: image}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) Get(ctx context.Context, postID uint) (*store.PostDetail, error) {
	return s.store.PostDetail(ctx, postID)
}

func (s *Service) List(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.RecentPosts(ctx, limit)
}

// Update edits a post's content and image. An absent content field
// leaves the stored content untouched, so an image-only update is
// legal; the image is replaced with whatever was sent, empty included.
func (s *Service) Update(ctx context.Context, actorID, postID uint, content, image string) (*store.PostDetail, error) {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, apperr.Validation("a post cannot exceed 500 characters")
	}
	if image != "" && !validImageURL(image) {
		return nil, apperr.Validation("invalid image URL")
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, apperr.Forbidden("you can only update your own posts")
	}
	if content == "" {
		content = post.Content
	}
	if err := s.store.UpdatePost(ctx, postID, content, image); err != nil {
		return nil, err
	}
	return s.store.PostDetail(ctx, postID)
}

func (s *Service) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return apperr.Forbidden("you can only delete your own posts")
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.logger.Info("post deleted", "post", postID, "user", actorID)
	return nil
}

// ToggleLike likes the post if the user has not liked it, unlikes it
// otherwise, and returns the refreshed post view.
func (s *Service) ToggleLike(ctx context.Context, postID, userID uint) (*store.PostDetail, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	liked, err := s.store.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("like toggled", "post", postID, "user", userID, "liked", liked)
	return s.store.PostDetail(ctx, postID)
}

// AddComment appends a comment with a server-assigned timestamp.
func (s *Service) AddComment(ctx context.Context, postID, userID uint, text string) (*store.PostDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, apperr.Validation("a comment cannot exceed 200 characters")
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.store.PostDetail(ctx, postID)
}
