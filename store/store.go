// Package store is the persistence layer: MySQL through GORM for the
// durable aggregates, Redis for the live like sets.
package store

import (
	"context"
	"errors"
	"log/slog"

	"linkup/apperr"
	"linkup/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Store struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *slog.Logger
}

func New(db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, rdb: rdb, logger: logger}
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Message{},
		&models.Follow{},
	)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.AlreadyExists("email is already registered")
		}
		return apperr.Internal("create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("active = ?", true).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("get user by email", err)
	}
	return &u, nil
}

// UpdateProfile changes only the caller-editable fields. Empty values
// are skipped so a partial update never blanks the other field.
func (s *Store) UpdateProfile(ctx context.Context, id uint, name, avatar string) (*models.User, error) {
	updates := map[string]any{}
	if name != "" {
		updates["name"] = name
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			return nil, apperr.Internal("update profile", err)
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) DeactivateUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", false).Error
	if err != nil {
		return apperr.Internal("deactivate user", err)
	}
	return nil
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Internal("create post", err)
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no post found with that id")
		}
		return nil, apperr.Internal("get post", err)
	}
	return &p, nil
}

func (s *Store) UpdatePost(ctx context.Context, id uint, content, image string) error {
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]any{"content": content, "image": image}).Error
	if err != nil {
		return apperr.Internal("update post", err)
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return apperr.Internal("delete post", err)
	}
	return nil
}

// RecentPosts returns the newest posts first, backed by the
// (owner, created_at) index when filtered by owner.
func (s *Store) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, apperr.Internal("list posts", err)
	}
	return posts, nil
}

// AddComment is a single row insert, so concurrent appends to the same
// post interleave without losing one another.
func (s *Store) AddComment(ctx context.Context, c *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return apperr.Internal("add comment", err)
	}
	return nil
}

func (s *Store) CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").Find(&comments).Error
	if err != nil {
		return nil, apperr.Internal("list comments", err)
	}
	return comments, nil
}
