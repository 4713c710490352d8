package store

import (
	"context"
	"errors"

	"linkup/apperr"
	"linkup/models"

	"gorm.io/gorm"
)

// AddFollow inserts the follow edge. The unique (follower, followed)
// index makes the duplicate check part of the write itself.
func (s *Store) AddFollow(ctx context.Context, followerID, followedID uint) error {
	f := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.AlreadyExists("you are already following this user")
		}
		return apperr.Internal("add follow", err)
	}
	return nil
}

func (s *Store) RemoveFollow(ctx context.Context, followerID, followedID uint) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return apperr.Internal("remove follow", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFollowing("you are not following this user")
	}
	return nil
}

func (s *Store) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).Order("id ASC").Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal("list followers", err)
	}
	return ids, nil
}

func (s *Store) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Order("id ASC").Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal("list following", err)
	}
	return ids, nil
}
