// Package social owns follow-graph mutations. The graph is stored as
// follow edges with a unique (follower, followed) pair, so each
// follow or unfollow is a single atomic row write and the
// followers/following views of the two users can never disagree.
package social

import (
	"context"
	"log/slog"

	"linkup/apperr"
	"linkup/models"
)

type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	AddFollow(ctx context.Context, followerID, followedID uint) error
	RemoveFollow(ctx context.Context, followerID, followedID uint) error
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

type Manager struct {
	store  Store
	logger *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// Follow makes actorID follow targetID and returns the followed
// user's display name for the confirmation message.
func (m *Manager) Follow(ctx context.Context, actorID, targetID uint) (string, error) {
	if actorID == targetID {
		return "", apperr.SelfReference("you cannot follow yourself")
	}
	target, err := m.store.GetUser(ctx, targetID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.NotFound("user to follow not found")
		}
		return "", err
	}
	if err := m.store.AddFollow(ctx, actorID, targetID); err != nil {
		return "", err
	}
	m.logger.Info("follow created", "actor", actorID, "target", targetID)
	return target.Name, nil
}

func (m *Manager) Unfollow(ctx context.Context, actorID, targetID uint) (string, error) {
	if actorID == targetID {
		return "", apperr.SelfReference("you cannot unfollow yourself")
	}
	target, err := m.store.GetUser(ctx, targetID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.NotFound("user to unfollow not found")
		}
		return "", err
	}
	if err := m.store.RemoveFollow(ctx, actorID, targetID); err != nil {
		return "", err
	}
	m.logger.Info("follow removed", "actor", actorID, "target", targetID)
	return target.Name, nil
}

// Relations returns the follower and following id sets of a user.
func (m *Manager) Relations(ctx context.Context, userID uint) (followers, following []uint, err error) {
	if _, err = m.store.GetUser(ctx, userID); err != nil {
		return nil, nil, err
	}
	followers, err = m.store.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	following, err = m.store.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return followers, following, nil
}
