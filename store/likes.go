package store

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"linkup/apperr"
	"linkup/models"
)

const likeKeyPrefix = "posts:likes:"

func likeKey(postID uint) string {
	return likeKeyPrefix + strconv.FormatUint(uint64(postID), 10)
}

// ToggleLike flips userID's membership in the post's like set. SADD
// and SREM are atomic per key, so concurrent toggles by different
// users never overwrite each other. Returns whether the post ended up
// liked by the user.
func (s *Store) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	key := likeKey(postID)
	added, err := s.rdb.SAdd(ctx, key, userID).Result()
	if err != nil {
		return false, apperr.Internal("toggle like", err)
	}
	if added == 0 {
		if _, err := s.rdb.SRem(ctx, key, userID).Result(); err != nil {
			return false, apperr.Internal("toggle like", err)
		}
		return false, nil
	}
	return true, nil
}

func (s *Store) Likers(ctx context.Context, postID uint) ([]uint, error) {
	members, err := s.rdb.SMembers(ctx, likeKey(postID)).Result()
	if err != nil {
		return nil, apperr.Internal("list likers", err)
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		n, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// SyncLikeCounts copies the live Redis set cardinalities into the
// posts table so the relational like_count trails the source of truth
// by at most one sync interval.
func (s *Store) SyncLikeCounts(ctx context.Context) {
	keys, err := s.rdb.Keys(ctx, likeKeyPrefix+"*").Result()
	if err != nil {
		s.logger.Error("failed to scan like keys", "error", err, "pattern", likeKeyPrefix+"*")
		return
	}
	for _, key := range keys {
		postID := strings.TrimPrefix(key, likeKeyPrefix)
		count, err := s.rdb.SCard(ctx, key).Result()
		if err != nil {
			continue
		}
		s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Update("like_count", count)
	}
	s.logger.Info("like counts synced", "keys", len(keys))
}
