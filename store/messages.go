package store

import (
	"context"

	"linkup/apperr"
	"linkup/models"
)

const pairClause = "(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)"

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.Internal("create message", err)
	}
	return nil
}

// MessagesBetween returns the conversation between a and b in
// ascending creation order, regardless of which side sent each
// message. The id tiebreak keeps paging stable when timestamps
// collide.
func (s *Store) MessagesBetween(ctx context.Context, a, b uint, offset, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Where(pairClause, a, b, b, a).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Internal("list messages", err)
	}
	return msgs, nil
}

func (s *Store) CountMessagesBetween(ctx context.Context, a, b uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where(pairClause, a, b, b, a).Count(&n).Error
	if err != nil {
		return 0, apperr.Internal("count messages", err)
	}
	return n, nil
}
