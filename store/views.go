package store

import (
	"context"
	"time"

	"linkup/apperr"
	"linkup/models"
)

type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func Summarize(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

type CommentView struct {
	ID        uint        `json:"id"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

type PostDetail struct {
	ID        uint          `json:"id"`
	Owner     UserSummary   `json:"owner"`
	Content   string        `json:"content"`
	Image     string        `json:"image"`
	Likes     []uint        `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PostDetail is the read-path composition for a post: the post row,
// its comments, the owner and commenter summaries fetched in one IN
// query, and the live like set. It is an explicit join operation
// rather than a side effect attached to every read.
func (s *Store) PostDetail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentsForPost(ctx, id)
	if err != nil {
		return nil, err
	}
	likes, err := s.Likers(ctx, id)
	if err != nil {
		return nil, err
	}

	idSet := map[uint]struct{}{post.UserID: {}}
	for _, c := range comments {
		idSet[c.UserID] = struct{}{}
	}
	ids := make([]uint, 0, len(idSet))
	for uid := range idSet {
		ids = append(ids, uid)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperr.Internal("load user summaries", err)
	}
	summaries := make(map[uint]UserSummary, len(users))
	for i := range users {
		summaries[users[i].ID] = Summarize(&users[i])
	}

	owner, ok := summaries[post.UserID]
	if !ok {
		owner = UserSummary{ID: post.UserID}
	}
	detail := &PostDetail{
		ID:        post.ID,
		Owner:     owner,
		Content:   post.Content,
		Image:     post.Image,
		Likes:     likes,
		Comments:  make([]CommentView, 0, len(comments)),
		CreatedAt: post.CreatedAt,
	}
	// A commenter whose account was since removed still shows up with
	// a bare id.
	for _, c := range comments {
		author, ok := summaries[c.UserID]
		if !ok {
			author = UserSummary{ID: c.UserID}
		}
		detail.Comments = append(detail.Comments, CommentView{
			ID:        c.ID,
			Author:    author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return detail, nil
}
