package social

import (
	"context"
	"sync"
	"testing"

	"linkup/apperr"
	"linkup/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	users map[uint]*models.User
	edges map[[2]uint]bool
}

func newFakeStore(users ...*models.User) *fakeStore {
	s := &fakeStore{
		users: make(map[uint]*models.User),
		edges: make(map[[2]uint]bool),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *fakeStore) AddFollow(_ context.Context, follower, followed uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{follower, followed}
	if s.edges[key] {
		return apperr.AlreadyExists("you are already following this user")
	}
	s.edges[key] = true
	return nil
}

func (s *fakeStore) RemoveFollow(_ context.Context, follower, followed uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{follower, followed}
	if !s.edges[key] {
		return apperr.NotFollowing("you are not following this user")
	}
	delete(s.edges, key)
	return nil
}

func (s *fakeStore) FollowerIDs(_ context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for edge := range s.edges {
		if edge[1] == userID {
			ids = append(ids, edge[0])
		}
	}
	return ids, nil
}

func (s *fakeStore) FollowingIDs(_ context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for edge := range s.edges {
		if edge[0] == userID {
			ids = append(ids, edge[1])
		}
	}
	return ids, nil
}

func testUser(id uint, name string) *models.User {
	u := &models.User{Name: name, Active: true}
	u.ID = id
	return u
}

func TestFollowThenUnfollow(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"), testUser(2, "bob"))
	m := NewManager(store, nil)
	ctx := context.Background()

	name, err := m.Follow(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", name)

	followers, following, err := m.Relations(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, followers)
	assert.Empty(t, following)

	_, following, err = m.Relations(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, following)

	_, err = m.Unfollow(ctx, 1, 2)
	require.NoError(t, err)

	followers, _, err = m.Relations(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, followers)
	_, following, err = m.Relations(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFollowSelf(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"))
	m := NewManager(store, nil)

	_, err := m.Follow(context.Background(), 1, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindSelfReference))

	_, err = m.Unfollow(context.Background(), 1, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindSelfReference))
}

func TestFollowMissingTarget(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"))
	m := NewManager(store, nil)

	_, err := m.Follow(context.Background(), 1, 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = m.Unfollow(context.Background(), 1, 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDoubleFollow(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"), testUser(2, "bob"))
	m := NewManager(store, nil)
	ctx := context.Background()

	_, err := m.Follow(ctx, 1, 2)
	require.NoError(t, err)

	_, err = m.Follow(ctx, 1, 2)
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))
}

func TestUnfollowWithoutFollow(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"), testUser(2, "bob"))
	m := NewManager(store, nil)

	_, err := m.Unfollow(context.Background(), 1, 2)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFollowing))
}

func TestFollowIsDirectional(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"), testUser(2, "bob"))
	m := NewManager(store, nil)
	ctx := context.Background()

	_, err := m.Follow(ctx, 1, 2)
	require.NoError(t, err)

	// Bob does not follow Alice just because Alice follows Bob.
	followers, following, err := m.Relations(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, followers)
	assert.Equal(t, []uint{2}, following)
}
