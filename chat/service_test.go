package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"linkup/apperr"
	"linkup/models"
	"linkup/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	msgs       []models.Message
	nextID     uint
	failCreate error
}

func newFakeStore(users ...*models.User) *fakeStore {
	s := &fakeStore{users: make(map[uint]*models.User)}
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

func (s *fakeStore) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	m.ID = s.nextID
	s.msgs = append(s.msgs, *m)
	return nil
}

func (s *fakeStore) between(a, b uint) []models.Message {
	var out []models.Message
	for _, m := range s.msgs {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *fakeStore) MessagesBetween(_ context.Context, a, b uint, offset, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.between(a, b)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeStore) CountMessagesBetween(_ context.Context, a, b uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.between(a, b))), nil
}

type publish struct {
	key   string
	event string
	data  any
}

type fakeBus struct {
	mu        sync.Mutex
	published []publish
	err       error
}

func (b *fakeBus) Publish(_ context.Context, key, event string, data any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, publish{key, event, data})
	return nil
}

func testUser(id uint, name string) *models.User {
	u := &models.User{Name: name, Active: true}
	u.ID = id
	return u
}

func TestSendMessageValidation(t *testing.T) {
	bus := &fakeBus{}
	svc := NewService(newFakeStore(testUser(1, "alice")), bus, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 1, 0, "hi", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.SendMessage(ctx, 1, 2, "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.SendMessage(ctx, 1, 1, "hi", "")
	assert.True(t, apperr.IsKind(err, apperr.KindSelfReference))

	_, err = svc.SendMessage(ctx, 1, 2, strings.Repeat("x", 1001), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Empty(t, bus.published, "nothing may be published for a rejected message")
}

func TestMessageLimitCountsCharacters(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice")), &fakeBus{}, nil)
	ctx := context.Background()

	// 600 characters, 1800 bytes: within the 1000-character limit.
	_, err := svc.SendMessage(ctx, 1, 2, strings.Repeat("好", 600), "")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, 1, 2, strings.Repeat("好", 1001), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSendMessageImageOnly(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice")), &fakeBus{}, nil)

	payload, err := svc.SendMessage(context.Background(), 1, 2, "", "https://cdn.example.com/pic.png")
	require.NoError(t, err)
	require.NotNil(t, payload.Image)
	assert.Equal(t, "https://cdn.example.com/pic.png", *payload.Image)
	assert.Empty(t, payload.Content)
}

func TestSendMessagePublishesToBothKeys(t *testing.T) {
	bus := &fakeBus{}
	svc := NewService(newFakeStore(testUser(1, "alice")), bus, nil)

	payload, err := svc.SendMessage(context.Background(), 1, 2, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), payload.ID)
	assert.Equal(t, "alice", payload.Sender.Name)
	assert.Nil(t, payload.Image)

	require.Len(t, bus.published, 2)
	keys := []string{bus.published[0].key, bus.published[1].key}
	assert.ElementsMatch(t, []string{"user:1", "user:2"}, keys)
	for _, p := range bus.published {
		assert.Equal(t, realtime.EventNewMessage, p.event)
		assert.Equal(t, payload, p.data)
	}
}

func TestSendMessagePersistFailureAbortsPublish(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"))
	store.failCreate = apperr.Internal("create message", errors.New("db down"))
	bus := &fakeBus{}
	svc := NewService(store, bus, nil)

	_, err := svc.SendMessage(context.Background(), 1, 2, "hello", "")
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.Empty(t, bus.published)
}

func TestSendMessagePublishFailureIsNonFatal(t *testing.T) {
	store := newFakeStore(testUser(1, "alice"))
	bus := &fakeBus{err: errors.New("broker gone")}
	svc := NewService(store, bus, nil)

	payload, err := svc.SendMessage(context.Background(), 1, 2, "hello", "")
	require.NoError(t, err, "a stored message is a success even when no push went out")
	require.NotNil(t, payload)

	history, err := svc.GetHistory(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, history.Results)
}

func seedConversation(t *testing.T, svc *Service, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		from, to := uint(1), uint(2)
		if i%2 == 1 {
			from, to = 2, 1
		}
		_, err := svc.SendMessage(context.Background(), from, to, fmt.Sprintf("msg-%02d", i), "")
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
}

func TestGetHistoryPagination(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice"), testUser(2, "bob")), &fakeBus{}, nil)
	seedConversation(t, svc, 25)

	page1, err := svc.GetHistory(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, page1.Results)
	assert.Equal(t, int64(25), page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)
	assert.Equal(t, "msg-00", page1.Messages[0].Content, "ascending by creation time")

	page2, err := svc.GetHistory(context.Background(), 1, 2, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 5, page2.Results)
	assert.Equal(t, 2, page2.CurrentPage)
	assert.Equal(t, "msg-24", page2.Messages[4].Content)
}

func TestGetHistoryDirectionAgnostic(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice"), testUser(2, "bob")), &fakeBus{}, nil)
	seedConversation(t, svc, 5)

	fromA, err := svc.GetHistory(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	fromB, err := svc.GetHistory(context.Background(), 2, 1, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, fromA.Messages, fromB.Messages)
	assert.Equal(t, fromA.Total, fromB.Total)
}

func TestGetHistoryCoercesPageAndLimit(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice"), testUser(2, "bob")), &fakeBus{}, nil)
	seedConversation(t, svc, 3)

	h, err := svc.GetHistory(context.Background(), 1, 2, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, h.CurrentPage)
	assert.Equal(t, 3, h.Results, "default limit applies")
	assert.Equal(t, 1, h.TotalPages)
}

func TestGetHistoryEmptyConversation(t *testing.T) {
	svc := NewService(newFakeStore(testUser(1, "alice")), &fakeBus{}, nil)

	h, err := svc.GetHistory(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Results)
	assert.Equal(t, int64(0), h.Total)
	assert.Equal(t, 0, h.TotalPages)
	assert.NotNil(t, h.Messages)
}

// chanConn subscribes to the real hub in place of a websocket.
type chanConn struct {
	ch chan []byte
}

func (c *chanConn) Deliver(msg []byte) bool {
	select {
	case c.ch <- msg:
		return true
	default:
		return false
	}
}

func TestSendMessageReachesJoinedConnection(t *testing.T) {
	hub := realtime.NewHub(nil)
	recipient := &chanConn{ch: make(chan []byte, 4)}
	require.NoError(t, hub.Registry().Join(recipient, "user:2"))

	svc := NewService(newFakeStore(testUser(1, "alice")), hub, nil)
	_, err := svc.SendMessage(context.Background(), 1, 2, "hello", "")
	require.NoError(t, err)

	require.Len(t, recipient.ch, 1, "exactly one event per message")
	var env struct {
		Event string `json:"event"`
		Data  struct {
			Sender struct {
				ID   uint   `json:"id"`
				Name string `json:"name"`
			} `json:"sender"`
			Content string  `json:"content"`
			Image   *string `json:"image"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-recipient.ch, &env))
	assert.Equal(t, realtime.EventNewMessage, env.Event)
	assert.Equal(t, uint(1), env.Data.Sender.ID)
	assert.Equal(t, "alice", env.Data.Sender.Name)
	assert.Equal(t, "hello", env.Data.Content)
	assert.Nil(t, env.Data.Image)

	// And it is durable: the history shows it too.
	h, err := svc.GetHistory(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, h.Results)
	assert.Equal(t, "hello", h.Messages[0].Content)
}
