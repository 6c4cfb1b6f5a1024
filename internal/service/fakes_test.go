package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, excludeID uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	u := *user
	r.users[u.ID] = &u
	return nil
}

type fakeConvRepo struct {
	convs map[uuid.UUID]*domain.Conversation
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[uuid.UUID]*domain.Conversation)}
}

func copyConv(c *domain.Conversation) *domain.Conversation {
	copied := *c
	copied.ParticipantIDs = append([]uuid.UUID(nil), c.ParticipantIDs...)
	copied.AdminIDs = append([]uuid.UUID(nil), c.AdminIDs...)
	copied.Participants = nil
	copied.LastMessage = nil
	return &copied
}

func (r *fakeConvRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.convs[conv.ID] = copyConv(conv)
	return nil
}

func (r *fakeConvRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	return copyConv(c), nil
}

func (r *fakeConvRepo) GetDirectByParticipants(_ context.Context, user1ID, user2ID uuid.UUID) (*domain.Conversation, error) {
	for _, c := range r.convs {
		if c.IsGroup || len(c.ParticipantIDs) != 2 {
			continue
		}
		if c.HasParticipant(user1ID) && c.HasParticipant(user2ID) {
			return copyConv(c), nil
		}
	}
	return nil, nil
}

func (r *fakeConvRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			out = append(out, *copyConv(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeConvRepo) AddParticipant(_ context.Context, conversationID, userID uuid.UUID, isAdmin bool) error {
	c := r.convs[conversationID]
	if !c.HasParticipant(userID) {
		c.ParticipantIDs = append(c.ParticipantIDs, userID)
	}
	if isAdmin && !c.HasAdmin(userID) {
		c.AdminIDs = append(c.AdminIDs, userID)
	}
	return nil
}

func (r *fakeConvRepo) RemoveParticipant(_ context.Context, conversationID, userID uuid.UUID) error {
	c := r.convs[conversationID]
	c.ParticipantIDs = filterID(c.ParticipantIDs, userID)
	c.AdminIDs = filterID(c.AdminIDs, userID)
	return nil
}

func (r *fakeConvRepo) SetLastMessage(_ context.Context, conversationID, messageID uuid.UUID) error {
	c := r.convs[conversationID]
	id := messageID
	c.LastMessageID = &id
	return nil
}

func filterID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type fakeMessageRepo struct {
	msgs []*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func copyMsg(m *domain.Message) *domain.Message {
	copied := *m
	copied.ReadBy = append([]uuid.UUID(nil), m.ReadBy...)
	return &copied
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.msgs = append(r.msgs, copyMsg(msg))
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	for _, m := range r.msgs {
		if m.ID == id {
			return copyMsg(m), nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID uuid.UUID, offset, limit int) ([]domain.Message, error) {
	var newest []domain.Message
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].ConversationID == conversationID {
			newest = append(newest, *copyMsg(r.msgs[i]))
		}
	}
	if offset >= len(newest) {
		return nil, nil
	}
	newest = newest[offset:]
	if limit < len(newest) {
		newest = newest[:limit]
	}
	return newest, nil
}

func (r *fakeMessageRepo) CountByConversation(_ context.Context, conversationID uuid.UUID) (int, error) {
	n := 0
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, conversationID, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range r.msgs {
		if m.ConversationID != conversationID || m.SenderID == userID || m.ReadByUser(userID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, userID)
		n++
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, conversationID, userID uuid.UUID) (int, error) {
	n := 0
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.ReadByUser(userID) {
			n++
		}
	}
	return n, nil
}

// seedUser creates a user directly in the repo and returns it.
func seedUser(repo *fakeUserRepo, username, displayName string) *domain.User {
	u := &domain.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: displayName,
		Status:      domain.StatusOnline,
	}
	repo.users[u.ID] = u
	return u
}
