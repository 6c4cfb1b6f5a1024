package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lallen30/skype-clone/internal/domain"
)

type chatFixture struct {
	svc      *ChatService
	userRepo *fakeUserRepo
	convRepo *fakeConvRepo
	msgRepo  *fakeMessageRepo

	alice *domain.User
	bob   *domain.User
	carol *domain.User
}

func newChatFixture() *chatFixture {
	userRepo := newFakeUserRepo()
	convRepo := newFakeConvRepo()
	msgRepo := newFakeMessageRepo()
	return &chatFixture{
		svc:      NewChatService(convRepo, msgRepo, userRepo),
		userRepo: userRepo,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		alice:    seedUser(userRepo, "alice", "Alice"),
		bob:      seedUser(userRepo, "bob", "Bob"),
		carol:    seedUser(userRepo, "carol", "Carol"),
	}
}

func (f *chatFixture) group(t *testing.T, name string, members ...uuid.UUID) *domain.Conversation {
	t.Helper()
	conv, created, err := f.svc.Create(context.Background(), f.alice.ID, CreateConversationInput{
		Participants: members,
		IsGroup:      true,
		Name:         name,
	})
	require.NoError(t, err)
	require.True(t, created)
	return conv
}

func TestCreateDirectConversation(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()

	conv, created, err := f.svc.Create(ctx, f.alice.ID, CreateConversationInput{
		Participants: []uuid.UUID{f.bob.ID},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, conv.IsGroup)
	assert.Len(t, conv.Participants, 2)

	// Creating again, even from the other side, returns the same conversation.
	again, created, err := f.svc.Create(ctx, f.bob.ID, CreateConversationInput{
		Participants: []uuid.UUID{f.alice.ID},
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)
}

func TestCreateConversationErrors(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()

	tests := []struct {
		name    string
		input   CreateConversationInput
		wantErr error
	}{
		{
			name:    "no participants",
			input:   CreateConversationInput{},
			wantErr: ErrNoParticipants,
		},
		{
			name:    "group without name",
			input:   CreateConversationInput{Participants: []uuid.UUID{f.bob.ID}, IsGroup: true},
			wantErr: ErrGroupNameRequired,
		},
		{
			name:    "unknown participant",
			input:   CreateConversationInput{Participants: []uuid.UUID{uuid.New()}},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "direct with three participants",
			input:   CreateConversationInput{Participants: []uuid.UUID{f.bob.ID, f.carol.ID}},
			wantErr: ErrDirectParticipants,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Create(ctx, f.alice.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateGroup(t *testing.T) {
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID, f.carol.ID)

	require.NotNil(t, conv.Name)
	assert.Equal(t, "Team", *conv.Name)
	assert.True(t, conv.IsGroup)
	assert.Equal(t, []uuid.UUID{f.alice.ID}, conv.AdminIDs)
	assert.Len(t, conv.ParticipantIDs, 3)
}

func TestGetConversation(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID)

	got, err := f.svc.Get(ctx, f.bob.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = f.svc.Get(ctx, f.carol.ID, conv.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.Get(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID)

	got, err := f.svc.AddParticipant(ctx, f.alice.ID, conv.ID, f.carol.ID)
	require.NoError(t, err)
	assert.True(t, got.HasParticipant(f.carol.ID))

	// A membership notice is appended and becomes the last message.
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, "Alice added Carol to the group", got.LastMessage.Content)
	assert.Equal(t, []uuid.UUID{f.alice.ID}, got.LastMessage.ReadBy)

	_, err = f.svc.AddParticipant(ctx, f.alice.ID, conv.ID, f.carol.ID)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	_, err = f.svc.AddParticipant(ctx, f.bob.ID, conv.ID, f.carol.ID)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestAddParticipantDirectConversation(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()

	conv, _, err := f.svc.Create(ctx, f.alice.ID, CreateConversationInput{
		Participants: []uuid.UUID{f.bob.ID},
	})
	require.NoError(t, err)

	_, err = f.svc.AddParticipant(ctx, f.alice.ID, conv.ID, f.carol.ID)
	assert.ErrorIs(t, err, ErrNotGroup)
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID, f.carol.ID)

	t.Run("admin removes member", func(t *testing.T) {
		got, err := f.svc.RemoveParticipant(ctx, f.alice.ID, conv.ID, f.carol.ID)
		require.NoError(t, err)
		assert.False(t, got.HasParticipant(f.carol.ID))
		require.NotNil(t, got.LastMessage)
		assert.Equal(t, "Alice removed Carol from the group", got.LastMessage.Content)
	})

	t.Run("member leaves", func(t *testing.T) {
		got, err := f.svc.RemoveParticipant(ctx, f.bob.ID, conv.ID, f.bob.ID)
		require.NoError(t, err)
		assert.False(t, got.HasParticipant(f.bob.ID))
		require.NotNil(t, got.LastMessage)
		assert.Equal(t, "Bob left the group", got.LastMessage.Content)
	})
}

func TestRemoveParticipantErrors(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID, f.carol.ID)

	_, err := f.svc.RemoveParticipant(ctx, f.bob.ID, conv.ID, f.carol.ID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = f.svc.RemoveParticipant(ctx, f.alice.ID, conv.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveAdminDropsAdminRights(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID)

	got, err := f.svc.RemoveParticipant(ctx, f.alice.ID, conv.ID, f.alice.ID)
	require.NoError(t, err)
	assert.False(t, got.HasAdmin(f.alice.ID))
}

func TestListConversations(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	conv := f.group(t, "Team", f.bob.ID)

	// Bob has one unread message from Alice.
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       f.alice.ID,
		Content:        "hello",
		ContentType:    domain.ContentTypeText,
		ReadBy:         []uuid.UUID{f.alice.ID},
	}
	require.NoError(t, f.msgRepo.Create(ctx, msg))
	require.NoError(t, f.convRepo.SetLastMessage(ctx, conv.ID, msg.ID))

	convs, err := f.svc.List(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadCount)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "hello", convs[0].LastMessage.Content)

	// Carol is in no conversations and gets an empty list, not nil.
	convs, err = f.svc.List(ctx, f.carol.ID)
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}
