package services

import (
	"testing"
	"time"

	"chantierpro/internal/errs"
	"chantierpro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatRepository records calls and serves canned results.
type fakeChatRepository struct {
	members  map[uint][]uint // conversation id -> member user ids
	messages map[uint]models.Message

	savedMessage    *models.Message
	updatedID       uint
	updatedContent  string
	deletedID       uint
	markReadCalls   [][2]uint
	createdRequests []*models.CreateConversationRequestBody
	nextID          uint
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		members:  make(map[uint][]uint),
		messages: make(map[uint]models.Message),
		nextID:   500,
	}
}

func (f *fakeChatRepository) CreateConversation(body *models.CreateConversationRequestBody) (*models.ConversationResponse, []error) {
	f.createdRequests = append(f.createdRequests, body)
	return &models.ConversationResponse{ID: 1, Type: body.Type, Name: body.Name}, nil
}

func (f *fakeChatRepository) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error) {
	return &models.ConversationListResponse{Page: page, Size: size}, nil
}

func (f *fakeChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	if !f.CheckUserInConversation(message.SenderID, message.ConversationID) {
		return nil, []error{errs.ErrNotConversationMember}
	}
	if message.ParentID != nil {
		parent, ok := f.messages[*message.ParentID]
		if !ok || parent.ConversationID != message.ConversationID {
			return nil, []error{errs.ErrParentMessageNotFound}
		}
	}
	f.nextID++
	saved := *message
	saved.ID = f.nextID
	saved.CreatedAt = time.Now()
	f.savedMessage = &saved
	f.messages[saved.ID] = saved
	return &saved, nil
}

func (f *fakeChatRepository) UpdateMessage(messageID uint, content string, requesterID uint) (*models.Message, []error) {
	message, ok := f.messages[messageID]
	if !ok {
		return nil, []error{errs.ErrMessageNotFound}
	}
	if message.SenderID != requesterID {
		return nil, []error{errs.ErrNotMessageSender}
	}
	if message.Deleted {
		return nil, []error{errs.ErrMessageAlreadyDeleted}
	}
	now := time.Now()
	message.Content = content
	message.EditedAt = &now
	f.messages[messageID] = message
	f.updatedID = messageID
	f.updatedContent = content
	return &message, nil
}

func (f *fakeChatRepository) DeleteMessage(messageID, requesterID uint) []error {
	message, ok := f.messages[messageID]
	if !ok {
		return []error{errs.ErrMessageNotFound}
	}
	if message.SenderID != requesterID {
		return []error{errs.ErrNotMessageSender}
	}
	message.Tombstone()
	f.messages[messageID] = message
	f.deletedID = messageID
	return nil
}

func (f *fakeChatRepository) GetMessagesByConversationId(conversationID uint, page, size int) (*models.MessageListResponse, []error) {
	return &models.MessageListResponse{Page: page, Size: size}, nil
}

func (f *fakeChatRepository) MarkConversationRead(conversationID, userID uint) []error {
	f.markReadCalls = append(f.markReadCalls, [2]uint{conversationID, userID})
	return nil
}

func (f *fakeChatRepository) CheckUserInConversation(userID, conversationID uint) bool {
	for _, member := range f.members[conversationID] {
		if member == userID {
			return true
		}
	}
	return false
}

func seedMessage(repo *fakeChatRepository, id, conversationID, senderID uint, content string) {
	message := models.Message{ConversationID: conversationID, SenderID: senderID, Content: content}
	message.ID = id
	message.CreatedAt = time.Now().Add(-time.Hour)
	repo.messages[id] = message
}

func TestCreateConversation_RejectsUnknownType(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	_, errors := service.CreateConversation(&models.CreateConversationRequestBody{
		Type:  "broadcast",
		Users: []uint{1, 2},
	})
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrInvalidRequest)
	assert.Empty(t, repo.createdRequests)
}

func TestCreateConversation_RequiresTwoMembers(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	_, errors := service.CreateConversation(&models.CreateConversationRequestBody{
		Type:  models.ConversationTypeDirect,
		Users: []uint{1},
	})
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrInvalidRequest)
}

func TestCreateConversation_PassesThrough(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	name := "Chantier Rue Verte"
	created, errors := service.CreateConversation(&models.CreateConversationRequestBody{
		Type:  models.ConversationTypeChantier,
		Name:  &name,
		Users: []uint{1, 2, 3},
	})
	require.Empty(t, errors)
	assert.Equal(t, models.ConversationTypeChantier, created.Type)
	require.Len(t, repo.createdRequests, 1)
}

func TestSaveMessage_ValidationShortCircuitsRepository(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	_, errors := service.SaveMessage(&models.MessageRequest{ConversationID: 1, Content: "   "}, 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrEmptyMessage)
	assert.Nil(t, repo.savedMessage)
}

func TestSaveMessage_RejectsNonMember(t *testing.T) {
	repo := newFakeChatRepository()
	repo.members[1] = []uint{2, 3}
	service := NewChatService(repo)

	_, errors := service.SaveMessage(&models.MessageRequest{ConversationID: 1, Content: "hello"}, 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrNotConversationMember)
}

func TestSaveMessage_RejectsParentOutsideConversation(t *testing.T) {
	repo := newFakeChatRepository()
	repo.members[1] = []uint{7}
	repo.members[2] = []uint{7}
	seedMessage(repo, 10, 2, 7, "in another conversation")
	service := NewChatService(repo)

	parentID := uint(10)
	_, errors := service.SaveMessage(&models.MessageRequest{
		ConversationID: 1,
		Content:        "reply",
		ParentID:       &parentID,
	}, 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrParentMessageNotFound)
}

func TestSaveMessage_PersistsWithSender(t *testing.T) {
	repo := newFakeChatRepository()
	repo.members[1] = []uint{7, 8}
	service := NewChatService(repo)

	saved, errors := service.SaveMessage(&models.MessageRequest{
		ConversationID: 1,
		Content:        "Livraison prévue demain",
		Photos:         []string{"http://minio/bon.jpg"},
	}, 7)
	require.Empty(t, errors)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, uint(7), saved.SenderID)
	assert.Equal(t, models.PhotoList{"http://minio/bon.jpg"}, saved.Photos)
}

func TestUpdateMessage_RejectsEmptyContent(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	_, errors := service.UpdateMessage(10, "  ", 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrEmptyMessage)
	assert.Zero(t, repo.updatedID)
}

func TestUpdateMessage_OnlySenderMayEdit(t *testing.T) {
	repo := newFakeChatRepository()
	seedMessage(repo, 10, 1, 7, "original")
	service := NewChatService(repo)

	_, errors := service.UpdateMessage(10, "hijacked", 8)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrNotMessageSender)

	updated, errors := service.UpdateMessage(10, "corrigé", 7)
	require.Empty(t, errors)
	assert.Equal(t, "corrigé", updated.Content)
	assert.NotNil(t, updated.EditedAt)
}

func TestUpdateMessage_TombstoneCannotBeEdited(t *testing.T) {
	repo := newFakeChatRepository()
	seedMessage(repo, 10, 1, 7, "original")
	require.Empty(t, repo.DeleteMessage(10, 7))
	service := NewChatService(repo)

	_, errors := service.UpdateMessage(10, "resurrection", 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrMessageAlreadyDeleted)
}

func TestDeleteMessage_OnlySenderMayDelete(t *testing.T) {
	repo := newFakeChatRepository()
	seedMessage(repo, 10, 1, 7, "to remove")
	service := NewChatService(repo)

	errors := service.DeleteMessage(10, 8)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrNotMessageSender)

	require.Empty(t, service.DeleteMessage(10, 7))
	assert.Equal(t, models.TombstoneContent, repo.messages[10].Content)
	assert.True(t, repo.messages[10].Deleted)
}

func TestGetMessages_RequiresMembership(t *testing.T) {
	repo := newFakeChatRepository()
	repo.members[1] = []uint{2}
	service := NewChatService(repo)

	_, errors := service.GetMessagesByConversationId(1, 7, 1, 50)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrNotConversationMember)

	repo.members[1] = append(repo.members[1], 7)
	response, errors := service.GetMessagesByConversationId(1, 7, 1, 50)
	require.Empty(t, errors)
	assert.Equal(t, 1, response.Page)
}

func TestMarkConversationRead_RequiresMembership(t *testing.T) {
	repo := newFakeChatRepository()
	service := NewChatService(repo)

	errors := service.MarkConversationRead(1, 7)
	require.Len(t, errors, 1)
	assert.ErrorIs(t, errors[0], errs.ErrNotConversationMember)
	assert.Empty(t, repo.markReadCalls)

	repo.members[1] = []uint{7}
	require.Empty(t, service.MarkConversationRead(1, 7))
	assert.Equal(t, [][2]uint{{1, 7}}, repo.markReadCalls)
}
