package services

import (
	"strings"

	"chantierpro/internal/errs"
	"chantierpro/internal/models"
	"chantierpro/internal/validators"
)

// ChatRepository is the persistence contract the chat service drives. The
// gorm implementation lives in the repositories package; tests use an
// in-memory fake.
type ChatRepository interface {
	CreateConversation(conversationData *models.CreateConversationRequestBody) (*models.ConversationResponse, []error)
	GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error)
	SaveMessage(message *models.Message) (*models.Message, []error)
	UpdateMessage(messageID uint, content string, requesterID uint) (*models.Message, []error)
	DeleteMessage(messageID, requesterID uint) []error
	GetMessagesByConversationId(conversationID uint, page, size int) (*models.MessageListResponse, []error)
	MarkConversationRead(conversationID, userID uint) []error
	CheckUserInConversation(userID, conversationID uint) bool
}

type ChatService struct {
	chatRepo ChatRepository
}

func NewChatService(chatRepo ChatRepository) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
	}
}

func (cs *ChatService) CreateConversation(conversation *models.CreateConversationRequestBody) (*models.ConversationResponse, []error) {
	var errors []error
	if conversation.Type != models.ConversationTypeChantier && conversation.Type != models.ConversationTypeDirect {
		errors = append(errors, errs.ErrInvalidRequest)
		return nil, errors
	}
	if len(conversation.Users) < 2 {
		errors = append(errors, errs.ErrInvalidRequest)
		return nil, errors
	}
	return cs.chatRepo.CreateConversation(conversation)
}

func (cs *ChatService) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error) {
	return cs.chatRepo.GetUserConversations(userID, page, size)
}

func (cs *ChatService) SaveMessage(request *models.MessageRequest, senderID uint) (*models.Message, []error) {
	if validationErrs := validators.ValidateOutgoingMessage(request); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	message := &models.Message{
		ConversationID: request.ConversationID,
		SenderID:       senderID,
		Content:        request.Content,
		Photos:         models.PhotoList(request.Photos),
		ParentID:       request.ParentID,
	}

	return cs.chatRepo.SaveMessage(message)
}

func (cs *ChatService) UpdateMessage(messageID uint, content string, requesterID uint) (*models.Message, []error) {
	var errors []error
	if strings.TrimSpace(content) == "" {
		errors = append(errors, errs.ErrEmptyMessage)
		return nil, errors
	}
	return cs.chatRepo.UpdateMessage(messageID, content, requesterID)
}

func (cs *ChatService) DeleteMessage(messageID, requesterID uint) []error {
	return cs.chatRepo.DeleteMessage(messageID, requesterID)
}

func (cs *ChatService) GetMessagesByConversationId(conversationID, userID uint, page, size int) (*models.MessageListResponse, []error) {
	var errors []error
	if !cs.chatRepo.CheckUserInConversation(userID, conversationID) {
		errors = append(errors, errs.ErrNotConversationMember)
		return nil, errors
	}
	return cs.chatRepo.GetMessagesByConversationId(conversationID, page, size)
}

func (cs *ChatService) MarkConversationRead(conversationID, userID uint) []error {
	var errors []error
	if !cs.chatRepo.CheckUserInConversation(userID, conversationID) {
		errors = append(errors, errs.ErrNotConversationMember)
		return errors
	}
	return cs.chatRepo.MarkConversationRead(conversationID, userID)
}
