package repositories

import (
	"time"

	"chantierpro/internal/errs"
	"chantierpro/internal/logging"
	"chantierpro/internal/models"
	"chantierpro/internal/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db     *gorm.DB
	cache  *ConversationCache
	logger zerolog.Logger
}

func NewChatRepository(db *gorm.DB, cache *ConversationCache) *ChatRepository {
	return &ChatRepository{
		db:     db,
		cache:  cache,
		logger: logging.Component("chat-repository"),
	}
}

func (chr *ChatRepository) CreateConversation(conversationData *models.CreateConversationRequestBody) (*models.ConversationResponse, []error) {
	var errors []error

	conversation := models.Conversation{
		Type:       conversationData.Type,
		Name:       conversationData.Name,
		ChantierID: conversationData.ChantierID,
	}

	err := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			// return any error will rollback
			return err
		}

		for _, userId := range conversationData.Users {
			err := tx.Create(&models.ConversationMember{
				ConversationID: conversation.ID,
				UserID:         userId,
			}).Error

			if err != nil {
				// return any error will rollback
				return err
			}
		}

		// return nil will commit the whole transaction
		return nil
	})

	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	chr.cache.Invalidate(conversationData.Users...)

	conversationFromDB, errs := chr.GetConversationById(conversation.ID)
	if len(errs) > 0 {
		return nil, errs
	}

	return conversationFromDB, nil
}

func (chr *ChatRepository) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error) {
	var errors []error
	var conversations []models.Conversation
	var conversationResponses []models.ConversationResponse
	var total int64

	if cached, ok := chr.cache.Get(userID, page, size); ok {
		return cached, nil
	}

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("Members").
			Where("id IN (SELECT conversation_id FROM conversation_members WHERE user_id = ?)", userID).
			Order("updated_at DESC").
			Find(&conversations).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Conversation{}).
			Where("id IN (SELECT conversation_id FROM conversation_members WHERE user_id = ?)", userID).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errors = append(errors, transactionErr)
		return nil, errors
	}

	for _, conversation := range conversations {
		lastMessage, _ := chr.GetConversationLastMessage(conversation.ID)
		unread, err := chr.GetConversationUnreadMessagesForUser(conversation.ID, userID)
		if err != nil {
			errors = append(errors, err)
			return nil, errors
		}
		conversationResponses = append(conversationResponses, conversation.ToConversationResponse(lastMessage, unread))
	}

	response := &models.ConversationListResponse{
		Conversations: conversationResponses,
		Page:          page,
		Size:          size,
		Total:         total,
	}

	chr.cache.Set(userID, page, size, response)

	return response, nil
}

func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errors []error

	if !chr.CheckConversationExists(message.ConversationID) {
		errors = append(errors, errs.ErrConversationNotFound)
		return nil, errors
	}
	if !chr.CheckUserInConversation(message.SenderID, message.ConversationID) {
		errors = append(errors, errs.ErrNotConversationMember)
		return nil, errors
	}
	if message.ParentID != nil && !chr.CheckMessageInConversation(*message.ParentID, message.ConversationID) {
		errors = append(errors, errs.ErrParentMessageNotFound)
		return nil, errors
	}

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
		return nil
	})
	if transactionErr != nil {
		errors = append(errors, transactionErr)
		return nil, errors
	}

	chr.invalidateConversationMembers(message.ConversationID)

	return message, nil
}

func (chr *ChatRepository) UpdateMessage(messageID uint, content string, requesterID uint) (*models.Message, []error) {
	var errors []error
	var message models.Message

	result := chr.db.Where("id = ?", messageID).First(&message)
	if result.Error != nil {
		errors = append(errors, errs.ErrMessageNotFound)
		return nil, errors
	}
	if message.SenderID != requesterID {
		errors = append(errors, errs.ErrNotMessageSender)
		return nil, errors
	}
	if message.Deleted {
		errors = append(errors, errs.ErrMessageAlreadyDeleted)
		return nil, errors
	}

	now := time.Now()
	message.Content = content
	message.EditedAt = &now
	if err := chr.db.Save(&message).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	chr.invalidateConversationMembers(message.ConversationID)

	return &message, nil
}

func (chr *ChatRepository) DeleteMessage(messageID, requesterID uint) []error {
	var errors []error
	var message models.Message

	result := chr.db.Where("id = ?", messageID).First(&message)
	if result.Error != nil {
		errors = append(errors, errs.ErrMessageNotFound)
		return errors
	}
	if message.SenderID != requesterID {
		errors = append(errors, errs.ErrNotMessageSender)
		return errors
	}

	message.Tombstone()
	if err := chr.db.Save(&message).Error; err != nil {
		errors = append(errors, err)
		return errors
	}

	chr.invalidateConversationMembers(message.ConversationID)

	return nil
}

func (chr *ChatRepository) GetConversationLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	if err := chr.db.
		Where("conversation_id = ?", conversationID).
		Last(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) GetMessagesByConversationId(conversationID uint, page, size int) (*models.MessageListResponse, []error) {
	var errors []error
	var messages []models.Message
	var total int64

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("Sender").
			Where("conversation_id = ?", conversationID).
			Order("created_at ASC").
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Message{}).
			Where("conversation_id = ?", conversationID).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		errors = append(errors, transactionErr)
		return nil, errors
	}

	return &models.MessageListResponse{
		Messages: messages,
		Page:     page,
		Size:     size,
		Total:    total,
	}, nil
}

func (chr *ChatRepository) CheckConversationExists(conversationID uint) bool {
	var count int64
	chr.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Count(&count)
	return count > 0
}

func (chr *ChatRepository) CheckUserInConversation(userID, conversationID uint) bool {
	var count int64
	chr.db.Model(&models.ConversationMember{}).Where("user_id = ? AND conversation_id = ?", userID, conversationID).Count(&count)
	return count > 0
}

func (chr *ChatRepository) CheckMessageInConversation(messageID, conversationID uint) bool {
	var count int64
	chr.db.Model(&models.Message{}).Where("id = ? AND conversation_id = ?", messageID, conversationID).Count(&count)
	return count > 0
}

// MarkConversationRead stamps seen_at on every unseen message in the
// conversation that the reader did not send. Zero affected rows is not an
// error: the conversation may simply already be read.
func (chr *ChatRepository) MarkConversationRead(conversationID, userID uint) []error {
	var errors []error
	result := chr.db.Model(&models.Message{}).
		Where("conversation_id = ? AND seen_at IS NULL AND sender_id != ?", conversationID, userID).
		Update("seen_at", time.Now())
	if err := result.Error; err != nil {
		errors = append(errors, err)
		return errors
	}

	chr.invalidateConversationMembers(conversationID)

	return nil
}

func (chr *ChatRepository) GetConversationUnreadMessagesForUser(conversationID, userID uint) (int, error) {
	var count int = 0
	result := chr.db.Raw(
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ? AND sender_id <> ? AND seen_at IS NULL",
		conversationID,
		userID,
	).Scan(&count)

	if err := result.Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (chr *ChatRepository) FindConversationBetweenTwoUsers(userID1, userID2 uint) (uint, []error) {
	var errors []error

	rows, err := chr.db.Table("conversation_members AS cm1").
		Select("cm1.conversation_id").
		Joins("INNER JOIN conversation_members AS cm2 ON cm1.conversation_id = cm2.conversation_id").
		Where("cm1.user_id = ? AND cm2.user_id = ?", userID1, userID2).
		Rows()

	if err != nil {
		errors = append(errors, err)
		return 0, errors
	}
	defer rows.Close()

	var conversationID uint
	for rows.Next() {
		if err := rows.Scan(&conversationID); err != nil {
			errors = append(errors, err)
			return 0, errors
		}
	}
	if err := rows.Err(); err != nil {
		errors = append(errors, err)
		return 0, errors
	}

	return conversationID, nil
}

func (chr *ChatRepository) GetConversationById(conversationID uint) (*models.ConversationResponse, []error) {
	var errors []error
	var conversation models.Conversation

	result := chr.db.
		Preload("Members").
		Where("id = ?", conversationID).
		First(&conversation)

	if err := result.Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	if result.RowsAffected == 0 {
		errors = append(errors, errs.ErrConversationNotFound)
		return nil, errors
	}
	lastMessage, _ := chr.GetConversationLastMessage(conversation.ID)
	conversationResponse := conversation.ToConversationResponse(lastMessage, 0)

	return &conversationResponse, nil
}

func (chr *ChatRepository) GetConversationMemberIDs(conversationID uint) ([]uint, error) {
	var memberIDs []uint
	if err := chr.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &memberIDs).Error; err != nil {
		return nil, err
	}
	return memberIDs, nil
}

func (chr *ChatRepository) invalidateConversationMembers(conversationID uint) {
	memberIDs, err := chr.GetConversationMemberIDs(conversationID)
	if err != nil {
		chr.logger.Warn().Err(err).Uint("conversation_id", conversationID).Msg("could not resolve members for cache invalidation")
		return
	}
	chr.cache.Invalidate(memberIDs...)
}
