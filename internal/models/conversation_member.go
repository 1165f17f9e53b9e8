package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationMember is one row of the conversation membership join table.
// Membership gates listing messages, sending into and marking a
// conversation read; one row per user per conversation.
type ConversationMember struct {
	gorm.Model
	ConversationID uint      `gorm:"index:idx_conversation_member,unique" json:"conversation_id"`
	UserID         uint      `gorm:"index:idx_conversation_member,unique" json:"user_id"`
	JoinedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joined_at"`
}
