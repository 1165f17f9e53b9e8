package models

import (
	"time"

	"gorm.io/gorm"
)

// TombstoneContent replaces the body of a soft-deleted message. The row keeps
// its identity and position in the thread.
const TombstoneContent = "Ce message a été supprimé"

type Message struct {
	gorm.Model
	ConversationID uint       `json:"conversation_id"`
	SenderID       uint       `json:"sender_id"`
	Sender         *User      `json:"sender,omitempty"`
	Content        string     `json:"content"`
	Photos         PhotoList  `gorm:"type:jsonb" json:"photos"`
	ParentID       *uint      `json:"parent_id"`
	SeenAt         *time.Time `json:"seen_at"`
	EditedAt       *time.Time `json:"edited_at"`
	Pinned         bool       `gorm:"default:false" json:"pinned"`
	Deleted        bool       `gorm:"default:false" json:"deleted"`
}

// Tombstone soft-deletes the message in place: body replaced, attachments
// cleared, identity preserved.
func (m *Message) Tombstone() {
	m.Content = TombstoneContent
	m.Photos = PhotoList{}
	m.Deleted = true
}
