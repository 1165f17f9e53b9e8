package models

import (
	"gorm.io/gorm"
)

const (
	ConversationTypeChantier = "chantier"
	ConversationTypeDirect   = "direct"
)

type Conversation struct {
	gorm.Model
	Type       string    `gorm:"not null" json:"type"`
	Name       *string   `json:"name"`
	Photo      *string   `json:"photo"`
	ChantierID *uint     `json:"chantier_id"`
	Members    []User    `gorm:"many2many:conversation_members;" json:"members"`
	Messages   []Message `json:"-"`
}

func (conversation *Conversation) ToConversationResponse(lastMessage *Message, unread int) ConversationResponse {
	members := []*UserResponse{}
	for _, member := range conversation.Members {
		members = append(members, member.ToUserResponse())
	}
	return ConversationResponse{
		ID:          conversation.ID,
		Type:        conversation.Type,
		Name:        conversation.Name,
		Photo:       conversation.Photo,
		ChantierID:  conversation.ChantierID,
		Members:     members,
		LastMessage: lastMessage,
		Unread:      unread,
		UpdatedAt:   conversation.UpdatedAt,
	}
}
