package models

import "time"

type ConversationResponse struct {
	ID          uint            `json:"id"`
	Type        string          `json:"type"`
	Name        *string         `json:"name"`
	Photo       *string         `json:"photo"`
	ChantierID  *uint           `json:"chantier_id"`
	Members     []*UserResponse `json:"members"`
	LastMessage *Message        `json:"last_message"`
	Unread      int             `json:"unread"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
