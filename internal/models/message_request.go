package models

type MessageRequest struct {
	ConversationID uint     `json:"conversation_id"`
	Content        string   `json:"message"`
	Photos         []string `json:"photos"`
	ParentID       *uint    `json:"parent_id"`
}
