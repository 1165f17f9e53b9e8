package models

type MarkReadRequest struct {
	ConversationID uint `json:"conversation_id"`
}
