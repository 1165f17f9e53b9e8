package models

type UpdateMessageRequest struct {
	Content string `json:"message"`
}
