package models

// GetUsersResponse is a page of users, used by the member picker when
// composing a conversation.
type GetUsersResponse struct {
	Users []UserResponse `json:"users"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int64          `json:"total"`
}
