package models

// MessageListResponse is a page of messages in chronological order, the flat
// input the client's thread builder works from.
type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
	Total    int64     `json:"total"`
}
