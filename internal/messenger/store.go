// Package messenger implements the client side of ChantierPro messaging: the
// message-store contract, reply-thread reconstruction, an optimistic send
// pipeline and the polling sync loop that stands in for a realtime transport.
package messenger

import (
	"context"

	"chantierpro/internal/models"
)

// OutgoingMessage is the payload Send hands to the store.
type OutgoingMessage struct {
	ConversationID uint
	Content        string
	Photos         []string
	ParentID       *uint
}

// Store is the message-store contract the session depends on. The canonical
// implementation is HTTPStore talking to the ChantierPro backend; tests use
// an in-memory fake.
type Store interface {
	ListConversations(ctx context.Context, page, size int) (*models.ConversationListResponse, error)
	ListMessages(ctx context.Context, conversationID uint, page, size int) (*models.MessageListResponse, error)
	CreateMessage(ctx context.Context, outgoing OutgoingMessage) (*models.Message, error)
	EditMessage(ctx context.Context, messageID uint, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, messageID uint) error
	MarkConversationRead(ctx context.Context, conversationID uint) error
}
