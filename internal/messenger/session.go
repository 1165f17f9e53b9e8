package messenger

import (
	"context"
	"strings"
	"sync"
	"time"

	"chantierpro/internal/errs"
	"chantierpro/internal/logging"
	"chantierpro/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultPageSize = 200

// Session is the explicit state object for one open messaging view: the
// conversation list, the active thread and the registry of provisional
// sends. All state lives here rather than in package globals so the poller
// and the UI share one lifecycle. Mutations are serialized by an internal
// mutex; the session is safe for concurrent use.
type Session struct {
	store    Store
	user     models.UserResponse
	pageSize int
	logger   zerolog.Logger

	mu            sync.Mutex
	conversations []models.ConversationResponse
	activeID      uint
	thread        []*ThreadNode
	pending       map[string]*ThreadNode
	sending       bool

	// sendMu serializes sends so reconciliation order matches issue order.
	sendMu sync.Mutex
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithPageSize overrides the page size used for store listings.
func WithPageSize(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewSession(store Store, user models.UserResponse, opts ...SessionOption) *Session {
	s := &Session{
		store:    store,
		user:     user,
		pageSize: defaultPageSize,
		logger:   logging.Component("messenger-session"),
		pending:  make(map[string]*ThreadNode),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Conversations returns a copy of the current conversation summaries.
func (s *Session) Conversations() []models.ConversationResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationResponse, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Thread returns the reply tree of the active conversation. Callers must not
// mutate the returned nodes.
func (s *Session) Thread() []*ThreadNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ThreadNode, len(s.thread))
	copy(out, s.thread)
	return out
}

// ActiveConversation returns the id of the open conversation, 0 when none.
func (s *Session) ActiveConversation() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Sending reports whether a send is currently awaiting confirmation.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// TotalUnread sums the unread counters across all conversations.
func (s *Session) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, conversation := range s.conversations {
		total += conversation.Unread
	}
	return total
}

// RefreshConversations fetches the conversation summaries from the store and
// replaces the local list. On failure the previous list is kept
// (stale-but-available) and the error returned. A response arriving after
// the context was cancelled is discarded.
func (s *Session) RefreshConversations(ctx context.Context) error {
	response, err := s.store.ListConversations(ctx, 1, s.pageSize)
	if err != nil {
		s.logger.Warn().Err(err).Msg("conversation refresh failed, keeping previous list")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	s.conversations = response.Conversations
	s.mu.Unlock()
	return nil
}

// OpenConversation loads the conversation's messages, rebuilds the reply
// tree and marks the conversation read. The local unread counter is zeroed
// optimistically before the mark-read call; if the server disagrees, the
// next poll tick reconciles.
func (s *Session) OpenConversation(ctx context.Context, conversationID uint) ([]*ThreadNode, error) {
	response, err := s.store.ListMessages(ctx, conversationID, 1, s.pageSize)
	if err != nil {
		return nil, err
	}

	thread := BuildThread(response.Messages)
	s.logOrphans(response.Messages)

	s.mu.Lock()
	s.activeID = conversationID
	s.thread = thread
	s.pending = make(map[string]*ThreadNode)
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations[i].Unread = 0
		}
	}
	s.mu.Unlock()

	if err := s.store.MarkConversationRead(ctx, conversationID); err != nil {
		// Optimistic zero stands; the polling loop is the backstop.
		s.logger.Warn().Err(err).Uint("conversation_id", conversationID).Msg("mark-read failed")
	}

	return s.Thread(), nil
}

// Send runs the optimistic send pipeline: validate, insert a provisional
// message, call the store, then reconcile. On success the provisional node
// is replaced in place by the authoritative message; on failure it is
// removed and the thread returns to its exact pre-send state. Sends are
// serialized per session; there is no automatic retry.
func (s *Session) Send(ctx context.Context, text string, photos []string, parentID *uint) (*models.Message, error) {
	if strings.TrimSpace(text) == "" && len(photos) == 0 {
		return nil, errs.ErrEmptyMessage
	}

	s.mu.Lock()
	conversationID := s.activeID
	s.mu.Unlock()
	if conversationID == 0 {
		return nil, errs.ErrNoActiveConversation
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	now := time.Now()
	localID := "tmp-" + uuid.NewString()
	provisional := &ThreadNode{
		Message: models.Message{
			ConversationID: conversationID,
			SenderID:       s.user.ID,
			Content:        text,
			Photos:         models.PhotoList(photos),
			ParentID:       parentID,
			SeenAt:         &now, // self-authored, always read
		},
		LocalID: localID,
		Pending: true,
	}
	provisional.Message.CreatedAt = now

	s.mu.Lock()
	s.insertNode(provisional, parentID)
	s.pending[localID] = provisional
	s.sending = true
	s.mu.Unlock()

	confirmed, err := s.store.CreateMessage(ctx, OutgoingMessage{
		ConversationID: conversationID,
		Content:        text,
		Photos:         photos,
		ParentID:       parentID,
	})

	s.mu.Lock()
	s.sending = false
	delete(s.pending, localID)
	if err != nil {
		s.removeNode(localID)
		s.mu.Unlock()
		return nil, err
	}

	node := s.findByLocalID(localID)
	if node != nil {
		node.Message = *confirmed
		node.LocalID = ""
		node.Pending = false
	}
	s.mu.Unlock()

	// Aggregator refresh so the conversation list reflects the new last
	// message. Failure is non-fatal; the poll loop catches up.
	if refreshErr := s.RefreshConversations(ctx); refreshErr != nil {
		s.logger.Debug().Err(refreshErr).Msg("post-send refresh failed")
	}

	return confirmed, nil
}

// EditMessage edits a message through the store and applies the result to
// the local thread on success only.
func (s *Session) EditMessage(ctx context.Context, messageID uint, content string) (*models.Message, error) {
	updated, err := s.store.EditMessage(ctx, messageID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if node := s.findByID(messageID); node != nil {
		node.Message.Content = updated.Content
		node.Message.EditedAt = updated.EditedAt
	}
	s.mu.Unlock()

	return updated, nil
}

// DeleteMessage soft-deletes through the store and tombstones the local node
// on success. The node keeps its place in the thread.
func (s *Session) DeleteMessage(ctx context.Context, messageID uint) error {
	if err := s.store.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.mu.Lock()
	if node := s.findByID(messageID); node != nil {
		node.Message.Tombstone()
	}
	s.mu.Unlock()

	return nil
}

// insertNode appends the provisional node as a root, or under its parent
// when the parent is present in the current thread. Callers hold s.mu.
func (s *Session) insertNode(node *ThreadNode, parentID *uint) {
	if parentID != nil {
		if parent := s.findByID(*parentID); parent != nil {
			parent.Replies = append(parent.Replies, node)
			return
		}
	}
	s.thread = append(s.thread, node)
}

// removeNode removes the node with the given local id from the thread,
// restoring the pre-insert state. Callers hold s.mu.
func (s *Session) removeNode(localID string) {
	s.thread = removeFromForest(s.thread, func(n *ThreadNode) bool {
		return n.LocalID == localID
	})
}

func (s *Session) findByLocalID(localID string) *ThreadNode {
	return findNode(s.thread, func(n *ThreadNode) bool { return n.LocalID == localID })
}

func (s *Session) findByID(messageID uint) *ThreadNode {
	return findNode(s.thread, func(n *ThreadNode) bool {
		return !n.Pending && n.Message.ID == messageID
	})
}

func (s *Session) logOrphans(messages []models.Message) {
	present := make(map[uint]struct{}, len(messages))
	for _, msg := range messages {
		present[msg.ID] = struct{}{}
	}
	for _, msg := range messages {
		if msg.ParentID == nil {
			continue
		}
		if _, ok := present[*msg.ParentID]; !ok {
			s.logger.Debug().
				Uint("message_id", msg.ID).
				Uint("parent_id", *msg.ParentID).
				Msg("orphaned reply promoted to root")
		}
	}
}

func findNode(roots []*ThreadNode, match func(*ThreadNode) bool) *ThreadNode {
	var found *ThreadNode
	Walk(roots, func(node *ThreadNode) {
		if found == nil && match(node) {
			found = node
		}
	})
	return found
}

// removeFromForest returns the forest without the first node matching the
// predicate. Children are scanned iteratively with an explicit stack.
func removeFromForest(roots []*ThreadNode, match func(*ThreadNode) bool) []*ThreadNode {
	for i, root := range roots {
		if match(root) {
			return append(roots[:i:i], roots[i+1:]...)
		}
	}

	stack := make([]*ThreadNode, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, child := range node.Replies {
			if match(child) {
				node.Replies = append(node.Replies[:i:i], node.Replies[i+1:]...)
				if len(node.Replies) == 0 {
					node.Replies = nil
				}
				return roots
			}
			stack = append(stack, child)
		}
	}
	return roots
}
