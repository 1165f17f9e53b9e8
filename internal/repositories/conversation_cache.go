package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chantierpro/internal/logging"
	"chantierpro/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const conversationCacheTTL = 30 * time.Second

// ConversationCache keeps per-user conversation summaries in Redis so the
// polling clients do not hit postgres on every tick. Entries are dropped
// whenever a message lands in, or a read happens in, one of the user's
// conversations.
type ConversationCache struct {
	redis  *redis.Client
	ctx    context.Context
	logger zerolog.Logger
}

func NewConversationCache(redis *redis.Client, ctx context.Context) *ConversationCache {
	return &ConversationCache{
		redis:  redis,
		ctx:    ctx,
		logger: logging.Component("conversation-cache"),
	}
}

func (cc *ConversationCache) Get(userID uint, page, size int) (*models.ConversationListResponse, bool) {
	if cc.redis == nil {
		return nil, false
	}

	payload, err := cc.redis.Get(cc.ctx, cc.key(userID, page, size)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cc.logger.Warn().Err(err).Msg("cache read failed")
		}
		return nil, false
	}

	var response models.ConversationListResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		cc.logger.Warn().Err(err).Msg("cache entry corrupt, dropping")
		cc.redis.Del(cc.ctx, cc.key(userID, page, size))
		return nil, false
	}
	return &response, true
}

func (cc *ConversationCache) Set(userID uint, page, size int, response *models.ConversationListResponse) {
	if cc.redis == nil || response == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		cc.logger.Warn().Err(err).Msg("cache marshal failed")
		return
	}
	if err := cc.redis.Set(cc.ctx, cc.key(userID, page, size), payload, conversationCacheTTL).Err(); err != nil {
		cc.logger.Warn().Err(err).Msg("cache write failed")
	}
}

// Invalidate drops all cached pages for the given users.
func (cc *ConversationCache) Invalidate(userIDs ...uint) {
	if cc.redis == nil {
		return
	}

	for _, userID := range userIDs {
		pattern := fmt.Sprintf("conversations:%d:*", userID)
		iter := cc.redis.Scan(cc.ctx, 0, pattern, 0).Iterator()
		for iter.Next(cc.ctx) {
			cc.redis.Del(cc.ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			cc.logger.Warn().Err(err).Uint("user_id", userID).Msg("cache invalidation scan failed")
		}
	}
}

func (cc *ConversationCache) key(userID uint, page, size int) string {
	return fmt.Sprintf("conversations:%d:p%d:s%d", userID, page, size)
}
