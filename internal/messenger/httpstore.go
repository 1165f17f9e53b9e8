package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chantierpro/internal/errs"
	"chantierpro/internal/logging"
	"chantierpro/internal/models"

	"github.com/rs/zerolog"
)

const defaultHTTPTimeout = 15 * time.Second

// HTTPStore implements Store against the ChantierPro messaging API using the
// bearer token obtained at login.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
	logger  zerolog.Logger
}

func NewHTTPStore(baseURL, token string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPStore{
		baseURL: baseURL,
		token:   token,
		client:  client,
		logger:  logging.Component("http-store"),
	}
}

// envelope mirrors models.Response with raw data so each call can decode its
// own payload. Errors arrive as plain strings, which maps them back onto the
// errs taxonomy for free.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func (hs *HTTPStore) ListConversations(ctx context.Context, page, size int) (*models.ConversationListResponse, error) {
	url := fmt.Sprintf("%s/conversations?page=%d&size=%d", hs.baseURL, page, size)

	var response models.ConversationListResponse
	if err := hs.do(ctx, http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (hs *HTTPStore) ListMessages(ctx context.Context, conversationID uint, page, size int) (*models.MessageListResponse, error) {
	url := fmt.Sprintf("%s/conversations/%d/messages?page=%d&size=%d", hs.baseURL, conversationID, page, size)

	var response models.MessageListResponse
	if err := hs.do(ctx, http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (hs *HTTPStore) CreateMessage(ctx context.Context, outgoing OutgoingMessage) (*models.Message, error) {
	body := models.MessageRequest{
		ConversationID: outgoing.ConversationID,
		Content:        outgoing.Content,
		Photos:         outgoing.Photos,
		ParentID:       outgoing.ParentID,
	}

	var message models.Message
	if err := hs.do(ctx, http.MethodPost, hs.baseURL+"/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (hs *HTTPStore) EditMessage(ctx context.Context, messageID uint, content string) (*models.Message, error) {
	url := fmt.Sprintf("%s/messages/%d", hs.baseURL, messageID)
	body := models.UpdateMessageRequest{Content: content}

	var message models.Message
	if err := hs.do(ctx, http.MethodPut, url, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (hs *HTTPStore) DeleteMessage(ctx context.Context, messageID uint) error {
	url := fmt.Sprintf("%s/messages/%d", hs.baseURL, messageID)
	return hs.do(ctx, http.MethodDelete, url, nil, nil)
}

func (hs *HTTPStore) MarkConversationRead(ctx context.Context, conversationID uint) error {
	body := models.MarkReadRequest{ConversationID: conversationID}
	return hs.do(ctx, http.MethodPost, hs.baseURL+"/messages/mark-read", body, nil)
}

func (hs *HTTPStore) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+hs.token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := hs.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	defer response.Body.Close()

	var env envelope
	if err := json.NewDecoder(response.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decoding response: %v", errs.ErrNetwork, err)
	}

	if !env.Success {
		hs.logger.Debug().
			Str("method", method).
			Str("url", url).
			Int("status", response.StatusCode).
			Strs("errors", env.Errors).
			Msg("store call rejected")
		return storeError(response.StatusCode, env.Errors)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decoding payload: %v", errs.ErrNetwork, err)
		}
	}
	return nil
}

// storeError maps an API failure back onto the error taxonomy. The server
// serializes errs.Error values as their message strings, so the first
// recognizable one round-trips exactly.
func storeError(status int, messages []string) error {
	if len(messages) > 0 {
		return errs.Error(messages[0])
	}
	switch status {
	case http.StatusNotFound:
		return errs.ErrMessageNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.ErrUnauthorized
	default:
		return errs.ErrInvalidRequest
	}
}
