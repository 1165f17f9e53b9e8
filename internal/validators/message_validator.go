package validators

import (
	"strings"

	"chantierpro/internal/errs"
	"chantierpro/internal/models"
)

// ValidateOutgoingMessage enforces the send rule: a message must carry text
// or at least one photo attachment, and must target a conversation.
func ValidateOutgoingMessage(request *models.MessageRequest) []error {
	var errors []error
	if request == nil {
		errors = append(errors, errs.ErrInvalidRequest)
		return errors
	}

	if strings.TrimSpace(request.Content) == "" && len(request.Photos) == 0 {
		errors = append(errors, errs.ErrEmptyMessage)
	}

	if request.ConversationID == 0 {
		errors = append(errors, errs.ErrConversationNotFound)
	}

	return errors
}
