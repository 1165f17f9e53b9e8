package validators

import (
	"testing"

	"chantierpro/internal/errs"
	"chantierpro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutgoingMessage(t *testing.T) {
	tests := []struct {
		name    string
		request *models.MessageRequest
		want    []error
	}{
		{
			name:    "nil request",
			request: nil,
			want:    []error{errs.ErrInvalidRequest},
		},
		{
			name:    "text only",
			request: &models.MessageRequest{ConversationID: 1, Content: "Livraison reçue"},
			want:    nil,
		},
		{
			name:    "photos only",
			request: &models.MessageRequest{ConversationID: 1, Photos: []string{"http://minio/p.jpg"}},
			want:    nil,
		},
		{
			name:    "whitespace body and no photos",
			request: &models.MessageRequest{ConversationID: 1, Content: "  \t\n "},
			want:    []error{errs.ErrEmptyMessage},
		},
		{
			name:    "missing conversation",
			request: &models.MessageRequest{Content: "hello"},
			want:    []error{errs.ErrConversationNotFound},
		},
		{
			name:    "empty body and missing conversation",
			request: &models.MessageRequest{},
			want:    []error{errs.ErrEmptyMessage, errs.ErrConversationNotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateOutgoingMessage(tt.request)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.ErrorIs(t, got[i], tt.want[i])
			}
		})
	}
}
