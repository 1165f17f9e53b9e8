package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrUserAlreadyExists  = Error("user already exists")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidToken       = Error("invalid token")
	ErrInvalidEmail       = Error("invalid email")
	ErrInvalidPassword    = Error("invalid password")
	ErrInvalidUser        = Error("invalid user")
	ErrInvalidRequest     = Error("invalid request")
	ErrInvalidParams      = Error("invalid params")
	ErrInvalidPageOrSize  = Error("invalid page or size")
	ErrFirstName          = Error("first name is empty or too short")
	ErrLastName           = Error("last name is empty or too short")
	ErrUnauthorized       = Error("unauthorized")

	// Validation failures on outgoing messages
	ErrEmptyMessage          = Error("message is empty and has no attachments")
	ErrConversationNotFound  = Error("conversation not found")
	ErrNoActiveConversation  = Error("no active conversation")
	ErrNotConversationMember = Error("user is not a member of the conversation")
	ErrParentMessageNotFound = Error("parent message not found in conversation")
	ErrMessageAlreadyDeleted = Error("message has been deleted")

	// Authorization on edit/delete
	ErrNotMessageSender = Error("only the sender can modify the message")

	ErrMessageNotFound = Error("message not found")

	// Transport failure talking to the message store
	ErrNetwork = Error("network error")

	ErrNoneOfMessagesSeen = Error("none of the messages were marked as seen")

	ErrNoFileUploaded           = Error("no file uploaded")
	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
	ErrUnableToUploadFile       = Error("unable to upload file")
)
