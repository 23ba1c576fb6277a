package domain

// Commands carry the acting user explicitly; no operation reads an ambient session.

type CreatePostCommand struct {
	CreatorID   string `validate:"required"`
	Category    string `validate:"required"`
	Description string `validate:"required"`
}

type SendMessageCommand struct {
	ChannelID ChannelID
	SenderID  string
	Text      string
	// ClientToken deduplicates retried sends. Empty means no deduplication.
	ClientToken string
}

type SignUpCommand struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Phone           string `validate:"required"`
	Address         string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}
