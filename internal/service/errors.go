package service

import "errors"

var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidCreds  = errors.New("invalid email or password")

	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrFileNotFound         = errors.New("file not found")

	ErrNotParticipant     = errors.New("you are not a participant in this conversation")
	ErrNotAdmin           = errors.New("only admins can perform this action")
	ErrNotGroup           = errors.New("operation not allowed on non-group conversations")
	ErrAlreadyParticipant = errors.New("user is already in the conversation")
	ErrNotOwnProfile      = errors.New("you can only update your own profile")

	ErrGroupNameRequired = errors.New("group conversations require a name")
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrInvalidStatus     = errors.New("invalid status")
)
