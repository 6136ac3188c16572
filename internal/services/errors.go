package services

import "errors"

var (
	// ErrAlreadyPending rejects a submission while an application is
	// still under review
	ErrAlreadyPending = errors.New("application already pending review")

	// ErrNotMember rejects a submission from a user outside the guild
	ErrNotMember = errors.New("user is not a guild member")
)
