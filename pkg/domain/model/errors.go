package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrTicketNotFound     = goerr.New("ticket not found")
	ErrEpicHasNoTimeline  = goerr.New("cannot compute elapsed time for an Epic ticket")
	ErrUserEmailNotFound  = goerr.New("user email not found")
	ErrSlackNotConfigured = goerr.New("slack client is not configured")
)
