// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package email delivers transactional mail over SMTP.

Templates are HTML files embedded at build time and rendered with
html/template. Every delivery attempt is recorded in the email log so
operators can audit what was (and was not) sent.
*/
package email

import (
	"context"
	"time"
)

// LogType classifies an email log entry.
type LogType string

const (
	LogSent   LogType = "sent"
	LogFailed LogType = "failed"
)

// Template names as stored in the log and resolved against the embedded FS.
const (
	TemplatePasswordReset       = "password_reset"
	TemplateJubileeConfirmation = "jubilee_confirmation"
)

// LogEntry records a single delivery attempt.
type LogEntry struct {
	ID             string    `json:"id"`
	RecipientEmail string    `json:"recipientEmail"`
	RecipientName  string    `json:"recipientName,omitempty"`
	Subject        string    `json:"subject"`
	TemplateName   string    `json:"templateName"`
	Type           LogType   `json:"type"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	SentAt         time.Time `json:"sentAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LogRepository persists email log entries.
type LogRepository interface {
	Record(context context.Context, entry *LogEntry) error
}
