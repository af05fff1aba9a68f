// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/nicaa/alumni-api/internal/jubilee"
	"github.com/nicaa/alumni-api/internal/users/auth"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the SMTP mailer.
type Options struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	SenderName   string
	ContactPhone string
}

/*
Mailer renders embedded templates and delivers them over SMTP.

It implements auth.ResetMailer and jubilee.ConfirmationMailer. Each delivery
attempt, successful or not, is recorded in the email log; a failing log write
never fails the delivery itself.
*/
type Mailer struct {
	client    *mail.Client
	options   Options
	templates *template.Template
	logStore  LogRepository
	logger    *slog.Logger

	// deliver is swapped out in tests to capture outgoing messages.
	deliver func(context context.Context, message *mail.Msg) error
}

/*
NewMailer creates the SMTP mailer.

Parameters:
  - options: SMTP endpoint, credentials and sender identity.
  - logStore: persistence for the email log.
  - logger: structured logger.

Returns:
  - *Mailer: ready to use mailer.
  - error: invalid SMTP options or unparsable templates.
*/
func NewMailer(options Options, logStore LogRepository, logger *slog.Logger) (*Mailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("email_templates_parse_failed: %w", err)
	}

	client, err := mail.NewClient(options.Host,
		mail.WithPort(options.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(options.Username),
		mail.WithPassword(options.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("email_client_init_failed: %w", err)
	}

	mailer := &Mailer{
		client:    client,
		options:   options,
		templates: templates,
		logStore:  logStore,
		logger:    logger,
	}
	mailer.deliver = func(context context.Context, message *mail.Msg) error {
		return client.DialAndSendWithContext(context, message)
	}
	return mailer, nil
}

// CheckHealth verifies the SMTP endpoint accepts connections.
func (mailer *Mailer) CheckHealth(context context.Context) error {
	if err := mailer.client.DialWithContext(context); err != nil {
		return fmt.Errorf("email_health_check_failed: %w", err)
	}
	return mailer.client.Close()
}

func (mailer *Mailer) render(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := mailer.templates.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return "", fmt.Errorf("email_template_render_failed: %w", err)
	}
	return body.String(), nil
}

func (mailer *Mailer) send(context context.Context, recipientEmail, recipientName, subject, templateName string, data interface{}) error {
	html, err := mailer.render(templateName, data)
	if err != nil {
		return err
	}

	message := mail.NewMsg()
	if err := message.FromFormat(mailer.options.SenderName, mailer.options.FromAddress); err != nil {
		return fmt.Errorf("email_sender_invalid: %w", err)
	}
	if err := message.To(recipientEmail); err != nil {
		return fmt.Errorf("email_recipient_invalid: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(mail.TypeTextHTML, html)

	deliveryErr := mailer.deliver(context, message)
	mailer.recordAttempt(context, recipientEmail, recipientName, subject, templateName, deliveryErr)
	if deliveryErr != nil {
		return fmt.Errorf("email_delivery_failed: %w", deliveryErr)
	}
	return nil
}

func (mailer *Mailer) recordAttempt(context context.Context, recipientEmail, recipientName, subject, templateName string, deliveryErr error) {
	now := time.Now()
	entry := &LogEntry{
		ID:             uuid.New(),
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateName:   templateName,
		Type:           LogSent,
		SentAt:         now,
		CreatedAt:      now,
	}
	if deliveryErr != nil {
		entry.Type = LogFailed
		entry.ErrorMessage = deliveryErr.Error()
	}
	if err := mailer.logStore.Record(context, entry); err != nil {
		mailer.logger.Warn("email log write failed",
			slog.String("recipient", recipientEmail),
			slog.String("error", err.Error()))
	}
}

// # Transactional Messages

type resetTemplateData struct {
	Association  string
	ContactPhone string
	Name         string
	ResetLink    string
}

// SendPasswordReset delivers a password-reset link to the account holder.
func (mailer *Mailer) SendPasswordReset(context context.Context, user *auth.User, resetLink string) error {
	name := user.FirstName + " " + user.LastName
	return mailer.send(context, user.Email, name,
		"Reset your NICAA password", TemplatePasswordReset,
		resetTemplateData{
			Association:  mailer.options.SenderName,
			ContactPhone: mailer.options.ContactPhone,
			Name:         name,
			ResetLink:    resetLink,
		})
}

type jubileeTemplateData struct {
	Association  string
	ContactPhone string
	Name         string
	SecretCode   string
	Category     string
	Batch        string
	Group        string
}

// SendJubileeConfirmation delivers a registration confirmation carrying the
// participant's secret code.
func (mailer *Mailer) SendJubileeConfirmation(context context.Context, participant *jubilee.Participant) error {
	name := participant.FullName
	switch participant.ParticipantCategory {
	case jubilee.CategoryGuest:
		name = participant.GuestName
	case jubilee.CategoryBaby:
		name = participant.BabyName
	}

	batch := ""
	if participant.HSCPassingYear > 0 {
		batch = fmt.Sprintf("%d", participant.HSCPassingYear)
	} else if participant.MainParticipantBatch > 0 {
		batch = fmt.Sprintf("%d", participant.MainParticipantBatch)
	}
	group := string(participant.Group)
	if group == "" {
		group = string(participant.MainParticipantGroup)
	}

	return mailer.send(context, participant.Email, name,
		"Your Silver Jubilee registration is confirmed", TemplateJubileeConfirmation,
		jubileeTemplateData{
			Association:  mailer.options.SenderName,
			ContactPhone: mailer.options.ContactPhone,
			Name:         name,
			SecretCode:   participant.SecretCode,
			Category:     string(participant.ParticipantCategory),
			Batch:        batch,
			Group:        group,
		})
}
