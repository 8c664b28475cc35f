// Package mailer delivers the account lifecycle emails. Delivery is
// fire-and-forget from the caller's perspective: a failed send surfaces an
// error but never rolls back the account or token it was issued for.
package mailer

import (
	"context"
	"log"
)

type Mailer interface {
	SendActivationEmail(ctx context.Context, to, name, activationURL string) error
	SendPasswordResetEmail(ctx context.Context, to, name, resetURL string) error
}

// LogMailer stands in when no email provider is configured (local
// development, tests). It logs the link instead of sending it.
type LogMailer struct{}

func (LogMailer) SendActivationEmail(_ context.Context, to, _, activationURL string) error {
	log.Printf("activation email for %s: %s", to, activationURL)
	return nil
}

func (LogMailer) SendPasswordResetEmail(_ context.Context, to, _, resetURL string) error {
	log.Printf("password reset email for %s: %s", to, resetURL)
	return nil
}
