package tourauth

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// NoOpMailer discards every message. It is the default when no mailer is
// attached, which keeps local development working without an SMTP account;
// confirmation and reset links then exist only in audit trails and tests.
type NoOpMailer struct{}

// SendWelcome describes the sendwelcome operation and its observable behavior.
//
// SendWelcome does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpMailer) SendWelcome(context.Context, UserRecord, string) error { return nil }

// SendPasswordReset describes the sendpasswordreset operation and its observable behavior.
//
// SendPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpMailer) SendPasswordReset(context.Context, UserRecord, string) error { return nil }

// LogMailer writes a one-line summary of each message to w instead of
// delivering it. Intended for development setups where the operator reads
// the confirm/reset links straight off the process output.
type LogMailer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogMailer describes the newlogmailer operation and its observable behavior.
//
// NewLogMailer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewLogMailer(w io.Writer) *LogMailer {
	return &LogMailer{w: w}
}

// SendWelcome describes the sendwelcome operation and its observable behavior.
//
// SendWelcome may return an error when input validation, dependency calls, or security checks fail.
// SendWelcome does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *LogMailer) SendWelcome(_ context.Context, user UserRecord, confirmLink string) error {
	return m.write("welcome", user.Email, confirmLink)
}

// SendPasswordReset describes the sendpasswordreset operation and its observable behavior.
//
// SendPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// SendPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *LogMailer) SendPasswordReset(_ context.Context, user UserRecord, resetLink string) error {
	return m.write("password-reset", user.Email, resetLink)
}

func (m *LogMailer) write(kind, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.w, "mail %s to=%s link=%s\n", kind, email, link)
	return err
}
