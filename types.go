package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a caller authenticated by API key
type Identity interface {
	ID() string
	Email() string
	Superuser() bool
	Capabilities() []string
}

// Notifier delivers issued tokens to an account's email address. Send
// failures are reportable but the lifecycle commands treat delivery as
// best effort.
type Notifier interface {
	SendVerification(ctx context.Context, email, apiKey string) error
	SendKeyReset(ctx context.Context, email, apiKey string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
