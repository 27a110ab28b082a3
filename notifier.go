package accounts

import (
	"context"
	"fmt"
)

// stdoutNotifier is the development default; real deployments wire the
// SMTP sink from the notify package.
type stdoutNotifier struct{}

func (stdoutNotifier) SendVerification(_ context.Context, email, apiKey string) error {
	printEmailNotification("verification", email, apiKey)
	return nil
}

func (stdoutNotifier) SendKeyReset(_ context.Context, email, apiKey string) error {
	printEmailNotification("key reset", email, apiKey)
	return nil
}

func printEmailNotification(kind, email, apiKey string) {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("kind: %s\n", kind)
	fmt.Printf("to: %s\n", email)
	fmt.Printf("api key: %s\n", apiKey)
	if kind == "verification" {
		fmt.Printf("link: /auth/verify?email=%s\n", email)
	}
}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return stdoutNotifier{}
	}
	return n
}
