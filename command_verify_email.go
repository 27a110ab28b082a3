package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com" doc:"Email address to mark as verified."`
}

func (e VerifyEmailMessage) Type() string { return "account.verify_email" }

type VerifyEmailHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *VerifyEmailHandler) WithLogger(l Logger) *VerifyEmailHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for verification")
		}

		if account.Disabled {
			return ErrAccountDisabled
		}

		// re-verifying is an error, not a no-op
		if account.IsActive {
			return ErrAlreadyVerified
		}

		if err := h.repo.Accounts().SetActiveTx(ctx, tx, account.Email, true); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	return nil
}
