package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ChangePasswordMessage carries the email of an already-authenticated
// caller; the API-key guard runs before this command is reachable.
type ChangePasswordMessage struct {
	Email    string `json:"email" example:"pepe.rone@example.com" doc:"Email of the authenticated account."`
	Password string `json:"password" doc:"New raw login password."`
}

func (e ChangePasswordMessage) Type() string { return "account.change_password" }

type ChangePasswordHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewChangePasswordHandler(repo RepositoryManager) *ChangePasswordHandler {
	return &ChangePasswordHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *ChangePasswordHandler) WithLogger(l Logger) *ChangePasswordHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *ChangePasswordHandler) Execute(ctx context.Context, event ChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ChangePasswordHandler) execute(ctx context.Context, event ChangePasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// re-fetch: the account may have been locked or removed since
		// the guard ran
		account, err := h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password change")
		}

		if account.Disabled {
			return ErrAccountDisabled
		}

		if !account.IsActive {
			return ErrNotVerified
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		// touches password_hash only; the key pair is left untouched
		if err := h.repo.Accounts().SetPasswordTx(ctx, tx, account.Email, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "password change transaction failed")
	}

	return nil
}
