package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// DisableAccount and EnableAccount flip the administrative lock. Both
// directions report an unknown email explicitly, and both reject a flip
// to the state the account is already in.

type DisableAccountMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com" doc:"Email of the account to lock."`
}

func (e DisableAccountMessage) Type() string { return "account.disable" }

type EnableAccountMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com" doc:"Email of the account to unlock."`
}

func (e EnableAccountMessage) Type() string { return "account.enable" }

type SetAccountEnabledHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewSetAccountEnabledHandler(repo RepositoryManager) *SetAccountEnabledHandler {
	return &SetAccountEnabledHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *SetAccountEnabledHandler) WithLogger(l Logger) *SetAccountEnabledHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *SetAccountEnabledHandler) ExecuteDisable(ctx context.Context, event DisableAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled while disabling account",
		)
	default:
		return h.setDisabled(ctx, event.Email, true)
	}
}

func (h *SetAccountEnabledHandler) ExecuteEnable(ctx context.Context, event EnableAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled while enabling account",
		)
	default:
		return h.setDisabled(ctx, event.Email, false)
	}
}

func (h *SetAccountEnabledHandler) setDisabled(ctx context.Context, email string, disabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := h.repo.Accounts().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account")
		}

		if account.Disabled == disabled {
			if disabled {
				return ErrAccountAlreadyDisabled
			}
			return ErrAccountAlreadyEnabled
		}

		if err := h.repo.Accounts().SetDisabledTx(ctx, tx, account.Email, disabled); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update account lock state")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account lock transaction failed")
	}

	return nil
}
