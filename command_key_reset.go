package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RequestKeyResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email, the natural key."`
	Password   string `json:"password" doc:"Current login password; must verify before a key is issued."`
	OnResponse func(*KeyResetResponse)
}

func (e RequestKeyResetMessage) Type() string { return "account.key_reset" }

type KeyResetResponse struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type RequestKeyResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

func NewRequestKeyResetHandler(repo RepositoryManager) *RequestKeyResetHandler {
	return &RequestKeyResetHandler{
		repo:     repo,
		notifier: stdoutNotifier{},
		logger:   defLogger{},
	}
}

func (h *RequestKeyResetHandler) WithNotifier(n Notifier) *RequestKeyResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

func (h *RequestKeyResetHandler) WithLogger(l Logger) *RequestKeyResetHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *RequestKeyResetHandler) Execute(ctx context.Context, event RequestKeyResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during API key reset",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestKeyResetHandler) execute(ctx context.Context, event RequestKeyResetMessage) error {
	resp := &KeyResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for key reset")
		}

		// first failing check wins: verification, then the admin lock,
		// then the credential
		if !account.IsActive {
			return ErrNotVerified
		}

		if account.Disabled {
			return ErrAccountDisabled
		}

		if err := ComparePasswordAndHash(event.Password, account.PasswordHash); err != nil {
			return ErrPasswordMismatch
		}

		apiKey := NewAPIKey()
		if err := account.RotateAPIKey(apiKey); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash rotated key")
		}

		if err := h.repo.Accounts().RotateKeyTx(ctx, tx, account.Email, account.Salt, account.HashedAPIKey); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store rotated key")
		}

		resp.Email = account.Email
		resp.APIKey = apiKey

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "API key reset transaction failed")
	}

	// the raw key exists only in this response and in the outbound mail
	if err := h.notifier.SendKeyReset(ctx, resp.Email, resp.APIKey); err != nil {
		h.logger.Error("key reset notification failed for %s: %v", resp.Email, err)
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
