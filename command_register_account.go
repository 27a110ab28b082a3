package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterAccountMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Account email, the natural key."`
	Password   string `json:"password" doc:"Raw login password, stored only as a bcrypt hash."`
	OnResponse func(*RegisterAccountResponse)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountResponse struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type RegisterAccountHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

func NewRegisterAccountHandler(repo RepositoryManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		repo:     repo,
		notifier: stdoutNotifier{},
		logger:   defLogger{},
	}
}

func (h *RegisterAccountHandler) WithNotifier(n Notifier) *RegisterAccountHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

func (h *RegisterAccountHandler) WithLogger(l Logger) *RegisterAccountHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	account := &Account{}
	resp := &RegisterAccountResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrEmailTaken
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Email = event.Email
		account.PasswordHash = hash
		// is_active stays false until email verification; the key pair
		// stays empty until the first post-verification rotation.

		// email is the natural key, so the ID is derived from it
		if id, err := hashid.NewUUID(event.Email); err == nil {
			account.ID = id
		}

		if account, err = h.repo.Accounts().RegisterTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		resp.Email = account.Email
		resp.APIKey = NewAPIKey()

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	// delivery is best effort; the created account stands either way
	if err := h.notifier.SendVerification(ctx, resp.Email, resp.APIKey); err != nil {
		h.logger.Error("verification notification failed for %s: %v", resp.Email, err)
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
