package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Narrow update statements: each lifecycle mutation touches only the
// columns it owns, and every one of them refreshes updated_at. The
// salt/hashed_api_key pair is rewritten by a single statement so the two
// can never drift apart.
var RotateAPIKeySQL = `UPDATE "accounts" AS "acc"
SET
	"salt" = ?,
	"hashed_api_key" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE (
	"acc"."email" = ?
) RETURNING *;`

var SetPasswordSQL = `UPDATE "accounts" AS "acc"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE (
	"acc"."email" = ?
) RETURNING *;`

var SetActiveSQL = `UPDATE "accounts" AS "acc"
SET
	"is_active" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE (
	"acc"."email" = ?
) RETURNING *;`

var SetDisabledSQL = `UPDATE "accounts" AS "acc"
SET
	"disabled" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE (
	"acc"."email" = ?
) RETURNING *;`

type Accounts interface {
	repository.Repository[*Account]

	Register(ctx context.Context, record *Account) (*Account, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)

	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)

	RotateKey(ctx context.Context, email, salt, hashedKey string) error
	RotateKeyTx(ctx context.Context, tx bun.IDB, email, salt, hashedKey string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
	SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error
	SetActive(ctx context.Context, email string, active bool) error
	SetActiveTx(ctx context.Context, tx bun.IDB, email string, active bool) error
	SetDisabled(ctx context.Context, email string, disabled bool) error
	SetDisabledTx(ctx context.Context, tx bun.IDB, email string, disabled bool) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) Register(ctx context.Context, record *Account) (*Account, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *accounts) RegisterTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	return a.CreateTx(ctx, tx, record)
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *accounts) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *accounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	record := &Account{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) RotateKey(ctx context.Context, email, salt, hashedKey string) error {
	return a.RotateKeyTx(ctx, a.db, email, salt, hashedKey)
}

func (a *accounts) RotateKeyTx(ctx context.Context, tx bun.IDB, email, salt, hashedKey string) error {
	return a.execNarrowUpdate(ctx, tx, RotateAPIKeySQL, email, salt, hashedKey, email)
}

func (a *accounts) SetPassword(ctx context.Context, email, passwordHash string) error {
	return a.SetPasswordTx(ctx, a.db, email, passwordHash)
}

func (a *accounts) SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	return a.execNarrowUpdate(ctx, tx, SetPasswordSQL, email, passwordHash, email)
}

func (a *accounts) SetActive(ctx context.Context, email string, active bool) error {
	return a.SetActiveTx(ctx, a.db, email, active)
}

func (a *accounts) SetActiveTx(ctx context.Context, tx bun.IDB, email string, active bool) error {
	return a.execNarrowUpdate(ctx, tx, SetActiveSQL, email, active, email)
}

func (a *accounts) SetDisabled(ctx context.Context, email string, disabled bool) error {
	return a.SetDisabledTx(ctx, a.db, email, disabled)
}

func (a *accounts) SetDisabledTx(ctx context.Context, tx bun.IDB, email string, disabled bool) error {
	return a.execNarrowUpdate(ctx, tx, SetDisabledSQL, email, disabled, email)
}

func (a *accounts) execNarrowUpdate(ctx context.Context, tx bun.IDB, query string, email string, args ...any) error {
	res, err := a.Repository.RawTx(ctx, tx, query, args...)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"email": email,
			})
	}

	return nil
}
