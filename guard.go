package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountFinder is the minimal store the guard needs
type AccountFinder interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// KeyGuard authenticates callers by claimed email plus raw API key. It is
// invoked before ChangePassword and before any access to the farm-data
// resources.
type KeyGuard struct {
	store  AccountFinder
	logger Logger
}

func NewKeyGuard(store AccountFinder) *KeyGuard {
	return &KeyGuard{
		store:  store,
		logger: defLogger{},
	}
}

func (g *KeyGuard) WithLogger(l Logger) *KeyGuard {
	if l != nil {
		g.logger = l
	}
	return g
}

// VerifyKey fails closed: a missing account, a disabled account, and a
// key that does not verify all surface as ErrAPIKeyRejected.
func (g *KeyGuard) VerifyKey(ctx context.Context, email, apiKey string) (Identity, error) {
	account, err := g.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrAPIKeyRejected
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during key verification")
	}

	if account.Disabled {
		return nil, ErrAPIKeyRejected
	}

	// an account with no issued key has an empty hash, which never verifies
	if err := account.CheckAPIKey(apiKey); err != nil {
		g.logger.Debug("API key rejected for %s", email)
		return nil, ErrAPIKeyRejected
	}

	aid := keyIdentity{
		id:        account.ID.String(),
		email:     account.Email,
		superuser: account.IsSuperuser,
		access:    account.EndpointAccess,
	}

	return aid, nil
}

type keyIdentity struct {
	id        string
	email     string
	superuser bool
	access    []string
}

func (k keyIdentity) ID() string {
	return k.id
}

func (k keyIdentity) Email() string {
	return k.email
}

func (k keyIdentity) Superuser() bool {
	return k.superuser
}

func (k keyIdentity) Capabilities() []string {
	return k.access
}

var _ Identity = keyIdentity{}
