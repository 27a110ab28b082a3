package accounts_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	accounts "github.com/agroapi/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// memStore is an in-memory Accounts implementation keyed by email. It
// backs the lifecycle test below so the full command chain runs without
// a database.
type memStore struct {
	repository.Repository[*accounts.Account]

	mu      sync.Mutex
	records map[string]*accounts.Account
}

var (
	_ accounts.Accounts          = (*memStore)(nil)
	_ accounts.RepositoryManager = (*memRepositoryManager)(nil)
)

func newMemStore() *memStore {
	return &memStore{records: map[string]*accounts.Account{}}
}

func (s *memStore) get(email string) (*accounts.Account, error) {
	if rec, ok := s.records[email]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, notFoundErr()
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(email)
}

func (s *memStore) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.Account, error) {
	return s.GetByEmail(ctx, email)
}

func (s *memStore) Register(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.Email]; ok {
		return nil, goerrors.New("duplicate email", goerrors.CategoryConflict).
			WithCode(goerrors.CodeConflict)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if len(record.EndpointAccess) == 0 {
		record.EndpointAccess = []string{accounts.CapabilityUser}
	}

	cp := *record
	s.records[record.Email] = &cp
	return record, nil
}

func (s *memStore) RegisterTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	return s.Register(ctx, record)
}

func (s *memStore) Create(ctx context.Context, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	return s.Register(ctx, record)
}

func (s *memStore) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	return s.Register(ctx, record)
}

func (s *memStore) update(email string, f func(*accounts.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return notFoundErr()
	}

	f(rec)
	return nil
}

func (s *memStore) RotateKey(ctx context.Context, email, salt, hashedKey string) error {
	return s.update(email, func(a *accounts.Account) {
		a.Salt = salt
		a.HashedAPIKey = hashedKey
	})
}

func (s *memStore) RotateKeyTx(ctx context.Context, tx bun.IDB, email, salt, hashedKey string) error {
	return s.RotateKey(ctx, email, salt, hashedKey)
}

func (s *memStore) SetPassword(ctx context.Context, email, passwordHash string) error {
	return s.update(email, func(a *accounts.Account) { a.PasswordHash = passwordHash })
}

func (s *memStore) SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	return s.SetPassword(ctx, email, passwordHash)
}

func (s *memStore) SetActive(ctx context.Context, email string, active bool) error {
	return s.update(email, func(a *accounts.Account) { a.IsActive = active })
}

func (s *memStore) SetActiveTx(ctx context.Context, tx bun.IDB, email string, active bool) error {
	return s.SetActive(ctx, email, active)
}

func (s *memStore) SetDisabled(ctx context.Context, email string, disabled bool) error {
	return s.update(email, func(a *accounts.Account) { a.Disabled = disabled })
}

func (s *memStore) SetDisabledTx(ctx context.Context, tx bun.IDB, email string, disabled bool) error {
	return s.SetDisabled(ctx, email, disabled)
}

type memRepositoryManager struct {
	store *memStore
}

func (m *memRepositoryManager) Validate() error { return nil }
func (m *memRepositoryManager) MustValidate()   {}

func (m *memRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *memRepositoryManager) Accounts() accounts.Accounts { return m.store }

// recordingNotifier captures outbound mail instead of sending it.
type recordingNotifier struct {
	mu     sync.Mutex
	verify []string
	resets []string
}

func (n *recordingNotifier) SendVerification(ctx context.Context, email, apiKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verify = append(n.verify, apiKey)
	return nil
}

func (n *recordingNotifier) SendKeyReset(ctx context.Context, email, apiKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, apiKey)
	return nil
}

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	repo := &memRepositoryManager{store: store}
	notifier := &recordingNotifier{}
	guard := accounts.NewKeyGuard(store).WithLogger(testLogger{})

	const email = "alice@example.com"

	// register: the account exists, inactive, with no usable key
	var issued string
	err := accounts.NewRegisterAccountHandler(repo).
		WithNotifier(notifier).
		WithLogger(testLogger{}).
		Execute(ctx, accounts.RegisterAccountMessage{
			Email:    email,
			Password: "first-password1!",
			OnResponse: func(r *accounts.RegisterAccountResponse) {
				issued = r.APIKey
			},
		})
	require.NoError(t, err)
	require.NotEmpty(t, issued)
	require.Len(t, notifier.verify, 1)
	assert.Equal(t, issued, notifier.verify[0])

	// the registration key was never persisted, so it cannot authenticate
	_, err = guard.VerifyKey(ctx, email, issued)
	require.Error(t, err)

	resetHandler := accounts.NewRequestKeyResetHandler(repo).
		WithNotifier(notifier).
		WithLogger(testLogger{})

	// a key reset before verification is refused
	err = resetHandler.Execute(ctx, accounts.RequestKeyResetMessage{
		Email:    email,
		Password: "first-password1!",
	})
	require.Error(t, err)
	assertTextCode(t, err, accounts.TextCodeNotVerified)

	// verify the email; a second attempt is an error, not a no-op
	verifyHandler := accounts.NewVerifyEmailHandler(repo).WithLogger(testLogger{})
	require.NoError(t, verifyHandler.Execute(ctx, accounts.VerifyEmailMessage{Email: email}))

	err = verifyHandler.Execute(ctx, accounts.VerifyEmailMessage{Email: email})
	require.Error(t, err)
	assertTextCode(t, err, accounts.TextCodeAlreadyVerified)

	// first working key
	var key1 string
	err = resetHandler.Execute(ctx, accounts.RequestKeyResetMessage{
		Email:    email,
		Password: "first-password1!",
		OnResponse: func(r *accounts.KeyResetResponse) {
			key1 = r.APIKey
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, key1)
	assert.NotEqual(t, issued, key1)

	identity, err := guard.VerifyKey(ctx, email, key1)
	require.NoError(t, err)
	assert.Equal(t, email, identity.Email())

	// change the password; the key keeps working
	err = accounts.NewChangePasswordHandler(repo).
		WithLogger(testLogger{}).
		Execute(ctx, accounts.ChangePasswordMessage{
			Email:    email,
			Password: "second-password2!",
		})
	require.NoError(t, err)

	_, err = guard.VerifyKey(ctx, email, key1)
	require.NoError(t, err)

	// the old password no longer authorizes a reset
	err = resetHandler.Execute(ctx, accounts.RequestKeyResetMessage{
		Email:    email,
		Password: "first-password1!",
	})
	require.Error(t, err)
	assertTextCode(t, err, accounts.TextCodePasswordMismatch)

	// the new password does, and the reset invalidates key1
	var key2 string
	err = resetHandler.Execute(ctx, accounts.RequestKeyResetMessage{
		Email:    email,
		Password: "second-password2!",
		OnResponse: func(r *accounts.KeyResetResponse) {
			key2 = r.APIKey
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, key2)
	assert.NotEqual(t, key1, key2)

	_, err = guard.VerifyKey(ctx, email, key1)
	require.Error(t, err)

	_, err = guard.VerifyKey(ctx, email, key2)
	require.NoError(t, err)

	// disabling locks out both the key and the reset flow
	enableHandler := accounts.NewSetAccountEnabledHandler(repo).WithLogger(testLogger{})
	require.NoError(t, enableHandler.ExecuteDisable(ctx, accounts.DisableAccountMessage{Email: email}))

	_, err = guard.VerifyKey(ctx, email, key2)
	require.Error(t, err)

	err = resetHandler.Execute(ctx, accounts.RequestKeyResetMessage{
		Email:    email,
		Password: "second-password2!",
	})
	require.Error(t, err)
	assertTextCode(t, err, accounts.TextCodeDisabled)

	// re-enabling restores access with the same key
	require.NoError(t, enableHandler.ExecuteEnable(ctx, accounts.EnableAccountMessage{Email: email}))

	_, err = guard.VerifyKey(ctx, email, key2)
	require.NoError(t, err)

	require.Len(t, notifier.resets, 2)
	assert.Equal(t, key1, notifier.resets[0])
	assert.Equal(t, key2, notifier.resets[1])
}
