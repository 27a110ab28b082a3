package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	accounts "github.com/agroapi/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// MockRepositoryManager implements accounts.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx executes the closure with a zero bun.Tx so command handlers
// exercise their transactional body; a stubbed error short-circuits the
// closure, mirroring a failed BEGIN.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}

	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Accounts() accounts.Accounts {
	args := m.Called()
	return args.Get(0).(accounts.Accounts)
}

// MockAccounts implements accounts.Accounts. The embedded Repository
// covers the generic CRUD surface; calls to anything not stubbed below
// panic, which is what we want in a test.
type MockAccounts struct {
	mock.Mock
	repository.Repository[*accounts.Account]
}

func (m *MockAccounts) Register(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, record)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) RegisterTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) Create(ctx context.Context, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, record, criteria)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record, criteria)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, email)
	return getAccount(args, 0), args.Error(1)
}

func (m *MockAccounts) RotateKey(ctx context.Context, email, salt, hashedKey string) error {
	args := m.Called(ctx, email, salt, hashedKey)
	return args.Error(0)
}

func (m *MockAccounts) RotateKeyTx(ctx context.Context, tx bun.IDB, email, salt, hashedKey string) error {
	args := m.Called(ctx, tx, email, salt, hashedKey)
	return args.Error(0)
}

func (m *MockAccounts) SetPassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockAccounts) SetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	args := m.Called(ctx, tx, email, passwordHash)
	return args.Error(0)
}

func (m *MockAccounts) SetActive(ctx context.Context, email string, active bool) error {
	args := m.Called(ctx, email, active)
	return args.Error(0)
}

func (m *MockAccounts) SetActiveTx(ctx context.Context, tx bun.IDB, email string, active bool) error {
	args := m.Called(ctx, tx, email, active)
	return args.Error(0)
}

func (m *MockAccounts) SetDisabled(ctx context.Context, email string, disabled bool) error {
	args := m.Called(ctx, email, disabled)
	return args.Error(0)
}

func (m *MockAccounts) SetDisabledTx(ctx context.Context, tx bun.IDB, email string, disabled bool) error {
	args := m.Called(ctx, tx, email, disabled)
	return args.Error(0)
}

func getAccount(args mock.Arguments, idx int) *accounts.Account {
	if rec, ok := args.Get(idx).(*accounts.Account); ok {
		return rec
	}
	return nil
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, email, apiKey string) error {
	args := m.Called(ctx, email, apiKey)
	return args.Error(0)
}

func (m *MockNotifier) SendKeyReset(ctx context.Context, email, apiKey string) error {
	args := m.Called(ctx, email, apiKey)
	return args.Error(0)
}

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

func expectTx(repo *MockRepositoryManager) *mock.Call {
	return repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil)
}

// notFoundErr mirrors what the live repository returns for a missing row.
func notFoundErr() error {
	return goerrors.New("record not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

func assertTextCode(t *testing.T, err error, code string) {
	t.Helper()

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr), "expected a structured error, got %v", err)
	assert.Equal(t, code, richErr.TextCode)
}
