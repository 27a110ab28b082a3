package accounts

import "github.com/goliatone/go-errors"

const (
	TextCodeEmailTaken       = "account_email_taken"
	TextCodeNotFound         = "account_not_found"
	TextCodeNotVerified      = "account_not_verified"
	TextCodeAlreadyVerified  = "account_already_verified"
	TextCodeDisabled         = "account_disabled"
	TextCodeAlreadyDisabled  = "account_already_disabled"
	TextCodeAlreadyEnabled   = "account_already_enabled"
	TextCodePasswordMismatch = "account_password_mismatch"
	TextCodeKeyRejected      = "api_key_rejected"
)

// ErrEmailTaken is returned when registering an email that already has an account.
var ErrEmailTaken = errors.New("account with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrAccountNotFound is returned when no account matches the given email.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrNotVerified is returned when an operation requires a verified email.
var ErrNotVerified = errors.New("account email is not verified", errors.CategoryValidation).
	WithTextCode(TextCodeNotVerified).
	WithCode(errors.CodeBadRequest)

// ErrAlreadyVerified is returned when verifying an account that is already active.
var ErrAlreadyVerified = errors.New("account email is already verified and active", errors.CategoryValidation).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(errors.CodeBadRequest)

// ErrAccountDisabled is returned when an operation targets a disabled account.
var ErrAccountDisabled = errors.New("account is disabled", errors.CategoryValidation).
	WithTextCode(TextCodeDisabled).
	WithCode(errors.CodeBadRequest)

// ErrAccountAlreadyDisabled is returned when disabling an account twice.
var ErrAccountAlreadyDisabled = errors.New("account is already disabled", errors.CategoryValidation).
	WithTextCode(TextCodeAlreadyDisabled).
	WithCode(errors.CodeBadRequest)

// ErrAccountAlreadyEnabled is returned when enabling an account that is not disabled.
var ErrAccountAlreadyEnabled = errors.New("account is already enabled", errors.CategoryValidation).
	WithTextCode(TextCodeAlreadyEnabled).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned when the supplied password does not verify.
var ErrPasswordMismatch = errors.New("password is not verified", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrAPIKeyRejected is the single rejection the guard surfaces; missing
// accounts, disabled accounts, and mismatched keys are indistinguishable
// to the caller.
var ErrAPIKeyRejected = errors.New("invalid account or API key", errors.CategoryAuth).
	WithTextCode(TextCodeKeyRejected).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty secret
var ErrNoEmptyString = errors.New("cannot hash an empty string", errors.CategoryBadInput).
	WithTextCode("empty_secret").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the comparison failure for hashed secrets
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode("hash_mismatch").
	WithCode(errors.CodeUnauthorized)
