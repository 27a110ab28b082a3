package accounts

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Capability names carried in an account's endpoint_access list.
const (
	// CapabilityUser grants access to the regular farm-data endpoints
	CapabilityUser = "user"
	// CapabilityAdmin grants access to administrative endpoints
	CapabilityAdmin = "admin"
)

// Account is the account model. The email is the natural key used by every
// lifecycle operation; it is immutable after creation and enforced unique
// by the schema as the backstop to the registration pre-check.
type Account struct {
	bun.BaseModel  `bun:"table:accounts,alias:acc"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	Salt           string     `bun:"salt" json:"-"`
	HashedAPIKey   string     `bun:"hashed_api_key" json:"-"`
	IsActive       bool       `bun:"is_active" json:"is_active"`
	Disabled       bool       `bun:"disabled" json:"disabled"`
	IsSuperuser    bool       `bun:"is_superuser" json:"is_superuser"`
	EndpointAccess []string   `bun:"endpoint_access,type:jsonb" json:"endpoint_access,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// CheckAPIKey verifies a raw bearer key against the stored salted hash.
// An account that never had a key issued rejects every key.
func (a *Account) CheckAPIKey(apiKey string) error {
	return ComparePasswordAndHash(a.Salt+apiKey, a.HashedAPIKey)
}

// RotateAPIKey replaces the salt and key hash as a pair. The two fields
// are never updated independently.
func (a *Account) RotateAPIKey(apiKey string) error {
	salt := GenerateSalt()
	hash, err := HashPassword(salt + apiKey)
	if err != nil {
		return err
	}

	a.Salt = salt
	a.HashedAPIKey = hash
	return nil
}

// CanAccess reports whether the account's capability list covers the
// given endpoint group. Superusers pass every check.
func (a *Account) CanAccess(capability string) bool {
	if a.IsSuperuser {
		return true
	}
	return slices.Contains(a.EndpointAccess, capability)
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}
	if len(record.EndpointAccess) == 0 {
		record.EndpointAccess = []string{CapabilityUser}
	}
}
