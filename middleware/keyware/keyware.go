// Package keyware enforces the API-key guard on fiber routes. Callers
// present a claimed email plus a raw bearer key; the guard decides, and
// the resulting identity is stored in request locals for handlers.
package keyware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agroapi/go-accounts"
)

const (
	// HeaderAPIKey carries the raw bearer key
	HeaderAPIKey = "X-API-Key"
	// HeaderAccountEmail carries the caller's claimed identity
	HeaderAccountEmail = "X-Account-Email"
	// DefaultContextKey is where the identity lands in fiber locals
	DefaultContextKey = "identity"
)

// ErrSuperuserRequired rejects non-superusers on administrative routes.
var ErrSuperuserRequired = errors.New("superuser access required", errors.CategoryAuthz).
	WithTextCode("superuser_required").
	WithCode(errors.CodeForbidden)

// ErrCapabilityRequired rejects callers whose endpoint_access list does
// not cover the route's capability.
var ErrCapabilityRequired = errors.New("missing endpoint capability", errors.CategoryAuthz).
	WithTextCode("capability_required").
	WithCode(errors.CodeForbidden)

// Guard validates a claimed email and raw API key pair
type Guard interface {
	VerifyKey(ctx context.Context, email, apiKey string) (accounts.Identity, error)
}

type Config struct {
	// Guard is required
	Guard Guard

	// Filter defines a function to skip the middleware
	Filter func(*fiber.Ctx) bool

	// ErrorHandler is invoked on any rejection
	ErrorHandler func(*fiber.Ctx, error) error

	// ContextKey is the fiber locals key for the verified identity
	ContextKey string

	// RequireSuperuser restricts the route to superuser accounts
	RequireSuperuser bool

	// RequireCapability restricts the route to accounts whose
	// endpoint_access covers the named capability
	RequireCapability string
}

func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		email, apiKey := credentialsFromRequest(c)
		if email == "" || apiKey == "" {
			return cfg.ErrorHandler(c, accounts.ErrAPIKeyRejected)
		}

		identity, err := cfg.Guard.VerifyKey(c.UserContext(), email, apiKey)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.RequireSuperuser && !identity.Superuser() {
			return cfg.ErrorHandler(c, ErrSuperuserRequired)
		}

		if cfg.RequireCapability != "" && !hasCapability(identity, cfg.RequireCapability) {
			return cfg.ErrorHandler(c, ErrCapabilityRequired)
		}

		c.Locals(cfg.ContextKey, identity)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by the middleware, if any.
func IdentityFromCtx(c *fiber.Ctx, key string) (accounts.Identity, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	identity, ok := c.Locals(key).(accounts.Identity)
	return identity, ok
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Guard == nil {
		panic("keyware: Guard is required")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

// credentialsFromRequest reads the header pair, falling back to query
// parameters so emailed verification-style links can authenticate.
func credentialsFromRequest(c *fiber.Ctx) (email, apiKey string) {
	email = c.Get(HeaderAccountEmail)
	if email == "" {
		email = c.Query("email")
	}

	apiKey = c.Get(HeaderAPIKey)
	if apiKey == "" {
		apiKey = c.Query("access_token")
	}

	return email, apiKey
}

func hasCapability(identity accounts.Identity, capability string) bool {
	if identity.Superuser() {
		return true
	}
	for _, c := range identity.Capabilities() {
		if c == capability {
			return true
		}
	}
	return false
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "invalid API key").
			WithCode(errors.CodeUnauthorized)
	}

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusUnauthorized
	}

	return c.Status(status).JSON(fiber.Map{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}
