package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// DefaultIdentityKey is where the keyware middleware stores the caller's
// Identity in fiber locals.
const DefaultIdentityKey = "identity"

type AuthControllerRoutes struct {
	Register       string
	Login          string
	Verify         string
	ChangePassword string
	Disable        string
	Enable         string
}

type AuthController struct {
	Logger      Logger
	Repo        RepositoryManager
	Notifier    Notifier
	Routes      *AuthControllerRoutes
	IdentityKey string
}

func NewAuthController(repo RepositoryManager) *AuthController {
	return &AuthController{
		Logger:      defLogger{},
		Repo:        repo,
		Notifier:    stdoutNotifier{},
		IdentityKey: DefaultIdentityKey,
		Routes: &AuthControllerRoutes{
			Register:       "/auth/register",
			Login:          "/auth/login",
			Verify:         "/auth/verify",
			ChangePassword: "/auth/change_password",
			Disable:        "/auth/accounts/disable",
			Enable:         "/auth/accounts/enable",
		},
	}
}

func (a *AuthController) WithNotifier(n Notifier) *AuthController {
	a.Notifier = normalizeNotifier(n)
	return a
}

func (a *AuthController) WithLogger(l Logger) *AuthController {
	if l != nil {
		a.Logger = l
	}
	return a
}

// RegisterRoutes mounts the public auth endpoints. The change-password
// and admin routes are mounted by the caller so the keyware guard can be
// applied in front of them.
func (a *AuthController) RegisterRoutes(app fiber.Router) {
	app.Post(a.Routes.Register, a.RegisterPost)
	app.Post(a.Routes.Login, a.LoginPost)
	app.Get(a.Routes.Verify, a.VerifyGet)
}

// RegisterPayload is the registration form payload
type RegisterPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register account parse payload: %v", err)
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse registration payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	var resp *RegisterAccountResponse
	handler := NewRegisterAccountHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger)

	err := handler.Execute(c.UserContext(), RegisterAccountMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(r *RegisterAccountResponse) {
			resp = r
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	a.Logger.Debug("register response: %s", print.MaybePrettyJSON(resp))

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("key reset parse payload: %v", err)
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse key reset payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	var resp *KeyResetResponse
	handler := NewRequestKeyResetHandler(a.Repo).
		WithNotifier(a.Notifier).
		WithLogger(a.Logger)

	err := handler.Execute(c.UserContext(), RequestKeyResetMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(r *KeyResetResponse) {
			resp = r
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	a.Logger.Debug("key reset response: %s", print.MaybePrettyJSON(resp))

	return c.JSON(resp)
}

func (a *AuthController) VerifyGet(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return respondError(c, errors.New("no email to verify", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	handler := NewVerifyEmailHandler(a.Repo).WithLogger(a.Logger)
	if err := handler.Execute(c.UserContext(), VerifyEmailMessage{Email: email}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"email":    email,
		"verified": true,
	})
}

// ChangePasswordPayload carries only the new password; the target email
// comes from the authenticated identity, never from the caller.
type ChangePasswordPayload struct {
	Password string `form:"password" json:"password"`
}

func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ChangePasswordPut(c *fiber.Ctx) error {
	identity, ok := c.Locals(a.IdentityKey).(Identity)
	if !ok {
		return respondError(c, ErrAPIKeyRejected)
	}

	payload := new(ChangePasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("change password parse payload: %v", err)
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse password payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	handler := NewChangePasswordHandler(a.Repo).WithLogger(a.Logger)
	err := handler.Execute(c.UserContext(), ChangePasswordMessage{
		Email:    identity.Email(),
		Password: payload.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"email":   identity.Email(),
		"updated": true,
	})
}

// AccountLockPayload targets an account for the administrative lock routes
type AccountLockPayload struct {
	Email string `form:"email" json:"email"`
}

func (r AccountLockPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
	)
}

func (a *AuthController) DisablePut(c *fiber.Ctx) error {
	return a.setLock(c, true)
}

func (a *AuthController) EnablePut(c *fiber.Ctx) error {
	return a.setLock(c, false)
}

func (a *AuthController) setLock(c *fiber.Ctx, disabled bool) error {
	payload := new(AccountLockPayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("account lock parse payload: %v", err)
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse account lock payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	handler := NewSetAccountEnabledHandler(a.Repo).WithLogger(a.Logger)

	var err error
	if disabled {
		err = handler.ExecuteDisable(c.UserContext(), DisableAccountMessage{Email: payload.Email})
	} else {
		err = handler.ExecuteEnable(c.UserContext(), EnableAccountMessage{Email: payload.Email})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"email":    payload.Email,
		"disabled": disabled,
	})
}

func respondValidation(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      "validation failed",
		"validation": err.Error(),
	})
}

func respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}
