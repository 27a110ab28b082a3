package resources

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/agroapi/go-accounts"
	"github.com/agroapi/go-accounts/middleware/keyware"
)

// Controller is a thin CRUD passthrough for one resource type. All
// business rules live behind the key guard; the controller only binds
// payloads and scopes rows to the authenticated owner.
type Controller[T any] struct {
	store       *Store[T]
	setOwner    func(*T, string)
	setID       func(*T, uuid.UUID)
	identityKey string
}

func NewController[T any](store *Store[T], setOwner func(*T, string), setID func(*T, uuid.UUID)) *Controller[T] {
	return &Controller[T]{
		store:       store,
		setOwner:    setOwner,
		setID:       setID,
		identityKey: keyware.DefaultContextKey,
	}
}

// RegisterRoutes mounts the CRUD routes under prefix, all behind guard.
func (ct *Controller[T]) RegisterRoutes(r fiber.Router, prefix string, guard fiber.Handler) {
	grp := r.Group(prefix, guard)
	grp.Get("/", ct.List)
	grp.Post("/", ct.Create)
	grp.Get("/:id", ct.Show)
	grp.Put("/:id", ct.Update)
	grp.Delete("/:id", ct.Destroy)
}

func (ct *Controller[T]) List(c *fiber.Ctx) error {
	identity, ok := keyware.IdentityFromCtx(c, ct.identityKey)
	if !ok {
		return respondError(c, accounts.ErrAPIKeyRejected)
	}

	records, err := ct.store.List(c.UserContext(), identity.Email())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(records)
}

func (ct *Controller[T]) Show(c *fiber.Ctx) error {
	identity, ok := keyware.IdentityFromCtx(c, ct.identityKey)
	if !ok {
		return respondError(c, accounts.ErrAPIKeyRejected)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, ErrRecordNotFound)
	}

	record, err := ct.store.Get(c.UserContext(), identity.Email(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (ct *Controller[T]) Create(c *fiber.Ctx) error {
	identity, ok := keyware.IdentityFromCtx(c, ct.identityKey)
	if !ok {
		return respondError(c, accounts.ErrAPIKeyRejected)
	}

	record := new(T)
	if err := c.BodyParser(record); err != nil {
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse payload").
			WithCode(errors.CodeBadRequest))
	}

	ct.setOwner(record, identity.Email())
	ct.setID(record, uuid.New())

	record, err := ct.store.Create(c.UserContext(), record)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (ct *Controller[T]) Update(c *fiber.Ctx) error {
	identity, ok := keyware.IdentityFromCtx(c, ct.identityKey)
	if !ok {
		return respondError(c, accounts.ErrAPIKeyRejected)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, ErrRecordNotFound)
	}

	record := new(T)
	if err := c.BodyParser(record); err != nil {
		return respondError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse payload").
			WithCode(errors.CodeBadRequest))
	}

	ct.setOwner(record, identity.Email())
	ct.setID(record, id)

	record, err = ct.store.Update(c.UserContext(), identity.Email(), record)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(record)
}

func (ct *Controller[T]) Destroy(c *fiber.Ctx) error {
	identity, ok := keyware.IdentityFromCtx(c, ct.identityKey)
	if !ok {
		return respondError(c, accounts.ErrAPIKeyRejected)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, ErrRecordNotFound)
	}

	if err := ct.store.Delete(c.UserContext(), identity.Email(), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MountAll wires the five farm-data resources under their route prefixes.
func MountAll(r fiber.Router, mgr *Manager, guard fiber.Handler) {
	NewController(mgr.Farms,
		func(m *Farm, e string) { m.OwnerEmail = e },
		func(m *Farm, id uuid.UUID) { m.ID = id },
	).RegisterRoutes(r, "/farms", guard)

	NewController(mgr.Crops,
		func(m *Crop, e string) { m.OwnerEmail = e },
		func(m *Crop, id uuid.UUID) { m.ID = id },
	).RegisterRoutes(r, "/crops", guard)

	NewController(mgr.Pests,
		func(m *Pest, e string) { m.OwnerEmail = e },
		func(m *Pest, id uuid.UUID) { m.ID = id },
	).RegisterRoutes(r, "/pests", guard)

	NewController(mgr.Records,
		func(m *Record, e string) { m.OwnerEmail = e },
		func(m *Record, id uuid.UUID) { m.ID = id },
	).RegisterRoutes(r, "/records", guard)

	NewController(mgr.Comments,
		func(m *Comment, e string) { m.OwnerEmail = e },
		func(m *Comment, id uuid.UUID) { m.ID = id },
	).RegisterRoutes(r, "/comments", guard)
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
