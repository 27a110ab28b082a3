package resources

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrRecordNotFound is returned when a resource id does not exist or is
// owned by a different account.
var ErrRecordNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
	WithTextCode("resource_not_found").
	WithCode(goerrors.CodeNotFound)

// Store is a generic owner-scoped CRUD store over a bun model. Every
// query filters by owner_email, so one account can never read or mutate
// another account's rows.
type Store[T any] struct {
	db *bun.DB
}

func NewStore[T any](db *bun.DB) *Store[T] {
	return &Store[T]{db: db}
}

func (s *Store[T]) List(ctx context.Context, ownerEmail string) ([]T, error) {
	records := []T{}

	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_email = ?", ownerEmail).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list records")
	}

	return records, nil
}

func (s *Store[T]) Get(ctx context.Context, ownerEmail string, id uuid.UUID) (*T, error) {
	record := new(T)

	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_email = ?", ownerEmail).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load record")
	}

	return record, nil
}

func (s *Store[T]) Create(ctx context.Context, record *T) (*T, error) {
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create record")
	}
	return record, nil
}

func (s *Store[T]) Update(ctx context.Context, ownerEmail string, record *T) (*T, error) {
	res, err := s.db.NewUpdate().
		Model(record).
		WherePK().
		Where("?TableAlias.owner_email = ?", ownerEmail).
		Value("updated_at", "CURRENT_TIMESTAMP").
		OmitZero().
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update record")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrRecordNotFound
	}

	return record, nil
}

func (s *Store[T]) Delete(ctx context.Context, ownerEmail string, id uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*T)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_email = ?", ownerEmail).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete record")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Manager bundles one store per resource type
type Manager struct {
	Farms    *Store[Farm]
	Crops    *Store[Crop]
	Pests    *Store[Pest]
	Records  *Store[Record]
	Comments *Store[Comment]
}

func NewManager(db *bun.DB) *Manager {
	return &Manager{
		Farms:    NewStore[Farm](db),
		Crops:    NewStore[Crop](db),
		Pests:    NewStore[Pest](db),
		Records:  NewStore[Record](db),
		Comments: NewStore[Comment](db),
	}
}
