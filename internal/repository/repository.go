// Package repository implements the data-access layer shared by the API and
// the tests. Every entity gets the same Get/List/Filter/Create/Update/Remove
// contract through a Repository instantiated with an explicit Mapping.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mapping declares how one entity is stored and how its inputs are applied.
type Mapping[T, C, U any] struct {
	// PrimaryKey is the entity's primary key column.
	PrimaryKey string

	// Preloads are the associations loaded with every read.
	Preloads []string

	// SearchColumns whitelists the columns accepted by Filter.
	SearchColumns []string

	ID    func(*T) uint
	Build func(C) *T
	Apply func(*T, U) error

	// Validate, when set, rejects a create input before anything is written.
	Validate func(C) error
}

// Repository is a generic CRUD store over T, created from C and patched with U.
type Repository[T, C, U any] struct {
	db      *gorm.DB
	mapping Mapping[T, C, U]
	columns map[string]struct{}
}

// New builds a repository for one entity.
func New[T, C, U any](db *gorm.DB, mapping Mapping[T, C, U]) *Repository[T, C, U] {
	columns := make(map[string]struct{}, len(mapping.SearchColumns))
	for _, col := range mapping.SearchColumns {
		columns[col] = struct{}{}
	}

	return &Repository[T, C, U]{
		db:      db,
		mapping: mapping,
		columns: columns,
	}
}

// DB exposes the underlying handle for callers composing transactions.
func (r *Repository[T, C, U]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T, C, U]) query(ctx context.Context, db *gorm.DB) *gorm.DB {
	q := db.WithContext(ctx)
	for _, p := range r.mapping.Preloads {
		q = q.Preload(p)
	}
	return q
}

// Get returns the row with the given primary key.
func (r *Repository[T, C, U]) Get(ctx context.Context, id uint) (*T, error) {
	return r.get(ctx, r.db, id)
}

func (r *Repository[T, C, U]) get(ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	err := r.query(ctx, db).
		Where(clause.Eq{Column: clause.Column{Name: r.mapping.PrimaryKey}, Value: id}).
		Take(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// List returns up to limit rows ordered by primary key, skipping offset.
func (r *Repository[T, C, U]) List(ctx context.Context, offset, limit int) ([]T, error) {
	return r.Filter(ctx, offset, limit, nil)
}

// Filter ANDs one predicate per non-nil value. Strings match as
// case-insensitive substrings, everything else by equality.
func (r *Repository[T, C, U]) Filter(ctx context.Context, offset, limit int, filters map[string]any) ([]T, error) {
	q := r.query(ctx, r.db)

	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := r.columns[name]; !ok {
			return nil, fmt.Errorf("%w: unknown search field %q", ErrInvalidInput, name)
		}

		switch v := filters[name].(type) {
		case nil:
			continue
		case string:
			q = q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", name), "%"+strings.ToLower(v)+"%")
		default:
			q = q.Where(clause.Eq{Column: clause.Column{Name: name}, Value: v})
		}
	}

	rows := make([]T, 0)
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: r.mapping.PrimaryKey}}).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// Create inserts a row built from in and returns it as stored.
func (r *Repository[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	if r.mapping.Validate != nil {
		if err := r.mapping.Validate(in); err != nil {
			return nil, err
		}
	}

	row := r.mapping.Build(in)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(row).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.Get(ctx, r.mapping.ID(row))
}

// Update applies the fields present in in to existing and persists it.
func (r *Repository[T, C, U]) Update(ctx context.Context, existing *T, in U) (*T, error) {
	if err := r.mapping.Apply(existing, in); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(existing).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.Get(ctx, r.mapping.ID(existing))
}

// Remove deletes the row and returns its state before deletion. Dependent
// rows go with it according to the foreign keys' ON DELETE rules.
func (r *Repository[T, C, U]) Remove(ctx context.Context, id uint) (*T, error) {
	var removed *T

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}

		res := tx.Where(clause.Eq{Column: clause.Column{Name: r.mapping.PrimaryKey}, Value: id}).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		removed = row
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	return removed, nil
}
