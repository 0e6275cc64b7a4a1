// Package store exposes the database tables as document collections:
// records are listed, fetched, created, overwritten and deleted by id.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Document is the pointer constraint satisfied by every stored record.
type Document[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// ChildReplacer is implemented by documents that own child rows which must
// be rewritten on every overwrite.
type ChildReplacer interface {
	ReplaceChildren(tx *gorm.DB) error
}

// Scope narrows or orders a query.
type Scope = func(*gorm.DB) *gorm.DB

// Collection is a typed view over one table.
type Collection[T any, P Document[T]] struct {
	db       *gorm.DB
	preloads []preload
}

type preload struct {
	assoc string
	scope Scope
}

// NewCollection returns a collection for records of type T.
func NewCollection[T any, P Document[T]](db *gorm.DB) *Collection[T, P] {
	return &Collection[T, P]{db: db}
}

// WithPreload loads assoc on every List and Get, ordered by scope.
func (c *Collection[T, P]) WithPreload(assoc string, scope Scope) *Collection[T, P] {
	c.preloads = append(c.preloads, preload{assoc: assoc, scope: scope})
	return c
}

func (c *Collection[T, P]) query(ctx context.Context) *gorm.DB {
	q := c.db.WithContext(ctx)
	for _, p := range c.preloads {
		if p.scope != nil {
			q = q.Preload(p.assoc, p.scope)
		} else {
			q = q.Preload(p.assoc)
		}
	}
	return q
}

// List returns every record matching scopes.
func (c *Collection[T, P]) List(ctx context.Context, scopes ...Scope) ([]T, error) {
	var out []T
	if err := c.query(ctx).Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

// Count returns the number of records matching scopes.
func (c *Collection[T, P]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Get returns the record with the given id or ErrNotFound.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	rec := new(T)
	err := c.query(ctx).Where("id = ?", id).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

// Create inserts rec and returns its generated id.
func (c *Collection[T, P]) Create(ctx context.Context, rec *T) (string, error) {
	if err := c.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	return P(rec).GetID(), nil
}

// Update overwrites every field of the record id with rec. The id and
// creation time are kept; child rows are replaced in the same transaction.
func (c *Collection[T, P]) Update(ctx context.Context, id string, rec *T) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := new(T)
		err := tx.Where("id = ?", id).First(existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update %s: %w", id, err)
		}
		P(rec).SetID(id)
		err = tx.Model(existing).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(rec).Error
		if err != nil {
			return fmt.Errorf("update %s: %w", id, err)
		}
		if r, ok := any(rec).(ChildReplacer); ok {
			if err := r.ReplaceChildren(tx); err != nil {
				return fmt.Errorf("update %s: %w", id, err)
			}
		}
		return nil
	})
}

// Delete removes the record id and its child rows.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := new(T)
		err := tx.Where("id = ?", id).First(existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		if err := tx.Select(clause.Associations).Delete(existing).Error; err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		return nil
	})
}
