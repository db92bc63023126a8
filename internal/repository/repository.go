package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Repository groups the per-table repositories over one *gorm.DB handle,
// which is either the pool or an open transaction.
type Repository struct {
	db     *gorm.DB
	Users  UserRepository
	Stores StoreRepository
	Items  ItemRepository
	Orders OrderRepository
	Sales  SaleRepository
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		db:     db,
		Users:  NewUserRepo(db),
		Stores: NewStoreRepo(db),
		Items:  NewItemRepo(db),
		Orders: NewOrderRepo(db),
		Sales:  NewSaleRepo(db),
	}
}

// DB exposes the underlying handle.
func (r *Repository) DB() *gorm.DB { return r.db }

// WithTx runs fn inside a transaction. Any error returned by fn rolls back.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
