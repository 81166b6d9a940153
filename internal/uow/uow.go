package uow

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork runs a function inside one database transaction. Every multi-step
// ledger operation acquires one so the request-row write, the balance-row write
// and the outbox insert commit or roll back together.
//
//go:generate mockgen -source=uow.go -destination=mock/uow_mock.go -package=mock
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type GormUoW struct {
	db *gorm.DB
}

func NewGormUoW(db *gorm.DB) *GormUoW {
	return &GormUoW{db: db}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
