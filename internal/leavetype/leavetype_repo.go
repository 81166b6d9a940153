package leavetype

import (
	"context"

	"gorm.io/gorm"
)

// Catalog is the read-only view other modules consume. No write operation is
// part of it; type creation/editing stays ordinary CRUD on Repository.
type Catalog interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
}

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	Catalog
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *LeaveType) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	Update(ctx context.Context, t *LeaveType) error
	Delete(ctx context.Context, companyID, id string) error
	IsReferenced(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("is_active = TRUE").
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) Update(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&LeaveType{}, "id = ?", id).Error
}

// IsReferenced reports whether any balance or request row still points at the
// type. Deletion is refused while it does.
func (r *repository) IsReferenced(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_balances").
		Where("leave_type_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).
		Table("leave_requests").
		Where("leave_type_id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
