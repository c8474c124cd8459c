package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallFilter bounds and orders a contact's call history. From and To are
// inclusive bounds on created_at; nil means unbounded on that side. SortBy
// must be a column validated by the service layer before it reaches the
// repository. The call id is always appended as a secondary sort key in the
// same direction, so the ordering is total and desc is the exact reverse of
// asc for identical bounds.
type CallFilter struct {
	From   *time.Time
	To     *time.Time
	SortBy string
	Desc   bool
}

type CallRepository interface {
	Create(ctx context.Context, call *model.Call) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Call, error)
	ListByContact(ctx context.Context, contactID uuid.UUID, filter CallFilter) ([]model.Call, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Call, int64, error)
	ListAll(ctx context.Context, page, limit int) ([]model.Call, int64, error)
	CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByContact(ctx context.Context, contactID uuid.UUID) error
}

type callRepository struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

func (r *callRepository) Create(ctx context.Context, call *model.Call) error {
	return GetDB(ctx, r.db).Create(call).Error
}

func (r *callRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	var call model.Call
	if err := GetDB(ctx, r.db).First(&call, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *callRepository) ListByContact(ctx context.Context, contactID uuid.UUID, filter CallFilter) ([]model.Call, error) {
	db := GetDB(ctx, r.db).Where("contact_id = ?", contactID)

	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", *filter.To)
	}

	dir := "asc"
	if filter.Desc {
		dir = "desc"
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	var calls []model.Call
	if err := db.Order(fmt.Sprintf("%s %s, id %s", sortBy, dir, dir)).Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *callRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Call, int64, error) {
	var calls []model.Call
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Call{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&calls).Error; err != nil {
		return nil, 0, err
	}

	return calls, total, nil
}

func (r *callRepository) ListAll(ctx context.Context, page, limit int) ([]model.Call, int64, error) {
	var calls []model.Call
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Call{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&calls).Error; err != nil {
		return nil, 0, err
	}

	return calls, total, nil
}

func (r *callRepository) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Call{}).Where("contact_id = ?", contactID).Count(&total).Error
	return total, err
}

func (r *callRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Call{}).Error
}

func (r *callRepository) DeleteByContact(ctx context.Context, contactID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("contact_id = ?", contactID).Delete(&model.Call{}).Error
}
