package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	// FindByIDForUpdate locks the contact row FOR UPDATE. It is the
	// per-contact serialization scope for the status engine: two concurrent
	// call writes for the same contact queue on this lock, so the later
	// commit's status write is the one that sticks.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error)
	ListLocked(ctx context.Context) ([]model.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus, lockedBy *uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Contact{}).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := GetDB(ctx, r.db).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error) {
	var contacts []model.Contact
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Contact{})
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepository) ListLocked(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := GetDB(ctx, r.db).
		Where("status = ?", model.StatusExclusiveLock).
		Order("updated_at desc").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus, lockedBy *uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Contact{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"locked_by_user_id": lockedBy,
		}).Error
}
