package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateContactRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Phone2     string `json:"phone2"`
	Email      string `json:"email" binding:"omitempty,email"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	RegionName string `json:"region_name"`
	SSN        string `json:"ssn"`
	DealValue  string `json:"deal_value"`
}

type UpdateContactRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Phone2     string `json:"phone2"`
	Email      string `json:"email" binding:"omitempty,email"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	RegionName string `json:"region_name"`
	DealValue  string `json:"deal_value"`
}

type UpdateContactStatusRequest struct {
	StatusName string `json:"status_name" binding:"required"`
}

type ContactService interface {
	CreateContact(ctx context.Context, userID uuid.UUID, req CreateContactRequest) (*model.Contact, error)
	GetContactByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	ListContacts(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error)
	ListLockedContacts(ctx context.Context) ([]model.Contact, error)
	UpdateContact(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateContactRequest) (*model.Contact, error)
	// UpdateStatus is the direct (non-call-driven) status edit, carrying
	// the exclusive-lock workflow: setting Exclusive Lock records the
	// caller as locker; a locked contact may only be re-statused by its
	// locker or an admin; any other status releases the lock.
	UpdateStatus(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateContactStatusRequest) error
	// DeleteContact requires the cascade decision to be explicit: without
	// cascade, a contact with recorded calls is not deletable.
	DeleteContact(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, cascade bool) error
}

type contactService struct {
	contactRepo repository.ContactRepository
	callRepo    repository.CallRepository
	txManager   repository.TransactionManager
}

func NewContactService(
	contactRepo repository.ContactRepository,
	callRepo repository.CallRepository,
	txManager repository.TransactionManager,
) ContactService {
	return &contactService{contactRepo: contactRepo, callRepo: callRepo, txManager: txManager}
}

func parseDealValue(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: deal_value must be a decimal number", ErrInvalidQuery)
	}
	return value, nil
}

func (s *contactService) CreateContact(ctx context.Context, userID uuid.UUID, req CreateContactRequest) (*model.Contact, error) {
	dealValue, err := parseDealValue(req.DealValue)
	if err != nil {
		return nil, err
	}

	contact := &model.Contact{
		Name:            req.Name,
		Phone:           req.Phone,
		Phone2:          req.Phone2,
		Email:           req.Email,
		Address:         req.Address,
		PostalCode:      req.PostalCode,
		RegionName:      req.RegionName,
		SSN:             req.SSN,
		DealValue:       dealValue,
		Status:          model.StatusNew,
		CreatedByUserID: userID,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) GetContactByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.contactRepo.List(ctx, page, limit, search)
}

func (s *contactService) ListLockedContacts(ctx context.Context) ([]model.Contact, error) {
	return s.contactRepo.ListLocked(ctx)
}

func (s *contactService) UpdateContact(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateContactRequest) (*model.Contact, error) {
	contact, err := s.GetContactByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanAccess(role, userID, contact.CreatedByUserID) {
		return nil, ErrForbidden
	}

	if req.Name != "" {
		contact.Name = req.Name
	}
	if req.Phone != "" {
		contact.Phone = req.Phone
	}
	if req.Phone2 != "" {
		contact.Phone2 = req.Phone2
	}
	if req.Email != "" {
		contact.Email = req.Email
	}
	if req.Address != "" {
		contact.Address = req.Address
	}
	if req.PostalCode != "" {
		contact.PostalCode = req.PostalCode
	}
	if req.RegionName != "" {
		contact.RegionName = req.RegionName
	}
	if req.DealValue != "" {
		dealValue, err := parseDealValue(req.DealValue)
		if err != nil {
			return nil, err
		}
		contact.DealValue = dealValue
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateContactStatusRequest) error {
	status := model.ContactStatus(req.StatusName)
	if !model.ValidContactStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, req.StatusName)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		contact, err := s.contactRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if contact.Status == model.StatusExclusiveLock &&
			contact.LockedByUserID != nil &&
			*contact.LockedByUserID != userID &&
			role != model.RoleAdmin {
			return ErrForbidden
		}

		var lockedBy *uuid.UUID
		if status == model.StatusExclusiveLock {
			lockedBy = &userID
		}

		return s.contactRepo.UpdateStatus(txCtx, id, status, lockedBy)
	})
}

func (s *contactService) DeleteContact(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, cascade bool) error {
	contact, err := s.GetContactByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanAccess(role, userID, contact.CreatedByUserID) {
		return ErrForbidden
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.callRepo.CountByContact(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			if !cascade {
				return ErrContactHasCalls
			}
			if err := s.callRepo.DeleteByContact(txCtx, id); err != nil {
				return err
			}
		}
		return s.contactRepo.Delete(txCtx, id)
	})
}
