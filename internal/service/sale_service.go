package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateSaleRequest struct {
	ContactID string `json:"contact_id" binding:"omitempty,uuid"`
	Status    string `json:"status" binding:"omitempty,oneof=open won lost"`
	Outcome   string `json:"outcome" binding:"omitempty,oneof=pending paid refunded"`
	DealValue string `json:"deal_value"`
}

type UpdateSaleRequest struct {
	Status    string `json:"status" binding:"omitempty,oneof=open won lost"`
	Outcome   string `json:"outcome" binding:"omitempty,oneof=pending paid refunded"`
	DealValue string `json:"deal_value"`
}

type SaleService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req CreateSaleRequest) (*model.Sale, error)
	GetSaleByID(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, userID uuid.UUID, role string, page, limit int) ([]model.Sale, int64, error)
	UpdateSale(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateSaleRequest) (*model.Sale, error)
	DeleteSale(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error
}

type saleService struct {
	saleRepo    repository.SaleRepository
	contactRepo repository.ContactRepository
}

func NewSaleService(saleRepo repository.SaleRepository, contactRepo repository.ContactRepository) SaleService {
	return &saleService{saleRepo: saleRepo, contactRepo: contactRepo}
}

func (s *saleService) CreateSale(ctx context.Context, userID uuid.UUID, req CreateSaleRequest) (*model.Sale, error) {
	sale := &model.Sale{
		UserID:  userID,
		Status:  model.SaleStatusOpen,
		Outcome: model.SaleOutcomePending,
	}

	if req.ContactID != "" {
		contactID, err := uuid.Parse(req.ContactID)
		if err != nil {
			return nil, ErrInvalidQuery
		}
		if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		sale.ContactID = &contactID
	}

	if req.Status != "" {
		sale.Status = model.SaleStatus(req.Status)
	}
	if req.Outcome != "" {
		sale.Outcome = model.SaleOutcome(req.Outcome)
	}

	dealValue, err := parseDealValue(req.DealValue)
	if err != nil {
		return nil, err
	}
	sale.DealValue = dealValue

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanAccess(role, userID, sale.UserID) {
		return nil, ErrForbidden
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, userID uuid.UUID, role string, page, limit int) ([]model.Sale, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	if role == model.RoleAdmin {
		return s.saleRepo.List(ctx, page, limit)
	}
	return s.saleRepo.ListByUser(ctx, userID, page, limit)
}

func (s *saleService) UpdateSale(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID, req UpdateSaleRequest) (*model.Sale, error) {
	sale, err := s.GetSaleByID(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		status := model.SaleStatus(req.Status)
		if !model.ValidSaleStatus(status) {
			return nil, fmt.Errorf("%w: unknown sale status %q", ErrInvalidQuery, req.Status)
		}
		sale.Status = status
	}
	if req.Outcome != "" {
		outcome := model.SaleOutcome(req.Outcome)
		if !model.ValidSaleOutcome(outcome) {
			return nil, fmt.Errorf("%w: unknown sale outcome %q", ErrInvalidQuery, req.Outcome)
		}
		sale.Outcome = outcome
	}
	if req.DealValue != "" {
		dealValue, err := parseDealValue(req.DealValue)
		if err != nil {
			return nil, err
		}
		sale.DealValue = dealValue
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) DeleteSale(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	if _, err := s.GetSaleByID(ctx, userID, role, id); err != nil {
		return err
	}
	return s.saleRepo.Delete(ctx, id)
}
