package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hand-rolled mocks: each field overrides one method, nil fields panic so a
// test that touches an unexpected dependency fails loudly.

type mockTxManager struct {
	// failures makes the first n transactions fail before running fn.
	failures int
	err      error
	runs     int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.runs++
	if m.failures > 0 {
		m.failures--
		return m.err
	}
	return fn(ctx)
}

type mockContactRepo struct {
	CreateFunc            func(ctx context.Context, contact *model.Contact) error
	UpdateFunc            func(ctx context.Context, contact *model.Contact) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	FindByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	ListFunc              func(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error)
	ListLockedFunc        func(ctx context.Context) ([]model.Contact, error)
	UpdateStatusFunc      func(ctx context.Context, id uuid.UUID, status model.ContactStatus, lockedBy *uuid.UUID) error
}

func (m *mockContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	return m.CreateFunc(ctx, contact)
}
func (m *mockContactRepo) Update(ctx context.Context, contact *model.Contact) error {
	return m.UpdateFunc(ctx, contact)
}
func (m *mockContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockContactRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	return m.FindByIDForUpdateFunc(ctx, id)
}
func (m *mockContactRepo) List(ctx context.Context, page, limit int, search string) ([]model.Contact, int64, error) {
	return m.ListFunc(ctx, page, limit, search)
}
func (m *mockContactRepo) ListLocked(ctx context.Context) ([]model.Contact, error) {
	return m.ListLockedFunc(ctx)
}
func (m *mockContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus, lockedBy *uuid.UUID) error {
	return m.UpdateStatusFunc(ctx, id, status, lockedBy)
}

type mockCallRepo struct {
	CreateFunc          func(ctx context.Context, call *model.Call) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*model.Call, error)
	ListByContactFunc   func(ctx context.Context, contactID uuid.UUID, filter repository.CallFilter) ([]model.Call, error)
	ListByUserFunc      func(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Call, int64, error)
	ListAllFunc         func(ctx context.Context, page, limit int) ([]model.Call, int64, error)
	CountByContactFunc  func(ctx context.Context, contactID uuid.UUID) (int64, error)
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	DeleteByContactFunc func(ctx context.Context, contactID uuid.UUID) error
}

func (m *mockCallRepo) Create(ctx context.Context, call *model.Call) error {
	return m.CreateFunc(ctx, call)
}
func (m *mockCallRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockCallRepo) ListByContact(ctx context.Context, contactID uuid.UUID, filter repository.CallFilter) ([]model.Call, error) {
	return m.ListByContactFunc(ctx, contactID, filter)
}
func (m *mockCallRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Call, int64, error) {
	return m.ListByUserFunc(ctx, userID, page, limit)
}
func (m *mockCallRepo) ListAll(ctx context.Context, page, limit int) ([]model.Call, int64, error) {
	return m.ListAllFunc(ctx, page, limit)
}
func (m *mockCallRepo) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	return m.CountByContactFunc(ctx, contactID)
}
func (m *mockCallRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockCallRepo) DeleteByContact(ctx context.Context, contactID uuid.UUID) error {
	return m.DeleteByContactFunc(ctx, contactID)
}

type mockUserRepo struct {
	CreateFunc         func(ctx context.Context, user *model.User) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*model.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*model.User, error)
	ListFunc           func(ctx context.Context, page, limit int) ([]model.User, int64, error)
	UpdateFunc         func(ctx context.Context, user *model.User) error
	TouchLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteFunc         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.CreateFunc(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.GetByEmailFunc(ctx, email)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	return m.ListFunc(ctx, page, limit)
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.UpdateFunc(ctx, user)
}
func (m *mockUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.TouchLastLoginFunc == nil {
		return nil
	}
	return m.TouchLastLoginFunc(ctx, id, at)
}
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// mockRefreshRepo keeps rows in memory keyed by digest.
type mockRefreshRepo struct {
	rows map[string]*model.RefreshToken
}

func newMockRefreshRepo() *mockRefreshRepo {
	return &mockRefreshRepo{rows: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	m.rows[token.TokenHash] = token
	return nil
}

func (m *mockRefreshRepo) GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if token, ok := m.rows[tokenHash]; ok {
		return token, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	delete(m.rows, tokenHash)
	return nil
}

func (m *mockRefreshRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for hash, token := range m.rows {
		if token.UserID == userID {
			delete(m.rows, hash)
		}
	}
	return nil
}

func (m *mockRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	for hash, token := range m.rows {
		if token.ExpiresAt.Before(now) {
			delete(m.rows, hash)
		}
	}
	return nil
}
