package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type callServiceFixture struct {
	svc       CallService
	calls     *mockCallRepo
	contacts  *mockContactRepo
	txManager *mockTxManager

	ownerID   uuid.UUID
	contactID uuid.UUID

	created  []model.Call
	statuses []model.ContactStatus
	lockers  []*uuid.UUID
}

// newCallServiceFixture wires a call service against a single contact owned
// by ownerID, recording every call insert and status write.
func newCallServiceFixture(t *testing.T) *callServiceFixture {
	t.Helper()

	f := &callServiceFixture{
		ownerID:   uuid.New(),
		contactID: uuid.New(),
		txManager: &mockTxManager{},
	}

	f.contacts = &mockContactRepo{
		FindByIDForUpdateFunc: func(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
			if id != f.contactID {
				return nil, gorm.ErrRecordNotFound
			}
			return &model.Contact{ID: f.contactID, CreatedByUserID: f.ownerID, Status: model.StatusNew}, nil
		},
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
			if id != f.contactID {
				return nil, gorm.ErrRecordNotFound
			}
			return &model.Contact{ID: f.contactID, CreatedByUserID: f.ownerID, Status: model.StatusNew}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id uuid.UUID, status model.ContactStatus, lockedBy *uuid.UUID) error {
			f.statuses = append(f.statuses, status)
			f.lockers = append(f.lockers, lockedBy)
			return nil
		},
	}

	f.calls = &mockCallRepo{
		CreateFunc: func(ctx context.Context, call *model.Call) error {
			call.ID = uuid.New()
			call.CreatedAt = time.Now()
			f.created = append(f.created, *call)
			return nil
		},
	}

	f.svc = NewCallService(f.calls, f.contacts, f.txManager, nil)
	return f
}

func TestLogCallDerivesContactStatus(t *testing.T) {
	f := newCallServiceFixture(t)

	result, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    120,
		Disposition: string(model.DispositionSale),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusClosed, result.ContactStatus)
	assert.Equal(t, f.contactID, result.Call.ContactID)
	assert.Equal(t, f.ownerID, result.Call.UserID)

	require.Len(t, f.created, 1)
	require.Len(t, f.statuses, 1)
	assert.Equal(t, model.StatusClosed, f.statuses[0])
	assert.Nil(t, f.lockers[0], "call-driven transitions release any lock")
	assert.Equal(t, 1, f.txManager.runs)
}

func TestLogCallLastCommitWins(t *testing.T) {
	f := newCallServiceFixture(t)
	ctx := context.Background()

	// The second call claims an earlier call_time; the status still follows
	// commit order, not the claimed timestamps.
	_, err := f.svc.LogCall(ctx, f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionSale),
		CallTime:    "2026-05-02T10:00:00Z",
	})
	require.NoError(t, err)

	result, err := f.svc.LogCall(ctx, f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    30,
		Disposition: string(model.DispositionBusy),
		CallTime:    "2026-05-01T09:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusUnreachable, result.ContactStatus)
	require.Len(t, f.statuses, 2)
	assert.Equal(t, model.StatusUnreachable, f.statuses[1])
	require.Len(t, f.created, 2)
	assert.Equal(t, "2026-05-01T09:00:00Z", f.created[1].CallTime.Format(time.RFC3339))
}

func TestLogCallRejectsUnknownDisposition(t *testing.T) {
	f := newCallServiceFixture(t)

	_, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: "HANGUP",
	})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, 0, f.txManager.runs, "invalid input must not open a transaction")
}

func TestLogCallRejectsBadCallTime(t *testing.T) {
	f := newCallServiceFixture(t)

	_, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionSale),
		CallTime:    "yesterday",
	})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, 0, f.txManager.runs)
}

func TestLogCallContactNotFound(t *testing.T) {
	f := newCallServiceFixture(t)

	_, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   uuid.New().String(),
		Duration:    60,
		Disposition: string(model.DispositionSale),
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.txManager.runs, "a missing contact is final, not retried")
}

func TestLogCallForbiddenForNonOwner(t *testing.T) {
	f := newCallServiceFixture(t)
	stranger := uuid.New()

	_, err := f.svc.LogCall(context.Background(), stranger, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionSale),
	})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.created)
	assert.Equal(t, 1, f.txManager.runs)
}

func TestLogCallAdminMayLogOnAnyContact(t *testing.T) {
	f := newCallServiceFixture(t)
	admin := uuid.New()

	result, err := f.svc.LogCall(context.Background(), admin, model.RoleAdmin, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionDNC),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDoNotContact, result.ContactStatus)
	assert.Equal(t, admin, result.Call.UserID)
}

func TestLogCallRetriesOnceOnStorageFailure(t *testing.T) {
	f := newCallServiceFixture(t)
	f.txManager.failures = 1
	f.txManager.err = errors.New("deadlock detected")

	result, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionCallback),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFollowUp, result.ContactStatus)
	assert.Equal(t, 2, f.txManager.runs)
	assert.Len(t, f.created, 1, "the failed attempt must not leave a call behind")
}

func TestLogCallGivesUpAfterSecondFailure(t *testing.T) {
	f := newCallServiceFixture(t)
	storageErr := errors.New("connection reset")
	f.txManager.failures = 2
	f.txManager.err = storageErr

	_, err := f.svc.LogCall(context.Background(), f.ownerID, model.RoleStandard, LogCallRequest{
		ContactID:   f.contactID.String(),
		Duration:    60,
		Disposition: string(model.DispositionCallback),
	})
	assert.ErrorIs(t, err, storageErr)
	assert.Equal(t, 2, f.txManager.runs, "exactly one retry, never more")
}

func TestQueryByContactPassesValidatedFilter(t *testing.T) {
	f := newCallServiceFixture(t)

	var got repository.CallFilter
	f.calls.ListByContactFunc = func(ctx context.Context, contactID uuid.UUID, filter repository.CallFilter) ([]model.Call, error) {
		assert.Equal(t, f.contactID, contactID)
		got = filter
		return []model.Call{{ID: uuid.New(), ContactID: contactID}}, nil
	}

	responses, err := f.svc.QueryByContact(context.Background(), f.ownerID, model.RoleStandard, f.contactID, CallQueryParams{
		From:   "2026-03-01",
		To:     "2026-03-31",
		SortBy: "duration",
		Order:  "asc",
	})
	require.NoError(t, err)
	assert.Len(t, responses, 1)

	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, "2026-03-01T00:00:00Z", got.From.Format(time.RFC3339))
	// The To bound covers the whole named day.
	assert.Equal(t, "2026-03-31", got.To.Format("2006-01-02"))
	assert.Equal(t, 23, got.To.Hour())
	assert.Equal(t, "duration", got.SortBy)
	assert.False(t, got.Desc)
}

func TestQueryByContactForbiddenForNonOwner(t *testing.T) {
	f := newCallServiceFixture(t)

	_, err := f.svc.QueryByContact(context.Background(), uuid.New(), model.RoleStandard, f.contactID, CallQueryParams{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestQueryByContactAdminSeesAnyContact(t *testing.T) {
	f := newCallServiceFixture(t)
	f.calls.ListByContactFunc = func(ctx context.Context, contactID uuid.UUID, filter repository.CallFilter) ([]model.Call, error) {
		return nil, nil
	}

	_, err := f.svc.QueryByContact(context.Background(), uuid.New(), model.RoleAdmin, f.contactID, CallQueryParams{})
	assert.NoError(t, err)
}

func TestBuildCallFilterDefaults(t *testing.T) {
	filter, err := buildCallFilter(CallQueryParams{})
	require.NoError(t, err)

	assert.Nil(t, filter.From)
	assert.Nil(t, filter.To)
	assert.Equal(t, "created_at", filter.SortBy)
	assert.True(t, filter.Desc, "newest first is the default order")
}

func TestBuildCallFilterSortAliases(t *testing.T) {
	cases := map[string]string{
		"created_at": "created_at",
		"createdAt":  "created_at",
		"call_time":  "call_time",
		"callTime":   "call_time",
		"duration":   "duration",
	}
	for key, column := range cases {
		filter, err := buildCallFilter(CallQueryParams{SortBy: key})
		require.NoError(t, err, "sort key %q", key)
		assert.Equal(t, column, filter.SortBy)
	}
}

func TestBuildCallFilterRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		params CallQueryParams
	}{
		{"malformed from", CallQueryParams{From: "03/01/2026"}},
		{"malformed to", CallQueryParams{To: "2026-3-1"}},
		{"from after to", CallQueryParams{From: "2026-04-01", To: "2026-03-01"}},
		{"unknown sort key", CallQueryParams{SortBy: "notes"}},
		{"sort key with injection", CallQueryParams{SortBy: "created_at; DROP TABLE calls"}},
		{"bad order", CallQueryParams{Order: "descending"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildCallFilter(tc.params)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestBuildCallFilterSameDayRange(t *testing.T) {
	filter, err := buildCallFilter(CallQueryParams{From: "2026-03-15", To: "2026-03-15"})
	require.NoError(t, err)
	assert.True(t, filter.From.Before(*filter.To), "a single-day range is non-empty")
}

func TestListCallsScopesByRole(t *testing.T) {
	f := newCallServiceFixture(t)

	var listedAll, listedOwn bool
	f.calls.ListAllFunc = func(ctx context.Context, page, limit int) ([]model.Call, int64, error) {
		listedAll = true
		return nil, 0, nil
	}
	f.calls.ListByUserFunc = func(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Call, int64, error) {
		listedOwn = true
		assert.Equal(t, f.ownerID, userID)
		return nil, 0, nil
	}

	_, _, err := f.svc.ListCalls(context.Background(), f.ownerID, model.RoleStandard, 1, 20)
	require.NoError(t, err)
	assert.True(t, listedOwn)
	assert.False(t, listedAll)

	_, _, err = f.svc.ListCalls(context.Background(), f.ownerID, model.RoleAdmin, 1, 20)
	require.NoError(t, err)
	assert.True(t, listedAll)
}

func TestGetCallOwnership(t *testing.T) {
	f := newCallServiceFixture(t)
	callID := uuid.New()
	f.calls.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*model.Call, error) {
		return &model.Call{ID: callID, UserID: f.ownerID, ContactID: f.contactID}, nil
	}

	_, err := f.svc.GetCall(context.Background(), uuid.New(), model.RoleStandard, callID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.GetCall(context.Background(), f.ownerID, model.RoleStandard, callID)
	require.NoError(t, err)
	assert.Equal(t, callID, got.ID)
}

func TestDeleteCallNotFound(t *testing.T) {
	f := newCallServiceFixture(t)
	f.calls.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*model.Call, error) {
		return nil, gorm.ErrRecordNotFound
	}

	err := f.svc.DeleteCall(context.Background(), f.ownerID, model.RoleStandard, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
