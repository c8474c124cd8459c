package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type LogCallRequest struct {
	ContactID   string `json:"contact_id" binding:"required,uuid"`
	Duration    int    `json:"duration" binding:"required,min=1"`
	Disposition string `json:"disposition" binding:"required"`
	Notes       string `json:"notes"`
	CallTime    string `json:"call_time"` // optional, RFC 3339
}

// CallQueryParams are the raw filter/sort inputs for a contact's call
// history. Zero values mean "unbounded" / "default".
type CallQueryParams struct {
	From   string
	To     string
	SortBy string
	Order  string
}

type CallResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	ContactID   uuid.UUID         `json:"contact_id"`
	Duration    int               `json:"duration"`
	Disposition model.Disposition `json:"disposition"`
	Notes       string            `json:"notes,omitempty"`
	CallTime    *time.Time        `json:"call_time,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type LogCallResult struct {
	Call          CallResponse        `json:"call"`
	ContactStatus model.ContactStatus `json:"contact_status"`
}

// Websocket payload
type CallEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// Columns the call-history query may sort by, keyed by the accepted query
// parameter spellings. Anything else is an invalid query, not a silent
// fallback.
var callSortColumns = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"call_time":  "call_time",
	"callTime":   "call_time",
	"duration":   "duration",
}

type CallService interface {
	// LogCall appends a call to the ledger and derives the contact's new
	// status from the call's disposition, both inside one transaction
	// serialized on the contact row.
	LogCall(ctx context.Context, userID uuid.UUID, role string, req LogCallRequest) (*LogCallResult, error)
	// QueryByContact returns a contact's call history filtered by an
	// inclusive date range and ordered by a validated sort key.
	QueryByContact(ctx context.Context, userID uuid.UUID, role string, contactID uuid.UUID, params CallQueryParams) ([]CallResponse, error)
	ListCalls(ctx context.Context, userID uuid.UUID, role string, page, limit int) ([]CallResponse, int64, error)
	GetCall(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*CallResponse, error)
	DeleteCall(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error
}

type callService struct {
	callRepo    repository.CallRepository
	contactRepo repository.ContactRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewCallService(
	callRepo repository.CallRepository,
	contactRepo repository.ContactRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) CallService {
	return &callService{
		callRepo:    callRepo,
		contactRepo: contactRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

func mapCallToResponse(call *model.Call) CallResponse {
	return CallResponse{
		ID:          call.ID,
		UserID:      call.UserID,
		ContactID:   call.ContactID,
		Duration:    call.Duration,
		Disposition: call.Disposition,
		Notes:       call.Notes,
		CallTime:    call.CallTime,
		CreatedAt:   call.CreatedAt,
	}
}

func (s *callService) LogCall(ctx context.Context, userID uuid.UUID, role string, req LogCallRequest) (*LogCallResult, error) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		return nil, ErrInvalidQuery
	}

	disposition := model.Disposition(req.Disposition)
	status, ok := model.StatusForDisposition(disposition)
	if !ok {
		return nil, fmt.Errorf("%w: unknown disposition %q", ErrInvalidQuery, req.Disposition)
	}

	var callTime *time.Time
	if req.CallTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.CallTime)
		if err != nil {
			return nil, fmt.Errorf("%w: call_time must be RFC 3339", ErrInvalidQuery)
		}
		callTime = &parsed
	}

	var result *LogCallResult
	write := func() error {
		return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			// The FOR UPDATE lock on the contact row serializes
			// concurrent call writes per contact: the status written
			// below always belongs to the last committed call,
			// whatever the calls' claimed timestamps say.
			contact, err := s.contactRepo.FindByIDForUpdate(txCtx, contactID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			if !CanAccess(role, userID, contact.CreatedByUserID) {
				return ErrForbidden
			}

			call := &model.Call{
				UserID:      userID,
				ContactID:   contactID,
				Duration:    req.Duration,
				Disposition: disposition,
				Notes:       req.Notes,
				CallTime:    callTime,
			}
			if err := s.callRepo.Create(txCtx, call); err != nil {
				return err
			}

			// A locked contact keeps its locker through call-driven
			// transitions only if the engine re-locks it; dispositions
			// never map to Exclusive Lock, so the lock is released.
			if err := s.contactRepo.UpdateStatus(txCtx, contactID, status, nil); err != nil {
				return err
			}

			result = &LogCallResult{Call: mapCallToResponse(call), ContactStatus: status}
			return nil
		})
	}

	if err := write(); err != nil {
		// Domain outcomes are final; a storage failure gets exactly one
		// retry with the same inputs before surfacing.
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		if err = write(); err != nil {
			return nil, err
		}
	}

	s.broadcast("call.logged", map[string]interface{}{
		"call_id":        result.Call.ID.String(),
		"contact_id":     contactID.String(),
		"disposition":    string(disposition),
		"contact_status": string(status),
	})

	return result, nil
}

func (s *callService) QueryByContact(ctx context.Context, userID uuid.UUID, role string, contactID uuid.UUID, params CallQueryParams) ([]CallResponse, error) {
	filter, err := buildCallFilter(params)
	if err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanAccess(role, userID, contact.CreatedByUserID) {
		return nil, ErrForbidden
	}

	calls, err := s.callRepo.ListByContact(ctx, contactID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CallResponse, 0, len(calls))
	for i := range calls {
		responses = append(responses, mapCallToResponse(&calls[i]))
	}
	return responses, nil
}

// buildCallFilter validates raw query inputs into a repository filter.
// From/To are calendar dates; both bounds are inclusive, so the To bound
// covers the whole named day.
func buildCallFilter(params CallQueryParams) (repository.CallFilter, error) {
	var filter repository.CallFilter

	if params.From != "" {
		from, err := time.Parse("2006-01-02", params.From)
		if err != nil {
			return filter, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidQuery)
		}
		filter.From = &from
	}

	if params.To != "" {
		to, err := time.Parse("2006-01-02", params.To)
		if err != nil {
			return filter, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidQuery)
		}
		endOfDay := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &endOfDay
	}

	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, fmt.Errorf("%w: from is after to", ErrInvalidQuery)
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := callSortColumns[sortBy]
	if !ok {
		return filter, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, params.SortBy)
	}
	filter.SortBy = column

	switch params.Order {
	case "", "desc":
		filter.Desc = true
	case "asc":
		filter.Desc = false
	default:
		return filter, fmt.Errorf("%w: order must be asc or desc", ErrInvalidQuery)
	}

	return filter, nil
}

// ListCalls returns every call for admins and only the caller's own calls
// for standard users.
func (s *callService) ListCalls(ctx context.Context, userID uuid.UUID, role string, page, limit int) ([]CallResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var calls []model.Call
	var total int64
	var err error
	if role == model.RoleAdmin {
		calls, total, err = s.callRepo.ListAll(ctx, page, limit)
	} else {
		calls, total, err = s.callRepo.ListByUser(ctx, userID, page, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CallResponse, 0, len(calls))
	for i := range calls {
		responses = append(responses, mapCallToResponse(&calls[i]))
	}
	return responses, total, nil
}

func (s *callService) GetCall(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) (*CallResponse, error) {
	call, err := s.callRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanAccess(role, userID, call.UserID) {
		return nil, ErrForbidden
	}

	res := mapCallToResponse(call)
	return &res, nil
}

func (s *callService) DeleteCall(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	call, err := s.callRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !CanAccess(role, userID, call.UserID) {
		return ErrForbidden
	}

	return s.callRepo.Delete(ctx, id)
}

func (s *callService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(CallEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
