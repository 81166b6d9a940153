package leaverequest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/leavebalance"
	leaverequesterrors "go-leave/internal/leaverequest/errors"
	"go-leave/internal/leavetype"
	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/uow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID string, status *string, limit, offset int) ([]LeaveRequestResponse, int64, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, companyID, approverID, id string, comments *string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, companyID, approverID, id, rejectionReason string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, id string, cancellationReason *string) (LeaveRequestResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	uow    uow.UnitOfWork
	repo   Repository
	ledger leavebalance.Ledger
	types  leavetype.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	u uow.UnitOfWork,
	repo Repository,
	ledger leavebalance.Ledger,
	types leavetype.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{uow: u, repo: repo, ledger: ledger, types: types, outbox: outbox, logger: l}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return d, nil
}

// parsePeriod validates the date pair and the half-day shape in one place so
// create and update enforce identical rules.
func parsePeriod(startDate, endDate string, isHalfDay bool, halfDayPeriod *string) (time.Time, time.Time, *string, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, nil, leaverequesterrors.ErrInvalidDateRange
	}
	if isHalfDay {
		if halfDayPeriod == nil || *halfDayPeriod == "" {
			return time.Time{}, time.Time{}, nil, leaverequesterrors.ErrHalfDayPeriodRequired
		}
		return start, end, halfDayPeriod, nil
	}
	// Period carries no meaning on a full-day request.
	return start, end, nil, nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	start, end, halfDayPeriod, err := parsePeriod(req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDayPeriod)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	var created *LeaveRequest
	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		t, err := s.types.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		if !t.IsActive {
			return leavetypeerrors.ErrLeaveTypeInactive
		}

		days := Days(start, end, req.IsHalfDay)
		if t.ExceedsPerRequestCap(days) {
			return leaverequesterrors.ErrExceedsMaxDaysPerRequest.WithDetails(map[string]float64{
				"requested_days":       days,
				"max_days_per_request": *t.MaxDaysPerRequest,
			})
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, req.StartDate, req.EndDate, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leaverequesterrors.ErrLeaveOverlap
		}

		// Balance year follows the start date; a request spanning new year is
		// charged entirely to the year it starts in.
		balance, err := ledger.GetOrCreate(ctx, companyID, req.EmployeeID, req.LeaveTypeID, start.Year())
		if err != nil {
			return err
		}
		if _, err := ledger.Reserve(ctx, balance.ID.String(), days); err != nil {
			return err
		}

		l := &LeaveRequest{
			ID:            uuid.New(),
			CompanyID:     companyUUID,
			EmployeeID:    employeeUUID,
			LeaveTypeID:   typeUUID,
			BalanceID:     balance.ID,
			StartDate:     start,
			EndDate:       end,
			TotalDays:     days,
			IsHalfDay:     req.IsHalfDay,
			HalfDayPeriod: halfDayPeriod,
			Reason:        req.Reason,
			Status:        StatusPending,
			CreatedBy:     actorUUID,
			AppliedAt:     time.Now().UTC(),
		}
		if err := qtx.Create(ctx, l); err != nil {
			return err
		}

		if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestCreated, l); err != nil {
			return err
		}

		created = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.ledger.InvalidateEmployeeCache(ctx, req.EmployeeID)
	s.logger.Info("leave request created",
		zap.String("leave_request_id", created.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Float64("total_days", created.TotalDays),
	)
	return mapRequestToResponse(created), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, status *string, limit, offset int) ([]LeaveRequestResponse, int64, error) {
	requests, total, err := s.repo.FindAllByCompany(ctx, companyID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]LeaveRequestResponse, len(requests))
	for i := range requests {
		resp[i] = mapRequestToResponse(&requests[i])
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapRequestToResponse(l), nil
}

// Update reshapes a pending request in place. The reservation moves by the
// day-count delta only, so an edit never releases-and-reacquires and cannot
// lose its slot to a concurrent request.
func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error) {
	start, end, halfDayPeriod, err := parsePeriod(req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDayPeriod)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	var updated *LeaveRequest
	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		l, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingEditable
		}

		t, err := s.types.WithTx(tx).FindByIDAndCompany(ctx, companyID, l.LeaveTypeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leavetypeerrors.ErrLeaveTypeNotFound
			}
			return err
		}
		// Deactivating a type freezes its pending requests too: no extra days
		// can be reserved against it through an edit.
		if !t.IsActive {
			return leavetypeerrors.ErrLeaveTypeInactive
		}

		days := Days(start, end, req.IsHalfDay)
		if t.ExceedsPerRequestCap(days) {
			return leaverequesterrors.ErrExceedsMaxDaysPerRequest.WithDetails(map[string]float64{
				"requested_days":       days,
				"max_days_per_request": *t.MaxDaysPerRequest,
			})
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, l.EmployeeID.String(), req.StartDate, req.EndDate, &id)
		if err != nil {
			return err
		}
		if overlap {
			return leaverequesterrors.ErrLeaveOverlap
		}

		delta := days - l.TotalDays
		if _, err := ledger.AdjustForDateChange(ctx, l.BalanceID.String(), delta); err != nil {
			return err
		}

		l.StartDate = start
		l.EndDate = end
		l.TotalDays = days
		l.IsHalfDay = req.IsHalfDay
		l.HalfDayPeriod = halfDayPeriod
		l.Reason = req.Reason
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		updated = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.ledger.InvalidateEmployeeCache(ctx, updated.EmployeeID.String())
	s.logger.Info("leave request updated",
		zap.String("leave_request_id", updated.ID.String()),
		zap.Float64("total_days", updated.TotalDays),
	)
	return mapRequestToResponse(updated), nil
}

func (s *service) Approve(ctx context.Context, companyID, approverID, id string, comments *string) (LeaveRequestResponse, error) {
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	var approved *LeaveRequest
	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		l, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingApprovable
		}

		if _, err := ledger.Commit(ctx, l.BalanceID.String(), l.TotalDays); err != nil {
			return err
		}

		now := time.Now().UTC()
		l.Status = StatusApproved
		l.ApprovedBy = &approverUUID
		l.ApprovedAt = &now
		l.ApprovalComments = comments
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestApproved, l); err != nil {
			return err
		}

		approved = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.ledger.InvalidateEmployeeCache(ctx, approved.EmployeeID.String())
	s.logger.Info("leave request approved",
		zap.String("leave_request_id", approved.ID.String()),
		zap.String("approved_by", approverID),
	)
	return mapRequestToResponse(approved), nil
}

func (s *service) Reject(ctx context.Context, companyID, approverID, id, rejectionReason string) (LeaveRequestResponse, error) {
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if strings.TrimSpace(rejectionReason) == "" {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRejectionReasonRequired
	}

	var rejected *LeaveRequest
	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		l, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingRejectable
		}

		if _, err := ledger.Release(ctx, l.BalanceID.String(), l.TotalDays); err != nil {
			return err
		}

		now := time.Now().UTC()
		l.Status = StatusRejected
		l.ApprovedBy = &approverUUID
		l.RejectedAt = &now
		l.RejectionReason = &rejectionReason
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestRejected, l); err != nil {
			return err
		}

		rejected = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.ledger.InvalidateEmployeeCache(ctx, rejected.EmployeeID.String())
	s.logger.Info("leave request rejected",
		zap.String("leave_request_id", rejected.ID.String()),
		zap.String("rejected_by", approverID),
	)
	return mapRequestToResponse(rejected), nil
}

// Cancel undoes a pending reservation, or refunds an approved request whose
// leave has not started yet. Approved leave on or after its start date stays
// consumed.
func (s *service) Cancel(ctx context.Context, companyID, id string, cancellationReason *string) (LeaveRequestResponse, error) {
	var cancelled *LeaveRequest
	err := s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		l, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}

		switch l.Status {
		case StatusPending:
			if _, err := ledger.Release(ctx, l.BalanceID.String(), l.TotalDays); err != nil {
				return err
			}
		case StatusApproved:
			if !time.Now().UTC().Before(l.StartDate) {
				return leaverequesterrors.ErrLeaveAlreadyStarted
			}
			if _, err := ledger.ReleaseUsed(ctx, l.BalanceID.String(), l.TotalDays); err != nil {
				return err
			}
		default:
			return leaverequesterrors.ErrCancelNotAllowed
		}

		now := time.Now().UTC()
		l.Status = StatusCancelled
		l.CancelledAt = &now
		l.CancellationReason = cancellationReason
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		if err := s.writeLifecycleEvent(ctx, tx, events.LeaveRequestCancelled, l); err != nil {
			return err
		}

		cancelled = l
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.ledger.InvalidateEmployeeCache(ctx, cancelled.EmployeeID.String())
	s.logger.Info("leave request cancelled",
		zap.String("leave_request_id", cancelled.ID.String()),
	)
	return mapRequestToResponse(cancelled), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	var employeeID string
	err := s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		l, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrOnlyPendingDeletable
		}

		if _, err := ledger.Release(ctx, l.BalanceID.String(), l.TotalDays); err != nil {
			return err
		}

		employeeID = l.EmployeeID.String()
		return qtx.Delete(ctx, companyID, id)
	})
	if err != nil {
		return err
	}

	s.ledger.InvalidateEmployeeCache(ctx, employeeID)
	s.logger.Info("leave request deleted", zap.String("leave_request_id", id))
	return nil
}

// writeLifecycleEvent stages a lifecycle fact in the outbox inside the same
// transaction as the state change; the relay worker publishes it after commit.
func (s *service) writeLifecycleEvent(ctx context.Context, tx *gorm.DB, eventType string, l *LeaveRequest) error {
	payload, err := json.Marshal(events.LeaveRequestEvent{
		EventType:   eventType,
		RequestID:   l.ID.String(),
		CompanyID:   l.CompanyID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		TotalDays:   l.TotalDays,
		Status:      l.Status,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveRequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapRequestToResponse(l *LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                 l.ID.String(),
		CompanyID:          l.CompanyID.String(),
		EmployeeID:         l.EmployeeID.String(),
		LeaveTypeID:        l.LeaveTypeID.String(),
		BalanceID:          l.BalanceID.String(),
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		TotalDays:          l.TotalDays,
		IsHalfDay:          l.IsHalfDay,
		HalfDayPeriod:      l.HalfDayPeriod,
		Reason:             l.Reason,
		Status:             l.Status,
		CreatedBy:          l.CreatedBy.String(),
		ApprovalComments:   l.ApprovalComments,
		RejectionReason:    l.RejectionReason,
		CancellationReason: l.CancellationReason,
		AppliedAt:          l.AppliedAt.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if l.RejectedAt != nil {
		v := l.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	if l.CancelledAt != nil {
		v := l.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	return resp
}
