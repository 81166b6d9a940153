package leavetype

import (
	"context"
	"errors"
	"strings"

	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/uow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	uow    uow.UnitOfWork
	repo   Repository
	logger *zap.Logger
}

func NewService(u uow.UnitOfWork, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{uow: u, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}
	if req.CarryForwardLimit != nil && !req.CarryForwardEnabled {
		return LeaveTypeResponse{}, leavetypeerrors.ErrCarryForwardLimitWithoutFlag
	}

	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	t := &LeaveType{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		Name:                req.Name,
		Description:         req.Description,
		DefaultDaysAllowed:  req.DefaultDaysAllowed,
		MaxDaysPerRequest:   req.MaxDaysPerRequest,
		CarryForwardEnabled: req.CarryForwardEnabled,
		CarryForwardLimit:   req.CarryForwardLimit,
		RequiresApproval:    requiresApproval,
		IsActive:            true,
	}

	err = s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, t)
	})
	if err != nil {
		s.logger.Warn("create leave type failed", zap.String("name", req.Name), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("leave type created",
		zap.String("leave_type_id", t.ID.String()),
		zap.String("company_id", companyID),
		zap.String("name", t.Name),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if req.CarryForwardLimit != nil && !req.CarryForwardEnabled {
		return LeaveTypeResponse{}, leavetypeerrors.ErrCarryForwardLimitWithoutFlag
	}

	var updated LeaveType
	err := s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		t, err := qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			return err
		}

		t.Name = req.Name
		t.Description = req.Description
		t.DefaultDaysAllowed = req.DefaultDaysAllowed
		t.MaxDaysPerRequest = req.MaxDaysPerRequest
		t.CarryForwardEnabled = req.CarryForwardEnabled
		t.CarryForwardLimit = req.CarryForwardLimit
		t.RequiresApproval = req.RequiresApproval
		t.IsActive = req.IsActive

		if err := qtx.Update(ctx, t); err != nil {
			return err
		}
		updated = *t
		return nil
	})
	if err != nil {
		s.logger.Warn("update leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	err := s.uow.WithinTx(ctx, func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
			return err
		}

		referenced, err := qtx.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return leavetypeerrors.ErrLeaveTypeInUse
		}

		return qtx.Delete(ctx, companyID, id)
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("leave type deleted",
		zap.String("leave_type_id", id),
		zap.String("company_id", companyID),
	)
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return leavetypeerrors.ErrLeaveTypeNameExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return leavetypeerrors.ErrLeaveTypeNameExists
	}

	return err
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                  t.ID.String(),
		CompanyID:           t.CompanyID.String(),
		Name:                t.Name,
		Description:         t.Description,
		DefaultDaysAllowed:  t.DefaultDaysAllowed,
		MaxDaysPerRequest:   t.MaxDaysPerRequest,
		CarryForwardEnabled: t.CarryForwardEnabled,
		CarryForwardLimit:   t.CarryForwardLimit,
		RequiresApproval:    t.RequiresApproval,
		IsActive:            t.IsActive,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
