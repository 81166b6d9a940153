package leaverequesterrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrHalfDayPeriodRequired = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_period is required for a half-day request",
		http.StatusBadRequest,
	)
	ErrExceedsMaxDaysPerRequest = apperror.New(
		apperror.CodeInvalidInput,
		"requested days exceed the maximum allowed per request for this leave type",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrOnlyPendingApprovable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be approved",
		http.StatusBadRequest,
	)
	ErrOnlyPendingRejectable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be rejected",
		http.StatusBadRequest,
	)
	ErrOnlyPendingEditable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be edited",
		http.StatusBadRequest,
	)
	ErrOnlyPendingDeletable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be deleted",
		http.StatusBadRequest,
	)
	ErrCancelNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"Only pending or approved leave requests can be cancelled",
		http.StatusBadRequest,
	)
	ErrLeaveAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"Cannot cancel leave that has already started",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a leave request",
		http.StatusBadRequest,
	)
)
