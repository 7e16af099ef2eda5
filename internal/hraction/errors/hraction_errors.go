package hractionerrors

import (
	"net/http"

	"go-zampay/internal/shared/apperror"
)

var (
	ErrActionNotFound = apperror.New(
		apperror.CodeNotFound,
		"hr action not found",
		http.StatusNotFound,
	)
	ErrNotPendingApproval = apperror.New(
		apperror.CodeInvalidState,
		"only actions with pending_approval status can be approved or rejected",
		http.StatusConflict,
	)
	ErrInvalidActionType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hr action type",
		http.StatusBadRequest,
	)
	ErrActionTypeHasWorkflow = apperror.New(
		apperror.CodeInvalidInput,
		"this action type is produced by its dedicated operation",
		http.StatusBadRequest,
	)
	ErrInvalidActionStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be pending, completed or in_progress",
		http.StatusBadRequest,
	)
	ErrInvalidUpdateType = apperror.New(
		apperror.CodeInvalidInput,
		"update type must be personal, contact or emergency",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employment status",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a non-negative decimal",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave type must be annual, sick or maternity",
		http.StatusBadRequest,
	)
	ErrInvalidDeductionType = apperror.New(
		apperror.CodeInvalidInput,
		"deduction type must be salary, leave or both",
		http.StatusBadRequest,
	)
	ErrNoAbsenceDates = apperror.New(
		apperror.CodeInvalidInput,
		"at least one absence date is required",
		http.StatusBadRequest,
	)
	ErrCommuteValueOutOfTolerance = apperror.New(
		apperror.CodePreconditionFailed,
		"commute value deviates more than 10% from the salary-derived value",
		http.StatusUnprocessableEntity,
	)
)
