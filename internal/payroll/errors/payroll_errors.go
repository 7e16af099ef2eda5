package payrollerrors

import (
	"net/http"

	"go-zampay/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrPeriodAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"payroll has already been processed for this period",
		http.StatusConflict,
	)
	ErrNoActiveEmployees = apperror.New(
		apperror.CodePreconditionFailed,
		"no active employees to process for this period",
		http.StatusUnprocessableEntity,
	)
	ErrNotProcessed = apperror.New(
		apperror.CodeInvalidState,
		"only records in Processed status can be marked paid",
		http.StatusConflict,
	)
)
