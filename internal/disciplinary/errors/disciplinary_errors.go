package disciplinaryerrors

import (
	"net/http"

	"go-zampay/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"disciplinary record not found",
		http.StatusNotFound,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"disciplinary type must be verbal_warning, written_warning, final_warning or suspension",
		http.StatusBadRequest,
	)
	ErrInvalidSeverity = apperror.New(
		apperror.CodeInvalidInput,
		"severity must be low, medium, high or critical",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidValidUntil = apperror.New(
		apperror.CodeInvalidInput,
		"valid_until must be after the issued date",
		http.StatusBadRequest,
	)
	ErrFinalWarningRequiresWrittenWarning = apperror.New(
		apperror.CodePreconditionFailed,
		"a final warning requires an active written warning on record",
		http.StatusUnprocessableEntity,
	)
	ErrRecordNotActive = apperror.New(
		apperror.CodeInvalidState,
		"disciplinary record is already inactive",
		http.StatusConflict,
	)
)
