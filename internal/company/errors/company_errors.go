package companyerrors

import (
	"net/http"

	"go-zampay/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)

	ErrInvalidRegistrationType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid registration type",
		http.StatusBadRequest,
	)

	ErrRegistrationNotFound = apperror.New(
		apperror.CodeNotFound,
		"company registration not found",
		http.StatusNotFound,
	)

	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"missing required fields",
		http.StatusBadRequest,
	)
)
