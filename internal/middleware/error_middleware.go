package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
)

type errorMapping struct {
	status  int
	code    dto.ErrorCode
	message string
	errs    []error
}

// Order matters: the first mapping whose sentinel matches wins.
var errorMappings = []errorMapping{
	{http.StatusBadRequest, dto.ErrorCodeReasonRequired, "Rejection reason is required", []error{apperrors.ErrReasonRequired}},
	{http.StatusBadRequest, dto.ErrorCodeInvalidStatus, "Invalid status", []error{apperrors.ErrInvalidStatus}},
	{http.StatusBadRequest, dto.ErrorCodeCertificateRequired, "Certificate file is required", []error{apperrors.ErrCertificateRequired}},
	{http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email", []error{apperrors.ErrInvalidEmail}},
	{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", []error{apperrors.ErrValidationFailed, apperrors.ErrBadRequest}},
	{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", []error{apperrors.ErrInvalidCredentials}},
	{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", []error{apperrors.ErrTokenExpired}},
	{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", []error{apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat}},
	{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", []error{apperrors.ErrPermissionDenied, apperrors.ErrSelfDeletion}},
	{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", []error{
		apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound,
		apperrors.ErrStudentNotFound, apperrors.ErrProctorNotFound, apperrors.ErrAdminNotFound,
		apperrors.ErrHackathonNotFound, apperrors.ErrInternshipNotFound,
	}},
	{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists", []error{
		apperrors.ErrEmailAlreadyExists, apperrors.ErrRegisterNoExists,
		apperrors.ErrHackathonExists, apperrors.ErrResourceAlreadyExists,
	}},
	{http.StatusConflict, dto.ErrorCodeConflict, "Conflict", []error{apperrors.ErrConflict, apperrors.ErrProctorHasRecords}},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(
					dto.NewErrorDetail(m.code, clientMessage(err, target, m.message))))
				return
			}
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// clientMessage prefers a CustomError message, then the sentinel text, then fallback
func clientMessage(err, sentinel error, fallback string) string {
	if msg := apperrors.Message(err, ""); msg != "" {
		return msg
	}
	if errors.Is(sentinel, apperrors.ErrResourceNotFound) || errors.Is(sentinel, apperrors.ErrConflict) {
		return fallback
	}
	return capitalize(sentinel.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
