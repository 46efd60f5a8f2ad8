package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
	"medcare/internal/service"
)

type errorResponseBody struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Code    int                 `json:"code,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type paginatedResponse struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

type idResponse struct {
	ID int64 `json:"_id"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount int, p pagination) {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = totalCount / p.Limit
		if totalCount%p.Limit > 0 {
			totalPages++
		}
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Status:     "success",
		Data:       data,
		TotalCount: totalCount,
		Page:       p.page(),
		PageSize:   p.Limit,
		TotalPages: totalPages,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "access denied"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}

func validationErrorResponse(c *gin.Context, verr *domain.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponseBody{
		Status:  "error",
		Message: verr.Error(),
		Code:    http.StatusBadRequest,
		Errors:  verr.Fields,
	})
}

// mapServiceError picks the status code and client message for an error
// returned by a service. Unknown errors become 500 without leaking details.
func mapServiceError(err error) (int, string) {
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return http.StatusConflict, transitionErr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, service.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, domain.ErrAccountDisabled.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrSlotTaken),
		errors.Is(err, domain.ErrConcurrentUpdate),
		errors.Is(err, domain.ErrDailyCapacityReached):
		return http.StatusConflict, rootMessage(err)
	case errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrDoctorNotWorking),
		errors.Is(err, domain.ErrDoctorNotAccepting),
		errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable, service.ErrStorageDisabled.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

var clientErrors = []error{
	domain.ErrSlotTaken,
	domain.ErrConcurrentUpdate,
	domain.ErrDailyCapacityReached,
	domain.ErrPastDate,
	domain.ErrDoctorNotWorking,
	domain.ErrDoctorNotAccepting,
	domain.ErrSlotUnavailable,
}

// rootMessage strips wrapping context so clients only see the sentinel text.
func rootMessage(err error) string {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

// serviceErrorResponse writes err through mapServiceError. Server-side
// failures are logged once here.
func (h *Handler) serviceErrorResponse(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		validationErrorResponse(c, verr)
		return
	}

	status, message := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	errorResponse(c, status, message)
}
