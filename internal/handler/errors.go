package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/repository"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/inovasi-informatika/spp-admin/internal/service"
)

// Classify maps a service or repository error onto an HTTP status, an error
// code, and the message shown to the user. An empty message means the
// code's default.
func Classify(err error) (int, response.ErrCode, string) {
	var (
		validationErr *service.ValidationError
		duplicateErr  *service.DuplicatePaymentError
		rejectedErr   *repository.RejectedError
		statusErr     *repository.StatusError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, response.ErrValidation, validationErr.Message
	case errors.As(err, &duplicateErr):
		return http.StatusConflict, response.ErrDuplicatePayment, duplicateErr.Error()
	case errors.Is(err, service.ErrStudentNotFound):
		return http.StatusNotFound, response.ErrNotFound, "Mahasiswa tidak ditemukan."
	case errors.Is(err, service.ErrPaymentNotFound):
		return http.StatusNotFound, response.ErrNotFound, "Transaksi SPP tidak ditemukan."
	case errors.Is(err, service.ErrStudentInactive):
		return http.StatusUnprocessableEntity, response.ErrStudentInactive, ""
	case errors.Is(err, service.ErrAlreadyInactive):
		return http.StatusConflict, response.ErrAlreadyInactive, ""
	case errors.As(err, &rejectedErr):
		return http.StatusUnprocessableEntity, response.ErrUpstreamRejected, rejectedErr.Message
	case errors.As(err, &statusErr), errors.Is(err, repository.ErrTransport):
		return http.StatusBadGateway, response.ErrUpstreamUnavailable, ""
	default:
		return http.StatusInternalServerError, response.ErrInternal, ""
	}
}

// failWithError writes err as a JSON error envelope.
func failWithError(c *gin.Context, err error) {
	status, code, message := Classify(err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.FailWithFields(c, status, code, map[string]string{validationErr.Field: validationErr.Message})
		return
	}
	response.FailWithMessage(c, status, code, message)
}

// pageMessage is the banner text for err on an HTML page. Failures the user
// can act on are shown as-is; the rest are prefixed with what was attempted.
func pageMessage(err error, action string) string {
	status, code, message := Classify(err)
	if message == "" {
		message = response.GetMessage(code)
	}
	if status == http.StatusBadRequest || status == http.StatusConflict {
		return message
	}
	return action + ": " + message
}
