package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/inovasi-informatika/spp-admin/internal/validator"
)

// PaymentHandler exposes SPP transactions as JSON.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListPayments godoc
// GET /api/v1/spp
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.List(c.Request.Context())
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}

// GetPayment godoc
// GET /api/v1/spp/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// QuotePayment godoc
// GET /api/v1/spp/quote?nim=
// Previews the amount the student would be charged.
func (h *PaymentHandler) QuotePayment(c *gin.Context) {
	quote, err := h.paymentService.Quote(c.Request.Context(), c.Query("nim"))
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

// CreatePayment godoc
// POST /api/v1/spp
// Records a payment. The amount is derived from the student's scholarship
// tier; duplicates for the same semester are refused before submission.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var form model.CreatePaymentForm
	if fields := validator.Bind(c, &form); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), form)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": payment})
}
