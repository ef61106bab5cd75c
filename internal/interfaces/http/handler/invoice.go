package handler

import (
	"errors"
	"net/http"
	"time"

	appinvoicing "github.com/cloudbroker/backend/internal/application/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/cloudbroker/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles the read-only invoice API endpoints
type InvoiceHandler struct {
	queries             *appinvoicing.InvoiceQueryService
	paymentIntervalDays int
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(queries *appinvoicing.InvoiceQueryService, paymentIntervalDays int) *InvoiceHandler {
	return &InvoiceHandler{
		queries:             queries,
		paymentIntervalDays: paymentIntervalDays,
	}
}

// List returns all invoices of a customer, newest period first.
// GET /api/v1/invoices?customer_id=<uuid>
func (h *InvoiceHandler) List(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", "customer_id must be a valid UUID"))
		return
	}

	invoices, err := h.queries.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.ToInvoiceResponses(invoices, h.paymentIntervalDays, time.Now().UTC()),
	))
}

// Get returns one invoice with its items.
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", "id must be a valid UUID"))
		return
	}

	invoice, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.ToInvoiceResponse(invoice, h.paymentIntervalDays, time.Now().UTC()),
	))
}

// error maps domain errors to HTTP responses
func (h *InvoiceHandler) error(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("NOT_FOUND", "Invoice not found"))
	case errors.As(err, &domainErr):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL", "Internal server error"))
	}
}
